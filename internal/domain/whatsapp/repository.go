package whatsapp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/shared"
)

// InstanceRepository persists provider instances
type InstanceRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Instance, error)
	FindByInstanceID(ctx context.Context, instanceID string) (*Instance, error)
	FindDefault(ctx context.Context, tenantID uuid.UUID) (*Instance, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]Instance, error)
	// Save persists the instance; when IsDefault is set other instances of
	// the tenant lose the flag in the same transaction
	Save(ctx context.Context, inst *Instance) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// MessageRepository persists chat messages
type MessageRepository interface {
	Save(ctx context.Context, msg *Message) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Message, error)
	FindByProviderID(ctx context.Context, providerID string) (*Message, error)
	// FindInboundSince returns inbound messages with sent_at >= since, oldest first
	FindInboundSince(ctx context.Context, tenantID uuid.UUID, since time.Time) ([]Message, error)
	// FindByChat returns the newest limit messages of a chat, oldest first
	FindByChat(ctx context.Context, tenantID uuid.UUID, chatID string, limit int) ([]Message, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Message, error)
	// MarkChatRead marks unread inbound messages read and returns how many changed
	MarkChatRead(ctx context.Context, tenantID uuid.UUID, chatID string, at time.Time) (int64, error)
	CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[MessageStatus]int64, error)
}

// QueueRepository persists the outbound queue
type QueueRepository interface {
	Enqueue(ctx context.Context, rows ...*QueuedMessage) error
	// ClaimDue marks up to limit due rows processing and returns them,
	// ordered by priority desc then scheduled_at asc. Rows left in
	// processing longer than ClaimLease count as due again.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]QueuedMessage, error)
	// Release hands claimed rows that were never attempted back to the queue
	Release(ctx context.Context, ids []uuid.UUID) error
	Save(ctx context.Context, row *QueuedMessage) error
	PauseByCampaign(ctx context.Context, campaignID uuid.UUID) (int64, error)
	// ResumeByCampaign re-queues the campaign's paused rows in their
	// original order, spaced apart starting at from
	ResumeByCampaign(ctx context.Context, campaignID uuid.UUID, from time.Time, spacing time.Duration) (int64, error)
	CountPending(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// TemplateRepository persists templates
type TemplateRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Template, error)
	FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*Template, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, category string) ([]Template, error)
	Save(ctx context.Context, tpl *Template) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// CampaignRepository persists campaigns with their recipients
type CampaignRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Campaign, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Campaign, error)
	Save(ctx context.Context, c *Campaign) error
}

// WebhookEventRepository stores raw notifications
type WebhookEventRepository interface {
	// Receive stores the event unless its idempotency key exists. For a
	// known key it points event at the stored row and reports whether that
	// row was already applied.
	Receive(ctx context.Context, event *WebhookEvent) (bool, error)
	// Apply runs fn and flags the event processed atomically; writes made
	// through repositories with the ctx handed to fn join the same unit.
	// It returns false without calling fn for a processed event.
	Apply(ctx context.Context, id uuid.UUID, fn func(ctx context.Context) error) (bool, error)
	// MarkFailed records the apply error; the event stays unprocessed
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
}
