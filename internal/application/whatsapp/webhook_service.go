package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/lats/backend/internal/domain/whatsapp"
	"github.com/lats/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// WebhookResult reports what happened to a notification
type WebhookResult struct {
	Type      string `json:"type"`
	Duplicate bool   `json:"duplicate"`
}

// WebhookService ingests Green API notifications. Every notification is
// stored once and applied once; one whose apply failed is applied again
// when the provider redelivers it.
type WebhookService struct {
	events      whatsapp.WebhookEventRepository
	instances   whatsapp.InstanceRepository
	messages    whatsapp.MessageRepository
	cache       whatsapp.ChatCache
	seen        shared.IdempotencyStore
	sharedToken string
	logger      *zap.Logger
	now         func() time.Time
}

// seenTTL is how long a receipt key short-circuits redeliveries before the
// event table is consulted again
const seenTTL = 24 * time.Hour

// NewWebhookService creates a new WebhookService
func NewWebhookService(
	events whatsapp.WebhookEventRepository,
	instances whatsapp.InstanceRepository,
	messages whatsapp.MessageRepository,
	cache whatsapp.ChatCache,
	logger *zap.Logger,
) *WebhookService {
	return &WebhookService{
		events:    events,
		instances: instances,
		messages:  messages,
		cache:     cache,
		logger:    logger,
		now:       time.Now,
	}
}

// SetIdempotencyStore adds a shared fast path for redeliveries. The event
// table stays the source of truth.
func (s *WebhookService) SetIdempotencyStore(store shared.IdempotencyStore) {
	s.seen = store
}

// SetSharedToken sets the webhook token accepted for instances that have
// none of their own
func (s *WebhookService) SetSharedToken(token string) {
	s.sharedToken = token
}

// Handle authenticates, stores and applies one raw notification addressed
// to instanceID. The notification must come from that instance and the
// shop it is filed under is the instance's own.
func (s *WebhookService) Handle(ctx context.Context, instanceID, token string, raw []byte) (*WebhookResult, error) {
	inst, err := s.instances.FindByInstanceID(ctx, instanceID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INSTANCE_NOT_FOUND", "Unknown instance "+instanceID)
		}
		return nil, err
	}
	if !inst.AcceptsWebhookToken(token, s.sharedToken) {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid webhook token")
	}

	var payload whatsapp.WebhookPayload
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return nil, shared.WrapDomainError("INVALID_WEBHOOK", "Webhook body is not valid JSON", err)
	}
	if payload.TypeWebhook == "" {
		return nil, shared.NewDomainError("INVALID_WEBHOOK", "typeWebhook is required")
	}
	if from := payload.InstanceData.IDInstance.String(); from != "" && from != inst.InstanceID {
		return nil, shared.NewDomainError("INVALID_WEBHOOK", "Notification belongs to instance "+from)
	}
	log := logger.Ctx(ctx, s.logger).With(
		zap.String("instance_id", inst.InstanceID),
		zap.String("type", payload.TypeWebhook),
	)

	key := payload.IdempotencyKey(inst.InstanceID)
	if s.seen != nil {
		done, err := s.seen.IsProcessed(ctx, key)
		if err != nil {
			log.Warn("Idempotency lookup failed", zap.Error(err))
		} else if done {
			return &WebhookResult{Type: payload.TypeWebhook, Duplicate: true}, nil
		}
	}

	event := &whatsapp.WebhookEvent{
		ID:             uuid.New(),
		TenantID:       inst.TenantID,
		InstanceID:     inst.InstanceID,
		TypeWebhook:    payload.TypeWebhook,
		IdempotencyKey: key,
		Payload:        json.RawMessage(raw),
		ReceivedAt:     s.now(),
	}
	done, err := s.events.Receive(ctx, event)
	if err != nil {
		return nil, err
	}
	if done {
		log.Debug("Duplicate webhook ignored")
		s.remember(ctx, log, key)
		return &WebhookResult{Type: payload.TypeWebhook, Duplicate: true}, nil
	}

	var touched []string
	applied, err := s.events.Apply(ctx, event.ID, func(ctx context.Context) error {
		var applyErr error
		touched, applyErr = s.apply(ctx, inst, &payload)
		return applyErr
	})
	if err != nil {
		log.Error("Failed to apply webhook", zap.Error(err))
		if markErr := s.events.MarkFailed(context.WithoutCancel(ctx), event.ID, err.Error()); markErr != nil {
			log.Warn("Failed to record webhook error", zap.Error(markErr))
		}
		return nil, err
	}
	for _, chatID := range touched {
		s.invalidate(ctx, inst.TenantID, chatID)
	}
	s.remember(ctx, log, key)
	return &WebhookResult{Type: payload.TypeWebhook, Duplicate: !applied}, nil
}

func (s *WebhookService) remember(ctx context.Context, log *zap.Logger, key string) {
	if s.seen == nil {
		return
	}
	if _, err := s.seen.MarkProcessed(ctx, key, seenTTL); err != nil {
		log.Warn("Failed to remember webhook key", zap.Error(err))
	}
}

// apply writes the notification's effect and returns the chats whose
// cached history it changed
func (s *WebhookService) apply(ctx context.Context, inst *whatsapp.Instance, p *whatsapp.WebhookPayload) ([]string, error) {
	switch p.TypeWebhook {
	case whatsapp.WebhookIncomingMessage:
		msg := whatsapp.NewInboundMessage(inst.TenantID, inst.ID, p.SenderData.ChatID, p.SenderData.SenderName,
			p.Text(), p.MessageData.TypeMessage, p.IDMessage, p.OccurredAt(s.now()))
		if err := s.messages.Save(ctx, msg); err != nil {
			return nil, err
		}
		return []string{msg.ChatID}, nil

	case whatsapp.WebhookOutgoingMessage, whatsapp.WebhookOutgoingAPIMessage:
		msg, err := s.messages.FindByProviderID(ctx, p.IDMessage)
		if errors.Is(err, shared.ErrNotFound) {
			if p.TypeWebhook == whatsapp.WebhookOutgoingAPIMessage {
				return nil, nil
			}
			// typed on the phone itself
			return s.recordPhoneMessage(ctx, inst, p)
		}
		if err != nil {
			return nil, err
		}
		return s.transition(ctx, msg, whatsapp.MessageSent, "", p.OccurredAt(s.now()))

	case whatsapp.WebhookOutgoingMessageStatus:
		status, ok := whatsapp.StatusFromDelivery(p.Status)
		if !ok {
			return nil, nil
		}
		msg, err := s.messages.FindByProviderID(ctx, p.IDMessage)
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		reason := ""
		if status == whatsapp.MessageFailed {
			reason = "Provider reported " + p.Status
		}
		return s.transition(ctx, msg, status, reason, p.OccurredAt(s.now()))

	case whatsapp.WebhookStateInstanceChanged:
		inst.ApplyState(p.State, s.now())
		return nil, s.instances.Save(ctx, inst)
	}
	return nil, nil
}

func (s *WebhookService) recordPhoneMessage(ctx context.Context, inst *whatsapp.Instance, p *whatsapp.WebhookPayload) ([]string, error) {
	msg, err := whatsapp.NewOutboundMessage(inst.TenantID, inst.ID, p.SenderData.ChatID, p.Text(), p.OccurredAt(s.now()))
	if err != nil {
		// media without caption
		return nil, nil
	}
	msg.MarkSent(p.IDMessage, p.OccurredAt(s.now()))
	if err := s.messages.Save(ctx, msg); err != nil {
		return nil, err
	}
	return []string{msg.ChatID}, nil
}

func (s *WebhookService) transition(ctx context.Context, msg *whatsapp.Message, status whatsapp.MessageStatus, reason string, at time.Time) ([]string, error) {
	if !msg.Transition(status, at) {
		return nil, nil
	}
	if reason != "" {
		msg.Error = reason
	}
	if err := s.messages.Save(ctx, msg); err != nil {
		return nil, err
	}
	return []string{msg.ChatID}, nil
}

func (s *WebhookService) invalidate(ctx context.Context, tenantID uuid.UUID, chatID string) {
	if err := s.cache.Invalidate(ctx, tenantID, chatID); err != nil {
		logger.Ctx(ctx, s.logger).Warn("Failed to invalidate chat cache", zap.String("chat_id", chatID), zap.Error(err))
	}
}
