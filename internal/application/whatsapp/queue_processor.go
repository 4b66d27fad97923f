package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/lats/backend/internal/domain/whatsapp"
	"github.com/lats/backend/internal/infrastructure/logger"
	"github.com/lats/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// QueueMetrics counts send outcomes and queue depth
type QueueMetrics interface {
	MessageResolved(status string)
	QueueDue(n int)
}

const (
	campaignSaveAttempts = 3
	releaseTimeout       = 5 * time.Second
)

// QueueOptions tunes the processor
type QueueOptions struct {
	BatchSize      int
	SendGap        time.Duration
	RateLimitDelay time.Duration
}

// QueueProcessor delivers queued messages through the provider. Only one
// run is active at a time; an overlapping call returns immediately.
type QueueProcessor struct {
	queue          whatsapp.QueueRepository
	messages       whatsapp.MessageRepository
	instances      whatsapp.InstanceRepository
	campaigns      whatsapp.CampaignRepository
	provider       whatsapp.Provider
	cache          whatsapp.ChatCache
	eventPublisher shared.EventPublisher
	metrics        QueueMetrics
	opts           QueueOptions
	logger         *zap.Logger
	now            func() time.Time
	sleep          func(ctx context.Context, d time.Duration) error

	running sync.Mutex
}

// NewQueueProcessor creates a new QueueProcessor
func NewQueueProcessor(
	queue whatsapp.QueueRepository,
	messages whatsapp.MessageRepository,
	instances whatsapp.InstanceRepository,
	campaigns whatsapp.CampaignRepository,
	provider whatsapp.Provider,
	cache whatsapp.ChatCache,
	opts QueueOptions,
	logger *zap.Logger,
) *QueueProcessor {
	if opts.BatchSize <= 0 {
		opts.BatchSize = whatsapp.QueueBatchSize
	}
	if opts.SendGap < 0 {
		opts.SendGap = 0
	}
	if opts.RateLimitDelay <= 0 {
		opts.RateLimitDelay = time.Minute
	}
	return &QueueProcessor{
		queue:     queue,
		messages:  messages,
		instances: instances,
		campaigns: campaigns,
		provider:  provider,
		cache:     cache,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
		sleep:     sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// SetEventPublisher sets the event publisher for campaign events
func (p *QueueProcessor) SetEventPublisher(publisher shared.EventPublisher) {
	p.eventPublisher = publisher
}

// SetMetrics wires the queue counters
func (p *QueueProcessor) SetMetrics(metrics QueueMetrics) {
	p.metrics = metrics
}

// ProcessQueue claims a batch of due rows and sends them one by one.
// It returns the number of rows handled. Rows not reached before ctx ends
// are released back to the queue.
func (p *QueueProcessor) ProcessQueue(ctx context.Context) (int, error) {
	if !p.running.TryLock() {
		return 0, nil
	}
	defer p.running.Unlock()

	rows, err := p.queue.ClaimDue(ctx, p.now(), p.opts.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to claim queue rows: %w", err)
	}
	if p.metrics != nil {
		p.metrics.QueueDue(len(rows))
	}

	for i := range rows {
		if i > 0 {
			if err := p.sleep(ctx, p.opts.SendGap); err != nil {
				p.release(ctx, rows[i:])
				return i, err
			}
		}
		p.deliver(ctx, &rows[i])
	}
	return len(rows), nil
}

func (p *QueueProcessor) release(ctx context.Context, rows []whatsapp.QueuedMessage) {
	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()
	if err := p.queue.Release(ctx, ids); err != nil {
		// the claim lease hands them out again later
		logger.Ctx(ctx, p.logger).Warn("Failed to release queue rows", zap.Int("rows", len(ids)), zap.Error(err))
	}
}

// deliver sends one row and records the outcome on the row, the message
// and the owning campaign
func (p *QueueProcessor) deliver(ctx context.Context, row *whatsapp.QueuedMessage) {
	ctx, span := telemetry.StartServiceSpan(ctx, "whatsapp", "deliver",
		attribute.String(telemetry.AttrTenantID, row.TenantID.String()),
		attribute.String(telemetry.AttrInstanceID, row.InstanceID.String()),
		attribute.String(telemetry.AttrChatID, row.ChatID),
	)
	defer span.End()
	log := logger.Ctx(ctx, p.logger).With(
		zap.String("queue_id", row.ID.String()),
		zap.String("message_id", row.MessageID.String()),
	)
	now := p.now()

	msg, err := p.messages.FindByIDForTenant(ctx, row.TenantID, row.MessageID)
	if err != nil {
		log.Error("Queued message not found", zap.Error(err))
		row.Status = whatsapp.QueueFailed
		row.LastError = "message not found"
		row.UpdatedAt = now
		p.saveRow(ctx, log, row)
		return
	}
	switch msg.Status {
	case whatsapp.MessagePending, whatsapp.MessageRateLimited, whatsapp.MessageSending:
	default:
		// already resolved, e.g. by a webhook
		row.Complete(now)
		p.saveRow(ctx, log, row)
		return
	}

	inst, err := p.instances.FindByIDForTenant(ctx, row.TenantID, row.InstanceID)
	if err != nil {
		reason := "Instance not found"
		msg.MarkFailed(reason)
		row.Status = whatsapp.QueueFailed
		row.LastError = reason
		row.UpdatedAt = now
		p.finish(ctx, log, row, msg, false, reason)
		return
	}
	if !inst.IsConnected() {
		p.retry(ctx, log, row, msg, fmt.Sprintf("Instance is not connected. Status: %s", inst.Status))
		return
	}

	msg.Transition(whatsapp.MessageSending, now)
	if err := p.messages.Save(ctx, msg); err != nil {
		log.Error("Failed to mark message sending", zap.Error(err))
	}

	providerID, err := p.provider.SendMessage(ctx, inst, row.ChatID, row.Body)
	switch {
	case err == nil:
		msg.MarkSent(providerID, p.now())
		row.Complete(p.now())
		p.finish(ctx, log, row, msg, true, "")
		log.Info("WhatsApp message sent", zap.String("provider_id", providerID))
	case errors.Is(err, shared.ErrRateLimited):
		msg.Transition(whatsapp.MessageRateLimited, p.now())
		msg.Error = err.Error()
		row.Reschedule(err.Error(), p.now().Add(p.opts.RateLimitDelay))
		p.saveMessage(ctx, log, msg)
		p.saveRow(ctx, log, row)
		p.resolved(string(whatsapp.MessageRateLimited))
		log.Warn("Provider rate limit reached, message rescheduled", zap.Time("scheduled_at", row.ScheduledAt))
	default:
		telemetry.RecordError(span, err)
		p.retry(ctx, log, row, msg, err.Error())
	}
}

// retry consumes one attempt; an exhausted row fails the message
func (p *QueueProcessor) retry(ctx context.Context, log *zap.Logger, row *whatsapp.QueuedMessage, msg *whatsapp.Message, reason string) {
	if exhausted := row.Fail(reason, p.now()); exhausted {
		msg.MarkFailed(reason)
		p.finish(ctx, log, row, msg, false, reason)
		log.Warn("WhatsApp message failed", zap.String("reason", reason), zap.Int("attempts", row.RetryCount))
		return
	}
	msg.MarkRetrying(reason)
	p.saveMessage(ctx, log, msg)
	p.saveRow(ctx, log, row)
	log.Info("WhatsApp send will be retried",
		zap.String("reason", reason),
		zap.Int("attempt", row.RetryCount),
		zap.Time("scheduled_at", row.ScheduledAt),
	)
}

// finish persists a resolved row and message and updates the campaign
func (p *QueueProcessor) finish(ctx context.Context, log *zap.Logger, row *whatsapp.QueuedMessage, msg *whatsapp.Message, sent bool, reason string) {
	p.saveMessage(ctx, log, msg)
	p.saveRow(ctx, log, row)
	p.resolved(string(msg.Status))
	if row.CampaignID != nil && row.RecipientID != nil {
		p.recordCampaignOutcome(ctx, log, row.TenantID, *row.CampaignID, *row.RecipientID, sent, reason)
	}
}

// recordCampaignOutcome reloads the campaign and retries when a pause or
// another outcome saved it in between
func (p *QueueProcessor) recordCampaignOutcome(ctx context.Context, log *zap.Logger, tenantID, campaignID, recipientID uuid.UUID, sent bool, reason string) {
	log = log.With(zap.String("campaign_id", campaignID.String()))
	var c *whatsapp.Campaign
	for attempt := 1; ; attempt++ {
		var err error
		c, err = p.campaigns.FindByIDForTenant(ctx, tenantID, campaignID)
		if err != nil {
			log.Error("Failed to load campaign", zap.Error(err))
			return
		}
		c.RecordOutcome(recipientID, sent, reason, p.now())
		err = p.campaigns.Save(ctx, c)
		if err == nil {
			break
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) || attempt == campaignSaveAttempts {
			log.Error("Failed to save campaign outcome", zap.Int("attempt", attempt), zap.Error(err))
			return
		}
	}
	if events := c.PullDomainEvents(); p.eventPublisher != nil && len(events) > 0 {
		if err := p.eventPublisher.Publish(ctx, events...); err != nil {
			log.Error("Failed to publish campaign events", zap.Error(err))
		}
	}
}

func (p *QueueProcessor) saveMessage(ctx context.Context, log *zap.Logger, msg *whatsapp.Message) {
	if err := p.messages.Save(ctx, msg); err != nil {
		log.Error("Failed to save message", zap.Error(err))
	}
	if err := p.cache.Invalidate(ctx, msg.TenantID, msg.ChatID); err != nil {
		log.Warn("Failed to invalidate chat cache", zap.Error(err))
	}
}

func (p *QueueProcessor) saveRow(ctx context.Context, log *zap.Logger, row *whatsapp.QueuedMessage) {
	if err := p.queue.Save(ctx, row); err != nil {
		log.Error("Failed to save queue row", zap.Error(err))
	}
}

func (p *QueueProcessor) resolved(status string) {
	if p.metrics != nil {
		p.metrics.MessageResolved(status)
	}
}
