package whatsapp

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/lats/backend/internal/domain/whatsapp"
	"github.com/lats/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// CampaignService creates and runs bulk sends
type CampaignService struct {
	campaigns      whatsapp.CampaignRepository
	templates      whatsapp.TemplateRepository
	messages       whatsapp.MessageRepository
	queue          whatsapp.QueueRepository
	instances      *InstanceService
	countryCode    string
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewCampaignService creates a new CampaignService
func NewCampaignService(
	campaigns whatsapp.CampaignRepository,
	templates whatsapp.TemplateRepository,
	messages whatsapp.MessageRepository,
	queue whatsapp.QueueRepository,
	instances *InstanceService,
	countryCode string,
	logger *zap.Logger,
) *CampaignService {
	return &CampaignService{
		campaigns:   campaigns,
		templates:   templates,
		messages:    messages,
		queue:       queue,
		instances:   instances,
		countryCode: countryCode,
		logger:      logger,
		now:         time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CampaignService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *CampaignService) publish(ctx context.Context, c *whatsapp.Campaign) {
	events := c.PullDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		logger.Ctx(ctx, s.logger).Error("Failed to publish campaign events", zap.Error(err))
	}
}

// Create stores a draft campaign, or a scheduled one when ScheduledAt is set
func (s *CampaignService) Create(ctx context.Context, tenantID uuid.UUID, input CreateCampaignInput) (*CampaignResponse, error) {
	inst, err := s.instances.Resolve(ctx, tenantID, input.InstanceID)
	if err != nil {
		return nil, err
	}
	if input.TemplateID != nil {
		if _, err := s.loadTemplate(ctx, tenantID, *input.TemplateID); err != nil {
			return nil, err
		}
	}
	c, err := whatsapp.NewCampaign(tenantID, inst.ID, input.Name, input.Body, input.TemplateID)
	if err != nil {
		return nil, err
	}
	for _, r := range input.Recipients {
		if err := c.AddRecipient(r.Phone, r.Name, r.Variables); err != nil {
			return nil, err
		}
	}
	if input.ScheduledAt != nil {
		if err := c.Schedule(*input.ScheduledAt); err != nil {
			return nil, err
		}
	}
	if err := s.campaigns.Save(ctx, c); err != nil {
		return nil, err
	}
	logger.Ctx(ctx, s.logger).Info("Campaign created",
		zap.String("campaign_id", c.ID.String()),
		zap.Int("recipients", len(c.Recipients)),
	)
	resp := ToCampaignResponse(c, true)
	return &resp, nil
}

func (s *CampaignService) loadTemplate(ctx context.Context, tenantID, id uuid.UUID) (*whatsapp.Template, error) {
	tpl, err := s.templates.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("TEMPLATE_NOT_FOUND", "Template not found")
		}
		return nil, err
	}
	return tpl, nil
}

func (s *CampaignService) load(ctx context.Context, tenantID, id uuid.UUID) (*whatsapp.Campaign, error) {
	c, err := s.campaigns.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CAMPAIGN_NOT_FOUND", "Campaign not found")
		}
		return nil, err
	}
	return c, nil
}

// Get returns a campaign with its recipients
func (s *CampaignService) Get(ctx context.Context, tenantID, id uuid.UUID) (*CampaignResponse, error) {
	c, err := s.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToCampaignResponse(c, true)
	return &resp, nil
}

// List returns campaigns without recipients
func (s *CampaignService) List(ctx context.Context, tenantID uuid.UUID, filter CampaignListFilter) ([]CampaignResponse, error) {
	list, err := s.campaigns.FindAllForTenant(ctx, tenantID, filter.toShared())
	if err != nil {
		return nil, err
	}
	out := make([]CampaignResponse, len(list))
	for i := range list {
		out[i] = ToCampaignResponse(&list[i], false)
	}
	return out, nil
}

// Start queues one message per pending recipient, spaced apart. Recipients
// whose phone or variables are unusable fail right away. Starting a paused
// campaign releases the rows Pause held, after any newly queued ones.
func (s *CampaignService) Start(ctx context.Context, tenantID, id uuid.UUID) (*CampaignResponse, error) {
	c, err := s.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	body := c.Body
	if c.TemplateID != nil {
		tpl, err := s.loadTemplate(ctx, tenantID, *c.TemplateID)
		if err != nil {
			return nil, err
		}
		body = tpl.Body
	}

	now := s.now()
	resuming := c.Status == whatsapp.CampaignPaused
	schedule, err := c.Start(now)
	if err != nil {
		return nil, err
	}

	rows := make([]*whatsapp.QueuedMessage, 0, len(schedule))
	for i := range c.Recipients {
		r := c.Recipients[i]
		at, ok := schedule[r.ID]
		if !ok {
			continue
		}
		msg, err := s.recipientMessage(c, &r, body, at)
		if err != nil {
			c.RecordOutcome(r.ID, false, err.Error(), now)
			continue
		}
		if err := s.messages.Save(ctx, msg); err != nil {
			return nil, err
		}
		row := whatsapp.NewQueuedMessage(msg, 0, at)
		recipientID := r.ID
		row.RecipientID = &recipientID
		rows = append(rows, row)
		c.MarkQueued(r.ID, msg.ID)
	}
	if len(rows) > 0 {
		if err := s.queue.Enqueue(ctx, rows...); err != nil {
			return nil, err
		}
	}
	var resumed int64
	if resuming {
		from := now.Add(time.Duration(len(schedule)) * whatsapp.RecipientSpacing)
		if resumed, err = s.queue.ResumeByCampaign(ctx, c.ID, from, whatsapp.RecipientSpacing); err != nil {
			return nil, err
		}
	}
	if err := s.campaigns.Save(ctx, c); err != nil {
		return nil, err
	}
	s.publish(ctx, c)

	logger.Ctx(ctx, s.logger).Info("Campaign started",
		zap.String("campaign_id", c.ID.String()),
		zap.Int("queued", len(rows)),
		zap.Int64("resumed", resumed),
		zap.Int("failed", c.FailedCount),
	)
	resp := ToCampaignResponse(c, true)
	return &resp, nil
}

func (s *CampaignService) recipientMessage(c *whatsapp.Campaign, r *whatsapp.Recipient, body string, at time.Time) (*whatsapp.Message, error) {
	chatID, err := whatsapp.NormalizeChatID(r.Phone, s.countryCode)
	if err != nil {
		return nil, err
	}
	values := map[string]string{"name": r.Name}
	for k, v := range r.Variables {
		values[k] = v
	}
	text, err := whatsapp.RenderBody(body, values)
	if err != nil {
		return nil, err
	}
	msg, err := whatsapp.NewOutboundMessage(c.TenantID, c.InstanceID, chatID, text, at)
	if err != nil {
		return nil, err
	}
	campaignID := c.ID
	msg.CampaignID = &campaignID
	return msg, nil
}

// Pause stops a campaign; rows still queued are held
func (s *CampaignService) Pause(ctx context.Context, tenantID, id uuid.UUID) (*CampaignResponse, error) {
	c, err := s.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := c.Pause(); err != nil {
		return nil, err
	}
	held, err := s.queue.PauseByCampaign(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if err := s.campaigns.Save(ctx, c); err != nil {
		return nil, err
	}
	logger.Ctx(ctx, s.logger).Info("Campaign paused",
		zap.String("campaign_id", c.ID.String()),
		zap.Int64("held", held),
	)
	resp := ToCampaignResponse(c, true)
	return &resp, nil
}
