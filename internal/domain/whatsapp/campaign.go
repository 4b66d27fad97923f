package whatsapp

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/shared"
)

// RecipientSpacing is the gap between consecutive campaign sends
const RecipientSpacing = 2 * time.Second

// CampaignStatus is the state of a bulk send
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignScheduled CampaignStatus = "scheduled"
	CampaignSending   CampaignStatus = "sending"
	CampaignCompleted CampaignStatus = "completed"
	CampaignFailed    CampaignStatus = "failed"
	CampaignPaused    CampaignStatus = "paused"
)

// RecipientStatus is the outcome for one campaign recipient
type RecipientStatus string

const (
	RecipientPending RecipientStatus = "pending"
	RecipientQueued  RecipientStatus = "queued"
	RecipientSent    RecipientStatus = "sent"
	RecipientFailed  RecipientStatus = "failed"
)

// Recipient is one addressee of a campaign
type Recipient struct {
	ID         uuid.UUID
	CampaignID uuid.UUID
	Phone      string
	Name       string
	Variables  map[string]string
	Status     RecipientStatus
	MessageID  *uuid.UUID
	Error      string
}

func (r *Recipient) resolved() bool {
	return r.Status == RecipientSent || r.Status == RecipientFailed
}

// Campaign is a bulk message send to a list of recipients
type Campaign struct {
	shared.TenantAggregateRoot
	Name        string
	InstanceID  uuid.UUID
	TemplateID  *uuid.UUID
	Body        string
	Recipients  []Recipient
	Status      CampaignStatus
	SentCount   int
	FailedCount int
	ScheduledAt *time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// NewCampaign creates a draft campaign
func NewCampaign(tenantID, instanceID uuid.UUID, name, body string, templateID *uuid.UUID) (*Campaign, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CAMPAIGN", "Campaign name cannot be empty")
	}
	if strings.TrimSpace(body) == "" && templateID == nil {
		return nil, shared.NewDomainError("INVALID_CAMPAIGN", "Campaign needs a body or a template")
	}
	c := &Campaign{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		InstanceID:          instanceID,
		TemplateID:          templateID,
		Body:                body,
		Recipients:          make([]Recipient, 0),
		Status:              CampaignDraft,
	}
	return c, nil
}

// AddRecipient appends an addressee; duplicates by phone are ignored
func (c *Campaign) AddRecipient(phone, name string, vars map[string]string) error {
	if c.Status != CampaignDraft && c.Status != CampaignScheduled {
		return shared.NewDomainError("INVALID_STATE", "Recipients can only be added before the campaign starts")
	}
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return shared.NewDomainError("INVALID_PHONE", "Recipient phone cannot be empty")
	}
	for _, r := range c.Recipients {
		if r.Phone == phone {
			return nil
		}
	}
	c.Recipients = append(c.Recipients, Recipient{
		ID:         uuid.New(),
		CampaignID: c.ID,
		Phone:      phone,
		Name:       name,
		Variables:  vars,
		Status:     RecipientPending,
	})
	return nil
}

// Schedule sets a future start time
func (c *Campaign) Schedule(at time.Time) error {
	if c.Status != CampaignDraft && c.Status != CampaignScheduled {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot schedule campaign in %s status", c.Status))
	}
	c.ScheduledAt = &at
	c.Status = CampaignScheduled
	c.Touch()
	return nil
}

// Start moves the campaign to sending and returns the send time of each
// pending recipient, spaced RecipientSpacing apart from now.
func (c *Campaign) Start(now time.Time) (map[uuid.UUID]time.Time, error) {
	switch c.Status {
	case CampaignDraft, CampaignScheduled, CampaignPaused:
	default:
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot start campaign in %s status", c.Status))
	}
	if len(c.Recipients) == 0 {
		return nil, shared.NewDomainError("INVALID_CAMPAIGN", "Campaign has no recipients")
	}

	schedule := make(map[uuid.UUID]time.Time)
	slot := 0
	for i := range c.Recipients {
		if c.Recipients[i].Status != RecipientPending {
			continue
		}
		schedule[c.Recipients[i].ID] = now.Add(time.Duration(slot) * RecipientSpacing)
		slot++
	}
	c.Status = CampaignSending
	if c.StartedAt == nil {
		c.StartedAt = &now
	}
	c.Touch()
	c.AddDomainEvent(NewCampaignStartedEvent(c, len(schedule)))
	return schedule, nil
}

// MarkQueued links a recipient to its queued message
func (c *Campaign) MarkQueued(recipientID, messageID uuid.UUID) {
	if r := c.recipient(recipientID); r != nil {
		r.Status = RecipientQueued
		r.MessageID = &messageID
	}
}

// Pause stops a sending campaign. Queued recipients keep their message;
// the queue holds those rows until the campaign is started again.
func (c *Campaign) Pause() error {
	if c.Status != CampaignSending && c.Status != CampaignScheduled {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot pause campaign in %s status", c.Status))
	}
	c.Status = CampaignPaused
	c.Touch()
	return nil
}

// RecordOutcome folds one recipient's send result into the counters and
// completes the campaign once every recipient is resolved.
func (c *Campaign) RecordOutcome(recipientID uuid.UUID, sent bool, reason string, now time.Time) {
	r := c.recipient(recipientID)
	if r == nil || r.resolved() {
		return
	}
	if sent {
		r.Status = RecipientSent
		c.SentCount++
	} else {
		r.Status = RecipientFailed
		r.Error = reason
		c.FailedCount++
	}
	c.Touch()

	for i := range c.Recipients {
		if !c.Recipients[i].resolved() {
			return
		}
	}
	if c.SentCount == 0 {
		c.Status = CampaignFailed
	} else {
		c.Status = CampaignCompleted
	}
	c.CompletedAt = &now
	c.AddDomainEvent(NewCampaignFinishedEvent(c))
}

func (c *Campaign) recipient(id uuid.UUID) *Recipient {
	for i := range c.Recipients {
		if c.Recipients[i].ID == id {
			return &c.Recipients[i]
		}
	}
	return nil
}
