package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/whatsapp"
)

// WhatsAppInstanceModel is a Green API connection handle
type WhatsAppInstanceModel struct {
	TenantAggregateModel
	Name           string                  `gorm:"type:varchar(100);not null"`
	InstanceID     string                  `gorm:"type:varchar(50);not null;uniqueIndex"`
	APIToken       string                  `gorm:"column:api_token;type:varchar(200);not null"`
	WebhookToken   string                  `gorm:"type:varchar(200)"`
	PhoneNumber    string                  `gorm:"type:varchar(30)"`
	Host           string                  `gorm:"type:varchar(200);not null"`
	Status         whatsapp.InstanceStatus `gorm:"type:varchar(20);not null"`
	IsDefault      bool                    `gorm:"not null;default:false"`
	LastStateCheck *time.Time
	LastState      string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (WhatsAppInstanceModel) TableName() string {
	return "whatsapp_instances"
}

// ToDomain converts the persistence model to a domain Instance
func (m *WhatsAppInstanceModel) ToDomain() *whatsapp.Instance {
	return &whatsapp.Instance{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Name:                m.Name,
		InstanceID:          m.InstanceID,
		APIToken:            m.APIToken,
		WebhookToken:        m.WebhookToken,
		PhoneNumber:         m.PhoneNumber,
		Host:                m.Host,
		Status:              m.Status,
		IsDefault:           m.IsDefault,
		LastStateCheck:      m.LastStateCheck,
		LastState:           m.LastState,
	}
}

// WhatsAppInstanceModelFromDomain creates a persistence model from a domain Instance
func WhatsAppInstanceModelFromDomain(i *whatsapp.Instance) *WhatsAppInstanceModel {
	m := &WhatsAppInstanceModel{
		Name:           i.Name,
		InstanceID:     i.InstanceID,
		APIToken:       i.APIToken,
		WebhookToken:   i.WebhookToken,
		PhoneNumber:    i.PhoneNumber,
		Host:           i.Host,
		Status:         i.Status,
		IsDefault:      i.IsDefault,
		LastStateCheck: i.LastStateCheck,
		LastState:      i.LastState,
	}
	m.FromDomainTenantAggregateRoot(i.TenantAggregateRoot)
	return m
}

// WhatsAppMessageModel stores inbound and outbound chat messages
type WhatsAppMessageModel struct {
	BaseModel
	TenantID          uuid.UUID              `gorm:"type:uuid;not null;index"`
	InstanceID        uuid.UUID              `gorm:"type:uuid;not null;index"`
	ChatID            string                 `gorm:"type:varchar(60);not null;index"`
	SenderName        string                 `gorm:"type:varchar(200)"`
	Direction         whatsapp.Direction     `gorm:"type:varchar(10);not null"`
	Body              string                 `gorm:"type:text;not null"`
	Type              string                 `gorm:"type:varchar(40);not null"`
	Status            whatsapp.MessageStatus `gorm:"type:varchar(20);not null;index"`
	ProviderMessageID string                 `gorm:"type:varchar(100);index"`
	CampaignID        *uuid.UUID             `gorm:"type:uuid;index"`
	Error             string                 `gorm:"type:text"`
	SentAt            time.Time              `gorm:"not null;index"`
	ReadAt            *time.Time
}

// TableName returns the table name for GORM
func (WhatsAppMessageModel) TableName() string {
	return "whatsapp_messages"
}

// ToDomain converts the persistence model to a domain Message
func (m *WhatsAppMessageModel) ToDomain() *whatsapp.Message {
	return &whatsapp.Message{
		BaseEntity:        m.BaseModel.ToDomain(),
		TenantID:          m.TenantID,
		InstanceID:        m.InstanceID,
		ChatID:            m.ChatID,
		SenderName:        m.SenderName,
		Direction:         m.Direction,
		Body:              m.Body,
		Type:              m.Type,
		Status:            m.Status,
		ProviderMessageID: m.ProviderMessageID,
		CampaignID:        m.CampaignID,
		Error:             m.Error,
		SentAt:            m.SentAt,
		ReadAt:            m.ReadAt,
	}
}

// WhatsAppMessageModelFromDomain creates a persistence model from a domain Message
func WhatsAppMessageModelFromDomain(msg *whatsapp.Message) *WhatsAppMessageModel {
	m := &WhatsAppMessageModel{
		TenantID:          msg.TenantID,
		InstanceID:        msg.InstanceID,
		ChatID:            msg.ChatID,
		SenderName:        msg.SenderName,
		Direction:         msg.Direction,
		Body:              msg.Body,
		Type:              msg.Type,
		Status:            msg.Status,
		ProviderMessageID: msg.ProviderMessageID,
		CampaignID:        msg.CampaignID,
		Error:             msg.Error,
		SentAt:            msg.SentAt,
		ReadAt:            msg.ReadAt,
	}
	m.FromDomainBaseEntity(msg.BaseEntity)
	return m
}

// WhatsAppQueueModel is a pending outbound send
type WhatsAppQueueModel struct {
	ID          uuid.UUID            `gorm:"type:uuid;primary_key"`
	TenantID    uuid.UUID            `gorm:"type:uuid;not null;index"`
	MessageID   uuid.UUID            `gorm:"type:uuid;not null;index"`
	InstanceID  uuid.UUID            `gorm:"type:uuid;not null"`
	CampaignID  *uuid.UUID           `gorm:"type:uuid;index"`
	RecipientID *uuid.UUID           `gorm:"type:uuid"`
	ChatID      string               `gorm:"type:varchar(60);not null"`
	Body        string               `gorm:"type:text;not null"`
	Priority    int                  `gorm:"not null;default:0"`
	RetryCount  int                  `gorm:"not null;default:0"`
	MaxRetries  int                  `gorm:"not null"`
	Status      whatsapp.QueueStatus `gorm:"type:varchar(20);not null;index:idx_whatsapp_queue_due,priority:1"`
	ScheduledAt time.Time            `gorm:"not null;index:idx_whatsapp_queue_due,priority:2"`
	LastError   string               `gorm:"type:text"`
	CreatedAt   time.Time            `gorm:"not null"`
	UpdatedAt   time.Time            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (WhatsAppQueueModel) TableName() string {
	return "whatsapp_message_queue"
}

// ToDomain converts the persistence model to a domain QueuedMessage
func (m *WhatsAppQueueModel) ToDomain() *whatsapp.QueuedMessage {
	return &whatsapp.QueuedMessage{
		ID:          m.ID,
		TenantID:    m.TenantID,
		MessageID:   m.MessageID,
		InstanceID:  m.InstanceID,
		CampaignID:  m.CampaignID,
		RecipientID: m.RecipientID,
		ChatID:      m.ChatID,
		Body:        m.Body,
		Priority:    m.Priority,
		RetryCount:  m.RetryCount,
		MaxRetries:  m.MaxRetries,
		Status:      m.Status,
		ScheduledAt: m.ScheduledAt,
		LastError:   m.LastError,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// WhatsAppQueueModelFromDomain creates a persistence model from a QueuedMessage
func WhatsAppQueueModelFromDomain(q *whatsapp.QueuedMessage) *WhatsAppQueueModel {
	return &WhatsAppQueueModel{
		ID:          q.ID,
		TenantID:    q.TenantID,
		MessageID:   q.MessageID,
		InstanceID:  q.InstanceID,
		CampaignID:  q.CampaignID,
		RecipientID: q.RecipientID,
		ChatID:      q.ChatID,
		Body:        q.Body,
		Priority:    q.Priority,
		RetryCount:  q.RetryCount,
		MaxRetries:  q.MaxRetries,
		Status:      q.Status,
		ScheduledAt: q.ScheduledAt,
		LastError:   q.LastError,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
}

// WhatsAppTemplateModel is a reusable message body
type WhatsAppTemplateModel struct {
	TenantAggregateModel
	Name      string `gorm:"type:varchar(100);not null;uniqueIndex:idx_whatsapp_templates_tenant_name,priority:2"`
	Category  string `gorm:"type:varchar(50);index"`
	Body      string `gorm:"type:text;not null"`
	Variables []byte `gorm:"type:jsonb"`
	IsActive  bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (WhatsAppTemplateModel) TableName() string {
	return "whatsapp_templates"
}

// ToDomain converts the persistence model to a domain Template
func (m *WhatsAppTemplateModel) ToDomain() *whatsapp.Template {
	t := &whatsapp.Template{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Name:                m.Name,
		Category:            m.Category,
		Body:                m.Body,
		IsActive:            m.IsActive,
	}
	if len(m.Variables) > 0 {
		_ = json.Unmarshal(m.Variables, &t.Variables)
	}
	if t.Variables == nil {
		t.Variables = whatsapp.ExtractVariables(m.Body)
	}
	return t
}

// WhatsAppTemplateModelFromDomain creates a persistence model from a domain Template
func WhatsAppTemplateModelFromDomain(t *whatsapp.Template) *WhatsAppTemplateModel {
	vars, _ := json.Marshal(t.Variables)
	m := &WhatsAppTemplateModel{
		Name:      t.Name,
		Category:  t.Category,
		Body:      t.Body,
		Variables: vars,
		IsActive:  t.IsActive,
	}
	m.FromDomainTenantAggregateRoot(t.TenantAggregateRoot)
	return m
}

// WhatsAppCampaignModel is a bulk send
type WhatsAppCampaignModel struct {
	TenantAggregateModel
	Name        string                  `gorm:"type:varchar(200);not null"`
	InstanceID  uuid.UUID               `gorm:"type:uuid;not null"`
	TemplateID  *uuid.UUID              `gorm:"type:uuid"`
	Body        string                  `gorm:"type:text"`
	Status      whatsapp.CampaignStatus `gorm:"type:varchar(20);not null;index"`
	SentCount   int                     `gorm:"not null;default:0"`
	FailedCount int                     `gorm:"not null;default:0"`
	ScheduledAt *time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	Recipients  []WhatsAppCampaignRecipientModel `gorm:"foreignKey:CampaignID;references:ID"`
}

// TableName returns the table name for GORM
func (WhatsAppCampaignModel) TableName() string {
	return "whatsapp_campaigns"
}

// ToDomain converts the persistence model to a domain Campaign
func (m *WhatsAppCampaignModel) ToDomain() *whatsapp.Campaign {
	c := &whatsapp.Campaign{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Name:                m.Name,
		InstanceID:          m.InstanceID,
		TemplateID:          m.TemplateID,
		Body:                m.Body,
		Status:              m.Status,
		SentCount:           m.SentCount,
		FailedCount:         m.FailedCount,
		ScheduledAt:         m.ScheduledAt,
		StartedAt:           m.StartedAt,
		CompletedAt:         m.CompletedAt,
		Recipients:          make([]whatsapp.Recipient, len(m.Recipients)),
	}
	for i := range m.Recipients {
		c.Recipients[i] = m.Recipients[i].ToDomain()
	}
	return c
}

// WhatsAppCampaignModelFromDomain creates a persistence model from a domain Campaign
func WhatsAppCampaignModelFromDomain(c *whatsapp.Campaign) *WhatsAppCampaignModel {
	m := &WhatsAppCampaignModel{
		Name:        c.Name,
		InstanceID:  c.InstanceID,
		TemplateID:  c.TemplateID,
		Body:        c.Body,
		Status:      c.Status,
		SentCount:   c.SentCount,
		FailedCount: c.FailedCount,
		ScheduledAt: c.ScheduledAt,
		StartedAt:   c.StartedAt,
		CompletedAt: c.CompletedAt,
		Recipients:  make([]WhatsAppCampaignRecipientModel, len(c.Recipients)),
	}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	for i := range c.Recipients {
		m.Recipients[i] = campaignRecipientFromDomain(c.TenantID, &c.Recipients[i])
	}
	return m
}

// WhatsAppCampaignRecipientModel is one campaign target
type WhatsAppCampaignRecipientModel struct {
	ID         uuid.UUID                `gorm:"type:uuid;primary_key"`
	TenantID   uuid.UUID                `gorm:"type:uuid;not null;index"`
	CampaignID uuid.UUID                `gorm:"type:uuid;not null;index"`
	Phone      string                   `gorm:"type:varchar(30);not null"`
	Name       string                   `gorm:"type:varchar(200)"`
	Variables  []byte                   `gorm:"type:jsonb"`
	Status     whatsapp.RecipientStatus `gorm:"type:varchar(20);not null"`
	MessageID  *uuid.UUID               `gorm:"type:uuid"`
	Error      string                   `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (WhatsAppCampaignRecipientModel) TableName() string {
	return "whatsapp_campaign_recipients"
}

// ToDomain converts the persistence model to a domain Recipient
func (m *WhatsAppCampaignRecipientModel) ToDomain() whatsapp.Recipient {
	r := whatsapp.Recipient{
		ID:         m.ID,
		CampaignID: m.CampaignID,
		Phone:      m.Phone,
		Name:       m.Name,
		Status:     m.Status,
		MessageID:  m.MessageID,
		Error:      m.Error,
	}
	if len(m.Variables) > 0 {
		_ = json.Unmarshal(m.Variables, &r.Variables)
	}
	return r
}

func campaignRecipientFromDomain(tenantID uuid.UUID, r *whatsapp.Recipient) WhatsAppCampaignRecipientModel {
	m := WhatsAppCampaignRecipientModel{
		ID:         r.ID,
		TenantID:   tenantID,
		CampaignID: r.CampaignID,
		Phone:      r.Phone,
		Name:       r.Name,
		Status:     r.Status,
		MessageID:  r.MessageID,
		Error:      r.Error,
	}
	if len(r.Variables) > 0 {
		m.Variables, _ = json.Marshal(r.Variables)
	}
	return m
}

// GreenAPIWebhookEventModel stores every webhook delivery once
type GreenAPIWebhookEventModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID       uuid.UUID `gorm:"type:uuid;index"`
	InstanceID     string    `gorm:"type:varchar(50);not null;index"`
	TypeWebhook    string    `gorm:"type:varchar(60);not null"`
	IdempotencyKey string    `gorm:"type:varchar(200);not null;uniqueIndex"`
	Payload        []byte    `gorm:"type:jsonb"`
	Processed      bool      `gorm:"not null;default:false"`
	Error          string    `gorm:"type:text"`
	ReceivedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (GreenAPIWebhookEventModel) TableName() string {
	return "green_api_webhook_events"
}

// GreenAPIWebhookEventModelFromDomain creates a persistence model from a WebhookEvent
func GreenAPIWebhookEventModelFromDomain(e *whatsapp.WebhookEvent) *GreenAPIWebhookEventModel {
	return &GreenAPIWebhookEventModel{
		ID:             e.ID,
		TenantID:       e.TenantID,
		InstanceID:     e.InstanceID,
		TypeWebhook:    e.TypeWebhook,
		IdempotencyKey: e.IdempotencyKey,
		Payload:        []byte(e.Payload),
		Processed:      e.Processed,
		Error:          e.Error,
		ReceivedAt:     e.ReceivedAt,
	}
}
