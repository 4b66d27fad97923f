package whatsapp

import (
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/lats/backend/internal/domain/whatsapp"
)

// CreateInstanceInput registers a Green API account
type CreateInstanceInput struct {
	Name         string
	InstanceID   string
	APIToken     string
	WebhookToken string
	PhoneNumber  string
	Host         string
	IsDefault    bool
}

// InstanceResponse represents an instance in API responses. Neither token
// is ever included.
type InstanceResponse struct {
	ID             uuid.UUID               `json:"id"`
	Name           string                  `json:"name"`
	InstanceID     string                  `json:"instance_id"`
	PhoneNumber    string                  `json:"phone_number,omitempty"`
	Host           string                  `json:"host"`
	Status         whatsapp.InstanceStatus `json:"status"`
	IsDefault      bool                    `json:"is_default"`
	LastState      string                  `json:"last_state,omitempty"`
	LastStateCheck *time.Time              `json:"last_state_check,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
}

// ToInstanceResponse converts a domain instance
func ToInstanceResponse(i *whatsapp.Instance) InstanceResponse {
	return InstanceResponse{
		ID:             i.ID,
		Name:           i.Name,
		InstanceID:     i.InstanceID,
		PhoneNumber:    i.PhoneNumber,
		Host:           i.Host,
		Status:         i.Status,
		IsDefault:      i.IsDefault,
		LastState:      i.LastState,
		LastStateCheck: i.LastStateCheck,
		CreatedAt:      i.CreatedAt,
	}
}

// SendMessageInput sends a text or a rendered template to a phone or chat.
// InstanceID defaults to the shop's default instance.
type SendMessageInput struct {
	InstanceID   *uuid.UUID
	To           string
	Body         string
	TemplateName string
	Variables    map[string]string
	Priority     int
}

// MessageResponse represents a message in API responses
type MessageResponse struct {
	ID                uuid.UUID              `json:"id"`
	InstanceID        uuid.UUID              `json:"instance_id"`
	ChatID            string                 `json:"chat_id"`
	SenderName        string                 `json:"sender_name,omitempty"`
	Direction         whatsapp.Direction     `json:"direction"`
	Body              string                 `json:"body"`
	Type              string                 `json:"type"`
	Status            whatsapp.MessageStatus `json:"status"`
	ProviderMessageID string                 `json:"provider_message_id,omitempty"`
	CampaignID        *uuid.UUID             `json:"campaign_id,omitempty"`
	Error             string                 `json:"error,omitempty"`
	SentAt            time.Time              `json:"sent_at"`
	ReadAt            *time.Time             `json:"read_at,omitempty"`
}

// ToMessageResponse converts a domain message
func ToMessageResponse(m *whatsapp.Message) MessageResponse {
	return MessageResponse{
		ID:                m.ID,
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

// ToMessageResponses converts a slice of domain messages
func ToMessageResponses(msgs []whatsapp.Message) []MessageResponse {
	out := make([]MessageResponse, len(msgs))
	for i := range msgs {
		out[i] = ToMessageResponse(&msgs[i])
	}
	return out
}

// ChatResponse is a chat's history with the time it was loaded
type ChatResponse struct {
	ChatID   string            `json:"chat_id"`
	Messages []MessageResponse `json:"messages"`
	LoadedAt time.Time         `json:"loaded_at"`
}

// MessageStatsResponse counts messages per status and the pending queue
type MessageStatsResponse struct {
	ByStatus map[whatsapp.MessageStatus]int64 `json:"by_status"`
	Queued   int64                            `json:"queued"`
}

// MessageListFilter narrows message listings
type MessageListFilter struct {
	Search    string `form:"search"`
	ChatID    string `form:"chat_id"`
	Status    string `form:"status" binding:"omitempty,oneof=pending sending sent delivered read failed rate_limited"`
	Direction string `form:"direction" binding:"omitempty,oneof=inbound outbound"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (f MessageListFilter) toShared() shared.Filter {
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  "sent_at",
		Search:   f.Search,
		Filters:  map[string]any{},
	}
	if f.ChatID != "" {
		filter.Filters["chat_id"] = f.ChatID
	}
	if f.Status != "" {
		filter.Filters["status"] = f.Status
	}
	if f.Direction != "" {
		filter.Filters["direction"] = f.Direction
	}
	return filter.Normalize()
}

// TemplateInput creates or replaces a template
type TemplateInput struct {
	Name     string
	Category string
	Body     string
	IsActive *bool
}

// TemplateResponse represents a template in API responses
type TemplateResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Body      string    `json:"body"`
	Variables []string  `json:"variables"`
	IsActive  bool      `json:"is_active"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToTemplateResponse converts a domain template
func ToTemplateResponse(t *whatsapp.Template) TemplateResponse {
	vars := t.Variables
	if vars == nil {
		vars = []string{}
	}
	return TemplateResponse{
		ID:        t.ID,
		Name:      t.Name,
		Category:  t.Category,
		Body:      t.Body,
		Variables: vars,
		IsActive:  t.IsActive,
		UpdatedAt: t.UpdatedAt,
	}
}

// RecipientInput is one campaign addressee
type RecipientInput struct {
	Phone     string
	Name      string
	Variables map[string]string
}

// CreateCampaignInput creates a draft campaign
type CreateCampaignInput struct {
	Name        string
	InstanceID  *uuid.UUID
	TemplateID  *uuid.UUID
	Body        string
	Recipients  []RecipientInput
	ScheduledAt *time.Time
}

// RecipientResponse is the outcome for one campaign recipient
type RecipientResponse struct {
	ID        uuid.UUID                `json:"id"`
	Phone     string                   `json:"phone"`
	Name      string                   `json:"name,omitempty"`
	Status    whatsapp.RecipientStatus `json:"status"`
	MessageID *uuid.UUID               `json:"message_id,omitempty"`
	Error     string                   `json:"error,omitempty"`
}

// CampaignResponse represents a campaign in API responses
type CampaignResponse struct {
	ID          uuid.UUID               `json:"id"`
	Name        string                  `json:"name"`
	InstanceID  uuid.UUID               `json:"instance_id"`
	TemplateID  *uuid.UUID              `json:"template_id,omitempty"`
	Body        string                  `json:"body,omitempty"`
	Status      whatsapp.CampaignStatus `json:"status"`
	Total       int                     `json:"total"`
	SentCount   int                     `json:"sent_count"`
	FailedCount int                     `json:"failed_count"`
	Recipients  []RecipientResponse     `json:"recipients,omitempty"`
	ScheduledAt *time.Time              `json:"scheduled_at,omitempty"`
	StartedAt   *time.Time              `json:"started_at,omitempty"`
	CompletedAt *time.Time              `json:"completed_at,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
}

// ToCampaignResponse converts a domain campaign. Recipients are included
// only when withRecipients is set.
func ToCampaignResponse(c *whatsapp.Campaign, withRecipients bool) CampaignResponse {
	resp := CampaignResponse{
		ID:          c.ID,
		Name:        c.Name,
		InstanceID:  c.InstanceID,
		TemplateID:  c.TemplateID,
		Body:        c.Body,
		Status:      c.Status,
		Total:       len(c.Recipients),
		SentCount:   c.SentCount,
		FailedCount: c.FailedCount,
		ScheduledAt: c.ScheduledAt,
		StartedAt:   c.StartedAt,
		CompletedAt: c.CompletedAt,
		CreatedAt:   c.CreatedAt,
	}
	if withRecipients {
		resp.Recipients = make([]RecipientResponse, len(c.Recipients))
		for i, r := range c.Recipients {
			resp.Recipients[i] = RecipientResponse{
				ID:        r.ID,
				Phone:     r.Phone,
				Name:      r.Name,
				Status:    r.Status,
				MessageID: r.MessageID,
				Error:     r.Error,
			}
		}
	}
	return resp
}

// CampaignListFilter narrows campaign listings
type CampaignListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=draft scheduled sending completed failed paused"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (f CampaignListFilter) toShared() shared.Filter {
	filter := shared.Filter{Page: f.Page, PageSize: f.PageSize, Search: f.Search, Filters: map[string]any{}}
	if f.Status != "" {
		filter.Filters["status"] = f.Status
	}
	return filter.Normalize()
}
