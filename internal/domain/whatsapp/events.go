package whatsapp

import (
	"github.com/lats/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeCampaign = "WhatsAppCampaign"
)

// Event type constants
const (
	EventTypeCampaignStarted  = "WhatsAppCampaignStarted"
	EventTypeCampaignFinished = "WhatsAppCampaignFinished"
)

// CampaignStartedEvent is raised when a campaign begins sending
type CampaignStartedEvent struct {
	shared.BaseDomainEvent
	Name       string `json:"name"`
	Recipients int    `json:"recipients"`
}

// NewCampaignStartedEvent creates a new CampaignStartedEvent
func NewCampaignStartedEvent(c *Campaign, recipients int) *CampaignStartedEvent {
	return &CampaignStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCampaignStarted, AggregateTypeCampaign, c.ID, c.TenantID),
		Name:            c.Name,
		Recipients:      recipients,
	}
}

// CampaignFinishedEvent is raised when every recipient is resolved
type CampaignFinishedEvent struct {
	shared.BaseDomainEvent
	Status      CampaignStatus `json:"status"`
	SentCount   int            `json:"sent_count"`
	FailedCount int            `json:"failed_count"`
}

// NewCampaignFinishedEvent creates a new CampaignFinishedEvent
func NewCampaignFinishedEvent(c *Campaign) *CampaignFinishedEvent {
	return &CampaignFinishedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCampaignFinished, AggregateTypeCampaign, c.ID, c.TenantID),
		Status:          c.Status,
		SentCount:       c.SentCount,
		FailedCount:     c.FailedCount,
	}
}
