package whatsapp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Green API webhook types handled by the service
const (
	WebhookIncomingMessage       = "incomingMessageReceived"
	WebhookOutgoingMessage       = "outgoingMessageReceived"
	WebhookOutgoingAPIMessage    = "outgoingAPIMessageReceived"
	WebhookOutgoingMessageStatus = "outgoingMessageStatus"
	WebhookStateInstanceChanged  = "stateInstanceChanged"
)

// WebhookPayload is the subset of a Green API notification that is read
type WebhookPayload struct {
	TypeWebhook  string `json:"typeWebhook"`
	InstanceData struct {
		IDInstance   json.Number `json:"idInstance"`
		Wid          string      `json:"wid"`
		TypeInstance string      `json:"typeInstance"`
	} `json:"instanceData"`
	Timestamp  int64  `json:"timestamp"`
	IDMessage  string `json:"idMessage"`
	Status     string `json:"status"`
	State      string `json:"stateInstance"`
	SenderData struct {
		ChatID     string `json:"chatId"`
		Sender     string `json:"sender"`
		SenderName string `json:"senderName"`
	} `json:"senderData"`
	MessageData struct {
		TypeMessage     string `json:"typeMessage"`
		TextMessageData struct {
			TextMessage string `json:"textMessage"`
		} `json:"textMessageData"`
		ExtendedTextMessageData struct {
			Text string `json:"text"`
		} `json:"extendedTextMessageData"`
	} `json:"messageData"`
}

// Text returns the message text of a message webhook
func (p *WebhookPayload) Text() string {
	if p.MessageData.TextMessageData.TextMessage != "" {
		return p.MessageData.TextMessageData.TextMessage
	}
	return p.MessageData.ExtendedTextMessageData.Text
}

// OccurredAt converts the unix timestamp, falling back to fallback
func (p *WebhookPayload) OccurredAt(fallback time.Time) time.Time {
	if p.Timestamp <= 0 {
		return fallback
	}
	return time.Unix(p.Timestamp, 0)
}

// IdempotencyKey identifies a notification across redeliveries
func (p *WebhookPayload) IdempotencyKey(instanceID string) string {
	return fmt.Sprintf("%s:%s:%s:%s:%s:%d", instanceID, p.TypeWebhook, p.IDMessage, p.Status, p.State, p.Timestamp)
}

// StatusFromDelivery maps an outgoingMessageStatus value
func StatusFromDelivery(status string) (MessageStatus, bool) {
	switch status {
	case "sent":
		return MessageSent, true
	case "delivered":
		return MessageDelivered, true
	case "read":
		return MessageRead, true
	case "failed", "noAccount", "notInGroup":
		return MessageFailed, true
	}
	return "", false
}

// WebhookEvent is the stored raw notification
type WebhookEvent struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	InstanceID     string
	TypeWebhook    string
	IdempotencyKey string
	Payload        json.RawMessage
	Processed      bool
	Error          string
	ReceivedAt     time.Time
}
