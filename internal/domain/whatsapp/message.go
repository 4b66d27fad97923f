package whatsapp

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/shared"
)

// Direction of a message relative to the shop
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// MessageStatus tracks delivery of a message
type MessageStatus string

const (
	MessagePending     MessageStatus = "pending"
	MessageSending     MessageStatus = "sending"
	MessageSent        MessageStatus = "sent"
	MessageDelivered   MessageStatus = "delivered"
	MessageRead        MessageStatus = "read"
	MessageFailed      MessageStatus = "failed"
	MessageRateLimited MessageStatus = "rate_limited"
)

func (s MessageStatus) rank() int {
	switch s {
	case MessagePending, MessageRateLimited:
		return 0
	case MessageSending:
		return 1
	case MessageSent:
		return 2
	case MessageDelivered:
		return 3
	case MessageRead:
		return 4
	}
	return -1
}

// Advances reports whether moving to target is progress. Provider status
// callbacks can arrive out of order; regressions are ignored.
func (s MessageStatus) Advances(target MessageStatus) bool {
	if s == MessageFailed || s == MessageRead {
		return false
	}
	if target == MessageFailed || target == MessageRateLimited {
		return true
	}
	return target.rank() > s.rank()
}

// Message is one WhatsApp message in a chat
type Message struct {
	shared.BaseEntity
	TenantID          uuid.UUID
	InstanceID        uuid.UUID
	ChatID            string
	SenderName        string
	Direction         Direction
	Body              string
	Type              string
	Status            MessageStatus
	ProviderMessageID string
	CampaignID        *uuid.UUID
	Error             string
	SentAt            time.Time
	ReadAt            *time.Time
}

// NewOutboundMessage records a message the shop is about to send
func NewOutboundMessage(tenantID, instanceID uuid.UUID, chatID, body string, at time.Time) (*Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Message body cannot be empty")
	}
	if len(body) > 4096 {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Message body cannot exceed 4096 characters")
	}
	return &Message{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		InstanceID: instanceID,
		ChatID:     chatID,
		Direction:  DirectionOutbound,
		Body:       body,
		Type:       "textMessage",
		Status:     MessagePending,
		SentAt:     at,
	}, nil
}

// NewInboundMessage records a message received from a customer
func NewInboundMessage(tenantID, instanceID uuid.UUID, chatID, senderName, body, msgType, providerID string, at time.Time) *Message {
	if msgType == "" {
		msgType = "textMessage"
	}
	return &Message{
		BaseEntity:        shared.NewBaseEntity(),
		TenantID:          tenantID,
		InstanceID:        instanceID,
		ChatID:            chatID,
		SenderName:        senderName,
		Direction:         DirectionInbound,
		Body:              body,
		Type:              msgType,
		Status:            MessageDelivered,
		ProviderMessageID: providerID,
		SentAt:            at,
	}
}

// Transition applies a delivery status if it advances the message
func (m *Message) Transition(target MessageStatus, at time.Time) bool {
	if !m.Status.Advances(target) {
		return false
	}
	m.Status = target
	if target == MessageRead {
		m.ReadAt = &at
	}
	m.Touch()
	return true
}

// MarkSent stores the provider acknowledgement
func (m *Message) MarkSent(providerID string, at time.Time) {
	m.ProviderMessageID = providerID
	m.Error = ""
	m.Transition(MessageSent, at)
}

// MarkRetrying puts a message whose send failed back to pending so the
// queue can try again
func (m *Message) MarkRetrying(reason string) {
	if m.Status == MessageSending || m.Status == MessageRateLimited {
		m.Status = MessagePending
	}
	m.Error = reason
	m.Touch()
}

// MarkFailed records a terminal failure
func (m *Message) MarkFailed(reason string) {
	m.Error = reason
	m.Transition(MessageFailed, time.Now())
}

const (
	personalSuffix = "@c.us"
	groupSuffix    = "@g.us"
)

var errInvalidPhone = shared.NewDomainError("INVALID_PHONE", "Phone number must contain 9 to 15 digits")

// NormalizeChatID turns a phone number into a provider chat ID
// (<digits>@c.us). A local number starting with 0 gets countryCode.
// Personal and group chat IDs are checked and returned unchanged.
func NormalizeChatID(phone, countryCode string) (string, error) {
	phone = strings.TrimSpace(phone)
	if number, ok := strings.CutSuffix(phone, personalSuffix); ok {
		if !isDigits(number) || len(number) < 9 || len(number) > 15 {
			return "", errInvalidPhone
		}
		return phone, nil
	}
	if group, ok := strings.CutSuffix(phone, groupSuffix); ok {
		// 120363...@g.us, or the older <creator>-<timestamp>@g.us
		creator, stamp, hyphen := strings.Cut(group, "-")
		if !isDigits(creator) || (hyphen && !isDigits(stamp)) || len(group) > 40 {
			return "", shared.NewDomainError("INVALID_CHAT", "Malformed group chat ID")
		}
		return phone, nil
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if strings.HasPrefix(digits, "0") && countryCode != "" {
		digits = countryCode + strings.TrimPrefix(digits, "0")
	}
	if len(digits) < 9 || len(digits) > 15 {
		return "", errInvalidPhone
	}
	return digits + personalSuffix, nil
}

// isDigits reports whether s is a non-empty run of ASCII digits
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
