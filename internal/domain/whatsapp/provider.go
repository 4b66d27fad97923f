package whatsapp

import "context"

// QRCode is the provider's pairing payload
type QRCode struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Provider is the messaging API an instance talks to
type Provider interface {
	// GetState returns the raw stateInstance value
	GetState(ctx context.Context, inst *Instance) (string, error)

	// SendMessage sends text to a chat and returns the provider message ID
	SendMessage(ctx context.Context, inst *Instance, chatID, text string) (string, error)

	// QR fetches the pairing QR code
	QR(ctx context.Context, inst *Instance) (*QRCode, error)
}
