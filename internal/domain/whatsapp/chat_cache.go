package whatsapp

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ChatCacheTTL is how long a cached chat is served before reloading
const ChatCacheTTL = 30 * time.Second

// CachedChat is a chat's messages stamped with their load time
type CachedChat struct {
	ChatID   string    `json:"chat_id"`
	Messages []Message `json:"messages"`
	LoadedAt time.Time `json:"loaded_at"`
}

// IsFresh reports whether the entry is younger than ttl
func (c *CachedChat) IsFresh(now time.Time, ttl time.Duration) bool {
	return c != nil && now.Sub(c.LoadedAt) < ttl
}

// ChatCache stores loaded chats per tenant
type ChatCache interface {
	Get(ctx context.Context, tenantID uuid.UUID, chatID string) (*CachedChat, error)
	Set(ctx context.Context, tenantID uuid.UUID, chat *CachedChat) error
	Invalidate(ctx context.Context, tenantID uuid.UUID, chatID string) error
}
