package whatsapp

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/whatsapp"
)

// ChatViews fronts a ChatCache with an invalidation counter. Every service
// that changes a chat must invalidate through the same ChatViews so that a
// load which started before the change never writes its result back.
type ChatViews struct {
	cache whatsapp.ChatCache
	gen   atomic.Uint64
}

// NewChatViews wraps cache. A *ChatViews is returned as is.
func NewChatViews(cache whatsapp.ChatCache) *ChatViews {
	if v, ok := cache.(*ChatViews); ok {
		return v
	}
	return &ChatViews{cache: cache}
}

// Get returns the cached chat, nil when absent
func (v *ChatViews) Get(ctx context.Context, tenantID uuid.UUID, chatID string) (*whatsapp.CachedChat, error) {
	return v.cache.Get(ctx, tenantID, chatID)
}

// Set stores chat unconditionally
func (v *ChatViews) Set(ctx context.Context, tenantID uuid.UUID, chat *whatsapp.CachedChat) error {
	return v.cache.Set(ctx, tenantID, chat)
}

// Invalidate drops the chat and makes every load in flight stale
func (v *ChatViews) Invalidate(ctx context.Context, tenantID uuid.UUID, chatID string) error {
	v.gen.Add(1)
	return v.cache.Invalidate(ctx, tenantID, chatID)
}

// generation is read before a load starts and handed to setIfCurrent
func (v *ChatViews) generation() uint64 {
	return v.gen.Load()
}

// setIfCurrent stores chat unless something was invalidated since gen was
// read. The counter is process wide, so an unrelated invalidation also
// skips the write; the next read just loads again.
func (v *ChatViews) setIfCurrent(ctx context.Context, tenantID uuid.UUID, chat *whatsapp.CachedChat, gen uint64) (bool, error) {
	if v.gen.Load() != gen {
		return false, nil
	}
	if err := v.cache.Set(ctx, tenantID, chat); err != nil {
		return false, err
	}
	// an invalidation that landed during the write deletes it again
	if v.gen.Load() != gen {
		if err := v.cache.Invalidate(ctx, tenantID, chat.ChatID); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}
