package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/whatsapp"
	"github.com/redis/go-redis/v9"
)

// DefaultChatRetention bounds how long a chat stays in the cache at all.
// Freshness (whatsapp.ChatCacheTTL) is decided by the reader; retention only
// stops abandoned chats from piling up.
const DefaultChatRetention = 10 * time.Minute

func chatKey(tenantID uuid.UUID, chatID string) string {
	return tenantID.String() + ":" + chatID
}

// InMemoryChatCache holds chats in a process-local map
type InMemoryChatCache struct {
	mu        sync.RWMutex
	chats     map[string]*whatsapp.CachedChat
	retention time.Duration
	now       func() time.Time
}

// NewInMemoryChatCache creates an empty cache; retention <= 0 uses the default
func NewInMemoryChatCache(retention time.Duration) *InMemoryChatCache {
	if retention <= 0 {
		retention = DefaultChatRetention
	}
	return &InMemoryChatCache{
		chats:     make(map[string]*whatsapp.CachedChat),
		retention: retention,
		now:       time.Now,
	}
}

// Get returns a copy of the cached chat, or nil on a miss
func (c *InMemoryChatCache) Get(_ context.Context, tenantID uuid.UUID, chatID string) (*whatsapp.CachedChat, error) {
	key := chatKey(tenantID, chatID)

	c.mu.RLock()
	chat, ok := c.chats[key]
	c.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if c.now().Sub(chat.LoadedAt) >= c.retention {
		c.mu.Lock()
		delete(c.chats, key)
		c.mu.Unlock()
		return nil, nil
	}
	return cloneChat(chat), nil
}

// Set stores a copy of chat
func (c *InMemoryChatCache) Set(_ context.Context, tenantID uuid.UUID, chat *whatsapp.CachedChat) error {
	if chat == nil {
		return nil
	}
	c.mu.Lock()
	c.chats[chatKey(tenantID, chat.ChatID)] = cloneChat(chat)
	c.mu.Unlock()
	return nil
}

// Invalidate drops the chat
func (c *InMemoryChatCache) Invalidate(_ context.Context, tenantID uuid.UUID, chatID string) error {
	c.mu.Lock()
	delete(c.chats, chatKey(tenantID, chatID))
	c.mu.Unlock()
	return nil
}

// Len returns the number of cached chats
func (c *InMemoryChatCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.chats)
}

func cloneChat(chat *whatsapp.CachedChat) *whatsapp.CachedChat {
	out := *chat
	out.Messages = append([]whatsapp.Message(nil), chat.Messages...)
	return &out
}

// RedisChatCache stores chats as JSON so every API instance sees one cache
type RedisChatCache struct {
	client    *redis.Client
	keyPrefix string
	retention time.Duration
}

// NewRedisChatCache wraps a shared client
func NewRedisChatCache(client *redis.Client, retention time.Duration) *RedisChatCache {
	if retention <= 0 {
		retention = DefaultChatRetention
	}
	return &RedisChatCache{client: client, keyPrefix: "lats:whatsapp:chat:", retention: retention}
}

// Get returns the cached chat, or nil on a miss
func (c *RedisChatCache) Get(ctx context.Context, tenantID uuid.UUID, chatID string) (*whatsapp.CachedChat, error) {
	data, err := c.client.Get(ctx, c.keyPrefix+chatKey(tenantID, chatID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read chat cache: %w", err)
	}

	var chat whatsapp.CachedChat
	if err := json.Unmarshal(data, &chat); err != nil {
		// A stale encoding is a miss; the next load overwrites it.
		return nil, nil
	}
	return &chat, nil
}

// Set stores chat with the retention TTL
func (c *RedisChatCache) Set(ctx context.Context, tenantID uuid.UUID, chat *whatsapp.CachedChat) error {
	if chat == nil {
		return nil
	}
	data, err := json.Marshal(chat)
	if err != nil {
		return fmt.Errorf("failed to encode chat: %w", err)
	}
	if err := c.client.Set(ctx, c.keyPrefix+chatKey(tenantID, chat.ChatID), data, c.retention).Err(); err != nil {
		return fmt.Errorf("failed to write chat cache: %w", err)
	}
	return nil
}

// Invalidate deletes the chat
func (c *RedisChatCache) Invalidate(ctx context.Context, tenantID uuid.UUID, chatID string) error {
	if err := c.client.Del(ctx, c.keyPrefix+chatKey(tenantID, chatID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate chat cache: %w", err)
	}
	return nil
}

var (
	_ whatsapp.ChatCache = (*InMemoryChatCache)(nil)
	_ whatsapp.ChatCache = (*RedisChatCache)(nil)
)
