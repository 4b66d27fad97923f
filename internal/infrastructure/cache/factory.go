package cache

import (
	"context"
	"fmt"

	"github.com/lats/backend/internal/domain/closing"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/lats/backend/internal/domain/whatsapp"
	"github.com/lats/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Stores bundles the cache-backed ports. Client is nil when running in
// memory.
type Stores struct {
	Client      *redis.Client
	ChatCache   whatsapp.ChatCache
	Idempotency shared.IdempotencyStore
	Attempts    closing.AttemptLimiter
}

// Close releases the idempotency sweeper and the Redis client
func (s *Stores) Close() error {
	if err := s.Idempotency.Close(); err != nil {
		return err
	}
	if s.Client != nil {
		return s.Client.Close()
	}
	return nil
}

// StoresOption configures NewStores
type StoresOption func(*storesOptions)

type storesOptions struct {
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) StoresOption {
	return func(o *storesOptions) { o.logger = logger }
}

// WithInMemoryFallback controls whether an unreachable Redis degrades to
// in-memory stores instead of failing startup. Default true.
func WithInMemoryFallback(allow bool) StoresOption {
	return func(o *storesOptions) { o.allowInMemoryFallback = allow }
}

// NewStores builds Redis-backed stores when Redis is enabled and reachable,
// in-memory stores otherwise.
func NewStores(ctx context.Context, cfg config.RedisConfig, opts ...StoresOption) (*Stores, error) {
	o := storesOptions{logger: zap.NewNop(), allowInMemoryFallback: true}
	for _, opt := range opts {
		opt(&o)
	}

	if !cfg.Enabled {
		o.logger.Info("Redis disabled, using in-memory stores")
		return NewInMemoryStores(), nil
	}

	client, err := NewRedisClient(ctx, cfg)
	if err != nil {
		if !o.allowInMemoryFallback {
			return nil, fmt.Errorf("redis required but unavailable: %w", err)
		}
		o.logger.Warn("Redis unavailable, falling back to in-memory stores. "+
			"Chat cache and passcode lockouts will not be shared between instances.",
			zap.Error(err),
		)
		return NewInMemoryStores(), nil
	}

	o.logger.Info("Using Redis stores", zap.String("addr", cfg.Addr()))
	return NewRedisStores(client), nil
}

// NewRedisStores builds every store on one shared client
func NewRedisStores(client *redis.Client) *Stores {
	return &Stores{
		Client:      client,
		ChatCache:   NewRedisChatCache(client, DefaultChatRetention),
		Idempotency: NewRedisIdempotencyStore(client, "lats:whatsapp:webhook:"),
		Attempts:    NewRedisAttemptLimiter(client),
	}
}

// NewInMemoryStores builds process-local stores
func NewInMemoryStores() *Stores {
	return &Stores{
		ChatCache:   NewInMemoryChatCache(DefaultChatRetention),
		Idempotency: NewInMemoryIdempotencyStore(),
		Attempts:    NewInMemoryAttemptLimiter(),
	}
}
