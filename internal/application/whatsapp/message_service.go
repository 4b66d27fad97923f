package whatsapp

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/lats/backend/internal/domain/whatsapp"
	"github.com/lats/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// chatLoadTimeout bounds a shared chat load, which outlives the request
// that started it
const chatLoadTimeout = 10 * time.Second

// MessageOptions tunes sending, polling and the chat cache
type MessageOptions struct {
	CountryCode  string
	PollLookback time.Duration
	ChatCacheTTL time.Duration
	HistoryLimit int
}

// MessageService sends messages optimistically and serves chats
type MessageService struct {
	messages  whatsapp.MessageRepository
	queue     whatsapp.QueueRepository
	cache     *ChatViews
	instances *InstanceService
	templates *TemplateService
	opts      MessageOptions
	loads     singleflight.Group
	logger    *zap.Logger
	now       func() time.Time
}

// NewMessageService creates a new MessageService
func NewMessageService(
	messages whatsapp.MessageRepository,
	queue whatsapp.QueueRepository,
	cache whatsapp.ChatCache,
	instances *InstanceService,
	templates *TemplateService,
	opts MessageOptions,
	logger *zap.Logger,
) *MessageService {
	if opts.PollLookback <= 0 {
		opts.PollLookback = 30 * time.Second
	}
	if opts.ChatCacheTTL <= 0 {
		opts.ChatCacheTTL = whatsapp.ChatCacheTTL
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 100
	}
	return &MessageService{
		messages:  messages,
		queue:     queue,
		cache:     NewChatViews(cache),
		instances: instances,
		templates: templates,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
}

// Send records the message as pending and queues it. The provider is not
// contacted here; the queue processor delivers it.
func (s *MessageService) Send(ctx context.Context, tenantID uuid.UUID, input SendMessageInput) (*MessageResponse, error) {
	inst, err := s.instances.Resolve(ctx, tenantID, input.InstanceID)
	if err != nil {
		return nil, err
	}
	chatID, err := whatsapp.NormalizeChatID(input.To, s.opts.CountryCode)
	if err != nil {
		return nil, err
	}

	body := input.Body
	if input.TemplateName != "" {
		body, err = s.templates.Render(ctx, tenantID, input.TemplateName, input.Variables)
		if err != nil {
			return nil, err
		}
	}

	msg, err := whatsapp.NewOutboundMessage(tenantID, inst.ID, chatID, body, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.enqueue(ctx, msg, input.Priority, s.now()); err != nil {
		return nil, err
	}

	logger.Ctx(ctx, s.logger).Info("WhatsApp message queued",
		zap.String("message_id", msg.ID.String()),
		zap.String("chat_id", chatID),
		zap.String("instance_id", inst.InstanceID),
	)
	resp := ToMessageResponse(msg)
	return &resp, nil
}

// enqueue stores msg and its queue row, then drops the chat's cached copy
func (s *MessageService) enqueue(ctx context.Context, msg *whatsapp.Message, priority int, at time.Time) error {
	if err := s.messages.Save(ctx, msg); err != nil {
		return err
	}
	row := whatsapp.NewQueuedMessage(msg, priority, at)
	if err := s.queue.Enqueue(ctx, row); err != nil {
		return err
	}
	s.invalidate(ctx, msg.TenantID, msg.ChatID)
	return nil
}

func (s *MessageService) invalidate(ctx context.Context, tenantID uuid.UUID, chatID string) {
	if err := s.cache.Invalidate(ctx, tenantID, chatID); err != nil {
		logger.Ctx(ctx, s.logger).Warn("Failed to invalidate chat cache",
			zap.String("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// PollRecent returns inbound messages received within the lookback window
// and invalidates the chats they belong to
func (s *MessageService) PollRecent(ctx context.Context, tenantID uuid.UUID) ([]MessageResponse, error) {
	since := s.now().Add(-s.opts.PollLookback)
	msgs, err := s.messages.FindInboundSince(ctx, tenantID, since)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, m := range msgs {
		if !seen[m.ChatID] {
			seen[m.ChatID] = true
			s.invalidate(ctx, tenantID, m.ChatID)
		}
	}
	return ToMessageResponses(msgs), nil
}

// GetChat serves a chat from the cache while it is fresh. Concurrent
// reloads of the same chat share one query, which runs detached from the
// caller that started it so its cancellation does not fail the others.
// The cache is fed in the ChatViews passed to NewMessageService; pass the
// same one to every service that invalidates chats.
func (s *MessageService) GetChat(ctx context.Context, tenantID uuid.UUID, chatID string) (*ChatResponse, error) {
	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		return nil, shared.NewDomainError("INVALID_CHAT", "Chat ID cannot be empty")
	}

	cached, err := s.cache.Get(ctx, tenantID, chatID)
	if err != nil {
		logger.Ctx(ctx, s.logger).Warn("Chat cache read failed", zap.String("chat_id", chatID), zap.Error(err))
	}
	if cached.IsFresh(s.now(), s.opts.ChatCacheTTL) {
		return toChatResponse(cached), nil
	}

	v, err, _ := s.loads.Do(tenantID.String()+":"+chatID, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), chatLoadTimeout)
		defer cancel()

		gen := s.cache.generation()
		msgs, err := s.messages.FindByChat(loadCtx, tenantID, chatID, s.opts.HistoryLimit)
		if err != nil {
			return nil, err
		}
		chat := &whatsapp.CachedChat{ChatID: chatID, Messages: msgs, LoadedAt: s.now()}
		stored, err := s.cache.setIfCurrent(loadCtx, tenantID, chat, gen)
		if err != nil {
			logger.Ctx(ctx, s.logger).Warn("Chat cache write failed", zap.String("chat_id", chatID), zap.Error(err))
		} else if !stored {
			logger.Ctx(ctx, s.logger).Debug("Chat changed during load, not cached", zap.String("chat_id", chatID))
		}
		return chat, nil
	})
	if err != nil {
		return nil, err
	}
	return toChatResponse(v.(*whatsapp.CachedChat)), nil
}

func toChatResponse(c *whatsapp.CachedChat) *ChatResponse {
	return &ChatResponse{
		ChatID:   c.ChatID,
		Messages: ToMessageResponses(c.Messages),
		LoadedAt: c.LoadedAt,
	}
}

// MarkRead marks the chat's unread inbound messages read
func (s *MessageService) MarkRead(ctx context.Context, tenantID uuid.UUID, chatID string) (int64, error) {
	n, err := s.messages.MarkChatRead(ctx, tenantID, chatID, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.invalidate(ctx, tenantID, chatID)
	}
	return n, nil
}

// Get returns one message
func (s *MessageService) Get(ctx context.Context, tenantID, id uuid.UUID) (*MessageResponse, error) {
	msg, err := s.messages.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("MESSAGE_NOT_FOUND", "Message not found")
		}
		return nil, err
	}
	resp := ToMessageResponse(msg)
	return &resp, nil
}

// List returns messages matching the filter, newest first
func (s *MessageService) List(ctx context.Context, tenantID uuid.UUID, filter MessageListFilter) ([]MessageResponse, error) {
	msgs, err := s.messages.FindAllForTenant(ctx, tenantID, filter.toShared())
	if err != nil {
		return nil, err
	}
	return ToMessageResponses(msgs), nil
}

// Stats counts messages per status and rows waiting in the queue
func (s *MessageService) Stats(ctx context.Context, tenantID uuid.UUID) (*MessageStatsResponse, error) {
	byStatus, err := s.messages.CountByStatus(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	queued, err := s.queue.CountPending(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return &MessageStatsResponse{ByStatus: byStatus, Queued: queued}, nil
}
