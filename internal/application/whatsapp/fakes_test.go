package whatsapp

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/lats/backend/internal/domain/whatsapp"
	"github.com/stretchr/testify/mock"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) GetState(ctx context.Context, inst *whatsapp.Instance) (string, error) {
	args := m.Called(ctx, inst)
	return args.String(0), args.Error(1)
}

func (m *MockProvider) SendMessage(ctx context.Context, inst *whatsapp.Instance, chatID, text string) (string, error) {
	args := m.Called(ctx, inst, chatID, text)
	return args.String(0), args.Error(1)
}

func (m *MockProvider) QR(ctx context.Context, inst *whatsapp.Instance) (*whatsapp.QRCode, error) {
	args := m.Called(ctx, inst)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*whatsapp.QRCode), args.Error(1)
}

type memInstances struct {
	mu   sync.Mutex
	rows map[uuid.UUID]whatsapp.Instance
}

func newMemInstances() *memInstances {
	return &memInstances{rows: map[uuid.UUID]whatsapp.Instance{}}
}

func (r *memInstances) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*whatsapp.Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.rows[id]
	if !ok || inst.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &inst, nil
}

func (r *memInstances) FindByInstanceID(_ context.Context, instanceID string) (*whatsapp.Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inst := range r.rows {
		if inst.InstanceID == instanceID {
			return &inst, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memInstances) FindDefault(_ context.Context, tenantID uuid.UUID) (*whatsapp.Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inst := range r.rows {
		if inst.TenantID == tenantID && inst.IsDefault {
			return &inst, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memInstances) FindAllForTenant(_ context.Context, tenantID uuid.UUID) ([]whatsapp.Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]whatsapp.Instance, 0)
	for _, inst := range r.rows {
		if inst.TenantID == tenantID {
			out = append(out, inst)
		}
	}
	return out, nil
}

func (r *memInstances) Save(_ context.Context, inst *whatsapp.Instance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inst.IsDefault {
		for id, other := range r.rows {
			if other.TenantID == inst.TenantID && id != inst.ID {
				other.IsDefault = false
				r.rows[id] = other
			}
		}
	}
	r.rows[inst.ID] = *inst
	return nil
}

func (r *memInstances) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.rows[id]
	if !ok || inst.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

type memMessages struct {
	mu         sync.Mutex
	rows       map[uuid.UUID]whatsapp.Message
	saveErr    error // returned once by the next Save
	chatLoads  atomic.Int32
	chatLoadCh chan struct{} // when set, FindByChat blocks until it is closed
}

func newMemMessages() *memMessages {
	return &memMessages{rows: map[uuid.UUID]whatsapp.Message{}}
}

func (r *memMessages) Save(_ context.Context, msg *whatsapp.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.saveErr; err != nil {
		r.saveErr = nil
		return err
	}
	r.rows[msg.ID] = *msg
	return nil
}

func (r *memMessages) get(id uuid.UUID) whatsapp.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[id]
}

func (r *memMessages) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*whatsapp.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.rows[id]
	if !ok || m.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &m, nil
}

func (r *memMessages) FindByProviderID(_ context.Context, providerID string) (*whatsapp.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.rows {
		if providerID != "" && m.ProviderMessageID == providerID {
			return &m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memMessages) sorted(keep func(m whatsapp.Message) bool) []whatsapp.Message {
	out := make([]whatsapp.Message, 0)
	for _, m := range r.rows {
		if keep(m) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SentAt.Before(out[j].SentAt) })
	return out
}

func (r *memMessages) FindInboundSince(_ context.Context, tenantID uuid.UUID, since time.Time) ([]whatsapp.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(m whatsapp.Message) bool {
		return m.TenantID == tenantID && m.Direction == whatsapp.DirectionInbound && !m.SentAt.Before(since)
	}), nil
}

func (r *memMessages) FindByChat(ctx context.Context, tenantID uuid.UUID, chatID string, limit int) ([]whatsapp.Message, error) {
	r.chatLoads.Add(1)
	if r.chatLoadCh != nil {
		<-r.chatLoadCh
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.sorted(func(m whatsapp.Message) bool { return m.TenantID == tenantID && m.ChatID == chatID })
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (r *memMessages) FindAllForTenant(_ context.Context, tenantID uuid.UUID, filter shared.Filter) ([]whatsapp.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	chatID, _ := filter.Filters["chat_id"].(string)
	return r.sorted(func(m whatsapp.Message) bool {
		return m.TenantID == tenantID && (chatID == "" || m.ChatID == chatID)
	}), nil
}

func (r *memMessages) MarkChatRead(_ context.Context, tenantID uuid.UUID, chatID string, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, m := range r.rows {
		if m.TenantID == tenantID && m.ChatID == chatID && m.Direction == whatsapp.DirectionInbound && m.ReadAt == nil {
			m.Transition(whatsapp.MessageRead, at)
			r.rows[id] = m
			n++
		}
	}
	return n, nil
}

func (r *memMessages) CountByStatus(_ context.Context, tenantID uuid.UUID) (map[whatsapp.MessageStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[whatsapp.MessageStatus]int64{}
	for _, m := range r.rows {
		if m.TenantID == tenantID {
			out[m.Status]++
		}
	}
	return out, nil
}

type memQueue struct {
	mu   sync.Mutex
	rows map[uuid.UUID]whatsapp.QueuedMessage
}

func newMemQueue() *memQueue {
	return &memQueue{rows: map[uuid.UUID]whatsapp.QueuedMessage{}}
}

func (q *memQueue) Enqueue(_ context.Context, rows ...*whatsapp.QueuedMessage) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, r := range rows {
		q.rows[r.ID] = *r
	}
	return nil
}

func (q *memQueue) ClaimDue(_ context.Context, now time.Time, limit int) ([]whatsapp.QueuedMessage, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	due := make([]whatsapp.QueuedMessage, 0)
	for _, r := range q.rows {
		stale := r.Status == whatsapp.QueueProcessing && !r.UpdatedAt.After(now.Add(-whatsapp.ClaimLease))
		if r.IsDue(now) || stale {
			due = append(due, r)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].Priority != due[j].Priority {
			return due[i].Priority > due[j].Priority
		}
		return due[i].ScheduledAt.Before(due[j].ScheduledAt)
	})
	if len(due) > limit {
		due = due[:limit]
	}
	for i := range due {
		due[i].Status = whatsapp.QueueProcessing
		due[i].UpdatedAt = now
		q.rows[due[i].ID] = due[i]
	}
	return due, nil
}

func (q *memQueue) Release(_ context.Context, ids []uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, id := range ids {
		if r, ok := q.rows[id]; ok && r.Status == whatsapp.QueueProcessing {
			r.Status = whatsapp.QueueQueued
			q.rows[id] = r
		}
	}
	return nil
}

func (q *memQueue) ResumeByCampaign(_ context.Context, campaignID uuid.UUID, from time.Time, spacing time.Duration) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	held := make([]whatsapp.QueuedMessage, 0)
	for _, r := range q.rows {
		if r.CampaignID != nil && *r.CampaignID == campaignID && r.Status == whatsapp.QueuePaused {
			held = append(held, r)
		}
	}
	sort.Slice(held, func(i, j int) bool { return held[i].ScheduledAt.Before(held[j].ScheduledAt) })
	for i, r := range held {
		r.Status = whatsapp.QueueQueued
		r.ScheduledAt = from.Add(time.Duration(i) * spacing)
		q.rows[r.ID] = r
	}
	return int64(len(held)), nil
}

func (q *memQueue) Save(_ context.Context, row *whatsapp.QueuedMessage) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.rows[row.ID] = *row
	return nil
}

func (q *memQueue) PauseByCampaign(_ context.Context, campaignID uuid.UUID) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var n int64
	for id, r := range q.rows {
		if r.CampaignID != nil && *r.CampaignID == campaignID && r.Status == whatsapp.QueueQueued {
			r.Status = whatsapp.QueuePaused
			q.rows[id] = r
			n++
		}
	}
	return n, nil
}

func (q *memQueue) CountPending(_ context.Context, tenantID uuid.UUID) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var n int64
	for _, r := range q.rows {
		if r.TenantID == tenantID && r.Status == whatsapp.QueueQueued {
			n++
		}
	}
	return n, nil
}

func (q *memQueue) all() []whatsapp.QueuedMessage {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]whatsapp.QueuedMessage, 0, len(q.rows))
	for _, r := range q.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return out
}

type memTemplates struct {
	mu   sync.Mutex
	rows map[uuid.UUID]whatsapp.Template
}

func newMemTemplates() *memTemplates {
	return &memTemplates{rows: map[uuid.UUID]whatsapp.Template{}}
}

func (r *memTemplates) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*whatsapp.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.rows[id]
	if !ok || t.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &t, nil
}

func (r *memTemplates) FindByName(_ context.Context, tenantID uuid.UUID, name string) (*whatsapp.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.rows {
		if t.TenantID == tenantID && t.Name == name {
			return &t, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memTemplates) FindAllForTenant(_ context.Context, tenantID uuid.UUID, category string) ([]whatsapp.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]whatsapp.Template, 0)
	for _, t := range r.rows {
		if t.TenantID == tenantID && (category == "" || t.Category == category) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memTemplates) Save(_ context.Context, tpl *whatsapp.Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[tpl.ID] = *tpl
	return nil
}

func (r *memTemplates) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.rows[id]
	if !ok || t.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

type memCampaigns struct {
	mu   sync.Mutex
	rows map[uuid.UUID]whatsapp.Campaign
	// conflicts makes the next saves fail as if another writer got there first
	conflicts int
}

func newMemCampaigns() *memCampaigns {
	return &memCampaigns{rows: map[uuid.UUID]whatsapp.Campaign{}}
}

func cloneCampaign(c whatsapp.Campaign) whatsapp.Campaign {
	c.Recipients = append([]whatsapp.Recipient(nil), c.Recipients...)
	c.ClearDomainEvents()
	return c
}

func (r *memCampaigns) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*whatsapp.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok || c.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	c = cloneCampaign(c)
	return &c, nil
}

func (r *memCampaigns) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]whatsapp.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]whatsapp.Campaign, 0)
	for _, c := range r.rows {
		if c.TenantID == tenantID {
			out = append(out, cloneCampaign(c))
		}
	}
	return out, nil
}

func (r *memCampaigns) Save(_ context.Context, c *whatsapp.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflicts > 0 {
		r.conflicts--
		return shared.ErrConcurrencyConflict
	}
	r.rows[c.ID] = cloneCampaign(*c)
	return nil
}

type memWebhooks struct {
	mu     sync.Mutex
	keys   map[string]uuid.UUID
	events map[uuid.UUID]whatsapp.WebhookEvent
}

func newMemWebhooks() *memWebhooks {
	return &memWebhooks{keys: map[string]uuid.UUID{}, events: map[uuid.UUID]whatsapp.WebhookEvent{}}
}

func (r *memWebhooks) Receive(_ context.Context, event *whatsapp.WebhookEvent) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.keys[event.IdempotencyKey]; ok {
		stored := r.events[id]
		event.ID = stored.ID
		event.Processed = stored.Processed
		event.Error = stored.Error
		return stored.Processed, nil
	}
	r.keys[event.IdempotencyKey] = event.ID
	r.events[event.ID] = *event
	return false, nil
}

func (r *memWebhooks) Apply(ctx context.Context, id uuid.UUID, fn func(ctx context.Context) error) (bool, error) {
	r.mu.Lock()
	processed := r.events[id].Processed
	r.mu.Unlock()
	if processed {
		return false, nil
	}
	if err := fn(ctx); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.events[id]
	e.Processed = true
	e.Error = ""
	r.events[id] = e
	return true, nil
}

func (r *memWebhooks) MarkFailed(_ context.Context, id uuid.UUID, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.events[id]
	e.Error = reason
	r.events[id] = e
	return nil
}

func (r *memWebhooks) processedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Processed {
			n++
		}
	}
	return n
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

type recordingQueueMetrics struct {
	mu       sync.Mutex
	resolved []string
	due      []int
}

func (m *recordingQueueMetrics) MessageResolved(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolved = append(m.resolved, status)
}

func (m *recordingQueueMetrics) QueueDue(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.due = append(m.due, n)
}
