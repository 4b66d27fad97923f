package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/lats/backend/internal/domain/whatsapp"
	"github.com/lats/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInstanceRepository implements whatsapp.InstanceRepository using GORM
type GormInstanceRepository struct {
	db *gorm.DB
}

// NewGormInstanceRepository creates a new GormInstanceRepository
func NewGormInstanceRepository(db *gorm.DB) *GormInstanceRepository {
	return &GormInstanceRepository{db: db}
}

// FindByIDForTenant finds an instance by ID within a tenant
func (r *GormInstanceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*whatsapp.Instance, error) {
	var model models.WhatsAppInstanceModel
	if err := conn(ctx, r.db).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByInstanceID finds an instance by its provider id. Webhooks arrive
// without a tenant so this lookup is global.
func (r *GormInstanceRepository) FindByInstanceID(ctx context.Context, instanceID string) (*whatsapp.Instance, error) {
	var model models.WhatsAppInstanceModel
	if err := conn(ctx, r.db).
		Where("instance_id = ?", instanceID).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindDefault returns the tenant's default instance, falling back to the
// oldest one when none is flagged
func (r *GormInstanceRepository) FindDefault(ctx context.Context, tenantID uuid.UUID) (*whatsapp.Instance, error) {
	var model models.WhatsAppInstanceModel
	if err := conn(ctx, r.db).
		Where("tenant_id = ?", tenantID).
		Order("is_default DESC").
		Order("created_at ASC").
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists the tenant's instances
func (r *GormInstanceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]whatsapp.Instance, error) {
	var rows []models.WhatsAppInstanceModel
	if err := conn(ctx, r.db).
		Where("tenant_id = ?", tenantID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]whatsapp.Instance, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Save persists the instance and keeps at most one default per tenant
func (r *GormInstanceRepository) Save(ctx context.Context, inst *whatsapp.Instance) error {
	model := models.WhatsAppInstanceModelFromDomain(inst)
	return translateError(conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if inst.IsDefault {
			if err := tx.Model(&models.WhatsAppInstanceModel{}).
				Where("tenant_id = ? AND id <> ? AND is_default = ?", inst.TenantID, inst.ID, true).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Save(model).Error
	}))
}

// DeleteForTenant deletes an instance
func (r *GormInstanceRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := conn(ctx, r.db).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.WhatsAppInstanceModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormMessageRepository implements whatsapp.MessageRepository using GORM
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository creates a new GormMessageRepository
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

// Save creates or updates a message
func (r *GormMessageRepository) Save(ctx context.Context, msg *whatsapp.Message) error {
	return translateError(conn(ctx, r.db).Save(models.WhatsAppMessageModelFromDomain(msg)).Error)
}

// FindByIDForTenant finds a message by ID within a tenant
func (r *GormMessageRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*whatsapp.Message, error) {
	var model models.WhatsAppMessageModel
	if err := conn(ctx, r.db).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByProviderID finds a message by the provider's idMessage
func (r *GormMessageRepository) FindByProviderID(ctx context.Context, providerID string) (*whatsapp.Message, error) {
	if providerID == "" {
		return nil, shared.ErrNotFound
	}
	var model models.WhatsAppMessageModel
	if err := conn(ctx, r.db).
		Where("provider_message_id = ?", providerID).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindInboundSince returns inbound messages sent at or after since, oldest first
func (r *GormMessageRepository) FindInboundSince(ctx context.Context, tenantID uuid.UUID, since time.Time) ([]whatsapp.Message, error) {
	var rows []models.WhatsAppMessageModel
	if err := conn(ctx, r.db).
		Where("tenant_id = ? AND direction = ? AND sent_at >= ?", tenantID, whatsapp.DirectionInbound, since).
		Order("sent_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return messagesToDomain(rows), nil
}

// FindByChat returns the newest limit messages of a chat in display order
func (r *GormMessageRepository) FindByChat(ctx context.Context, tenantID uuid.UUID, chatID string, limit int) ([]whatsapp.Message, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var rows []models.WhatsAppMessageModel
	if err := conn(ctx, r.db).
		Where("tenant_id = ? AND chat_id = ?", tenantID, chatID).
		Order("sent_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return messagesToDomain(rows), nil
}

// FindAllForTenant lists messages with paging and optional chat/status filters
func (r *GormMessageRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]whatsapp.Message, error) {
	query := conn(ctx, r.db).Model(&models.WhatsAppMessageModel{}).Where("tenant_id = ?", tenantID)
	if v, ok := filter.Filters["chat_id"].(string); ok && v != "" {
		query = query.Where("chat_id = ?", v)
	}
	if v, ok := filter.Filters["status"].(string); ok && v != "" {
		query = query.Where("status = ?", v)
	}
	if v, ok := filter.Filters["direction"].(string); ok && v != "" {
		query = query.Where("direction = ?", v)
	}
	query = applySearch(query, filter.Search, "body", "chat_id", "sender_name")

	var rows []models.WhatsAppMessageModel
	if err := applyPage(query, filter, MessageSortFields).Find(&rows).Error; err != nil {
		return nil, err
	}
	return messagesToDomain(rows), nil
}

// MarkChatRead marks the chat's unread inbound messages as read
func (r *GormMessageRepository) MarkChatRead(ctx context.Context, tenantID uuid.UUID, chatID string, at time.Time) (int64, error) {
	result := conn(ctx, r.db).Model(&models.WhatsAppMessageModel{}).
		Where("tenant_id = ? AND chat_id = ? AND direction = ? AND read_at IS NULL", tenantID, chatID, whatsapp.DirectionInbound).
		Updates(map[string]any{
			"status":     whatsapp.MessageRead,
			"read_at":    at,
			"updated_at": at,
		})
	return result.RowsAffected, result.Error
}

// CountByStatus groups the tenant's messages by delivery status
func (r *GormMessageRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[whatsapp.MessageStatus]int64, error) {
	var rows []struct {
		Status whatsapp.MessageStatus
		Count  int64
	}
	if err := conn(ctx, r.db).Model(&models.WhatsAppMessageModel{}).
		Select("status, COUNT(*) AS count").
		Where("tenant_id = ?", tenantID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[whatsapp.MessageStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

func messagesToDomain(rows []models.WhatsAppMessageModel) []whatsapp.Message {
	out := make([]whatsapp.Message, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// GormQueueRepository implements whatsapp.QueueRepository using GORM
type GormQueueRepository struct {
	db *gorm.DB
}

// NewGormQueueRepository creates a new GormQueueRepository
func NewGormQueueRepository(db *gorm.DB) *GormQueueRepository {
	return &GormQueueRepository{db: db}
}

// Enqueue inserts queue rows
func (r *GormQueueRepository) Enqueue(ctx context.Context, rows ...*whatsapp.QueuedMessage) error {
	if len(rows) == 0 {
		return nil
	}
	batch := make([]*models.WhatsAppQueueModel, len(rows))
	for i, row := range rows {
		batch[i] = models.WhatsAppQueueModelFromDomain(row)
	}
	return translateError(conn(ctx, r.db).CreateInBatches(batch, 100).Error)
}

// ClaimDue locks due rows, skipping those another worker holds, and flips
// them to processing before the transaction commits. A processing row whose
// lease ran out belongs to a run that died and is claimed again.
func (r *GormQueueRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]whatsapp.QueuedMessage, error) {
	if limit <= 0 {
		limit = whatsapp.QueueBatchSize
	}
	var rows []models.WhatsAppQueueModel
	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("(status = ? AND scheduled_at <= ?) OR (status = ? AND updated_at <= ?)",
				whatsapp.QueueQueued, now, whatsapp.QueueProcessing, now.Add(-whatsapp.ClaimLease)).
			Order("priority DESC").
			Order("scheduled_at ASC").
			Limit(limit).
			Find(&rows).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		ids := make([]uuid.UUID, len(rows))
		for i := range rows {
			ids[i] = rows[i].ID
			rows[i].Status = whatsapp.QueueProcessing
			rows[i].UpdatedAt = now
		}
		return tx.Model(&models.WhatsAppQueueModel{}).
			Where("id IN ?", ids).
			Updates(map[string]any{"status": whatsapp.QueueProcessing, "updated_at": now}).Error
	})
	if err != nil {
		return nil, err
	}
	out := make([]whatsapp.QueuedMessage, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Save updates a queue row after a send attempt
func (r *GormQueueRepository) Save(ctx context.Context, row *whatsapp.QueuedMessage) error {
	return translateError(conn(ctx, r.db).Save(models.WhatsAppQueueModelFromDomain(row)).Error)
}

// Release puts claimed rows back to queued. Rows already resolved by a send
// attempt are left alone.
func (r *GormQueueRepository) Release(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return conn(ctx, r.db).Model(&models.WhatsAppQueueModel{}).
		Where("id IN ? AND status = ?", ids, whatsapp.QueueProcessing).
		Updates(map[string]any{"status": whatsapp.QueueQueued, "updated_at": time.Now()}).Error
}

// ResumeByCampaign re-queues paused rows one spacing apart
func (r *GormQueueRepository) ResumeByCampaign(ctx context.Context, campaignID uuid.UUID, from time.Time, spacing time.Duration) (int64, error) {
	var resumed int64
	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var ids []uuid.UUID
		if err := tx.Model(&models.WhatsAppQueueModel{}).
			Where("campaign_id = ? AND status = ?", campaignID, whatsapp.QueuePaused).
			Order("scheduled_at ASC").
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		now := time.Now()
		for i, id := range ids {
			result := tx.Model(&models.WhatsAppQueueModel{}).
				Where("id = ? AND status = ?", id, whatsapp.QueuePaused).
				Updates(map[string]any{
					"status":       whatsapp.QueueQueued,
					"scheduled_at": from.Add(time.Duration(i) * spacing),
					"updated_at":   now,
				})
			if result.Error != nil {
				return result.Error
			}
			resumed += result.RowsAffected
		}
		return nil
	})
	return resumed, err
}

// PauseByCampaign pauses the campaign's rows that have not been picked up
func (r *GormQueueRepository) PauseByCampaign(ctx context.Context, campaignID uuid.UUID) (int64, error) {
	result := conn(ctx, r.db).Model(&models.WhatsAppQueueModel{}).
		Where("campaign_id = ? AND status = ?", campaignID, whatsapp.QueueQueued).
		Updates(map[string]any{"status": whatsapp.QueuePaused, "updated_at": time.Now()})
	return result.RowsAffected, result.Error
}

// CountPending counts queued and in-flight rows
func (r *GormQueueRepository) CountPending(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.WhatsAppQueueModel{}).
		Where("tenant_id = ? AND status IN ?", tenantID, []whatsapp.QueueStatus{whatsapp.QueueQueued, whatsapp.QueueProcessing}).
		Count(&count).Error
	return count, err
}

// GormTemplateRepository implements whatsapp.TemplateRepository using GORM
type GormTemplateRepository struct {
	db *gorm.DB
}

// NewGormTemplateRepository creates a new GormTemplateRepository
func NewGormTemplateRepository(db *gorm.DB) *GormTemplateRepository {
	return &GormTemplateRepository{db: db}
}

// FindByIDForTenant finds a template by ID within a tenant
func (r *GormTemplateRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*whatsapp.Template, error) {
	var model models.WhatsAppTemplateModel
	if err := conn(ctx, r.db).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByName finds a template by its unique name
func (r *GormTemplateRepository) FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*whatsapp.Template, error) {
	var model models.WhatsAppTemplateModel
	if err := conn(ctx, r.db).
		Where("tenant_id = ? AND name = ?", tenantID, name).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists templates by name, optionally within a category
func (r *GormTemplateRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, category string) ([]whatsapp.Template, error) {
	query := conn(ctx, r.db).Where("tenant_id = ?", tenantID)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	var rows []models.WhatsAppTemplateModel
	if err := query.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]whatsapp.Template, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Save creates or updates a template
func (r *GormTemplateRepository) Save(ctx context.Context, tpl *whatsapp.Template) error {
	return translateError(conn(ctx, r.db).Save(models.WhatsAppTemplateModelFromDomain(tpl)).Error)
}

// DeleteForTenant deletes a template
func (r *GormTemplateRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := conn(ctx, r.db).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.WhatsAppTemplateModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormCampaignRepository implements whatsapp.CampaignRepository using GORM
type GormCampaignRepository struct {
	db *gorm.DB
}

// NewGormCampaignRepository creates a new GormCampaignRepository
func NewGormCampaignRepository(db *gorm.DB) *GormCampaignRepository {
	return &GormCampaignRepository{db: db}
}

// FindByIDForTenant loads a campaign with its recipients
func (r *GormCampaignRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*whatsapp.Campaign, error) {
	var model models.WhatsAppCampaignModel
	if err := conn(ctx, r.db).
		Preload("Recipients", func(db *gorm.DB) *gorm.DB { return db.Order("phone ASC") }).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists campaigns without recipients
func (r *GormCampaignRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]whatsapp.Campaign, error) {
	query := conn(ctx, r.db).Model(&models.WhatsAppCampaignModel{}).Where("tenant_id = ?", tenantID)
	if v, ok := filter.Filters["status"].(string); ok && v != "" {
		query = query.Where("status = ?", v)
	}
	query = applySearch(query, filter.Search, "name")

	var rows []models.WhatsAppCampaignModel
	if err := applyPage(query, filter, CampaignSortFields).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]whatsapp.Campaign, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Save writes the campaign under its loaded version and upserts its
// recipients in one transaction
func (r *GormCampaignRepository) Save(ctx context.Context, c *whatsapp.Campaign) error {
	model := models.WhatsAppCampaignModelFromDomain(c)
	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := saveVersioned(tx, model, &model.AggregateModel); err != nil {
			return err
		}
		if len(model.Recipients) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "message_id", "error"}),
		}).Create(&model.Recipients).Error
	})
	if err != nil {
		return translateError(err)
	}
	c.Version = model.Version
	return nil
}

// GormWebhookEventRepository implements whatsapp.WebhookEventRepository using GORM
type GormWebhookEventRepository struct {
	db *gorm.DB
}

// NewGormWebhookEventRepository creates a new GormWebhookEventRepository
func NewGormWebhookEventRepository(db *gorm.DB) *GormWebhookEventRepository {
	return &GormWebhookEventRepository{db: db}
}

// Receive inserts the event. When its idempotency key is already stored,
// event is pointed at the stored row and its processed flag is returned.
func (r *GormWebhookEventRepository) Receive(ctx context.Context, event *whatsapp.WebhookEvent) (bool, error) {
	result := conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "idempotency_key"}},
			DoNothing: true,
		}).
		Create(models.GreenAPIWebhookEventModelFromDomain(event))
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return false, nil
	}
	var stored models.GreenAPIWebhookEventModel
	if err := conn(ctx, r.db).
		Where("idempotency_key = ?", event.IdempotencyKey).
		First(&stored).Error; err != nil {
		return false, translateError(err)
	}
	event.ID = stored.ID
	event.Processed = stored.Processed
	event.Error = stored.Error
	return stored.Processed, nil
}

// Apply locks the event row, runs fn with a context that carries the
// transaction and flags the event processed before commit. A failing fn
// rolls everything back. It reports false, without calling fn, when the
// event was processed already.
func (r *GormWebhookEventRepository) Apply(ctx context.Context, id uuid.UUID, fn func(ctx context.Context) error) (bool, error) {
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.GreenAPIWebhookEventModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&model).Error; err != nil {
			return translateError(err)
		}
		if model.Processed {
			return nil
		}
		if err := fn(withTx(ctx, tx)); err != nil {
			return err
		}
		applied = true
		return tx.Model(&model).Updates(map[string]any{"processed": true, "error": ""}).Error
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

// MarkFailed records why the event could not be applied. It stays
// unprocessed so a redelivery applies it again.
func (r *GormWebhookEventRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	return conn(ctx, r.db).Model(&models.GreenAPIWebhookEventModel{}).
		Where("id = ? AND processed = ?", id, false).
		Update("error", reason).Error
}

var (
	_ whatsapp.InstanceRepository     = (*GormInstanceRepository)(nil)
	_ whatsapp.MessageRepository      = (*GormMessageRepository)(nil)
	_ whatsapp.QueueRepository        = (*GormQueueRepository)(nil)
	_ whatsapp.TemplateRepository     = (*GormTemplateRepository)(nil)
	_ whatsapp.CampaignRepository     = (*GormCampaignRepository)(nil)
	_ whatsapp.WebhookEventRepository = (*GormWebhookEventRepository)(nil)
)
