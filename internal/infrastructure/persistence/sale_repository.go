package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/inventory"
	"github.com/lats/backend/internal/domain/sales"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/lats/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSaleRepository implements sales.SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// Save writes the sale header under its loaded version and inserts any
// lines and payments not yet stored. Lines and payments never change after
// completion.
func (r *GormSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	model := models.SaleModelFromDomain(sale)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveSale(tx, model)
	})
	if err != nil {
		return translateError(err)
	}
	sale.Version = model.Version
	return nil
}

// Record stores a completed sale and takes its units off product stock in
// the same transaction. A line no longer covered by stock fails the whole
// sale with shared.ErrInsufficientStock and nothing is written.
func (r *GormSaleRepository) Record(ctx context.Context, sale *sales.Sale) error {
	model := models.SaleModelFromDomain(sale)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveSale(tx, model); err != nil {
			return err
		}
		for _, item := range sale.Items {
			if item.ProductID == uuid.Nil {
				continue
			}
			if err := takeProductStock(tx, sale, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return translateError(err)
	}
	sale.Version = model.Version
	return nil
}

func saveSale(tx *gorm.DB, model *models.SaleModel) error {
	if err := saveVersioned(tx, model, &model.AggregateModel); err != nil {
		return err
	}
	if len(model.Items) > 0 {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.Items).Error; err != nil {
			return err
		}
	}
	if len(model.Payments) > 0 {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.Payments).Error; err != nil {
			return err
		}
	}
	return nil
}

func takeProductStock(tx *gorm.DB, sale *sales.Sale, item sales.SaleItem) error {
	result := tx.Model(&models.ProductModel{}).
		Where("tenant_id = ? AND id = ? AND quantity >= ?", sale.TenantID, item.ProductID, item.Quantity).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity - ?", item.Quantity),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrInsufficientStock
	}
	var remaining int
	if err := tx.Model(&models.ProductModel{}).
		Where("tenant_id = ? AND id = ?", sale.TenantID, item.ProductID).
		Pluck("quantity", &remaining).Error; err != nil {
		return err
	}
	movement := inventory.NewStockMovement(sale.TenantID, inventory.ItemTypeProduct, item.ProductID,
		inventory.MovementSale, -item.Quantity, remaining+item.Quantity, remaining, sale.SaleNumber).By(sale.SoldBy)
	return tx.Create(models.StockMovementModelFromDomain(movement)).Error
}

// FindByIDForTenant finds a sale with its lines and payments
func (r *GormSaleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.Sale, error) {
	var model models.SaleModel
	if err := r.withLines(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindBySaleNumber finds a sale by its number
func (r *GormSaleRepository) FindBySaleNumber(ctx context.Context, tenantID uuid.UUID, saleNumber string) (*sales.Sale, error) {
	var model models.SaleModel
	if err := r.withLines(ctx).
		Where("tenant_id = ? AND sale_number = ?", tenantID, saleNumber).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists sales matching the filter
func (r *GormSaleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter sales.SaleFilter) ([]sales.Sale, error) {
	var rows []models.SaleModel
	query := r.applyFilter(r.db.WithContext(ctx).Preload("Payments"), tenantID, filter)
	if err := applyPage(query, filter.Filter, SaleSortFields).Find(&rows).Error; err != nil {
		return nil, err
	}
	return salesToDomain(rows), nil
}

// CountForTenant counts sales matching the filter
func (r *GormSaleRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter sales.SaleFilter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx), tenantID, filter).Count(&count).Error
	return count, err
}

// FindByBusinessDate returns every sale of a business day, oldest first
func (r *GormSaleRepository) FindByBusinessDate(ctx context.Context, tenantID uuid.UUID, businessDate string) ([]sales.Sale, error) {
	var rows []models.SaleModel
	if err := r.withLines(ctx).
		Where("tenant_id = ? AND business_date = ?", tenantID, businessDate).
		Order("sold_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return salesToDomain(rows), nil
}

func (r *GormSaleRepository) withLines(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("product_name ASC") }).
		Preload("Payments")
}

func (r *GormSaleRepository) applyFilter(query *gorm.DB, tenantID uuid.UUID, f sales.SaleFilter) *gorm.DB {
	query = query.Model(&models.SaleModel{}).Where("sales.tenant_id = ?", tenantID)
	if f.From != nil {
		query = query.Where("sales.sold_at >= ?", *f.From)
	}
	if f.To != nil {
		query = query.Where("sales.sold_at <= ?", *f.To)
	}
	if f.BusinessDate != "" {
		query = query.Where("sales.business_date = ?", f.BusinessDate)
	}
	if f.Status != "" {
		query = query.Where("sales.status = ?", f.Status)
	}
	if f.CustomerID != nil {
		query = query.Where("sales.customer_id = ?", *f.CustomerID)
	}
	if f.PaymentMethod != "" {
		// split sales match on any of their payments
		query = query.Where("EXISTS (SELECT 1 FROM sale_payments sp WHERE sp.sale_id = sales.id AND sp.method = ?)", f.PaymentMethod)
	}
	return applySearch(query, f.Search, "sales.sale_number", "sales.customer_name", "sales.customer_phone")
}

func salesToDomain(rows []models.SaleModel) []sales.Sale {
	out := make([]sales.Sale, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// GormReceiptRepository implements sales.ReceiptRepository using GORM
type GormReceiptRepository struct {
	db *gorm.DB
}

// NewGormReceiptRepository creates a new GormReceiptRepository
func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: db}
}

// Save stores the receipt; a second receipt for a sale is ignored
func (r *GormReceiptRepository) Save(ctx context.Context, receipt *sales.Receipt) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "sale_id"}}, DoNothing: true}).
		Create(models.ReceiptModelFromDomain(receipt)).Error
}

// FindBySaleID finds the receipt of a sale
func (r *GormReceiptRepository) FindBySaleID(ctx context.Context, tenantID, saleID uuid.UUID) (*sales.Receipt, error) {
	var model models.ReceiptModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND sale_id = ?", tenantID, saleID).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

var (
	_ sales.SaleRepository    = (*GormSaleRepository)(nil)
	_ sales.ReceiptRepository = (*GormReceiptRepository)(nil)
)
