package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/inventory"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T, tenantID uuid.UUID, sku string, qty int) *inventory.Product {
	t.Helper()
	p, err := inventory.NewProduct(tenantID, "Charger "+sku, sku, decimal.NewFromInt(5000), decimal.NewFromInt(8000), qty)
	require.NoError(t, err)
	return p
}

func TestGormProductRepository_ApplyMovement(t *testing.T) {
	repo := NewGormProductRepository(newSQLiteDB(t))
	movements := NewGormStockMovementRepository(repo.db)
	ctx := context.Background()
	tenantID := uuid.New()

	p := newTestProduct(t, tenantID, "CHG-01", 10)
	require.NoError(t, repo.Save(ctx, p))

	// two cashiers load the same product
	first, err := repo.FindByIDForTenant(ctx, tenantID, p.ID)
	require.NoError(t, err)
	second, err := repo.FindByIDForTenant(ctx, tenantID, p.ID)
	require.NoError(t, err)

	mv, err := first.Decrease(3, inventory.MovementSale, "SALE-1")
	require.NoError(t, err)
	require.NoError(t, repo.ApplyMovement(ctx, first, mv))

	stale, err := second.Decrease(2, inventory.MovementSale, "SALE-2")
	require.NoError(t, err)
	assert.ErrorIs(t, repo.ApplyMovement(ctx, second, stale), shared.ErrConcurrencyConflict)

	current, err := repo.FindByIDForTenant(ctx, tenantID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, current.Quantity)

	history, err := movements.FindByItem(ctx, tenantID, inventory.ItemTypeProduct, p.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, -3, history[0].Quantity)
	assert.Equal(t, 10, history[0].PreviousQuantity)
	assert.Equal(t, 7, history[0].NewQuantity)
}

func TestGormProductRepository_ApplyMovement_Conflict(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormProductRepository(db)

	tenantID := uuid.New()
	p := newTestProduct(t, tenantID, "CHG-01", 5)
	mv, err := p.Decrease(1, inventory.MovementSale, "SALE-1")
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "products" SET .* WHERE tenant_id = \$\d+ AND id = \$\d+ AND quantity = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	assert.ErrorIs(t, repo.ApplyMovement(context.Background(), p, mv), shared.ErrConcurrencyConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormProductRepository_SKUUniqueAndExists(t *testing.T) {
	repo := NewGormProductRepository(newSQLiteDB(t))
	ctx := context.Background()
	tenantID := uuid.New()

	require.NoError(t, repo.Save(ctx, newTestProduct(t, tenantID, "CHG-01", 1)))
	assert.ErrorIs(t, repo.Save(ctx, newTestProduct(t, tenantID, "CHG-01", 1)), shared.ErrAlreadyExists)

	exists, err := repo.ExistsBySKU(ctx, tenantID, "CHG-01")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGormProductRepository_FindByIDs(t *testing.T) {
	repo := NewGormProductRepository(newSQLiteDB(t))
	ctx := context.Background()
	tenantID := uuid.New()

	a := newTestProduct(t, tenantID, "A", 1)
	b := newTestProduct(t, tenantID, "B", 1)
	require.NoError(t, repo.Save(ctx, a))
	require.NoError(t, repo.Save(ctx, b))

	found, err := repo.FindByIDs(ctx, tenantID, []uuid.UUID{a.ID, b.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	none, err := repo.FindByIDs(ctx, tenantID, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGormSparePartRepository_FindLowStock(t *testing.T) {
	repo := NewGormSparePartRepository(newSQLiteDB(t))
	ctx := context.Background()
	tenantID := uuid.New()

	low, err := inventory.NewSparePart(tenantID, "Battery", "BAT-1", decimal.NewFromInt(10), decimal.NewFromInt(20), 2, 2)
	require.NoError(t, err)
	ok, err := inventory.NewSparePart(tenantID, "Screen", "SCR-1", decimal.NewFromInt(10), decimal.NewFromInt(20), 9, 2)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, low))
	require.NoError(t, repo.Save(ctx, ok))

	parts, err := repo.FindLowStock(ctx, tenantID)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, low.ID, parts[0].ID)

	adj, err := ok.Adjust(-8, "stock count")
	require.NoError(t, err)
	require.NoError(t, repo.ApplyMovement(ctx, ok, adj))

	parts, err = repo.FindLowStock(ctx, tenantID)
	require.NoError(t, err)
	assert.Len(t, parts, 2)
}
