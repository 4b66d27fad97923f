package persistence

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/customer"
	"github.com/lats/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormDumper_DumpAndRestore(t *testing.T) {
	db := newSQLiteDB(t)
	dumper := NewGormDumper(db)
	customers := NewGormCustomerRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	c, err := customer.NewCustomer(tenantID, "Amina Said", "255712345678", "amina@example.com")
	require.NoError(t, err)
	require.NoError(t, customers.Save(ctx, c))
	other, err := customer.NewCustomer(uuid.New(), "Juma", "255700000000", "")
	require.NoError(t, err)
	require.NoError(t, customers.Save(ctx, other))

	rows, err := dumper.Dump(ctx, tenantID, "customers")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// through JSON, the way a snapshot file carries it
	raw, err := json.Marshal(map[string][]map[string]any{"customers": rows})
	require.NoError(t, err)
	var decoded map[string][]map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	require.NoError(t, db.Where("id = ?", c.ID).Delete(&models.CustomerModel{}).Error)
	_, err = customers.FindByIDForTenant(ctx, tenantID, c.ID)
	require.Error(t, err)

	require.NoError(t, dumper.Restore(ctx, tenantID, decoded))

	restored, err := customers.FindByIDForTenant(ctx, tenantID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Amina Said", restored.Name)
	assert.Equal(t, "255712345678", restored.Phone)

	t.Run("restoring twice upserts", func(t *testing.T) {
		require.NoError(t, dumper.Restore(ctx, tenantID, decoded))
		var count int64
		require.NoError(t, db.Model(&models.CustomerModel{}).Where("tenant_id = ?", tenantID).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})
}

func TestGormDumper_RestoreRefusesAnotherShopsRow(t *testing.T) {
	db := newSQLiteDB(t)
	dumper := NewGormDumper(db)
	customers := NewGormCustomerRepository(db)
	ctx := context.Background()
	victim := uuid.New()
	attacker := uuid.New()

	c, err := customer.NewCustomer(victim, "Amina Said", "255712345678", "")
	require.NoError(t, err)
	require.NoError(t, customers.Save(ctx, c))
	mine, err := customer.NewCustomer(attacker, "Juma", "255700000000", "")
	require.NoError(t, err)
	require.NoError(t, customers.Save(ctx, mine))

	rows, err := dumper.Dump(ctx, victim, "customers")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	rows[0]["name"] = "Overwritten"
	mineRows, err := dumper.Dump(ctx, attacker, "customers")
	require.NoError(t, err)
	mineRows[0]["name"] = "Juma Restored"

	raw, err := json.Marshal(map[string][]map[string]any{"customers": append(mineRows, rows...)})
	require.NoError(t, err)
	var snapshot map[string][]map[string]any
	require.NoError(t, json.Unmarshal(raw, &snapshot))

	err = dumper.Restore(ctx, attacker, snapshot)
	require.ErrorIs(t, err, ErrForeignRow)

	kept, err := customers.FindByIDForTenant(ctx, victim, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Amina Said", kept.Name)

	// the whole restore rolled back
	own, err := customers.FindByIDForTenant(ctx, attacker, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, "Juma", own.Name)
}

func TestGormDumper_UnknownTable(t *testing.T) {
	dumper := NewGormDumper(newSQLiteDB(t))

	_, err := dumper.Dump(context.Background(), uuid.New(), "users")
	assert.Error(t, err)
}

func TestGormDumper_TablesIsACopy(t *testing.T) {
	dumper := NewGormDumper(newSQLiteDB(t))
	tables := dumper.Tables()
	tables[0] = "users"
	assert.Equal(t, "customers", dumper.Tables()[0])
}

func TestRestoreRow(t *testing.T) {
	tenantID := uuid.New()

	t.Run("normalizes decoded JSON values", func(t *testing.T) {
		values, cols, err := restoreRow(tenantID, map[string]any{
			"id":            "a",
			"tenant_id":     uuid.New().String(),
			"quantity":      float64(3),
			"total_amount":  12.5,
			"method_totals": []any{map[string]any{"method": "cash"}},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), values["quantity"])
		assert.Equal(t, 12.5, values["total_amount"])
		assert.JSONEq(t, `[{"method":"cash"}]`, values["method_totals"].(string))
		assert.Equal(t, tenantID.String(), values["tenant_id"])
		assert.Equal(t, []string{"method_totals", "quantity", "total_amount"}, cols)
	})

	t.Run("rejects rows without id", func(t *testing.T) {
		_, _, err := restoreRow(tenantID, map[string]any{"name": "x"})
		assert.Error(t, err)
	})

	t.Run("rejects unsafe column names", func(t *testing.T) {
		_, _, err := restoreRow(tenantID, map[string]any{"id": "a", `name"; DROP TABLE sales; --`: "x"})
		assert.Error(t, err)
	})
}
