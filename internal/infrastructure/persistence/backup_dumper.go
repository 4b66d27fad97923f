package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/backup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SnapshotTables are the tenant tables written into a backup, parents
// before children so a restore satisfies foreign keys. Staff accounts,
// the closing passcode and transient queue rows are left out.
var SnapshotTables = []string{
	"customers",
	"products",
	"spare_parts",
	"stock_movements",
	"spare_part_usage",
	"sales",
	"sale_items",
	"sale_payments",
	"receipts",
	"daily_sales_closures",
	"repair_parts",
	"whatsapp_instances",
	"whatsapp_templates",
	"whatsapp_messages",
	"whatsapp_campaigns",
	"whatsapp_campaign_recipients",
}

var columnPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// GormDumper implements backup.Dumper with generic row maps
type GormDumper struct {
	db     *gorm.DB
	tables []string
	known  map[string]struct{}
}

// NewGormDumper creates a dumper over SnapshotTables
func NewGormDumper(db *gorm.DB) *GormDumper {
	known := make(map[string]struct{}, len(SnapshotTables))
	for _, t := range SnapshotTables {
		known[t] = struct{}{}
	}
	return &GormDumper{db: db, tables: SnapshotTables, known: known}
}

// Tables lists the tables included in a snapshot
func (d *GormDumper) Tables() []string {
	out := make([]string, len(d.tables))
	copy(out, d.tables)
	return out
}

// Dump reads every row of table that belongs to the tenant
func (d *GormDumper) Dump(ctx context.Context, tenantID uuid.UUID, table string) ([]map[string]any, error) {
	if _, ok := d.known[table]; !ok {
		return nil, fmt.Errorf("table %q is not part of a snapshot", table)
	}
	var rows []map[string]any
	if err := d.db.WithContext(ctx).
		Table(table).
		Where("tenant_id = ?", tenantID).
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("dump %s: %w", table, err)
	}
	for _, row := range rows {
		for k, v := range row {
			row[k] = dumpValue(v)
		}
	}
	return rows, nil
}

// ErrForeignRow is returned when a snapshot row's id is already taken by a
// row of another shop
var ErrForeignRow = errors.New("row id belongs to another shop")

// Restore upserts the rows in one transaction. Every row is forced onto
// tenantID, and an existing row is only overwritten when it belongs to
// tenantID; a clash with another shop's row aborts the whole restore.
func (d *GormDumper) Restore(ctx context.Context, tenantID uuid.UUID, tables map[string][]map[string]any) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range d.tables {
			rows, ok := tables[table]
			if !ok {
				continue
			}
			ownRow := clause.Where{Exprs: []clause.Expression{
				clause.Eq{Column: clause.Column{Table: table, Name: "tenant_id"}, Value: tenantID.String()},
			}}
			for i, row := range rows {
				values, cols, err := restoreRow(tenantID, row)
				if err != nil {
					return fmt.Errorf("restore %s row %d: %w", table, i, err)
				}
				result := tx.Table(table).
					Clauses(clause.OnConflict{
						Columns:   []clause.Column{{Name: "id"}},
						DoUpdates: clause.AssignmentColumns(cols),
						Where:     ownRow,
					}).
					Create(values)
				if result.Error != nil {
					return fmt.Errorf("restore %s row %d: %w", table, i, result.Error)
				}
				if result.RowsAffected == 0 {
					return fmt.Errorf("restore %s row %d (id %v): %w", table, i, values["id"], ErrForeignRow)
				}
			}
		}
		return nil
	})
}

// Ping checks database connectivity
func (d *GormDumper) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func dumpValue(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case [16]byte:
		return uuid.UUID(t).String()
	default:
		return v
	}
}

// restoreRow turns a decoded JSON row back into column values. Whole
// numbers decode as float64 and go back as integers; objects and arrays
// were jsonb columns and go back as their JSON text.
func restoreRow(tenantID uuid.UUID, row map[string]any) (map[string]any, []string, error) {
	if _, ok := row["id"]; !ok {
		return nil, nil, fmt.Errorf("row has no id")
	}
	values := make(map[string]any, len(row)+1)
	for k, v := range row {
		if !columnPattern.MatchString(k) {
			return nil, nil, fmt.Errorf("invalid column %q", k)
		}
		switch t := v.(type) {
		case float64:
			if t == math.Trunc(t) && math.Abs(t) < 1<<53 {
				values[k] = int64(t)
			} else {
				values[k] = t
			}
		case map[string]any, []any:
			b, err := json.Marshal(t)
			if err != nil {
				return nil, nil, err
			}
			values[k] = string(b)
		default:
			values[k] = v
		}
	}
	values["tenant_id"] = tenantID.String()

	cols := make([]string, 0, len(values))
	for k := range values {
		if k != "id" && k != "tenant_id" {
			cols = append(cols, k)
		}
	}
	sort.Strings(cols)
	return values, cols, nil
}

var _ backup.Dumper = (*GormDumper)(nil)
