package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/closing"
	"github.com/shopspring/decimal"
)

// DailyClosureModel is one closed business day. The unique index on
// (tenant_id, closure_date) enforces a single closure per day.
type DailyClosureModel struct {
	TenantAggregateModel
	ClosureDate       string          `gorm:"type:varchar(10);not null;uniqueIndex:idx_daily_closures_tenant_date,priority:2"`
	TotalSales        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalTransactions int             `gorm:"not null;default:0"`
	MethodTotals      []byte          `gorm:"type:jsonb"`
	SalesData         []byte          `gorm:"type:jsonb"`
	ClosedAt          time.Time       `gorm:"not null"`
	ClosedBy          string          `gorm:"type:varchar(30);not null"`
	ClosedByUserID    uuid.UUID       `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (DailyClosureModel) TableName() string {
	return "daily_sales_closures"
}

// ToDomain converts the persistence model to a domain DailyClosure
func (m *DailyClosureModel) ToDomain() (*closing.DailyClosure, error) {
	c := &closing.DailyClosure{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Date:                m.ClosureDate,
		TotalSales:          m.TotalSales,
		TotalTransactions:   m.TotalTransactions,
		SalesData:           json.RawMessage(m.SalesData),
		ClosedAt:            m.ClosedAt,
		ClosedBy:            m.ClosedBy,
		ClosedByUserID:      m.ClosedByUserID,
	}
	if len(m.MethodTotals) > 0 {
		if err := json.Unmarshal(m.MethodTotals, &c.MethodTotals); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// DailyClosureModelFromDomain creates a persistence model from a domain DailyClosure
func DailyClosureModelFromDomain(c *closing.DailyClosure) (*DailyClosureModel, error) {
	totals, err := json.Marshal(c.MethodTotals)
	if err != nil {
		return nil, err
	}
	m := &DailyClosureModel{
		ClosureDate:       c.Date,
		TotalSales:        c.TotalSales,
		TotalTransactions: c.TotalTransactions,
		MethodTotals:      totals,
		SalesData:         []byte(c.SalesData),
		ClosedAt:          c.ClosedAt,
		ClosedBy:          c.ClosedBy,
		ClosedByUserID:    c.ClosedByUserID,
	}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	return m, nil
}

// ClosingSettingsModel stores the per-shop closing passcode hash
type ClosingSettingsModel struct {
	TenantID     uuid.UUID  `gorm:"type:uuid;primary_key"`
	PasscodeHash string     `gorm:"type:varchar(255);not null"`
	UpdatedBy    *uuid.UUID `gorm:"type:uuid"`
	UpdatedAt    time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ClosingSettingsModel) TableName() string {
	return "closing_settings"
}

// ToDomain converts the persistence model to domain PasscodeSettings
func (m *ClosingSettingsModel) ToDomain() *closing.PasscodeSettings {
	return &closing.PasscodeSettings{
		TenantID:     m.TenantID,
		PasscodeHash: m.PasscodeHash,
		UpdatedBy:    m.UpdatedBy,
		UpdatedAt:    m.UpdatedAt,
	}
}

// ClosingSettingsModelFromDomain creates a persistence model from PasscodeSettings
func ClosingSettingsModelFromDomain(p *closing.PasscodeSettings) *ClosingSettingsModel {
	return &ClosingSettingsModel{
		TenantID:     p.TenantID,
		PasscodeHash: p.PasscodeHash,
		UpdatedBy:    p.UpdatedBy,
		UpdatedAt:    p.UpdatedAt,
	}
}
