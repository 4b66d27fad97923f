package backup

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/shared"
)

// Frequency is how often automatic backups run
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// IsValid checks the frequency
func (f Frequency) IsValid() bool {
	return f == FrequencyDaily || f == FrequencyWeekly || f == FrequencyMonthly
}

// Settings configure automatic backups for a shop
type Settings struct {
	TenantID          uuid.UUID `json:"-"`
	Enabled           bool      `json:"enabled"`
	Frequency         Frequency `json:"frequency"`
	Time              string    `json:"time"`
	IncludeCloud      bool      `json:"include_cloud"`
	MaxBackups        int       `json:"max_backups"`
	AutoCleanup       bool      `json:"auto_cleanup"`
	NotifyOnSuccess   bool      `json:"notify_on_success"`
	NotifyOnFailure   bool      `json:"notify_on_failure"`
	LastAutomaticDate string    `json:"last_automatic_date,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// DefaultSettings returns the settings used until a shop saves its own
func DefaultSettings(tenantID uuid.UUID) Settings {
	return Settings{
		TenantID:        tenantID,
		Enabled:         false,
		Frequency:       FrequencyDaily,
		Time:            "02:00",
		IncludeCloud:    true,
		MaxBackups:      30,
		AutoCleanup:     true,
		NotifyOnSuccess: false,
		NotifyOnFailure: true,
	}
}

// Validate checks the settings
func (s Settings) Validate() error {
	if !s.Frequency.IsValid() {
		return shared.NewDomainError("INVALID_SETTINGS", "Frequency must be daily, weekly or monthly")
	}
	if _, err := time.Parse("15:04", s.Time); err != nil {
		return shared.NewDomainError("INVALID_SETTINGS", "Time must be HH:MM")
	}
	if s.MaxBackups < 1 || s.MaxBackups > 365 {
		return shared.NewDomainError("INVALID_SETTINGS", "Max backups must be between 1 and 365")
	}
	return nil
}

// IsDue reports whether an automatic backup should run at now (already in
// the shop's timezone). Weekly backups run on Sundays and monthly backups
// on the first of the month. A day that already ran is never due again.
func (s Settings) IsDue(now time.Time) bool {
	if !s.Enabled {
		return false
	}
	today := now.Format("2006-01-02")
	if s.LastAutomaticDate == today {
		return false
	}
	at, err := time.Parse("15:04", s.Time)
	if err != nil {
		return false
	}
	if now.Hour()*60+now.Minute() < at.Hour()*60+at.Minute() {
		return false
	}
	switch s.Frequency {
	case FrequencyWeekly:
		return now.Weekday() == time.Sunday
	case FrequencyMonthly:
		return now.Day() == 1
	}
	return true
}

// String is used in logs
func (s Settings) String() string {
	return fmt.Sprintf("%s@%s enabled=%t", s.Frequency, s.Time, s.Enabled)
}
