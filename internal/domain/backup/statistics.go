package backup

import (
	"math"
	"sort"
	"time"
)

// SystemStatus is the health shown on the backup dashboard
type SystemStatus string

const (
	SystemHealthy SystemStatus = "healthy"
	SystemWarning SystemStatus = "warning"
	SystemError   SystemStatus = "error"
)

// Overview is the backup dashboard header
type Overview struct {
	LastBackup   *Record      `json:"last_backup"`
	TotalBackups int          `json:"total_backups"`
	TotalSize    int64        `json:"total_size"`
	SystemStatus SystemStatus `json:"system_status"`
	Settings     Settings     `json:"settings"`
}

// BuildOverview derives the dashboard header. The system is in error when
// the latest run failed and in warning when no successful run is younger
// than maxAge.
func BuildOverview(records []Record, settings Settings, now time.Time, maxAge time.Duration) Overview {
	ov := Overview{Settings: settings, SystemStatus: SystemHealthy}
	sorted := newestFirst(records)
	ov.TotalBackups = len(sorted)
	var lastSuccess *Record
	for i := range sorted {
		ov.TotalSize += sorted[i].SizeBytes
		if lastSuccess == nil && sorted[i].Status == StatusSuccess {
			lastSuccess = &sorted[i]
		}
	}
	if len(sorted) > 0 {
		ov.LastBackup = &sorted[0]
		if sorted[0].Status == StatusFailed {
			ov.SystemStatus = SystemError
			return ov
		}
	}
	if lastSuccess == nil || now.Sub(lastSuccess.StartedAt) > maxAge {
		ov.SystemStatus = SystemWarning
	}
	return ov
}

// Statistics aggregates the backup history
type Statistics struct {
	Total       int            `json:"total"`
	ByType      map[Type]int   `json:"by_type"`
	ByStatus    map[Status]int `json:"by_status"`
	TotalSize   int64          `json:"total_size"`
	AverageSize int64          `json:"average_size"`
	SuccessRate float64        `json:"success_rate"`
	Oldest      *time.Time     `json:"oldest,omitempty"`
	Newest      *time.Time     `json:"newest,omitempty"`
}

// ComputeStatistics aggregates records
func ComputeStatistics(records []Record) Statistics {
	st := Statistics{
		ByType:   map[Type]int{TypeManual: 0, TypeAutomatic: 0},
		ByStatus: map[Status]int{StatusRunning: 0, StatusSuccess: 0, StatusFailed: 0},
	}
	for i := range records {
		r := &records[i]
		st.Total++
		st.ByType[r.Type]++
		st.ByStatus[r.Status]++
		st.TotalSize += r.SizeBytes
		started := r.StartedAt
		if st.Oldest == nil || started.Before(*st.Oldest) {
			st.Oldest = &started
		}
		if st.Newest == nil || started.After(*st.Newest) {
			st.Newest = &started
		}
	}
	if st.Total > 0 {
		st.AverageSize = st.TotalSize / int64(st.Total)
		rate := float64(st.ByStatus[StatusSuccess]) / float64(st.Total) * 100
		st.SuccessRate = math.Round(rate*100) / 100
	}
	return st
}

// SelectForCleanup returns the successful records beyond the newest keep
func SelectForCleanup(records []Record, keep int) []Record {
	if keep < 0 {
		keep = 0
	}
	sorted := newestFirst(records)
	out := make([]Record, 0)
	kept := 0
	for _, r := range sorted {
		if r.Status == StatusRunning {
			continue
		}
		if kept < keep {
			kept++
			continue
		}
		out = append(out, r)
	}
	return out
}

func newestFirst(records []Record) []Record {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartedAt.After(sorted[j].StartedAt)
	})
	return sorted
}
