package flow

import (
	"time"
)

// DurationStats is the shared shape of the lead-time and cycle-time
// records: day counts aggregated over the qualifying items.
type DurationStats struct {
	AverageDays  float64 `json:"average_days"`
	MedianDays   int     `json:"median_days"`
	MinDays      int     `json:"min_days"`
	MaxDays      int     `json:"max_days"`
	Count        int     `json:"count"`
	Percentile85 int     `json:"percentile_85"`
	Percentile95 int     `json:"percentile_95"`

	// Excluded counts items that were candidates but could not be
	// measured (unresolved milestone or negative duration), so report
	// assemblers can surface data quality.
	Excluded int `json:"excluded,omitempty"`
}

// ThroughputStats is the completed-item rate over a trailing window,
// linearly projected to day, week, month and the configured period.
type ThroughputStats struct {
	ItemsPerPeriod     float64 `json:"items_per_period"`
	PeriodDays         int     `json:"period_days"`
	ItemsPerDay        float64 `json:"items_per_day"`
	ItemsPerWeek       float64 `json:"items_per_week"`
	ItemsPerMonth      float64 `json:"items_per_month"`
	TotalCompleted     int     `json:"total_completed"`
	AnalysisPeriodDays int     `json:"analysis_period_days"`
}

// WIPStats is a point-in-time count of items in active-category states.
type WIPStats struct {
	Total int `json:"total"`
}

// Report is the full flow-metrics report handed to the assembler.
type Report struct {
	ID             string          `json:"id"`
	GeneratedAt    time.Time       `json:"generated_at"`
	LeadTime       DurationStats   `json:"lead_time"`
	CycleTime      DurationStats   `json:"cycle_time"`
	Throughput     ThroughputStats `json:"throughput"`
	WorkInProgress WIPStats        `json:"work_in_progress"`
}
