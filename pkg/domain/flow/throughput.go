package flow

import (
	"time"

	"github.com/mwaldron/flowlens/pkg/domain/itemtype"
	"github.com/mwaldron/flowlens/pkg/domain/tracker"
	"github.com/mwaldron/flowlens/pkg/domain/workflow"
)

// DefaultPeriodDays is the trailing throughput window used when the
// configuration does not set one.
const DefaultPeriodDays = 30

const (
	daysPerWeek  = 7
	daysPerMonth = 30
)

// ThroughputCalculator measures the completed-item rate over a trailing
// window and linearly projects it to day, week, month and period rates.
// This is a linear-rate projection, not a rolling average.
type ThroughputCalculator struct {
	states   *workflow.StateRegistry
	types    *itemtype.BehaviorRegistry
	resolver *DateResolver
}

// NewThroughputCalculator creates a throughput calculator.
func NewThroughputCalculator(states *workflow.StateRegistry, types *itemtype.BehaviorRegistry, resolver *DateResolver) *ThroughputCalculator {
	return &ThroughputCalculator{states: states, types: types, resolver: resolver}
}

// Calculate counts done-state items of included types whose completion
// date resolves within the trailing window ending at now. When every
// qualifying completion falls on the same instant span the analysis
// period is zero and the raw count is reported without rate projection.
func (c *ThroughputCalculator) Calculate(items []*tracker.WorkItem, periodDays int, now time.Time) ThroughputStats {
	if periodDays <= 0 {
		periodDays = DefaultPeriodDays
	}
	windowStart := now.AddDate(0, 0, -periodDays)

	var earliest, latest time.Time
	count := 0
	for _, item := range items {
		if !c.types.IncludeInThroughput(item.Type) {
			continue
		}
		if !c.states.IsDoneState(item.CurrentState) {
			continue
		}
		completed, ok := c.resolver.CompletionDate(item)
		if !ok {
			continue
		}
		if completed.Before(windowStart) || completed.After(now) {
			continue
		}
		if count == 0 || completed.Before(earliest) {
			earliest = completed
		}
		if count == 0 || completed.After(latest) {
			latest = completed
		}
		count++
	}

	stats := ThroughputStats{PeriodDays: periodDays, TotalCompleted: count}
	if count == 0 {
		return stats
	}

	span := wholeDays(earliest, latest)
	if span == 0 {
		// All completions on the same day: report the raw count, no
		// rate division.
		stats.ItemsPerPeriod = float64(count)
		return stats
	}

	perDay := float64(count) / float64(span)
	stats.AnalysisPeriodDays = span
	stats.ItemsPerDay = round2(perDay)
	stats.ItemsPerWeek = round2(perDay * daysPerWeek)
	stats.ItemsPerMonth = round2(perDay * daysPerMonth)
	stats.ItemsPerPeriod = round2(perDay * float64(periodDays))
	return stats
}
