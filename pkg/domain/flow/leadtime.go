package flow

import (
	"time"

	"github.com/mwaldron/flowlens/pkg/domain/itemtype"
	"github.com/mwaldron/flowlens/pkg/domain/tracker"
	"github.com/mwaldron/flowlens/pkg/domain/workflow"
)

const hoursPerDay = 24

// wholeDays returns the floor of the elapsed time between two instants
// in days. Negative spans stay negative so callers can reject them.
func wholeDays(from, to time.Time) int {
	hours := to.Sub(from).Hours()
	days := int(hours / hoursPerDay)
	if hours < 0 && hours/hoursPerDay != float64(days) {
		days--
	}
	return days
}

// LeadTimeCalculator measures elapsed days from item creation to
// completion.
type LeadTimeCalculator struct {
	states   *workflow.StateRegistry
	types    *itemtype.BehaviorRegistry
	resolver *DateResolver
}

// NewLeadTimeCalculator creates a lead-time calculator.
func NewLeadTimeCalculator(states *workflow.StateRegistry, types *itemtype.BehaviorRegistry, resolver *DateResolver) *LeadTimeCalculator {
	return &LeadTimeCalculator{states: states, types: types, resolver: resolver}
}

// Calculate aggregates lead time over the qualifying items: done-state
// items of an included type whose completion date resolves to a
// non-negative span. Items failing the sanity check or lacking a
// resolvable date are counted as excluded, never raised as errors. An
// empty qualifying set yields a zero-valued record.
func (c *LeadTimeCalculator) Calculate(items []*tracker.WorkItem) DurationStats {
	var days []int
	excluded := 0
	for _, item := range items {
		if !c.types.IncludeInLeadTime(item.Type) {
			continue
		}
		if !c.states.IsDoneState(item.CurrentState) {
			continue
		}
		completed, ok := c.resolver.CompletionDate(item)
		if !ok || item.CreatedDate.IsZero() {
			excluded++
			continue
		}
		d := wholeDays(item.CreatedDate, completed)
		if d < 0 {
			excluded++
			continue
		}
		days = append(days, d)
	}
	return summarize(days, excluded)
}
