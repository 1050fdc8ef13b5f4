package flow

import (
	"github.com/mwaldron/flowlens/pkg/domain/itemtype"
	"github.com/mwaldron/flowlens/pkg/domain/tracker"
	"github.com/mwaldron/flowlens/pkg/domain/workflow"
)

// CycleTimeCalculator measures elapsed days from the first active-work
// state to completion. The active-start date may be the resolver's
// creation-date estimate when the history never shows an active state.
type CycleTimeCalculator struct {
	states   *workflow.StateRegistry
	types    *itemtype.BehaviorRegistry
	resolver *DateResolver
}

// NewCycleTimeCalculator creates a cycle-time calculator.
func NewCycleTimeCalculator(states *workflow.StateRegistry, types *itemtype.BehaviorRegistry, resolver *DateResolver) *CycleTimeCalculator {
	return &CycleTimeCalculator{states: states, types: types, resolver: resolver}
}

// Calculate aggregates cycle time over done-state items of included
// types for which both the active-start and completion dates resolve.
// Negative spans are excluded with the same sanity rule as lead time.
func (c *CycleTimeCalculator) Calculate(items []*tracker.WorkItem) DurationStats {
	var days []int
	excluded := 0
	for _, item := range items {
		if !c.types.IncludeInCycleTime(item.Type) {
			continue
		}
		if !c.states.IsDoneState(item.CurrentState) {
			continue
		}
		completed, ok := c.resolver.CompletionDate(item)
		if !ok {
			excluded++
			continue
		}
		started, ok := c.resolver.ActiveStartDate(item)
		if !ok {
			excluded++
			continue
		}
		d := wholeDays(started, completed)
		if d < 0 {
			excluded++
			continue
		}
		days = append(days, d)
	}
	return summarize(days, excluded)
}
