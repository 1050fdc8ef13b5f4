package flow

import (
	"github.com/mwaldron/flowlens/pkg/domain/tracker"
	"github.com/mwaldron/flowlens/pkg/domain/workflow"
)

// WIPCounter counts items currently in an active-category state. A
// point-in-time count: no window, no type filtering.
type WIPCounter struct {
	states *workflow.StateRegistry
}

// NewWIPCounter creates a work-in-progress counter.
func NewWIPCounter(states *workflow.StateRegistry) *WIPCounter {
	return &WIPCounter{states: states}
}

// Count returns the number of items whose current state is active.
func (c *WIPCounter) Count(items []*tracker.WorkItem) WIPStats {
	total := 0
	for _, item := range items {
		if c.states.IsActiveState(item.CurrentState) {
			total++
		}
	}
	return WIPStats{Total: total}
}
