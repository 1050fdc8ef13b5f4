package flow_test

import (
	"testing"
	"time"

	"github.com/mwaldron/flowlens/pkg/domain/itemtype"
	"github.com/mwaldron/flowlens/pkg/domain/tracker"
	"github.com/mwaldron/flowlens/pkg/domain/workflow"
)

func day(n int) time.Time {
	return time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func testStates(t *testing.T) *workflow.StateRegistry {
	t.Helper()
	reg, err := workflow.NewStateRegistry([]workflow.Category{
		{Name: "backlog", States: []string{"To Do"}, FlowPosition: 1},
		{Name: "active", States: []string{"In Progress", "In Review"}, IsActive: true, FlowPosition: 2, Weight: 1},
		{Name: "done", States: []string{"Done", "Closed"}, IsCompleted: true, IsFinal: true, FlowPosition: 3},
	})
	if err != nil {
		t.Fatalf("build state registry: %v", err)
	}
	return reg
}

func testTypes(t *testing.T) *itemtype.BehaviorRegistry {
	t.Helper()
	reg, err := itemtype.NewBehaviorRegistry([]itemtype.Profile{
		{
			Name:             "story",
			EffortValidation: itemtype.ValidationFibonacci,
			IncludeIn:        itemtype.Inclusion{Velocity: true, Throughput: true, CycleTime: true, LeadTime: true},
		},
		{
			Name:             "chore",
			EffortValidation: itemtype.ValidationPositiveNumber,
			IncludeIn:        itemtype.Inclusion{},
		},
	}, []float64{1, 2, 3, 5, 8})
	if err != nil {
		t.Fatalf("build type registry: %v", err)
	}
	return reg
}

// completedItem builds a story created at createdDay with a completion
// transition at doneDay.
func completedItem(id string, createdDay, doneDay int) *tracker.WorkItem {
	return &tracker.WorkItem{
		ID:           id,
		Type:         "story",
		CurrentState: "Done",
		CreatedDate:  day(createdDay),
		Transitions: []tracker.StateTransition{
			{ToState: "Done", Timestamp: day(doneDay)},
		},
	}
}
