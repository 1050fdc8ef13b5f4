package itemtype_test

import (
	"testing"

	"github.com/mwaldron/flowlens/pkg/domain/itemtype"
)

var fibonacci = []float64{0.5, 1, 2, 3, 5, 8, 13, 21}

func testProfiles() []itemtype.Profile {
	return []itemtype.Profile{
		{
			Name:                 "story",
			Category:             "delivery",
			UsesStoryPoints:      true,
			EffortValidation:     itemtype.ValidationFibonacci,
			ComplexityMultiplier: 1.0,
			IncludeIn:            itemtype.Inclusion{Velocity: true, Throughput: true, CycleTime: true, LeadTime: true},
			PlanningWeight:       1.0,
		},
		{
			Name:                 "bug",
			Category:             "quality",
			EffortValidation:     itemtype.ValidationPositiveNumber,
			ComplexityMultiplier: 1.5,
			IncludeIn:            itemtype.Inclusion{Velocity: false, Throughput: true, CycleTime: true, LeadTime: false},
			PlanningWeight:       0.5,
		},
	}
}

func newRegistry(t *testing.T) *itemtype.BehaviorRegistry {
	t.Helper()
	reg, err := itemtype.NewBehaviorRegistry(testProfiles(), fibonacci)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return reg
}

func TestNewBehaviorRegistry_Validation(t *testing.T) {
	dup := []itemtype.Profile{
		{Name: "story", EffortValidation: itemtype.ValidationFibonacci},
		{Name: "story", EffortValidation: itemtype.ValidationFibonacci},
	}
	if _, err := itemtype.NewBehaviorRegistry(dup, fibonacci); err == nil {
		t.Error("expected error for duplicate profile")
	}

	bad := []itemtype.Profile{{Name: "story", EffortValidation: "vibes"}}
	if _, err := itemtype.NewBehaviorRegistry(bad, fibonacci); err == nil {
		t.Error("expected error for unknown validation rule")
	}
}

func TestBehaviorRegistry_InclusionFlags(t *testing.T) {
	reg := newRegistry(t)

	if reg.IncludeInVelocity("bug") {
		t.Error("bug should be excluded from velocity")
	}
	if !reg.IncludeInThroughput("bug") {
		t.Error("bug should be included in throughput")
	}
	if reg.IncludeInLeadTime("bug") {
		t.Error("bug should be excluded from lead time")
	}
	if !reg.IncludeInCycleTime("story") {
		t.Error("story should be included in cycle time")
	}
}

func TestBehaviorRegistry_UnknownTypeFailsOpenForInclusion(t *testing.T) {
	reg := newRegistry(t)

	for name, got := range map[string]bool{
		"velocity":   reg.IncludeInVelocity("epic"),
		"throughput": reg.IncludeInThroughput("epic"),
		"cycle time": reg.IncludeInCycleTime("epic"),
		"lead time":  reg.IncludeInLeadTime("epic"),
	} {
		if !got {
			t.Errorf("unknown type should be included in %s", name)
		}
	}
}

func TestBehaviorRegistry_ValidateEffort(t *testing.T) {
	reg := newRegistry(t)

	tests := []struct {
		name     string
		itemType string
		value    float64
		want     bool
	}{
		{"fibonacci member", "story", 5, true},
		{"fibonacci half point", "story", 0.5, true},
		{"fibonacci non-member", "story", 4, false},
		{"fibonacci negative", "story", -3, false},
		{"hours positive", "bug", 6.5, true},
		{"hours zero", "bug", 0, false},
		{"hours negative", "bug", -1, false},
		// Unknown types fail closed, unlike the inclusion default.
		{"unknown type", "epic", 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reg.ValidateEffort(tt.itemType, tt.value); got != tt.want {
				t.Errorf("ValidateEffort(%q, %v) = %v, want %v", tt.itemType, tt.value, got, tt.want)
			}
		})
	}
}

func TestBehaviorRegistry_Multipliers(t *testing.T) {
	reg := newRegistry(t)

	if got := reg.ComplexityMultiplier("bug"); got != 1.5 {
		t.Errorf("ComplexityMultiplier(bug) = %v, want 1.5", got)
	}
	if got := reg.ComplexityMultiplier("epic"); got != 1.0 {
		t.Errorf("unknown type multiplier = %v, want default 1.0", got)
	}
	if got := reg.PlanningWeight("bug"); got != 0.5 {
		t.Errorf("PlanningWeight(bug) = %v, want 0.5", got)
	}
	if got := reg.PlanningWeight("epic"); got != 1.0 {
		t.Errorf("unknown type planning weight = %v, want default 1.0", got)
	}
}
