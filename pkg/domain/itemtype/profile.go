// Package itemtype describes per-work-item-type behavior: effort
// validation, metric inclusion and planning multipliers.
package itemtype

// EffortValidation selects the rule ValidateEffort applies for a type.
type EffortValidation string

const (
	// ValidationFibonacci restricts effort values to the configured
	// fibonacci point scale.
	ValidationFibonacci EffortValidation = "fibonacci"
	// ValidationPositiveNumber accepts any positive effort value.
	ValidationPositiveNumber EffortValidation = "positive_number"
)

// Inclusion holds the per-metric inclusion flags for a type.
type Inclusion struct {
	Velocity   bool `json:"velocity" yaml:"velocity"`
	Throughput bool `json:"throughput" yaml:"throughput"`
	CycleTime  bool `json:"cycle_time" yaml:"cycle_time"`
	LeadTime   bool `json:"lead_time" yaml:"lead_time"`
}

// Profile is the configured behavior of one work-item type.
type Profile struct {
	Name                 string           `json:"name" yaml:"name"`
	Category             string           `json:"category" yaml:"category"`
	UsesStoryPoints      bool             `json:"uses_story_points" yaml:"uses_story_points"`
	EffortValidation     EffortValidation `json:"effort_validation" yaml:"effort_validation"`
	ComplexityMultiplier float64          `json:"complexity_multiplier" yaml:"complexity_multiplier"`
	IncludeIn            Inclusion        `json:"include_in" yaml:"include_in"`
	PlanningWeight       float64          `json:"planning_weight" yaml:"planning_weight"`
}
