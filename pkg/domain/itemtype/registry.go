package itemtype

import (
	"fmt"
)

const defaultMultiplier = 1.0

// BehaviorRegistry looks up type profiles by name.
//
// Inclusion lookups fail open: an unrecognized type is included in every
// metric. Effort validation fails closed: an unrecognized type never
// validates. The asymmetry is deliberate — dropping items from reports
// silently is worse than including them, while accepting unvalidated
// effort values corrupts planning data.
type BehaviorRegistry struct {
	profiles  map[string]Profile
	fibonacci map[float64]bool
}

// NewBehaviorRegistry builds a registry from configured profiles and the
// fibonacci point scale used by story-point types.
func NewBehaviorRegistry(profiles []Profile, fibonacci []float64) (*BehaviorRegistry, error) {
	byName := make(map[string]Profile, len(profiles))
	for _, p := range profiles {
		if p.Name == "" {
			return nil, fmt.Errorf("type config: profile with empty name")
		}
		if _, ok := byName[p.Name]; ok {
			return nil, fmt.Errorf("type config: duplicate profile %q", p.Name)
		}
		switch p.EffortValidation {
		case ValidationFibonacci, ValidationPositiveNumber:
		default:
			return nil, fmt.Errorf("type config: profile %q has unknown effort_validation %q", p.Name, p.EffortValidation)
		}
		byName[p.Name] = p
	}
	fib := make(map[float64]bool, len(fibonacci))
	for _, v := range fibonacci {
		fib[v] = true
	}
	return &BehaviorRegistry{profiles: byName, fibonacci: fib}, nil
}

// Profile returns the configured profile for a type.
func (r *BehaviorRegistry) Profile(itemType string) (Profile, bool) {
	p, ok := r.profiles[itemType]
	return p, ok
}

// IncludeInVelocity reports whether items of the type count toward
// velocity. Unknown types are included.
func (r *BehaviorRegistry) IncludeInVelocity(itemType string) bool {
	p, ok := r.profiles[itemType]
	if !ok {
		return true
	}
	return p.IncludeIn.Velocity
}

// IncludeInThroughput reports whether items of the type count toward
// throughput. Unknown types are included.
func (r *BehaviorRegistry) IncludeInThroughput(itemType string) bool {
	p, ok := r.profiles[itemType]
	if !ok {
		return true
	}
	return p.IncludeIn.Throughput
}

// IncludeInCycleTime reports whether items of the type count toward
// cycle time. Unknown types are included.
func (r *BehaviorRegistry) IncludeInCycleTime(itemType string) bool {
	p, ok := r.profiles[itemType]
	if !ok {
		return true
	}
	return p.IncludeIn.CycleTime
}

// IncludeInLeadTime reports whether items of the type count toward lead
// time. Unknown types are included.
func (r *BehaviorRegistry) IncludeInLeadTime(itemType string) bool {
	p, ok := r.profiles[itemType]
	if !ok {
		return true
	}
	return p.IncludeIn.LeadTime
}

// ComplexityMultiplier returns the type's complexity multiplier, or 1.0
// for unknown types.
func (r *BehaviorRegistry) ComplexityMultiplier(itemType string) float64 {
	p, ok := r.profiles[itemType]
	if !ok || p.ComplexityMultiplier == 0 {
		return defaultMultiplier
	}
	return p.ComplexityMultiplier
}

// PlanningWeight returns the type's planning weight, or 1.0 for unknown
// types.
func (r *BehaviorRegistry) PlanningWeight(itemType string) float64 {
	p, ok := r.profiles[itemType]
	if !ok || p.PlanningWeight == 0 {
		return defaultMultiplier
	}
	return p.PlanningWeight
}

// ValidateEffort reports whether an effort value is acceptable for the
// type: fibonacci membership for story-point types, any positive number
// for hour-based types. Unknown types fail validation.
func (r *BehaviorRegistry) ValidateEffort(itemType string, value float64) bool {
	p, ok := r.profiles[itemType]
	if !ok {
		return false
	}
	switch p.EffortValidation {
	case ValidationFibonacci:
		return r.fibonacci[value]
	case ValidationPositiveNumber:
		return value > 0
	}
	return false
}
