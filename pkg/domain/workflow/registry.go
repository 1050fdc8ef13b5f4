package workflow

import (
	"fmt"
	"sort"
)

// StateRegistry answers category-membership questions for raw state
// names. Lookups are exact-match only; an unrecognized state is neither
// active nor done (fail-open to "unknown"). Fuzzy matching is the date
// resolver's concern, never the registry's.
type StateRegistry struct {
	categories []Category
	byState    map[string]Category
}

// NewStateRegistry validates the configured categories and builds the
// reverse state lookup. A raw state assigned to more than one category
// is a fatal configuration error.
func NewStateRegistry(categories []Category) (*StateRegistry, error) {
	byState := make(map[string]Category)
	for _, cat := range categories {
		if cat.Name == "" {
			return nil, fmt.Errorf("workflow config: category with empty name")
		}
		if len(cat.States) == 0 {
			return nil, fmt.Errorf("workflow config: category %q has no states", cat.Name)
		}
		for _, state := range cat.States {
			if prev, ok := byState[state]; ok {
				return nil, fmt.Errorf("workflow config: state %q assigned to both %q and %q", state, prev.Name, cat.Name)
			}
			byState[state] = cat
		}
	}
	return &StateRegistry{categories: categories, byState: byState}, nil
}

// CategoryOf returns the category a raw state belongs to.
func (r *StateRegistry) CategoryOf(state string) (Category, bool) {
	cat, ok := r.byState[state]
	return cat, ok
}

// IsActiveState reports whether the state belongs to an active category.
func (r *StateRegistry) IsActiveState(state string) bool {
	return r.byState[state].IsActive
}

// IsDoneState reports whether the state belongs to a done category.
func (r *StateRegistry) IsDoneState(state string) bool {
	return r.byState[state].IsCompleted
}

// IsBlockedState reports whether the state belongs to a blocked category.
func (r *StateRegistry) IsBlockedState(state string) bool {
	return r.byState[state].IsBlocked
}

// IsFinalState reports whether the state belongs to a final category.
func (r *StateRegistry) IsFinalState(state string) bool {
	return r.byState[state].IsFinal
}

// FlowPosition returns the ordinal position of the state's category, or
// 0 for unknown states.
func (r *StateRegistry) FlowPosition(state string) int {
	return r.byState[state].FlowPosition
}

// Weight returns the cycle-time contribution weight of the state's
// category, or 0 for unknown states.
func (r *StateRegistry) Weight(state string) float64 {
	return r.byState[state].Weight
}

// DoneStates returns the raw states of all done categories, sorted.
// These are the lead-time and cycle-time end boundary.
func (r *StateRegistry) DoneStates() []string {
	return r.statesWhere(func(c Category) bool { return c.IsCompleted })
}

// ActiveStates returns the raw states of all active categories, sorted.
// These are the cycle-time start boundary.
func (r *StateRegistry) ActiveStates() []string {
	return r.statesWhere(func(c Category) bool { return c.IsActive })
}

// Categories returns the configured categories in load order.
func (r *StateRegistry) Categories() []Category {
	return r.categories
}

// statesWhere collects states of matching categories in sorted order so
// downstream iteration is deterministic.
func (r *StateRegistry) statesWhere(match func(Category) bool) []string {
	var states []string
	for _, cat := range r.categories {
		if match(cat) {
			states = append(states, cat.States...)
		}
	}
	sort.Strings(states)
	return states
}
