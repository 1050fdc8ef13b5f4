// Package tracker holds the work-item model ingested from an external
// issue tracker.
package tracker

import (
	"time"
)

// StateTransition is a single state-change event from an item's history.
// Immutable once created.
type StateTransition struct {
	FromState string    `json:"from_state,omitempty" yaml:"from_state,omitempty"`
	ToState   string    `json:"to_state" yaml:"to_state"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Actor     string    `json:"actor,omitempty" yaml:"actor,omitempty"`
}

// WorkItem is a ticket ingested from an external tracker.
//
// Items are created on ingest, mutated once by the history enricher
// (transitions attached) and once by date resolution (cache populated),
// and are read-only afterwards.
type WorkItem struct {
	ID           string            `json:"id" yaml:"id"`
	Type         string            `json:"type" yaml:"type"`
	Title        string            `json:"title" yaml:"title"`
	CurrentState string            `json:"current_state" yaml:"current_state"`
	CreatedDate  time.Time         `json:"created_date" yaml:"created_date"`
	AssignedTo   string            `json:"assigned_to,omitempty" yaml:"assigned_to,omitempty"`
	Transitions  []StateTransition `json:"transitions,omitempty" yaml:"transitions,omitempty"`

	// SourceID is the tracker-side handle used to request history.
	// The enricher strips it before items reach downstream consumers.
	SourceID string `json:"source_id,omitempty" yaml:"source_id,omitempty"`

	resolvedDates map[string]time.Time
}

// HasHistory reports whether the item already carries state-change events.
func (w *WorkItem) HasHistory() bool {
	return len(w.Transitions) > 0
}

// SetTransitions replaces the item's history and invalidates the
// resolved-date cache.
func (w *WorkItem) SetTransitions(transitions []StateTransition) {
	w.Transitions = transitions
	w.resolvedDates = nil
}

// ResolvedDates returns the milestone-date map derived from the item's
// transitions, keyed by normalized state key (see NormalizeStateKey).
// The map is built once and memoized; it is recomputed only when
// SetTransitions replaces the history.
//
// When an item transitions to the same state more than once, the last
// occurrence wins. Which occurrence is authoritative matters for items
// with rework loops; last-write-wins is the documented policy.
func (w *WorkItem) ResolvedDates() map[string]time.Time {
	if w.resolvedDates != nil {
		return w.resolvedDates
	}
	dates := make(map[string]time.Time, len(w.Transitions))
	for _, t := range w.Transitions {
		if t.ToState == "" || t.Timestamp.IsZero() {
			continue
		}
		dates[NormalizeStateKey(t.ToState)] = t.Timestamp
	}
	w.resolvedDates = dates
	return w.resolvedDates
}
