// Package flow derives milestone dates and flow metrics (lead time,
// cycle time, throughput, WIP) from work-item state histories.
package flow

import (
	"sort"
	"strings"
	"time"

	"github.com/mwaldron/flowlens/pkg/domain/tracker"
	"github.com/mwaldron/flowlens/pkg/domain/workflow"
)

// activeStartEstimate is added to the creation date when no active-work
// transition can be resolved. Keeps cycle time from collapsing to zero
// or going negative for items whose history never recorded the start.
const activeStartEstimate = 24 * time.Hour

// completionAliases are common completion field keys checked, in
// priority order, when no configured done state matches directly.
var completionAliases = []string{
	"done_date",
	"closed_date",
	"completed_date",
	"resolved_date",
	"released_date",
	"finished_date",
}

// activeStartAliases are common active-start field keys checked, in
// priority order, when no configured active state matches directly.
var activeStartAliases = []string{
	"active_date",
	"in_progress_date",
	"started_date",
	"development_date",
}

// DateResolver resolves milestone dates (completion, active start) from
// an item's resolved-date cache using an ordered strategy chain:
// exact normalized key, then field-name aliases, then fuzzy substring
// match, then (active start only) a creation-date estimate.
//
// Resolution is a pure function of the item's cache and the workflow
// configuration; it never mutates either.
type DateResolver struct {
	states *workflow.StateRegistry
}

// NewDateResolver creates a resolver over the given state registry.
func NewDateResolver(states *workflow.StateRegistry) *DateResolver {
	return &DateResolver{states: states}
}

// CompletionDate resolves the item's completion milestone. The second
// return value is false when no strategy produces a date; that is a
// resolution gap, not an error.
func (r *DateResolver) CompletionDate(item *tracker.WorkItem) (time.Time, bool) {
	return resolve(item.ResolvedDates(), r.states.DoneStates(), completionAliases)
}

// ActiveStartDate resolves the item's first-active-work milestone,
// falling back to createdDate+1d when the history never shows an active
// state. The fallback is an estimate and applies only here, never to
// completion dates.
func (r *DateResolver) ActiveStartDate(item *tracker.WorkItem) (time.Time, bool) {
	if ts, ok := resolve(item.ResolvedDates(), r.states.ActiveStates(), activeStartAliases); ok {
		return ts, true
	}
	if !item.CreatedDate.IsZero() {
		return item.CreatedDate.Add(activeStartEstimate), true
	}
	return time.Time{}, false
}

// resolve walks the strategy chain over an already-sorted category
// state list. First success wins.
func resolve(dates map[string]time.Time, states []string, aliases []string) (time.Time, bool) {
	if len(dates) == 0 {
		return time.Time{}, false
	}

	// 1. Exact match on the normalized key of each category state.
	for _, state := range states {
		if ts, ok := dates[tracker.NormalizeStateKey(state)]; ok {
			return ts, true
		}
	}

	// 2. Known field-name aliases, in priority order.
	for _, alias := range aliases {
		if ts, ok := dates[alias]; ok {
			return ts, true
		}
	}

	// 3. Fuzzy: first date key containing a category state name as a
	// substring. Both loops iterate in lexicographic order so the same
	// inputs always resolve to the same date.
	keys := make([]string, 0, len(dates))
	for k := range dates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, state := range states {
		name := tracker.NormalizeStateName(state)
		if name == "" {
			continue
		}
		for _, key := range keys {
			if strings.Contains(key, name) {
				return dates[key], true
			}
		}
	}

	return time.Time{}, false
}
