package tracker

import (
	"strings"
)

const dateKeySuffix = "_date"

// NormalizeStateName lowercases a raw state name and folds spaces,
// hyphens and periods into single underscores. Idempotent.
func NormalizeStateName(state string) string {
	s := strings.ToLower(strings.TrimSpace(state))
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.':
			return '_'
		}
		return r
	}, s)
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return strings.Trim(s, "_")
}

// NormalizeStateKey turns a raw state name into the date-field key used
// in WorkItem.ResolvedDates, e.g. "In Progress" -> "in_progress_date".
// Applying it to an already-normalized key is a no-op.
func NormalizeStateKey(state string) string {
	s := NormalizeStateName(state)
	if strings.HasSuffix(s, dateKeySuffix) {
		return s
	}
	return s + dateKeySuffix
}
