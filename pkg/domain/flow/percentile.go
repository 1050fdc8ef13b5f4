package flow

import (
	"math"
	"sort"
)

// median returns the lower-middle element of a sorted slice:
// values[n/2]. For even n this deliberately picks the upper of the two
// middle candidates' index (n/2), not the conventional average —
// downstream consumers depend on this exact definition.
func median(sorted []int) int {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[len(sorted)/2]
}

// percentile returns the nearest-rank percentile of a sorted slice:
// values[int(n*p)], with the index clamped to n-1. The clamp matters:
// when n*p is an exact integer (n=20, p=0.85) the raw index would read
// one past the end.
func percentile(sorted []int, p float64) int {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	idx := int(float64(n) * p)
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx]
}

// round2 rounds to two decimal places for report averages and rates.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// summarize computes the shared duration-statistics record over a set of
// per-item day counts. Returns a zero-valued record for an empty set.
func summarize(days []int, excluded int) DurationStats {
	if len(days) == 0 {
		return DurationStats{Excluded: excluded}
	}
	sorted := append([]int(nil), days...)
	sort.Ints(sorted)

	sum := 0
	for _, d := range sorted {
		sum += d
	}

	return DurationStats{
		AverageDays:  round2(float64(sum) / float64(len(sorted))),
		MedianDays:   median(sorted),
		MinDays:      sorted[0],
		MaxDays:      sorted[len(sorted)-1],
		Count:        len(sorted),
		Percentile85: percentile(sorted, 0.85),
		Percentile95: percentile(sorted, 0.95),
		Excluded:     excluded,
	}
}
