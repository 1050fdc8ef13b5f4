package flow

import (
	"testing"
)

func TestMedian_LowerMiddle(t *testing.T) {
	tests := []struct {
		name   string
		sorted []int
		want   int
	}{
		{"empty", nil, 0},
		{"single", []int{7}, 7},
		{"odd", []int{1, 2, 3}, 2},
		// Even length picks index n/2, not the average of the middle
		// pair: [5 5 10 10] -> 10.
		{"even", []int{5, 5, 10, 10}, 10},
		{"even pair", []int{1, 9}, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := median(tt.sorted); got != tt.want {
				t.Errorf("median(%v) = %d, want %d", tt.sorted, got, tt.want)
			}
		})
	}
}

func TestPercentile_NearestRank(t *testing.T) {
	sorted := []int{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

	if got := percentile(sorted, 0.5); got != 60 {
		t.Errorf("p50 = %d, want 60", got)
	}
	if got := percentile(sorted, 0.85); got != 90 {
		t.Errorf("p85 = %d, want 90", got)
	}
	if got := percentile(nil, 0.85); got != 0 {
		t.Errorf("p85 of empty = %d, want 0", got)
	}
}

func TestPercentile_ClampsExactIntegerIndex(t *testing.T) {
	// n*p landing exactly on n must clamp to the last element instead
	// of reading past the end. n=20, p=0.85 -> 17 (in range); n=20,
	// p=0.95 -> 19; n=20, p=1.0 -> 20, clamped to 19.
	sorted := make([]int, 20)
	for i := range sorted {
		sorted[i] = i + 1
	}

	if got := percentile(sorted, 0.85); got != 18 {
		t.Errorf("p85 of 1..20 = %d, want 18", got)
	}
	if got := percentile(sorted, 0.95); got != 20 {
		t.Errorf("p95 of 1..20 = %d, want 20", got)
	}
	if got := percentile(sorted, 1.0); got != 20 {
		t.Errorf("p100 of 1..20 = %d, want clamp to last element 20", got)
	}

	// n=1 with any p must stay in range.
	if got := percentile([]int{42}, 0.95); got != 42 {
		t.Errorf("p95 of single = %d, want 42", got)
	}
}

func TestSummarize_EmptySet(t *testing.T) {
	stats := summarize(nil, 3)
	if stats.Count != 0 || stats.AverageDays != 0 || stats.MedianDays != 0 {
		t.Errorf("empty set should produce zero stats, got %+v", stats)
	}
	if stats.Excluded != 3 {
		t.Errorf("Excluded = %d, want 3", stats.Excluded)
	}
}

func TestSummarize_Rounding(t *testing.T) {
	stats := summarize([]int{1, 2}, 0)
	if stats.AverageDays != 1.5 {
		t.Errorf("AverageDays = %v, want 1.5", stats.AverageDays)
	}
	stats = summarize([]int{1, 1, 2}, 0)
	if stats.AverageDays != 1.33 {
		t.Errorf("AverageDays = %v, want 1.33 (two decimals)", stats.AverageDays)
	}
}
