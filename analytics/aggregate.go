package analytics

import (
	"cmp"
	"slices"
	"strconv"
)

// OtherBucket labels values that fall outside every age bucket.
const OtherBucket = "Other"

// CaseAgeBoundaries are the lower bounds of the risk heatmap buckets; the
// last value is the exclusive upper bound of the final bucket.
var CaseAgeBoundaries = []float64{0, 1, 2, 5, 20}

// Count is one labelled tally in a chart series.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// BucketValues tallies values into [b[i], b[i+1]) buckets labelled by their
// lower bound. Values outside the range go to OtherBucket. Empty buckets
// are omitted.
func BucketValues(values []float64, boundaries []float64) []Count {
	if len(boundaries) < 2 {
		return nil
	}
	counts := make([]int, len(boundaries)-1)
	other := 0
	for _, v := range values {
		idx := -1
		for i := 0; i < len(boundaries)-1; i++ {
			if v >= boundaries[i] && v < boundaries[i+1] {
				idx = i
				break
			}
		}
		if idx < 0 {
			other++
			continue
		}
		counts[idx]++
	}

	out := make([]Count, 0, len(counts)+1)
	for i, n := range counts {
		if n == 0 {
			continue
		}
		out = append(out, Count{Label: strconv.FormatFloat(boundaries[i], 'f', -1, 64), Count: n})
	}
	if other > 0 {
		out = append(out, Count{Label: OtherBucket, Count: other})
	}
	return out
}

// CountValues tallies each distinct value, ordered by label.
func CountValues(values []string) []Count {
	tally := make(map[string]int)
	for _, v := range values {
		tally[v]++
	}
	out := make([]Count, 0, len(tally))
	for label, n := range tally {
		out = append(out, Count{Label: label, Count: n})
	}
	slices.SortFunc(out, func(a, b Count) int { return cmp.Compare(a.Label, b.Label) })
	return out
}

// TopValues returns the n most frequent values, ties broken by label.
func TopValues(values []string, n int) []Count {
	out := CountValues(values)
	slices.SortStableFunc(out, func(a, b Count) int { return cmp.Compare(b.Count, a.Count) })
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
