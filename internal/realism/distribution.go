package realism

import (
	"math"
	"sort"
)

// Distribution maps bucket label to percentage (0-100).
type Distribution map[string]float64

// tally converts a list of bucket labels into a percentage distribution.
// Returns nil for an empty list so callers can distinguish "no usable rows"
// from a real distribution.
func tally(labels []string) Distribution {
	if len(labels) == 0 {
		return nil
	}
	counts := make(map[string]int, 8)
	for _, l := range labels {
		counts[l]++
	}
	dist := make(Distribution, len(counts))
	total := float64(len(labels))
	for bucket, n := range counts {
		dist[bucket] = 100 * float64(n) / total
	}
	return dist
}

// compareDistributions computes the accuracy of an observed percentage
// distribution against a reference one: 1 minus half the total absolute
// difference in fraction space, clamped to [0,1]. A bucket present on only
// one side counts as 0% on the other. Per-bucket detail is returned in a
// deterministic bucket order.
func compareDistributions(observed, reference Distribution) (float64, []BucketDiff) {
	buckets := make([]string, 0, len(reference)+len(observed))
	seen := make(map[string]bool, len(reference)+len(observed))
	for b := range reference {
		buckets = append(buckets, b)
		seen[b] = true
	}
	for b := range observed {
		if !seen[b] {
			buckets = append(buckets, b)
		}
	}
	sort.Strings(buckets)

	diffs := make([]BucketDiff, 0, len(buckets))
	totalDiff := 0.0
	for _, b := range buckets {
		obs := observed[b]
		ref := reference[b]
		d := math.Abs(obs - ref)
		totalDiff += d
		diffs = append(diffs, BucketDiff{
			Bucket:     b,
			Observed:   obs,
			Reference:  ref,
			Difference: d,
		})
	}

	// totalDiff is in percentage points; the factor 200 caps the total
	// variation distance at 100%.
	accuracy := clamp01(1 - totalDiff/200)
	return accuracy, diffs
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	cp := append([]float64(nil), xs...)
	sort.Float64s(cp)
	mid := len(cp) / 2
	if len(cp)%2 == 1 {
		return cp[mid]
	}
	return 0.5 * (cp[mid-1] + cp[mid])
}

// ageBucket bins a member age into the benchmark age bands. Ages outside the
// working range are treated as malformed for this category.
func ageBucket(age float64) (string, bool) {
	switch {
	case age < 21:
		return "", false
	case age <= 29:
		return "22-29", true
	case age <= 39:
		return "30-39", true
	case age <= 49:
		return "40-49", true
	case age <= 59:
		return "50-59", true
	case age <= 68:
		return "60-67", true
	default:
		return "", false
	}
}

// tenureBucket bins years of service into the benchmark tenure bands.
func tenureBucket(years float64) (string, bool) {
	switch {
	case years < 0 || years > 50:
		return "", false
	case years <= 5:
		return "0-5", true
	case years <= 15:
		return "6-15", true
	case years <= 25:
		return "16-25", true
	case years <= 35:
		return "26-35", true
	default:
		return "36+", true
	}
}
