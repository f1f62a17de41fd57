package realism

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTally(t *testing.T) {
	tests := []struct {
		name     string
		labels   []string
		expected Distribution
	}{
		{
			name:     "empty input returns nil",
			labels:   nil,
			expected: nil,
		},
		{
			name:     "single label",
			labels:   []string{"Active"},
			expected: Distribution{"Active": 100},
		},
		{
			name:     "even split",
			labels:   []string{"M", "F", "M", "F"},
			expected: Distribution{"M": 50, "F": 50},
		},
		{
			name:     "uneven split",
			labels:   []string{"A", "A", "A", "B"},
			expected: Distribution{"A": 75, "B": 25},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tally(tt.labels)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.Len(t, got, len(tt.expected))
			for bucket, pct := range tt.expected {
				assert.InDelta(t, pct, got[bucket], 1e-9, "bucket %s", bucket)
			}
		})
	}
}

func TestCompareDistributions(t *testing.T) {
	tests := []struct {
		name      string
		observed  Distribution
		reference Distribution
		expected  float64
	}{
		{
			name:      "identical distributions score 1",
			observed:  Distribution{"M": 52, "F": 47, "O": 1},
			reference: Distribution{"M": 52, "F": 47, "O": 1},
			expected:  1.0,
		},
		{
			name:      "completely disjoint distributions score 0",
			observed:  Distribution{"A": 100},
			reference: Distribution{"B": 100},
			expected:  0.0,
		},
		{
			name:      "half overlap scores 0.5",
			observed:  Distribution{"A": 50, "B": 50},
			reference: Distribution{"A": 100},
			expected:  0.5,
		},
		{
			name:      "small drift",
			observed:  Distribution{"M": 50, "F": 49, "O": 1},
			reference: Distribution{"M": 52, "F": 47, "O": 1},
			expected:  0.98,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accuracy, diffs := compareDistributions(tt.observed, tt.reference)
			assert.InDelta(t, tt.expected, accuracy, 1e-9)
			assert.NotEmpty(t, diffs)
		})
	}
}

func TestCompareDistributionsBucketDetail(t *testing.T) {
	observed := Distribution{"A": 60, "C": 40}
	reference := Distribution{"A": 50, "B": 50}

	_, diffs := compareDistributions(observed, reference)

	// Union of buckets in sorted order, missing sides counted as zero.
	require.Len(t, diffs, 3)
	assert.Equal(t, "A", diffs[0].Bucket)
	assert.Equal(t, "B", diffs[1].Bucket)
	assert.Equal(t, "C", diffs[2].Bucket)

	assert.InDelta(t, 10.0, diffs[0].Difference, 1e-9)
	assert.InDelta(t, 0.0, diffs[1].Observed, 1e-9)
	assert.InDelta(t, 50.0, diffs[1].Difference, 1e-9)
	assert.InDelta(t, 0.0, diffs[2].Reference, 1e-9)
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, clamp01(-0.5))
	assert.Equal(t, 1.0, clamp01(1.5))
	assert.Equal(t, 0.42, clamp01(0.42))
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name     string
		input    []float64
		expected float64
	}{
		{"empty", nil, 0},
		{"single value", []float64{42}, 42},
		{"odd count", []float64{30000, 45000, 20000}, 30000},
		{"even count", []float64{10, 20, 30, 40}, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, median(tt.input), 1e-9)
		})
	}
}

func TestMedianDoesNotMutateInput(t *testing.T) {
	input := []float64{3, 1, 2}
	median(input)
	assert.Equal(t, []float64{3, 1, 2}, input)
}

func TestAgeBucket(t *testing.T) {
	tests := []struct {
		age    float64
		bucket string
		ok     bool
	}{
		{18, "", false},
		{22, "22-29", true},
		{29, "22-29", true},
		{30, "30-39", true},
		{39, "30-39", true},
		{40, "40-49", true},
		{49, "40-49", true},
		{50, "50-59", true},
		{59, "50-59", true},
		{60, "60-67", true},
		{67, "60-67", true},
		{90, "", false},
	}

	for _, tt := range tests {
		bucket, ok := ageBucket(tt.age)
		assert.Equal(t, tt.ok, ok, "age %.0f", tt.age)
		assert.Equal(t, tt.bucket, bucket, "age %.0f", tt.age)
	}
}

func TestTenureBucket(t *testing.T) {
	tests := []struct {
		years  float64
		bucket string
		ok     bool
	}{
		{-1, "", false},
		{0, "0-5", true},
		{5, "0-5", true},
		{6, "6-15", true},
		{15, "6-15", true},
		{16, "16-25", true},
		{25, "16-25", true},
		{26, "26-35", true},
		{35, "26-35", true},
		{36, "36+", true},
		{50, "36+", true},
		{51, "", false},
	}

	for _, tt := range tests {
		bucket, ok := tenureBucket(tt.years)
		assert.Equal(t, tt.ok, ok, "years %.0f", tt.years)
		assert.Equal(t, tt.bucket, bucket, "years %.0f", tt.years)
	}
}
