package realism

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pensionworks/realism/internal/dataset"
)

func tableOf(t *testing.T, rows []map[string]any) *dataset.Table {
	t.Helper()
	return dataset.FromRows(rows)
}

func TestNormalizeGender(t *testing.T) {
	tests := []struct {
		raw  string
		code string
		ok   bool
	}{
		{"M", "M", true},
		{"male", "M", true},
		{"Male", "M", true},
		{"F", "F", true},
		{"Female", "F", true},
		{"O", "O", true},
		{"Non-Binary", "O", true},
		{"x", "O", true},
		{"unknown", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		code, ok := normalizeGender(tt.raw)
		assert.Equal(t, tt.ok, ok, "raw %q", tt.raw)
		assert.Equal(t, tt.code, code, "raw %q", tt.raw)
	}
}

func TestScoreCategorySkippedWhenFieldMissing(t *testing.T) {
	table := tableOf(t, []map[string]any{
		{"gender": "M"},
		{"gender": "F"},
	})
	b := DefaultBenchmarks()

	res := scoreAge(table, b)

	assert.Equal(t, CategorySkipped, res.Status)
	assert.Contains(t, res.Reason, "not found")
	assert.Equal(t, 0.0, res.Accuracy)
	assert.InDelta(t, b.Weights[CategoryAge], res.Weight, 1e-9)
}

func TestScoreCategoryInsufficientWhenAllValuesMalformed(t *testing.T) {
	table := tableOf(t, []map[string]any{
		{"age": "not a number"},
		{"age": ""},
		{"age": "120"},
	})

	res := scoreAge(table, DefaultBenchmarks())

	assert.Equal(t, CategoryInsufficient, res.Status)
	assert.Contains(t, res.Reason, "no usable values")
}

func TestScoreAgeDropsMalformedRowsOnly(t *testing.T) {
	table := tableOf(t, []map[string]any{
		{"Age": "25"},
		{"Age": "35"},
		{"Age": "abc"},
		{"Age": "45"},
		{"Age": "55"},
	})

	res := scoreAge(table, DefaultBenchmarks())

	require.Equal(t, CategoryScored, res.Status)
	assert.Equal(t, 4, res.RowsUsed)
	assert.NotEmpty(t, res.Differences)
}

func TestScoreGenderAliasAndSpellings(t *testing.T) {
	// "Sex" resolves as the gender column; mixed spellings collapse to codes.
	table := tableOf(t, []map[string]any{
		{"Sex": "Male"},
		{"Sex": "female"},
		{"Sex": "M"},
		{"Sex": "F"},
	})

	res := scoreGender(table, DefaultBenchmarks())

	require.Equal(t, CategoryScored, res.Status)
	assert.Equal(t, 4, res.RowsUsed)
	// Observed 50/50 against 52/47/1: total drift 6 points.
	assert.InDelta(t, 0.97, res.Accuracy, 1e-9)
	assert.True(t, res.Pass)
}

func TestScoreStatus(t *testing.T) {
	table := tableOf(t, []map[string]any{
		{"Member Status": "Active"},
		{"Member Status": "Active"},
		{"Member Status": "Active"},
		{"Member Status": "Deferred"},
	})

	res := scoreStatus(table, DefaultBenchmarks())

	// The category is named by its constant; the lifecycle state is the
	// separately typed ScoringStatus.
	assert.Equal(t, CategoryStatus, res.Category)
	var status ScoringStatus = res.Status
	assert.Equal(t, CategoryScored, status)
	assert.Equal(t, 4, res.RowsUsed)
	// Observed 75/25/0 vs 75/20/5: total drift 10 points.
	assert.InDelta(t, 0.95, res.Accuracy, 1e-9)
}

func TestScoreGeography(t *testing.T) {
	b := DefaultBenchmarks()

	t.Run("unmapped postcodes excluded from both sides", func(t *testing.T) {
		table := tableOf(t, []map[string]any{
			{"Postcode": "SW1A 1AA"},
			{"Postcode": "EC2 4PP"},
			{"Postcode": "ZZ99 9ZZ"},
		})

		res := scoreGeography(table, b)

		require.Equal(t, CategoryScored, res.Status)
		assert.Equal(t, 2, res.RowsUsed)
		// Both mapped rows land in London: 100% observed vs 22% reference,
		// every other region at 0 vs its reference share.
		assert.InDelta(t, 0.22, res.Accuracy, 1e-9)
		assert.False(t, res.Pass)
	})

	t.Run("no mappable postcode", func(t *testing.T) {
		table := tableOf(t, []map[string]any{
			{"Postcode": "ZZ99 9ZZ"},
		})

		res := scoreGeography(table, b)
		assert.Equal(t, CategoryInsufficient, res.Status)
	})
}

func TestScoreSalary(t *testing.T) {
	b := DefaultBenchmarks()

	t.Run("matching envelope scores 1", func(t *testing.T) {
		table := tableOf(t, []map[string]any{
			{"Sector": "Finance", "Annual Salary": "£25,000"},
			{"Sector": "Finance", "Annual Salary": "45000"},
			{"Sector": "Finance", "Annual Salary": "150000"},
		})

		res := scoreSalary(table, b)

		require.Equal(t, CategoryScored, res.Status)
		require.Len(t, res.Sectors, 1)
		assert.InDelta(t, 1.0, res.Accuracy, 1e-9)
		assert.True(t, res.Pass)
		assert.Equal(t, 3, res.RowsUsed)

		detail := res.Sectors[0]
		assert.Equal(t, "Finance", detail.Sector)
		assert.InDelta(t, 45000, detail.ObservedMedian, 1e-9)
		assert.InDelta(t, 25000, detail.ObservedMin, 1e-9)
		assert.InDelta(t, 150000, detail.ObservedMax, 1e-9)
	})

	t.Run("point range scores only the median half", func(t *testing.T) {
		table := tableOf(t, []map[string]any{
			{"Sector": "Finance", "Annual Salary": "45000"},
		})

		res := scoreSalary(table, b)

		require.Equal(t, CategoryScored, res.Status)
		// Median matches exactly but a single value spans none of the
		// reference range, so the two halves average to 0.5.
		assert.InDelta(t, 0.5, res.Accuracy, 1e-9)
	})

	t.Run("sectors averaged in deterministic order", func(t *testing.T) {
		table := tableOf(t, []map[string]any{
			{"Sector": "Finance", "Annual Salary": "25000"},
			{"Sector": "Finance", "Annual Salary": "45000"},
			{"Sector": "Finance", "Annual Salary": "150000"},
			{"Sector": "Retail", "Annual Salary": "26000"},
		})

		res := scoreSalary(table, b)

		require.Equal(t, CategoryScored, res.Status)
		require.Len(t, res.Sectors, 2)
		assert.Equal(t, "Finance", res.Sectors[0].Sector)
		assert.Equal(t, "Retail", res.Sectors[1].Sector)
		// Finance is a perfect 1.0; Retail a point range at the reference
		// median scores 0.5; the category averages them.
		assert.InDelta(t, 0.75, res.Accuracy, 1e-9)
	})

	t.Run("skipped without a sector column", func(t *testing.T) {
		table := tableOf(t, []map[string]any{
			{"Annual Salary": "45000"},
		})

		res := scoreSalary(table, b)
		assert.Equal(t, CategorySkipped, res.Status)
		assert.Contains(t, res.Reason, "sector")
	})

	t.Run("skipped without a salary column", func(t *testing.T) {
		table := tableOf(t, []map[string]any{
			{"Sector": "Finance"},
		})

		res := scoreSalary(table, b)
		assert.Equal(t, CategorySkipped, res.Status)
	})

	t.Run("unrecognised sectors only", func(t *testing.T) {
		table := tableOf(t, []map[string]any{
			{"Sector": "Space Mining", "Annual Salary": "45000"},
		})

		res := scoreSalary(table, b)
		assert.Equal(t, CategoryInsufficient, res.Status)
	})
}

func TestRangeOverlap(t *testing.T) {
	tests := []struct {
		name                   string
		aMin, aMax, bMin, bMax float64
		expected               float64
	}{
		{"identical ranges", 10, 20, 10, 20, 1.0},
		{"disjoint ranges", 0, 10, 20, 30, 0.0},
		{"touching ranges", 0, 10, 10, 20, 0.0},
		{"half contained", 0, 10, 5, 15, 1.0 / 3.0},
		{"fully contained", 10, 20, 0, 40, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, rangeOverlap(tt.aMin, tt.aMax, tt.bMin, tt.bMax), 1e-9)
		})
	}
}
