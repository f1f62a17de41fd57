// Package realism scores a synthetic UK pension member dataset against fixed
// industry benchmark distributions and reports a weighted overall realism
// score. Scoring is a pure function of the input table and the reference
// configuration; an Engine is safe for concurrent use.
package realism

import (
	"fmt"

	"github.com/pensionworks/realism/internal/dataset"
)

type categoryScorer func(*dataset.Table, *Benchmarks) CategoryResult

var scorers = map[string]categoryScorer{
	CategoryAge:       scoreAge,
	CategoryGender:    scoreGender,
	CategorySector:    scoreSector,
	CategorySalary:    scoreSalary,
	CategoryGeography: scoreGeography,
	CategoryStatus:    scoreStatus,
	CategoryTenure:    scoreTenure,
}

// Engine evaluates datasets against one validated benchmark configuration.
type Engine struct {
	bench *Benchmarks
}

// NewEngine validates the reference configuration and returns an engine.
// An invalid configuration is a programming/deployment defect and fails here
// rather than surfacing as bad scores later.
func NewEngine(bench *Benchmarks) (*Engine, error) {
	if bench == nil {
		bench = DefaultBenchmarks()
	}
	if err := bench.Validate(); err != nil {
		return nil, fmt.Errorf("invalid reference configuration: %w", err)
	}
	return &Engine{bench: bench}, nil
}

// Benchmarks returns the reference configuration in use.
func (e *Engine) Benchmarks() *Benchmarks {
	return e.bench
}

// Assess scores every category against the benchmarks and aggregates the
// weighted overall score. Categories whose field cannot be resolved, or that
// have no usable rows, are reported but excluded from the aggregation; their
// weight is deliberately not redistributed among the remaining categories, so
// a dataset missing a heavy category scores systematically lower.
func (e *Engine) Assess(t *dataset.Table) OverallResult {
	result := OverallResult{
		RowCount:   t.Len(),
		Categories: make([]CategoryResult, 0, len(CategoryOrder)),
	}

	weighted := 0.0
	scored := 0
	for _, category := range CategoryOrder {
		cr := scorers[category](t, e.bench)
		result.Categories = append(result.Categories, cr)
		if cr.Status != CategoryScored {
			continue
		}
		scored++
		weighted += cr.Accuracy * cr.Weight
	}

	if scored == 0 {
		// Nothing usable anywhere: distinct from a genuine score of 0.
		result.Status = StatusInsufficientData
		return result
	}

	result.Status = StatusScored
	result.Score = clamp01(weighted)
	result.Grade = GradeFor(result.Score)
	result.Recommendations = recommendations(result.Categories)
	return result
}

// recommendations derives per-category improvement notes from the accuracy
// bands used by the grade mapping.
func recommendations(categories []CategoryResult) []string {
	out := make([]string, 0, len(categories))
	for _, cr := range categories {
		switch cr.Status {
		case CategorySkipped:
			out = append(out, fmt.Sprintf("%s: skipped - %s", cr.Category, cr.Reason))
		case CategoryInsufficient:
			out = append(out, fmt.Sprintf("%s: insufficient data - %s", cr.Category, cr.Reason))
		default:
			switch {
			case cr.Accuracy < 0.6:
				out = append(out, fmt.Sprintf("%s distribution needs significant improvement (accuracy %.1f%%)", cr.Category, cr.Accuracy*100))
			case cr.Accuracy < 0.8:
				out = append(out, fmt.Sprintf("%s distribution could be improved (accuracy %.1f%%)", cr.Category, cr.Accuracy*100))
			default:
				out = append(out, fmt.Sprintf("%s distribution is realistic (accuracy %.1f%%)", cr.Category, cr.Accuracy*100))
			}
		}
	}
	return out
}
