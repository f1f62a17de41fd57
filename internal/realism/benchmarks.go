package realism

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// SalaryRange holds the reference salary envelope for one sector, in GBP.
type SalaryRange struct {
	Min    float64 `yaml:"min" json:"min"`
	Max    float64 `yaml:"max" json:"max"`
	Median float64 `yaml:"median" json:"median"`
}

// Benchmarks is the static reference configuration the engine scores against:
// per-category distributions (bucket -> expected percentage, 0-100), salary
// envelopes per sector, pass thresholds, aggregation weights and the
// postcode-area to region table. It is plain data so deployments can swap
// benchmark tables without touching scoring logic.
type Benchmarks struct {
	Age       map[string]float64     `yaml:"age_distribution" json:"age_distribution"`
	Gender    map[string]float64     `yaml:"gender_distribution" json:"gender_distribution"`
	Sector    map[string]float64     `yaml:"sector_distribution" json:"sector_distribution"`
	Salary    map[string]SalaryRange `yaml:"salary_ranges" json:"salary_ranges"`
	Geography map[string]float64     `yaml:"geographic_distribution" json:"geographic_distribution"`
	Status    map[string]float64     `yaml:"status_distribution" json:"status_distribution"`
	Tenure    map[string]float64     `yaml:"years_service_distribution" json:"years_service_distribution"`

	Thresholds map[string]float64 `yaml:"thresholds" json:"thresholds"`
	Weights    map[string]float64 `yaml:"weights" json:"weights"`

	PostcodeRegions map[string]string `yaml:"postcode_regions" json:"postcode_regions"`
}

// DefaultBenchmarks returns the built-in UK pension industry benchmarks
// (ONS / TPR derived workforce statistics).
func DefaultBenchmarks() *Benchmarks {
	return &Benchmarks{
		Age: map[string]float64{
			"22-29": 20,
			"30-39": 28,
			"40-49": 26,
			"50-59": 20,
			"60-67": 6,
		},
		Gender: map[string]float64{
			"M": 52,
			"F": 47,
			"O": 1,
		},
		Sector: map[string]float64{
			"Finance":        14,
			"Manufacturing":  10,
			"Public Service": 19,
			"Healthcare":     13,
			"Education":      9,
			"Retail":         11,
			"Other":          24,
		},
		Salary: map[string]SalaryRange{
			"Finance":        {Min: 25000, Max: 150000, Median: 45000},
			"Manufacturing":  {Min: 20000, Max: 80000, Median: 32000},
			"Public Service": {Min: 18000, Max: 85000, Median: 35000},
			"Healthcare":     {Min: 22000, Max: 90000, Median: 38000},
			"Education":      {Min: 24000, Max: 70000, Median: 35000},
			"Retail":         {Min: 18000, Max: 55000, Median: 26000},
			"Other":          {Min: 20000, Max: 100000, Median: 35000},
		},
		Geography: map[string]float64{
			"London":        22,
			"South East":    18,
			"North West":    12,
			"West Midlands": 9,
			"Yorkshire":     8,
			"Scotland":      8,
			"East":          7,
			"South West":    6,
			"East Midlands": 5,
			"Wales":         3,
			"North East":    2,
		},
		Status: map[string]float64{
			"Active":    75,
			"Deferred":  20,
			"Pensioner": 5,
		},
		Tenure: map[string]float64{
			"0-5":   40,
			"6-15":  35,
			"16-25": 15,
			"26-35": 8,
			"36+":   2,
		},
		Thresholds: map[string]float64{
			CategoryAge:       0.80,
			CategoryGender:    0.90,
			CategorySector:    0.70,
			CategorySalary:    0.70,
			CategoryGeography: 0.60,
			CategoryStatus:    0.80,
			CategoryTenure:    0.70,
		},
		Weights: map[string]float64{
			CategoryAge:       0.20,
			CategoryGender:    0.15,
			CategorySector:    0.20,
			CategorySalary:    0.25,
			CategoryGeography: 0.10,
			CategoryStatus:    0.10,
		},
		PostcodeRegions: defaultPostcodeRegions(),
	}
}

// benchmarksOverride mirrors Benchmarks with every section optional, so a
// file can be told apart from "section not provided".
type benchmarksOverride struct {
	Age       map[string]float64     `yaml:"age_distribution"`
	Gender    map[string]float64     `yaml:"gender_distribution"`
	Sector    map[string]float64     `yaml:"sector_distribution"`
	Salary    map[string]SalaryRange `yaml:"salary_ranges"`
	Geography map[string]float64     `yaml:"geographic_distribution"`
	Status    map[string]float64     `yaml:"status_distribution"`
	Tenure    map[string]float64     `yaml:"years_service_distribution"`

	Thresholds map[string]float64 `yaml:"thresholds"`
	Weights    map[string]float64 `yaml:"weights"`

	PostcodeRegions map[string]string `yaml:"postcode_regions"`
}

// LoadBenchmarks reads a YAML override file and validates it. A section the
// file provides replaces the built-in one wholesale (unmarshalling onto the
// defaults would merge bucket keys and leave stale defaults behind); sections
// the file omits keep the built-in values.
func LoadBenchmarks(path string) (*Benchmarks, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read benchmarks file: %w", err)
	}

	var override benchmarksOverride
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("failed to parse benchmarks file: %w", err)
	}

	b := DefaultBenchmarks()
	if override.Age != nil {
		b.Age = override.Age
	}
	if override.Gender != nil {
		b.Gender = override.Gender
	}
	if override.Sector != nil {
		b.Sector = override.Sector
	}
	if override.Salary != nil {
		b.Salary = override.Salary
	}
	if override.Geography != nil {
		b.Geography = override.Geography
	}
	if override.Status != nil {
		b.Status = override.Status
	}
	if override.Tenure != nil {
		b.Tenure = override.Tenure
	}
	if override.Thresholds != nil {
		b.Thresholds = override.Thresholds
	}
	if override.Weights != nil {
		b.Weights = override.Weights
	}
	if override.PostcodeRegions != nil {
		b.PostcodeRegions = override.PostcodeRegions
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

const weightTolerance = 1e-9

// distributionTolerance allows for rounding in hand-maintained tables.
const distributionTolerance = 0.5

// Validate checks the structural invariants of the reference configuration.
// A violation is a configuration defect, not bad input data, so callers are
// expected to fail fast on it.
func (b *Benchmarks) Validate() error {
	distributions := map[string]map[string]float64{
		CategoryAge:       b.Age,
		CategoryGender:    b.Gender,
		CategorySector:    b.Sector,
		CategoryGeography: b.Geography,
		CategoryStatus:    b.Status,
		CategoryTenure:    b.Tenure,
	}

	for category, dist := range distributions {
		if len(dist) == 0 {
			return fmt.Errorf("reference table missing for category %q", category)
		}
		total := 0.0
		for bucket, pct := range dist {
			if pct < 0 {
				return fmt.Errorf("negative percentage %.2f for bucket %q in category %q", pct, bucket, category)
			}
			total += pct
		}
		if math.Abs(total-100) > distributionTolerance {
			return fmt.Errorf("reference distribution for category %q sums to %.2f, expected 100", category, total)
		}
	}

	if len(b.Salary) == 0 {
		return fmt.Errorf("reference table missing for category %q", CategorySalary)
	}
	for sector, r := range b.Salary {
		if r.Median <= 0 || r.Min <= 0 || r.Max <= r.Min {
			return fmt.Errorf("invalid salary range for sector %q: min=%.0f max=%.0f median=%.0f", sector, r.Min, r.Max, r.Median)
		}
	}

	for _, category := range CategoryOrder {
		if _, ok := b.Thresholds[category]; !ok {
			return fmt.Errorf("missing threshold for category %q", category)
		}
	}

	weightTotal := 0.0
	for category, w := range b.Weights {
		if w < 0 {
			return fmt.Errorf("negative weight %.2f for category %q", w, category)
		}
		weightTotal += w
	}
	if math.Abs(weightTotal-1.0) > weightTolerance {
		return fmt.Errorf("category weights sum to %.4f, expected 1.0", weightTotal)
	}

	if len(b.PostcodeRegions) == 0 {
		return fmt.Errorf("postcode region table is empty")
	}

	return nil
}
