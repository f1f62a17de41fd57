package realism

import (
	"sort"

	"github.com/pensionworks/realism/internal/dataset"
)

// fieldAliases lists, per semantic field, the column names accepted for it in
// priority order. Names are compared in normalized form, so one entry covers
// "Years Service", "years_service" and "YearsService".
var fieldAliases = map[string][]string{
	CategoryAge:       {"age", "member age", "age years"},
	CategoryGender:    {"gender", "sex"},
	CategorySector:    {"sector", "industry", "employment sector"},
	CategorySalary:    {"annual salary", "salary", "pensionable salary", "annual pay"},
	CategoryGeography: {"postcode", "post code", "postal code"},
	CategoryStatus:    {"status", "member status", "membership status"},
	CategoryTenure:    {"years service", "years of service", "service years", "tenure"},
}

// scoreDistributionCategory handles the categories that reduce to a straight
// percentage-distribution comparison. bucketFor maps one raw cell to a bucket
// label; returning false drops the row from this category only.
func scoreDistributionCategory(t *dataset.Table, b *Benchmarks, category string, reference Distribution, bucketFor func(string) (string, bool)) CategoryResult {
	res := CategoryResult{
		Category:  category,
		Threshold: b.Thresholds[category],
		Weight:    b.Weights[category],
	}

	col, ok := t.Resolve(fieldAliases[category]...)
	if !ok {
		res.Status = CategorySkipped
		res.Reason = "field not found under any known alias"
		return res
	}

	labels := make([]string, 0, t.Len())
	for _, raw := range t.Column(col) {
		if raw == "" {
			continue
		}
		if bucket, ok := bucketFor(raw); ok {
			labels = append(labels, bucket)
		}
	}
	if len(labels) == 0 {
		res.Status = CategoryInsufficient
		res.Reason = "no usable values in column " + col
		return res
	}

	accuracy, diffs := compareDistributions(tally(labels), reference)
	res.Status = CategoryScored
	res.Accuracy = accuracy
	res.Pass = accuracy >= res.Threshold
	res.Differences = diffs
	res.RowsUsed = len(labels)
	return res
}

func scoreAge(t *dataset.Table, b *Benchmarks) CategoryResult {
	return scoreDistributionCategory(t, b, CategoryAge, b.Age, func(raw string) (string, bool) {
		age, err := dataset.ParseNumber(raw)
		if err != nil {
			return "", false
		}
		return ageBucket(age)
	})
}

func scoreGender(t *dataset.Table, b *Benchmarks) CategoryResult {
	return scoreDistributionCategory(t, b, CategoryGender, b.Gender, func(raw string) (string, bool) {
		return normalizeGender(raw)
	})
}

// normalizeGender maps the spellings seen across exports onto the benchmark
// codes M/F/O.
func normalizeGender(raw string) (string, bool) {
	switch dataset.Normalize(raw) {
	case "m", "male":
		return "M", true
	case "f", "female":
		return "F", true
	case "o", "other", "nonbinary", "nb", "x":
		return "O", true
	default:
		return "", false
	}
}

func scoreSector(t *dataset.Table, b *Benchmarks) CategoryResult {
	return scoreDistributionCategory(t, b, CategorySector, b.Sector, func(raw string) (string, bool) {
		return raw, true
	})
}

func scoreStatus(t *dataset.Table, b *Benchmarks) CategoryResult {
	return scoreDistributionCategory(t, b, CategoryStatus, b.Status, func(raw string) (string, bool) {
		return raw, true
	})
}

func scoreTenure(t *dataset.Table, b *Benchmarks) CategoryResult {
	return scoreDistributionCategory(t, b, CategoryTenure, b.Tenure, func(raw string) (string, bool) {
		years, err := dataset.ParseNumber(raw)
		if err != nil {
			return "", false
		}
		return tenureBucket(years)
	})
}

// scoreGeography maps postcodes to regions first; rows whose postcode has no
// known area prefix are excluded from both numerator and denominator rather
// than counted as misses.
func scoreGeography(t *dataset.Table, b *Benchmarks) CategoryResult {
	return scoreDistributionCategory(t, b, CategoryGeography, b.Geography, func(raw string) (string, bool) {
		return RegionForPostcode(raw, b.PostcodeRegions)
	})
}

// scoreSalary compares per-sector salary patterns: the average of a median
// accuracy and a range-overlap score, then averaged across the sectors
// actually present in the data.
func scoreSalary(t *dataset.Table, b *Benchmarks) CategoryResult {
	res := CategoryResult{
		Category:  CategorySalary,
		Threshold: b.Thresholds[CategorySalary],
		Weight:    b.Weights[CategorySalary],
	}

	salaryCol, ok := t.Resolve(fieldAliases[CategorySalary]...)
	if !ok {
		res.Status = CategorySkipped
		res.Reason = "field not found under any known alias"
		return res
	}
	sectorCol, ok := t.Resolve(fieldAliases[CategorySector]...)
	if !ok {
		res.Status = CategorySkipped
		res.Reason = "salary comparison is per sector and no sector field was found"
		return res
	}

	bySector := make(map[string][]float64)
	rowsUsed := 0
	for _, row := range t.Rows {
		sector := row[sectorCol]
		if _, ok := b.Salary[sector]; !ok {
			continue
		}
		salary, err := dataset.ParseNumber(row[salaryCol])
		if err != nil || salary <= 0 {
			continue
		}
		bySector[sector] = append(bySector[sector], salary)
		rowsUsed++
	}
	if len(bySector) == 0 {
		res.Status = CategoryInsufficient
		res.Reason = "no rows with a recognised sector and parsable salary"
		return res
	}

	sectors := make([]string, 0, len(bySector))
	for sector := range bySector {
		sectors = append(sectors, sector)
	}
	sort.Strings(sectors)

	total := 0.0
	for _, sector := range sectors {
		salaries := bySector[sector]
		ref := b.Salary[sector]

		obsMedian := median(salaries)
		obsMin, obsMax := salaries[0], salaries[0]
		for _, s := range salaries[1:] {
			if s < obsMin {
				obsMin = s
			}
			if s > obsMax {
				obsMax = s
			}
		}

		medianAcc := clamp01(1 - abs(obsMedian-ref.Median)/ref.Median)
		rangeAcc := rangeOverlap(obsMin, obsMax, ref.Min, ref.Max)
		accuracy := clamp01((medianAcc + rangeAcc) / 2)
		total += accuracy

		res.Sectors = append(res.Sectors, SectorSalary{
			Sector:          sector,
			ObservedMedian:  obsMedian,
			ReferenceMedian: ref.Median,
			ObservedMin:     obsMin,
			ObservedMax:     obsMax,
			ReferenceMin:    ref.Min,
			ReferenceMax:    ref.Max,
			Accuracy:        accuracy,
			Pass:            accuracy >= res.Threshold,
		})
	}

	res.Status = CategoryScored
	res.Accuracy = clamp01(total / float64(len(sectors)))
	res.Pass = res.Accuracy >= res.Threshold
	res.RowsUsed = rowsUsed
	return res
}

// rangeOverlap scores how much of the combined salary span the two ranges
// share: intersection over union, 1.0 for identical ranges, 0 for disjoint.
func rangeOverlap(aMin, aMax, bMin, bMax float64) float64 {
	lo := aMin
	if bMin > lo {
		lo = bMin
	}
	hi := aMax
	if bMax < hi {
		hi = bMax
	}
	if hi <= lo {
		return 0
	}
	unionLo := aMin
	if bMin < unionLo {
		unionLo = bMin
	}
	unionHi := aMax
	if bMax > unionHi {
		unionHi = bMax
	}
	if unionHi == unionLo {
		return 1
	}
	return (hi - lo) / (unionHi - unionLo)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
