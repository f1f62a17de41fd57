package realism

// Category identifiers, in the fixed reporting order.
const (
	CategoryAge       = "age"
	CategoryGender    = "gender"
	CategorySector    = "sector"
	CategorySalary    = "salary"
	CategoryGeography = "geography"
	CategoryStatus    = "status"
	CategoryTenure    = "tenure"
)

// CategoryOrder fixes the order categories appear in reports so output is
// deterministic across runs.
var CategoryOrder = []string{
	CategoryAge,
	CategoryGender,
	CategorySector,
	CategorySalary,
	CategoryGeography,
	CategoryStatus,
	CategoryTenure,
}

// ScoringStatus distinguishes a genuinely low score from a category that
// never entered the aggregation.
type ScoringStatus string

const (
	// CategoryScored means the category was computed and contributes its
	// weight to the overall score.
	CategoryScored ScoringStatus = "scored"
	// CategorySkipped means no column could be resolved for the category's
	// required field; its weight is not redistributed.
	CategorySkipped ScoringStatus = "skipped"
	// CategoryInsufficient means the field resolved but no row held a usable
	// value for it.
	CategoryInsufficient ScoringStatus = "insufficient_data"
)

// BucketDiff reports one bucket's observed vs reference percentage.
type BucketDiff struct {
	Bucket     string  `json:"bucket"`
	Observed   float64 `json:"observed"`
	Reference  float64 `json:"reference"`
	Difference float64 `json:"difference"`
}

// SectorSalary reports the salary comparison for one sector.
type SectorSalary struct {
	Sector          string  `json:"sector"`
	ObservedMedian  float64 `json:"observed_median"`
	ReferenceMedian float64 `json:"reference_median"`
	ObservedMin     float64 `json:"observed_min"`
	ObservedMax     float64 `json:"observed_max"`
	ReferenceMin    float64 `json:"reference_min"`
	ReferenceMax    float64 `json:"reference_max"`
	Accuracy        float64 `json:"accuracy"`
	Pass            bool    `json:"pass"`
}

// CategoryResult is the outcome of one category scorer.
type CategoryResult struct {
	Category  string        `json:"category"`
	Status    ScoringStatus `json:"status"`
	Accuracy  float64       `json:"accuracy"`
	Threshold float64       `json:"threshold"`
	Pass      bool          `json:"pass"`
	Weight    float64       `json:"weight"`
	// Reason explains a skipped or insufficient category.
	Reason string `json:"reason,omitempty"`
	// Differences holds per-bucket detail for distribution categories.
	Differences []BucketDiff `json:"differences,omitempty"`
	// Sectors holds per-sector detail for the salary category.
	Sectors []SectorSalary `json:"sectors,omitempty"`
	// RowsUsed is the number of rows that contributed to the category after
	// malformed values were dropped.
	RowsUsed int `json:"rows_used"`
}

// Grade bands for the overall score.
type Grade string

const (
	GradeExcellent Grade = "Excellent"
	GradeGood      Grade = "Good"
	GradePoor      Grade = "Poor"
)

// OverallStatus distinguishes a scored run from one with no usable data.
type OverallStatus string

const (
	StatusScored           OverallStatus = "scored"
	StatusInsufficientData OverallStatus = "insufficient_data"
)

// OverallResult is the full realism report for one dataset.
type OverallResult struct {
	Score           float64          `json:"score"`
	Grade           Grade            `json:"grade,omitempty"`
	Status          OverallStatus    `json:"status"`
	Categories      []CategoryResult `json:"categories"`
	Recommendations []string         `json:"recommendations,omitempty"`
	RowCount        int              `json:"row_count"`
}

// GradeFor maps an overall score to its grade band.
func GradeFor(score float64) Grade {
	switch {
	case score >= 0.80:
		return GradeExcellent
	case score >= 0.60:
		return GradeGood
	default:
		return GradePoor
	}
}
