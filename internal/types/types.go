package types

// AssessRequest is the JSON body for the assess endpoint: one object per
// synthetic member record, keyed by whatever column names the generator used.
type AssessRequest struct {
	// Records may be empty; an empty dataset scores as "insufficient data"
	// rather than failing validation.
	Records []map[string]any `json:"records"`
	// Source optionally labels where the dataset came from, for the
	// assessment history.
	Source string `json:"source,omitempty"`
}
