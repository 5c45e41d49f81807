package comparison

// ValidationReport counts field-level degradations seen while validating an
// input table. None of them abort a run.
type ValidationReport struct {
	InputRows       int            `json:"input_rows"`
	MissingMean     int            `json:"missing_mean"`
	MissingStdDev   int            `json:"missing_stddev"`
	MissingCount    int            `json:"missing_count"`
	BlankGroup      int            `json:"blank_group"`
	UnknownApproach int            `json:"unknown_approach"`
	UnknownLabels   map[string]int `json:"unknown_labels,omitempty"`
}

// Degraded reports whether any field fell back to missing or any row was
// excluded from both approach sets.
func (r ValidationReport) Degraded() bool {
	return r.MissingMean+r.MissingStdDev+r.MissingCount+r.BlankGroup+r.UnknownApproach > 0
}
