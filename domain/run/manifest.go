package run

import (
	"strconv"
	"time"

	"gocompare/domain/comparison"
	"gocompare/domain/core"
	"gocompare/domain/verdict"
)

// CodeVersion is stamped into every manifest so fingerprints change when the
// statistics change.
const CodeVersion = "1.0.0"

// Manifest is the audit record of one comparison run.
type Manifest struct {
	RunID         core.RunID                  `json:"run_id"`
	Source        string                      `json:"source"`
	InputHash     core.Hash                   `json:"input_hash"`
	Fingerprint   core.Hash                   `json:"fingerprint"`
	CodeVersion   string                      `json:"code_version"`
	Validation    comparison.ValidationReport `json:"validation"`
	Groups        int                         `json:"groups"`
	VerdictCounts verdict.Counts              `json:"verdict_counts"`
	Workers       int                         `json:"workers"`
	StartedAt     core.Timestamp              `json:"started_at"`
	FinishedAt    core.Timestamp              `json:"finished_at"`
}

// NewManifest starts a manifest for rows read from source.
func NewManifest(source string, rows []comparison.SummaryRow, report comparison.ValidationReport, workers int) *Manifest {
	inputHash := HashRows(rows)
	return &Manifest{
		RunID:         core.NewRunID(),
		Source:        source,
		InputHash:     inputHash,
		Fingerprint:   NewFingerprint(inputHash, CodeVersion),
		CodeVersion:   CodeVersion,
		Validation:    report,
		VerdictCounts: verdict.NewCounts(),
		Workers:       workers,
		StartedAt:     core.Now(),
	}
}

// Complete records the results of the run.
func (m *Manifest) Complete(records []comparison.ResultRecord) {
	m.Groups = len(records)
	m.VerdictCounts = verdict.NewCounts()
	for _, r := range records {
		m.VerdictCounts[r.Verdict]++
	}
	m.FinishedAt = core.Now()
}

// Duration is the wall time between start and completion.
func (m *Manifest) Duration() time.Duration {
	if m.FinishedAt.IsZero() {
		return 0
	}
	return m.FinishedAt.Sub(m.StartedAt)
}

// Validate checks if the manifest is complete
func (m *Manifest) Validate() error {
	if core.ID(m.RunID).IsEmpty() {
		return core.NewValidationError("manifest", "run_id cannot be empty")
	}
	if m.InputHash.IsEmpty() {
		return core.NewValidationError("manifest", "input_hash cannot be empty")
	}
	if m.FinishedAt.IsZero() {
		return core.NewValidationError("manifest", "run has not completed")
	}
	return nil
}

// HashRows fingerprints the validated input in source order.
func HashRows(rows []comparison.SummaryRow) core.Hash {
	h := &core.Hasher{}
	for _, r := range rows {
		h.Add(strconv.Itoa(r.SourceRow)).
			Add(r.GroupID.String()).
			Add(r.ApproachLabel).
			Add(r.Mean.Format()).
			Add(r.StdDev.Format()).
			Add(r.Count.Format()).
			EndRecord()
	}
	return h.Sum()
}

// NewFingerprint combines the input hash with the code version. Two runs with
// the same fingerprint must produce identical result tables.
func NewFingerprint(inputHash core.Hash, codeVersion string) core.Hash {
	return (&core.Hasher{}).Add(inputHash.String()).Add(codeVersion).Sum()
}
