package migration

import (
	"context"

	"gocompare/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Statements returns the DDL in execution order. Every statement is
// idempotent.
func (r *MigrationRunner) Statements() []Step {
	return []Step{
		{Name: "comparison_runs table", SQL: createRunsTable},
		{Name: "comparison_results table", SQL: createResultsTable},
		{Name: "indexes", SQL: createIndexes},
	}
}

// Step is one named DDL statement
type Step struct {
	Name string
	SQL  string
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	for _, step := range r.Statements() {
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			return errors.DatabaseError("failed to create "+step.Name, err)
		}
	}
	return nil
}

const createRunsTable = `
	CREATE TABLE IF NOT EXISTS comparison_runs (
		id UUID PRIMARY KEY,
		source TEXT NOT NULL,
		input_hash VARCHAR(64) NOT NULL,
		fingerprint VARCHAR(64) NOT NULL,
		code_version VARCHAR(32) NOT NULL,
		groups INTEGER NOT NULL DEFAULT 0,
		workers INTEGER NOT NULL DEFAULT 1,
		validation JSONB,
		verdict_counts JSONB,
		started_at TIMESTAMP WITH TIME ZONE NOT NULL,
		finished_at TIMESTAMP WITH TIME ZONE NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)
`

const createResultsTable = `
	CREATE TABLE IF NOT EXISTS comparison_results (
		run_id UUID NOT NULL REFERENCES comparison_runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		group_id TEXT NOT NULL,
		n_single BIGINT NOT NULL DEFAULT 0,
		n_dual BIGINT NOT NULL DEFAULT 0,
		mean_single DOUBLE PRECISION,
		mean_dual DOUBLE PRECISION,
		pooled_var_single DOUBLE PRECISION,
		pooled_var_dual DOUBLE PRECISION,
		t_statistic DOUBLE PRECISION,
		degrees_of_freedom DOUBLE PRECISION,
		p_value DOUBLE PRECISION,
		verdict VARCHAR(64) NOT NULL,
		PRIMARY KEY (run_id, position)
	)
`

const createIndexes = `
	CREATE INDEX IF NOT EXISTS idx_comparison_runs_finished_at ON comparison_runs(finished_at DESC);
	CREATE INDEX IF NOT EXISTS idx_comparison_runs_fingerprint ON comparison_runs(fingerprint);
	CREATE INDEX IF NOT EXISTS idx_comparison_results_verdict ON comparison_results(run_id, verdict)
`
