package migration

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatements_Idempotent(t *testing.T) {
	r := NewRunner()
	assert.Equal(t, "1.0.0", r.Version())

	steps := r.Statements()
	assert.Len(t, steps, 3)
	for _, s := range steps {
		assert.Contains(t, s.SQL, "IF NOT EXISTS", s.Name)
	}
	// results reference runs, so runs must come first
	assert.True(t, strings.Contains(steps[0].SQL, "comparison_runs ("))
	assert.True(t, strings.Contains(steps[1].SQL, "REFERENCES comparison_runs(id)"))
}
