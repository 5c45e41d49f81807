// Package memory keeps completed runs in process for the UI and API when no
// database is configured.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"gocompare/domain/comparison"
	"gocompare/domain/core"
	"gocompare/domain/run"
	"gocompare/ports"
)

// ResultStore is an in-memory ports.ResultRepository. Only the newest
// capacity runs are kept.
type ResultStore struct {
	mu       sync.RWMutex
	runs     map[core.RunID]*ports.StoredRun
	order    []core.RunID // oldest first
	capacity int
}

var _ ports.ResultRepository = (*ResultStore)(nil)

// NewResultStore creates a store. capacity <= 0 keeps every run.
func NewResultStore(capacity int) *ResultStore {
	return &ResultStore{
		runs:     make(map[core.RunID]*ports.StoredRun),
		capacity: capacity,
	}
}

// WriteResults stores a copy of the run.
func (s *ResultStore) WriteResults(ctx context.Context, manifest *run.Manifest, records []comparison.ResultRecord) error {
	if manifest == nil {
		return fmt.Errorf("cannot store a run without a manifest")
	}
	stored := &ports.StoredRun{
		Manifest: *manifest,
		Records:  append([]comparison.ResultRecord(nil), records...),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.runs[manifest.RunID]; !exists {
		s.order = append(s.order, manifest.RunID)
	}
	s.runs[manifest.RunID] = stored
	for s.capacity > 0 && len(s.order) > s.capacity {
		delete(s.runs, s.order[0])
		s.order = s.order[1:]
	}
	return nil
}

// GetRun returns the stored run.
func (s *ResultStore) GetRun(ctx context.Context, runID core.RunID) (*ports.StoredRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.runs[runID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrRunNotFound, runID)
	}
	return stored, nil
}

// LatestRun returns the most recently stored run.
func (s *ResultStore) LatestRun(ctx context.Context) (*ports.StoredRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.order) == 0 {
		return nil, core.ErrRunNotFound
	}
	return s.runs[s.order[len(s.order)-1]], nil
}

// ListRuns returns manifests newest first.
func (s *ResultStore) ListRuns(ctx context.Context, limit int) ([]run.Manifest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]run.Manifest, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		out = append(out, s.runs[s.order[i]].Manifest)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FinishedAt.Time().After(out[j].FinishedAt.Time())
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
