package duckdb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enrichkes/kenrich/internal/enrich"
)

func sampleReport() *enrich.Report {
	return &enrich.Report{
		Results: []enrich.Result{
			{
				SetID:            "KE:1549",
				Name:             "Oxidative stress",
				AOPs:             []string{"AOP:17", "AOP:294"},
				OverlapCount:     2,
				SetSize:          3,
				PercentCovered:   200.0 / 3.0,
				OddsRatio:        4.0,
				RawP:             0.0123,
				AdjustedP:        0.0246,
				OverlappingGenes: []string{"ENSG001", "ENSG002"},
			},
			{
				SetID:            "KE:55",
				Name:             "Cell injury",
				OverlapCount:     1,
				SetSize:          2,
				PercentCovered:   50,
				OddsRatio:        2.5,
				RawP:             0.02,
				AdjustedP:        0.04,
				OverlappingGenes: []string{"ENSG002"},
			},
		},
		TestedSets:   5,
		QuerySize:    10,
		UniverseSize: 100,
		FDRThreshold: 0.05,
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "kenrich.duckdb"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_SaveAndLoadRun(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SaveRun("run-1", "liver 24h", sampleReport()))

	runs, err := s.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].RunID)
	assert.Equal(t, "liver 24h", runs[0].Label)
	assert.Equal(t, 10, runs[0].QuerySize)
	assert.Equal(t, 100, runs[0].UniverseSize)
	assert.Equal(t, 5, runs[0].TestedSets)
	assert.Equal(t, 0.05, runs[0].FDRThreshold)
	assert.Equal(t, 2, runs[0].ResultCount)

	results, err := s.Results("run-1")
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Rank order is preserved on load.
	assert.Equal(t, "KE:1549", results[0].SetID)
	assert.Equal(t, []string{"AOP:17", "AOP:294"}, results[0].AOPs)
	assert.Equal(t, []string{"ENSG001", "ENSG002"}, results[0].OverlappingGenes)
	assert.InDelta(t, 0.0123, results[0].RawP, 1e-12)
	assert.Equal(t, "KE:55", results[1].SetID)
	assert.Nil(t, results[1].AOPs)
}

func TestStore_DuplicateRunIDFails(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SaveRun("run-1", "first", sampleReport()))
	err := s.SaveRun("run-1", "second", sampleReport())
	assert.Error(t, err)

	// The failed save must not leave partial rows behind.
	runs, err2 := s.Runs()
	require.NoError(t, err2)
	assert.Len(t, runs, 1)
	assert.Equal(t, "first", runs[0].Label)
}

func TestStore_ResultsForUnknownRun(t *testing.T) {
	s := openTestStore(t)

	results, err := s.Results("missing")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestStore_InMemory(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveRun("run-1", "", sampleReport()))
	runs, err := s.Runs()
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
