package enrich

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func geneSet(genes ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(genes))
	for _, g := range genes {
		s[g] = struct{}{}
	}
	return s
}

func TestBuildContingency_SixGeneScenario(t *testing.T) {
	universe := geneSet("G1", "G2", "G3", "G4", "G5", "G6")
	set := geneSet("G2", "G3", "G4")
	query := geneSet("G1", "G2", "G3")

	table := BuildContingency(query, set, universe)

	assert.Equal(t, ContingencyTable{A: 2, B: 1, C: 1, D: 2}, table)
}

func TestBuildContingency_OutOfUniverseQueryGenesCountTowardB(t *testing.T) {
	universe := geneSet("G1", "G2", "G3", "G4")
	set := geneSet("G1", "G2")
	// GX is not in the universe: it still belongs to |query \ set| but can
	// never appear in C or D.
	query := geneSet("G1", "GX")

	table := BuildContingency(query, set, universe)

	assert.Equal(t, ContingencyTable{A: 1, B: 1, C: 1, D: 2}, table)
}

func TestBuildContingency_CellSums(t *testing.T) {
	tests := []struct {
		name       string
		query, set []string
		universe   []string
		want       ContingencyTable
	}{
		{
			name:     "disjoint",
			query:    []string{"G1"},
			set:      []string{"G2", "G3"},
			universe: []string{"G1", "G2", "G3", "G4"},
			want:     ContingencyTable{A: 0, B: 1, C: 2, D: 1},
		},
		{
			name:     "query covers set",
			query:    []string{"G1", "G2"},
			set:      []string{"G1", "G2"},
			universe: []string{"G1", "G2", "G3"},
			want:     ContingencyTable{A: 2, B: 0, C: 0, D: 1},
		},
		{
			name:     "empty query",
			query:    nil,
			set:      []string{"G1"},
			universe: []string{"G1", "G2"},
			want:     ContingencyTable{A: 0, B: 0, C: 1, D: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildContingency(geneSet(tt.query...), geneSet(tt.set...), geneSet(tt.universe...))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOverlap(t *testing.T) {
	got := Overlap(geneSet("G1", "G2", "G3"), geneSet("G2", "G3", "G4"))
	sort.Strings(got)
	assert.Equal(t, []string{"G2", "G3"}, got)

	assert.Empty(t, Overlap(geneSet("G1"), geneSet("G2")))
}
