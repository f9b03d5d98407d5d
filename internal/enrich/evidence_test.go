package enrich

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enrichkes/kenrich/internal/deg"
)

func evidenceTable() *deg.Table {
	return deg.NewTable([]deg.Record{
		{GeneID: "ENSG001", GeneName: "TP53", Log2FoldChange: 1.2, AdjustedP: 0.001},
		{GeneID: "ENSG002", GeneName: "", Log2FoldChange: 3.4, AdjustedP: 0.01},
		{GeneID: "ENSG003", GeneName: "MYC", Log2FoldChange: -2.0, AdjustedP: 0.02},
		{GeneID: "ENSG004", GeneName: "EGFR", Log2FoldChange: 3.4, AdjustedP: 0.03},
	})
}

func TestAssembleEvidence(t *testing.T) {
	r := &Result{
		SetID:            "KE:1",
		OverlappingGenes: []string{"ENSG001", "ENSG002", "ENSG003", "ENSG004"},
	}

	rows, err := AssembleEvidence(r, evidenceTable())
	require.NoError(t, err)
	require.Len(t, rows, 4)

	// Descending log2FC; the 3.4 tie resolves by gene id.
	assert.Equal(t, "ENSG002", rows[0].GeneID)
	assert.Equal(t, "ENSG004", rows[1].GeneID)
	assert.Equal(t, "ENSG001", rows[2].GeneID)
	assert.Equal(t, "ENSG003", rows[3].GeneID)

	// Values are copied from the table, and a missing display name falls
	// back to the gene id.
	assert.Equal(t, "ENSG002", rows[0].GeneName)
	assert.Equal(t, "EGFR", rows[1].GeneName)
	assert.Equal(t, 0.001, rows[2].AdjustedP)
	assert.Equal(t, -2.0, rows[3].Log2FoldChange)
}

func TestAssembleEvidence_MissingGeneIsFatal(t *testing.T) {
	r := &Result{
		SetID:            "KE:1",
		OverlappingGenes: []string{"ENSG001", "ENSG999"},
	}

	rows, err := AssembleEvidence(r, evidenceTable())
	require.Error(t, err)
	assert.Nil(t, rows, "no partial evidence on integration failure")

	var integrationErr *IntegrationError
	require.True(t, errors.As(err, &integrationErr))
	assert.Equal(t, "ENSG999", integrationErr.GeneID)
	assert.Equal(t, "KE:1", integrationErr.SetID)
}

func TestAssembleEvidence_NoOverlap(t *testing.T) {
	rows, err := AssembleEvidence(&Result{SetID: "KE:1"}, evidenceTable())
	require.NoError(t, err)
	assert.Empty(t, rows)
}
