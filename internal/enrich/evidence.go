package enrich

import (
	"sort"

	"github.com/enrichkes/kenrich/internal/deg"
)

// GeneEvidence carries the query-side attributes of one overlapping gene,
// copied from the original DEG table, never recomputed.
type GeneEvidence struct {
	GeneID         string
	GeneName       string // Display name; falls back to the gene id
	Log2FoldChange float64
	AdjustedP      float64
}

// AssembleEvidence resolves each overlapping gene of a result against the
// DEG table the query set was derived from. A gene missing from the table
// is an IntegrationError: the two inputs are out of sync and no partial
// evidence is returned. Rows are ordered by descending log2 fold change,
// ties broken by gene id.
func AssembleEvidence(r *Result, table *deg.Table) ([]GeneEvidence, error) {
	rows := make([]GeneEvidence, 0, len(r.OverlappingGenes))

	for _, geneID := range r.OverlappingGenes {
		rec, ok := table.Lookup(geneID)
		if !ok {
			return nil, &IntegrationError{SetID: r.SetID, GeneID: geneID}
		}

		name := rec.GeneName
		if name == "" {
			name = geneID
		}
		rows = append(rows, GeneEvidence{
			GeneID:         geneID,
			GeneName:       name,
			Log2FoldChange: rec.Log2FoldChange,
			AdjustedP:      rec.AdjustedP,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Log2FoldChange != rows[j].Log2FoldChange {
			return rows[i].Log2FoldChange > rows[j].Log2FoldChange
		}
		return rows[i].GeneID < rows[j].GeneID
	})

	return rows, nil
}
