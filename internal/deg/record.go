// Package deg provides differential expression tables: parsing, validation
// and cutoff filtering of DEG records ahead of enrichment testing.
package deg

import "fmt"

// Record is one differentially expressed gene observation.
type Record struct {
	GeneID         string  // Stable gene identifier (e.g., ENSG00000133703)
	GeneName       string  // Optional display symbol (e.g., KRAS)
	Log2FoldChange float64 // Expression effect size
	AdjustedP      float64 // Multiple-testing adjusted significance, in [0,1]
}

// Table is an ordered collection of DEG records with by-id lookup.
// For duplicate gene ids the first record wins the lookup slot.
type Table struct {
	records []Record
	byID    map[string]int
}

// NewTable creates a table from the given records.
func NewTable(records []Record) *Table {
	t := &Table{
		records: records,
		byID:    make(map[string]int, len(records)),
	}
	for i, r := range records {
		if _, ok := t.byID[r.GeneID]; !ok {
			t.byID[r.GeneID] = i
		}
	}
	return t
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.records)
}

// Records returns the underlying records in input order.
func (t *Table) Records() []Record {
	return t.records
}

// Lookup returns the record for a gene id.
func (t *Table) Lookup(geneID string) (Record, bool) {
	i, ok := t.byID[geneID]
	if !ok {
		return Record{}, false
	}
	return t.records[i], true
}

// GeneIDs returns the set of gene ids in the table. Duplicates collapse.
func (t *Table) GeneIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(t.byID))
	for id := range t.byID {
		ids[id] = struct{}{}
	}
	return ids
}

// Validate checks schema preconditions on every record. Adjusted p-values
// must be probabilities; a violation is fatal to any downstream run.
func (t *Table) Validate() error {
	for _, r := range t.records {
		if r.GeneID == "" {
			return fmt.Errorf("record with empty gene id")
		}
		if r.AdjustedP < 0 || r.AdjustedP > 1 {
			return fmt.Errorf("gene %s: adjusted p-value %v outside [0,1]", r.GeneID, r.AdjustedP)
		}
	}
	return nil
}
