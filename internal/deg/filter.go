package deg

import (
	"fmt"
	"math"
	"strings"
)

// Direction restricts a query to one regulation direction.
type Direction string

const (
	DirectionAll  Direction = "all"
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ParseDirection converts a user-facing direction flag value.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(DirectionAll):
		return DirectionAll, nil
	case string(DirectionUp):
		return DirectionUp, nil
	case string(DirectionDown):
		return DirectionDown, nil
	}
	return "", fmt.Errorf("unknown direction %q (want all, up or down)", s)
}

// FilterOptions are the caller-chosen significance and effect-size cutoffs
// that derive a query gene set from a DEG table.
type FilterOptions struct {
	MaxAdjustedP float64   // keep records with AdjustedP < MaxAdjustedP
	MinAbsLog2FC float64   // keep records with |Log2FoldChange| > MinAbsLog2FC
	Direction    Direction // optionally keep only up- or down-regulated genes
	IDPrefix     string    // keep only gene ids with this prefix ("" disables)
}

// DefaultFilterOptions mirror the conventional padj < 0.05, |log2FC| > 0.1
// cutoffs with Ensembl-id restriction.
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{
		MaxAdjustedP: 0.05,
		MinAbsLog2FC: 0.1,
		Direction:    DirectionAll,
		IDPrefix:     "ENS",
	}
}

// Filter returns a new table holding only records that pass the cutoffs.
// The identifier-prefix restriction keeps the query on the canonical id
// namespace of the reference catalog; ids from other namespaces cannot
// overlap any reference set and would only dilute the contingency tables.
func (t *Table) Filter(opts FilterOptions) *Table {
	var kept []Record
	for _, r := range t.records {
		if opts.IDPrefix != "" && !strings.HasPrefix(r.GeneID, opts.IDPrefix) {
			continue
		}
		if !(r.AdjustedP < opts.MaxAdjustedP) {
			continue
		}
		if !(math.Abs(r.Log2FoldChange) > opts.MinAbsLog2FC) {
			continue
		}
		switch opts.Direction {
		case DirectionUp:
			if r.Log2FoldChange <= 0 {
				continue
			}
		case DirectionDown:
			if r.Log2FoldChange >= 0 {
				continue
			}
		}
		kept = append(kept, r)
	}
	return NewTable(kept)
}
