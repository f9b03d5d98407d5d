// Package output provides enrichment report formatters.
package output

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/enrichkes/kenrich/internal/enrich"
)

// TabWriter writes enrichment results in tab-delimited format, one row per
// significant Key Event.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited report writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"KE",
			"KE name",
			"AOP",
			"DEGs in KE",
			"KE size",
			"Percent of KE covered",
			"Overlapping DEGs",
			"Odds ratio",
			"p-value",
			"adjusted p-value",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a single enrichment result.
func (tw *TabWriter) Write(r *enrich.Result) error {
	values := []string{
		r.SetID,
		r.Name,
		strings.Join(r.AOPs, ", "),
		fmt.Sprintf("%d", r.OverlapCount),
		fmt.Sprintf("%d", r.SetSize),
		FormatPercent(r.PercentCovered),
		strings.Join(r.OverlappingGenes, ", "),
		FormatOddsRatio(r.OddsRatio),
		FormatScientific(r.RawP),
		FormatScientific(r.AdjustedP),
	}

	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

// EvidenceWriter writes per-gene evidence rows in tab-delimited format.
type EvidenceWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewEvidenceWriter creates a new evidence writer.
func NewEvidenceWriter(w io.Writer) *EvidenceWriter {
	return &EvidenceWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"KE",
			"Ensembl ID",
			"Gene Name",
			"log2FoldChange",
			"padj",
		},
	}
}

// WriteHeader writes the header line.
func (ew *EvidenceWriter) WriteHeader() error {
	_, err := ew.w.WriteString(strings.Join(ew.columns, "\t") + "\n")
	return err
}

// Write writes the evidence rows of one result.
func (ew *EvidenceWriter) Write(r *enrich.Result) error {
	for _, row := range r.Evidence {
		values := []string{
			r.SetID,
			row.GeneID,
			row.GeneName,
			fmt.Sprintf("%.2f", row.Log2FoldChange),
			FormatScientific(row.AdjustedP),
		}
		if _, err := ew.w.WriteString(strings.Join(values, "\t") + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes any buffered data to the underlying writer.
func (ew *EvidenceWriter) Flush() error {
	return ew.w.Flush()
}

// FormatScientific renders a p-value in scientific notation.
func FormatScientific(v float64) string {
	return fmt.Sprintf("%.2e", v)
}

// FormatPercent renders a coverage percentage.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// FormatOddsRatio renders an odds ratio; infinite ratios from zero-cell
// tables print as "Inf".
func FormatOddsRatio(v float64) string {
	if math.IsInf(v, 1) {
		return "Inf"
	}
	return fmt.Sprintf("%.2f", v)
}
