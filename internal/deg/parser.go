package deg

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ColumnMap names the input columns carrying each DEG attribute. The
// mapping is resolved once against the header; there is no alias guessing
// here, callers decide the mapping up front.
type ColumnMap struct {
	GeneID    string // required
	Log2FC    string // required
	AdjustedP string // required
	GeneName  string // optional
}

// DefaultColumns matches the conventional DESeq2-style export.
func DefaultColumns() ColumnMap {
	return ColumnMap{
		GeneID:    "human_ensembl_id",
		Log2FC:    "log2FoldChange",
		AdjustedP: "padj",
		GeneName:  "gene",
	}
}

// ParseFile reads a DEG table from a delimited file. Tab-delimited input
// is assumed unless the path ends in .csv; .gz compression is supported.
// Rows with an empty or non-numeric value in a required column are
// dropped, matching upstream NA handling. An adjusted p-value outside
// [0,1] is an error.
func ParseFile(path string, cols ColumnMap) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open DEG file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	name := path
	if strings.HasSuffix(name, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
		name = strings.TrimSuffix(name, ".gz")
	}

	comma := '\t'
	if strings.HasSuffix(strings.ToLower(name), ".csv") {
		comma = ','
	}

	return Parse(reader, comma, cols)
}

// Parse reads a DEG table from a delimited stream.
func Parse(reader io.Reader, comma rune, cols ColumnMap) (*Table, error) {
	if cols.GeneID == "" || cols.Log2FC == "" || cols.AdjustedP == "" {
		return nil, fmt.Errorf("column map must name gene id, log2FC and adjusted p-value columns")
	}

	cr := csv.NewReader(reader)
	cr.Comma = comma
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read DEG header: %w", err)
	}

	idx, err := resolveColumns(header, cols)
	if err != nil {
		return nil, err
	}

	var records []Record
	line := 1
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read DEG row: %w", err)
		}
		line++

		geneID := fieldValue(fields, idx.geneID)
		if geneID == "" || isNA(geneID) {
			continue
		}

		log2fc, ok := parseFloatField(fields, idx.log2fc)
		if !ok {
			continue
		}
		padj, ok := parseFloatField(fields, idx.adjustedP)
		if !ok {
			continue
		}
		if padj < 0 || padj > 1 {
			return nil, fmt.Errorf("line %d: adjusted p-value %v outside [0,1]", line, padj)
		}

		r := Record{
			GeneID:         geneID,
			Log2FoldChange: log2fc,
			AdjustedP:      padj,
		}
		if idx.geneName >= 0 {
			if name := fieldValue(fields, idx.geneName); !isNA(name) {
				r.GeneName = name
			}
		}
		records = append(records, r)
	}

	return NewTable(records), nil
}

type columnIndices struct {
	geneID    int
	log2fc    int
	adjustedP int
	geneName  int
}

func resolveColumns(header []string, cols ColumnMap) (columnIndices, error) {
	idx := columnIndices{geneID: -1, log2fc: -1, adjustedP: -1, geneName: -1}

	for i, name := range header {
		switch strings.TrimSpace(name) {
		case cols.GeneID:
			idx.geneID = i
		case cols.Log2FC:
			idx.log2fc = i
		case cols.AdjustedP:
			idx.adjustedP = i
		case cols.GeneName:
			if cols.GeneName != "" {
				idx.geneName = i
			}
		}
	}

	var missing []string
	if idx.geneID == -1 {
		missing = append(missing, cols.GeneID)
	}
	if idx.log2fc == -1 {
		missing = append(missing, cols.Log2FC)
	}
	if idx.adjustedP == -1 {
		missing = append(missing, cols.AdjustedP)
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("DEG file missing required columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func fieldValue(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}

func parseFloatField(fields []string, i int) (float64, bool) {
	s := fieldValue(fields, i)
	if s == "" || isNA(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// isNA reports whether a field is one of the placeholder values used by
// common R/pandas exports.
func isNA(s string) bool {
	switch strings.ToLower(s) {
	case "na", "nan", "none", "null":
		return true
	}
	return false
}
