package catalog

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// Mapping file column names.
const (
	ColGene   = "Gene"
	ColKE     = "KE"
	ColKEName = "ke.name"
	ColAOP    = "AOP"
)

// Loader loads a Key Event to gene mapping from a tab-delimited file with
// columns Gene, KE, ke.name, AOP. Plain and gzipped files are supported.
type Loader struct {
	path string
}

// NewLoader creates a loader for the given mapping file.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load parses the mapping file and populates the catalog. Rows with an
// empty gene or set id are skipped. Sets without a display name are
// excluded entirely: they are not eligible for reporting and must not
// count toward the universe or the number of tested sets.
func (l *Loader) Load(c *Catalog) error {
	f, err := os.Open(l.path)
	if err != nil {
		return fmt.Errorf("open mapping file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(l.path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return l.parse(reader, c)
}

// parse reads the header, resolves column indices and folds each row into
// the catalog.
func (l *Loader) parse(reader io.Reader, c *Catalog) error {
	scanner := bufio.NewScanner(reader)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("scan mapping header: %w", err)
		}
		return fmt.Errorf("mapping file is empty")
	}

	cols, err := parseHeader(scanner.Text())
	if err != nil {
		return err
	}

	// Accumulate per-set rows first so nameless sets can be dropped as a
	// unit, then fold survivors into the catalog.
	pending := make(map[string]*Set)

	lineNum := 1
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		gene := fieldAt(fields, cols.gene)
		setID := fieldAt(fields, cols.ke)
		if gene == "" || setID == "" {
			continue
		}

		s, ok := pending[setID]
		if !ok {
			s = &Set{ID: setID, Members: make(map[string]struct{})}
			pending[setID] = s
		}
		s.Members[gene] = struct{}{}

		if name := cleanName(fieldAt(fields, cols.keName)); name != "" && s.Name == "" {
			s.Name = name
		}
		if aop := fieldAt(fields, cols.aop); aop != "" {
			s.AOPs = mergeSorted(s.AOPs, []string{aop})
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan mapping file: %w", err)
	}

	for _, s := range pending {
		if s.Name == "" {
			continue
		}
		c.Add(s)
	}

	return nil
}

// columnIndices holds the resolved positions of the mapping columns.
type columnIndices struct {
	gene   int
	ke     int
	keName int
	aop    int
}

// parseHeader resolves required and optional column positions.
func parseHeader(line string) (columnIndices, error) {
	cols := columnIndices{gene: -1, ke: -1, keName: -1, aop: -1}

	for i, name := range strings.Split(line, "\t") {
		switch strings.TrimSpace(name) {
		case ColGene:
			cols.gene = i
		case ColKE:
			cols.ke = i
		case ColKEName:
			cols.keName = i
		case ColAOP:
			cols.aop = i
		}
	}

	if cols.gene == -1 || cols.ke == -1 {
		return cols, fmt.Errorf("mapping file missing required columns %q and/or %q", ColGene, ColKE)
	}
	return cols, nil
}

// fieldAt returns the trimmed field at index i, or "" if out of range.
func fieldAt(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}

// cleanName normalizes placeholder name values produced by upstream
// exports ("nan", "NA", ...) to the empty string.
func cleanName(name string) string {
	switch strings.ToLower(name) {
	case "", "nan", "na", "none":
		return ""
	}
	return name
}
