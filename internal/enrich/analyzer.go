// Package enrich implements the Key Event enrichment statistics engine:
// contingency tables, one-sided Fisher exact tests, Benjamini-Hochberg
// correction, significance filtering, deterministic ranking and gene-level
// evidence assembly.
package enrich

import (
	"sort"

	"go.uber.org/zap"

	"github.com/enrichkes/kenrich/internal/catalog"
	"github.com/enrichkes/kenrich/internal/deg"
)

// DefaultFDRThreshold is the significance cutoff applied when a request
// does not specify one.
const DefaultFDRThreshold = 0.05

// Request describes one enrichment run. The query set and DEG table are
// produced by the ingestion side; the engine trusts their schema after
// validation and never mutates them.
type Request struct {
	Query        map[string]struct{} // Filtered query gene set
	DEGs         *deg.Table          // Table the query was derived from
	FDRThreshold float64             // 0 means DefaultFDRThreshold
}

// Analyzer runs enrichment analyses against a fixed reference catalog.
// The catalog is read-only for the lifetime of the analyzer; each Run is
// an independent pure pipeline over it.
type Analyzer struct {
	catalog *catalog.Catalog
	logger  *zap.Logger
	workers int
}

// NewAnalyzer creates an analyzer over the given catalog.
func NewAnalyzer(c *catalog.Catalog) *Analyzer {
	return &Analyzer{
		catalog: c,
		logger:  zap.NewNop(),
	}
}

// SetLogger sets the logger for run summaries.
func (a *Analyzer) SetLogger(l *zap.Logger) {
	a.logger = l
}

// SetWorkers configures the Build+Test worker pool size. Zero means one
// worker per CPU.
func (a *Analyzer) SetWorkers(n int) {
	a.workers = n
}

// Run executes the full pipeline: Build+Test per reference set (parallel),
// Benjamini-Hochberg correction across all tested sets (batched, after the
// collection barrier), significance filtering and ranking, then evidence
// assembly for the survivors. The run either completes with a full ranked
// report or fails before producing any result.
func (a *Analyzer) Run(req Request) (*Report, error) {
	if req.FDRThreshold == 0 {
		req.FDRThreshold = DefaultFDRThreshold
	}
	if err := a.validate(req); err != nil {
		return nil, err
	}

	// Feed sets in lexicographic id order so sequence numbers, and with
	// them the raw-p vector, are identical across runs.
	setIDs := a.catalog.SetIDs()
	items := make(chan WorkItem, len(setIDs))
	for seq, id := range setIDs {
		items <- WorkItem{Seq: seq, Set: a.catalog.Get(id)}
	}
	close(items)

	testResults := a.ParallelTest(req.Query, items, a.workers)

	var tested []Result
	if err := OrderedCollect(testResults, func(r WorkResult) error {
		if r.Tested {
			tested = append(tested, r.Result)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	rawP := make([]float64, len(tested))
	for i, r := range tested {
		rawP[i] = r.RawP
	}
	adjusted := AdjustBenjaminiHochberg(rawP)
	for i := range tested {
		tested[i].AdjustedP = adjusted[i]
	}

	ranked := Select(tested, req.FDRThreshold)

	for i := range ranked {
		evidence, err := AssembleEvidence(&ranked[i], req.DEGs)
		if err != nil {
			return nil, err
		}
		ranked[i].Evidence = evidence
	}

	a.logger.Info("enrichment run complete",
		zap.Int("query_size", len(req.Query)),
		zap.Int("catalog_sets", a.catalog.SetCount()),
		zap.Int("tested_sets", len(tested)),
		zap.Int("significant", len(ranked)),
		zap.Float64("fdr_threshold", req.FDRThreshold))

	return &Report{
		Results:      ranked,
		TestedSets:   len(tested),
		QuerySize:    len(req.Query),
		UniverseSize: a.catalog.UniverseSize(),
		FDRThreshold: req.FDRThreshold,
	}, nil
}

// validate checks every schema precondition before any work starts.
func (a *Analyzer) validate(req Request) error {
	if a.catalog == nil || a.catalog.SetCount() == 0 {
		return validationErrorf("reference catalog is empty")
	}
	if a.catalog.UniverseSize() == 0 {
		return validationErrorf("gene universe is empty")
	}
	if len(req.Query) == 0 {
		return validationErrorf("query gene set is empty")
	}
	if req.DEGs == nil {
		return validationErrorf("DEG table is required for evidence assembly")
	}
	if err := req.DEGs.Validate(); err != nil {
		return validationErrorf("DEG table: %v", err)
	}
	if req.FDRThreshold <= 0 || req.FDRThreshold > 1 {
		return validationErrorf("FDR threshold %v outside (0,1]", req.FDRThreshold)
	}
	return nil
}

func sortedCopy(genes []string) []string {
	out := make([]string, len(genes))
	copy(out, genes)
	sort.Strings(out)
	return out
}
