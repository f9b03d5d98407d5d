package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/enrichkes/kenrich/internal/catalog"
	"github.com/enrichkes/kenrich/internal/deg"
	"github.com/enrichkes/kenrich/internal/duckdb"
	"github.com/enrichkes/kenrich/internal/enrich"
	"github.com/enrichkes/kenrich/internal/gprofiler"
	"github.com/enrichkes/kenrich/internal/output"
)

type enrichOptions struct {
	keMapPath    string
	geneCol      string
	log2fcCol    string
	padjCol      string
	nameCol      string
	padjCutoff   float64
	log2fcCutoff float64
	direction    string
	fdrThreshold float64
	workers      int
	outputFile   string
	evidenceFile string
	dbPath       string
	label        string
	functional   bool
	organism     string
	sources      []string
}

func newEnrichCmd() *cobra.Command {
	opts := &enrichOptions{}

	cmd := &cobra.Command{
		Use:   "enrich <deg-file>",
		Short: "Run Key Event enrichment on a DEG table",
		Long: `Filter a DEG table by significance and effect-size cutoffs, then test
the resulting query gene set for overrepresentation in every Key Event
of the reference catalog.`,
		Example: `  kenrich enrich degs.tsv --ke-map ke_mapping.tsv
  kenrich enrich degs.csv --padj 0.01 --log2fc 1 --direction up
  kenrich enrich degs.tsv -o results.tsv --evidence evidence.tsv --db runs.duckdb
  kenrich enrich degs.tsv --functional --organism hsapiens`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnrich(args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.keMapPath, "ke-map", "", "Key Event to gene mapping file (TSV, default from config key catalog.mapping)")
	flags.StringVar(&opts.geneCol, "gene-col", "human_ensembl_id", "DEG column holding the gene id")
	flags.StringVar(&opts.log2fcCol, "log2fc-col", "log2FoldChange", "DEG column holding the log2 fold change")
	flags.StringVar(&opts.padjCol, "padj-col", "padj", "DEG column holding the adjusted p-value")
	flags.StringVar(&opts.nameCol, "name-col", "gene", "DEG column holding the display gene name (optional)")
	flags.Float64Var(&opts.padjCutoff, "padj", 0.05, "Adjusted p-value cutoff for the query set")
	flags.Float64Var(&opts.log2fcCutoff, "log2fc", 0.1, "Absolute log2 fold change cutoff for the query set")
	flags.StringVar(&opts.direction, "direction", "all", "Regulation direction filter: all, up or down")
	flags.Float64Var(&opts.fdrThreshold, "fdr", enrich.DefaultFDRThreshold, "FDR threshold for reporting significant Key Events")
	flags.IntVar(&opts.workers, "workers", 0, "Build+Test worker count (0 = one per CPU)")
	flags.StringVarP(&opts.outputFile, "output", "o", "", "Output file (default: stdout)")
	flags.StringVar(&opts.evidenceFile, "evidence", "", "Also write per-gene evidence rows to this file")
	flags.StringVar(&opts.dbPath, "db", "", "Persist the run to this DuckDB database")
	flags.StringVar(&opts.label, "label", "", "Label for the persisted run")
	flags.BoolVar(&opts.functional, "functional", false, "Also run g:Profiler functional enrichment on the query genes")
	flags.StringVar(&opts.organism, "organism", "hsapiens", "g:Profiler organism code")
	flags.StringSliceVar(&opts.sources, "sources", []string{"GO:BP", "KEGG"}, "g:Profiler term source catalogs")

	return cmd
}

func runEnrich(degPath string, opts *enrichOptions) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	keMapPath := opts.keMapPath
	if keMapPath == "" {
		keMapPath = viper.GetString("catalog.mapping")
	}
	if keMapPath == "" {
		return fmt.Errorf("no Key Event mapping file: pass --ke-map or set catalog.mapping in the config")
	}

	cat := catalog.New()
	if err := catalog.NewLoader(keMapPath).Load(cat); err != nil {
		return fmt.Errorf("load Key Event catalog: %w", err)
	}
	logger.Info("catalog loaded",
		zap.String("path", keMapPath),
		zap.Int("sets", cat.SetCount()),
		zap.Int("universe", cat.UniverseSize()))

	table, err := deg.ParseFile(degPath, deg.ColumnMap{
		GeneID:    opts.geneCol,
		Log2FC:    opts.log2fcCol,
		AdjustedP: opts.padjCol,
		GeneName:  opts.nameCol,
	})
	if err != nil {
		return fmt.Errorf("load DEG table: %w", err)
	}

	direction, err := deg.ParseDirection(opts.direction)
	if err != nil {
		return err
	}
	filtered := table.Filter(deg.FilterOptions{
		MaxAdjustedP: opts.padjCutoff,
		MinAbsLog2FC: opts.log2fcCutoff,
		Direction:    direction,
		IDPrefix:     "ENS",
	})
	logger.Info("DEG table filtered",
		zap.Int("records", table.Len()),
		zap.Int("query_genes", filtered.Len()),
		zap.Float64("padj_cutoff", opts.padjCutoff),
		zap.Float64("log2fc_cutoff", opts.log2fcCutoff),
		zap.String("direction", string(direction)))

	analyzer := enrich.NewAnalyzer(cat)
	analyzer.SetLogger(logger)
	analyzer.SetWorkers(opts.workers)

	report, err := analyzer.Run(enrich.Request{
		Query:        filtered.GeneIDs(),
		DEGs:         filtered,
		FDRThreshold: opts.fdrThreshold,
	})
	if err != nil {
		return fmt.Errorf("enrichment run: %w", err)
	}

	if err := writeReport(report, opts); err != nil {
		return err
	}

	if opts.dbPath != "" {
		if err := persistRun(report, opts); err != nil {
			return err
		}
	}

	if opts.functional {
		runFunctional(logger, filtered, opts)
	}

	return nil
}

// writeReport writes the ranked results and, optionally, evidence rows.
func writeReport(report *enrich.Report, opts *enrichOptions) error {
	var out io.Writer = os.Stdout
	if opts.outputFile != "" {
		f, err := os.Create(opts.outputFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	tw := output.NewTabWriter(out)
	if err := tw.WriteHeader(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range report.Results {
		if err := tw.Write(&report.Results[i]); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	if opts.evidenceFile == "" {
		return nil
	}

	f, err := os.Create(opts.evidenceFile)
	if err != nil {
		return fmt.Errorf("create evidence file: %w", err)
	}
	defer f.Close()

	ew := output.NewEvidenceWriter(f)
	if err := ew.WriteHeader(); err != nil {
		return fmt.Errorf("write evidence header: %w", err)
	}
	for i := range report.Results {
		if err := ew.Write(&report.Results[i]); err != nil {
			return fmt.Errorf("write evidence: %w", err)
		}
	}
	return ew.Flush()
}

// persistRun saves the report to the DuckDB store under a timestamped id.
func persistRun(report *enrich.Report, opts *enrichOptions) error {
	store, err := duckdb.Open(opts.dbPath)
	if err != nil {
		return fmt.Errorf("open run store: %w", err)
	}
	defer store.Close()

	runID := time.Now().UTC().Format("20060102T150405Z")
	if err := store.SaveRun(runID, opts.label, report); err != nil {
		return fmt.Errorf("persist run: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Saved run %s to %s\n", runID, opts.dbPath)
	return nil
}

// runFunctional runs the optional secondary g:Profiler analysis. The
// primary report has already been written at this point, so a service
// failure only marks this view unavailable.
func runFunctional(logger *zap.Logger, filtered *deg.Table, opts *enrichOptions) {
	genes := displayNames(filtered)
	if len(genes) == 0 {
		fmt.Fprintln(os.Stderr, "Functional enrichment skipped: no gene names in the DEG table")
		return
	}

	terms, err := gprofiler.NewClient().Profile(gprofiler.Request{
		Organism:  opts.organism,
		Query:     genes,
		Sources:   opts.sources,
		Threshold: opts.fdrThreshold,
	})
	if err != nil {
		if errors.Is(err, gprofiler.ErrUnavailable) {
			fmt.Fprintln(os.Stderr, "Functional enrichment unavailable:", err)
			return
		}
		fmt.Fprintln(os.Stderr, "Functional enrichment failed:", err)
		return
	}

	terms = gprofiler.FilterRootTerms(terms)
	logger.Info("functional enrichment complete", zap.Int("terms", len(terms)))

	fmt.Fprintf(os.Stderr, "\nFunctional enrichment (%s):\n", strings.Join(opts.sources, ", "))
	fmt.Fprintln(os.Stderr, "term_id\tterm_name\tp_value\tterm_size\tintersection_size")
	for _, term := range terms {
		fmt.Fprintf(os.Stderr, "%s\t%s\t%s\t%d\t%d\n",
			term.ID, term.Name, output.FormatScientific(term.PValue),
			term.TermSize, term.IntersectionSize)
	}
}

// displayNames collects the unique, non-empty gene names of the query
// table in input order.
func displayNames(table *deg.Table) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, r := range table.Records() {
		if r.GeneName == "" {
			continue
		}
		if _, ok := seen[r.GeneName]; ok {
			continue
		}
		seen[r.GeneName] = struct{}{}
		names = append(names, r.GeneName)
	}
	return names
}
