package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/enrichkes/kenrich/internal/duckdb"
	"github.com/enrichkes/kenrich/internal/output"
)

func newRunsCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List persisted enrichment runs",
		Long: `List the enrichment runs saved to a DuckDB database with
"kenrich enrich --db", newest first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(dbPath)
		},
	}

	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "DuckDB database with persisted runs (default from config key store.db)")

	cmd.AddCommand(newRunsShowCmd(&dbPath))

	return cmd
}

func newRunsShowCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print the ranked results of a persisted run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRunsShow(*dbPath, args[0])
		},
	}
}

func resolveDBPath(dbPath string) (string, error) {
	if dbPath == "" {
		dbPath = viper.GetString("store.db")
	}
	if dbPath == "" {
		return "", fmt.Errorf("no database: pass --db or set store.db in the config")
	}
	return dbPath, nil
}

func runRuns(dbPath string) error {
	dbPath, err := resolveDBPath(dbPath)
	if err != nil {
		return err
	}

	store, err := duckdb.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open run store: %w", err)
	}
	defer store.Close()

	runs, err := store.Runs()
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tCREATED\tLABEL\tQUERY\tUNIVERSE\tTESTED\tFDR\tRESULTS")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%g\t%d\n",
			r.RunID, r.Created.Format("2006-01-02 15:04"), r.Label,
			r.QuerySize, r.UniverseSize, r.TestedSets, r.FDRThreshold, r.ResultCount)
	}
	return w.Flush()
}

func runRunsShow(dbPath, runID string) error {
	dbPath, err := resolveDBPath(dbPath)
	if err != nil {
		return err
	}

	store, err := duckdb.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open run store: %w", err)
	}
	defer store.Close()

	results, err := store.Results(runID)
	if err != nil {
		return fmt.Errorf("load run %s: %w", runID, err)
	}
	if len(results) == 0 {
		return fmt.Errorf("run %s not found in %s", runID, dbPath)
	}

	tw := output.NewTabWriter(os.Stdout)
	if err := tw.WriteHeader(); err != nil {
		return err
	}
	for i := range results {
		if err := tw.Write(&results[i]); err != nil {
			return err
		}
	}
	return tw.Flush()
}
