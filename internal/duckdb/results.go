package duckdb

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/enrichkes/kenrich/internal/enrich"
)

// RunInfo summarizes one persisted enrichment run.
type RunInfo struct {
	RunID        string
	Created      time.Time
	Label        string
	QuerySize    int
	UniverseSize int
	TestedSets   int
	FDRThreshold float64
	ResultCount  int
}

// SaveRun persists a report and its ranked results under the given run id.
// The write is transactional: either the whole run lands or nothing does.
func (s *Store) SaveRun(runID, label string, report *enrich.Report) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO enrichment_runs (run_id, label, query_size, universe_size, tested_sets, fdr_threshold)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		runID, label, report.QuerySize, report.UniverseSize, report.TestedSets, report.FDRThreshold,
	); err != nil {
		return fmt.Errorf("insert run %s: %w", runID, err)
	}

	for rank, r := range report.Results {
		if _, err := tx.Exec(
			`INSERT INTO enrichment_results
			 (run_id, rank, set_id, name, aops, overlap_count, set_size,
			  percent_covered, odds_ratio, raw_p, adjusted_p, overlapping_genes)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, rank+1, r.SetID, r.Name, strings.Join(r.AOPs, ", "),
			r.OverlapCount, r.SetSize, r.PercentCovered, r.OddsRatio,
			r.RawP, r.AdjustedP, strings.Join(r.OverlappingGenes, ", "),
		); err != nil {
			return fmt.Errorf("insert result %s/%s: %w", runID, r.SetID, err)
		}
	}

	return tx.Commit()
}

// Runs lists persisted runs, newest first.
func (s *Store) Runs() ([]RunInfo, error) {
	rows, err := s.db.Query(
		`SELECT r.run_id, r.created, r.label, r.query_size, r.universe_size,
		        r.tested_sets, r.fdr_threshold,
		        (SELECT count(*) FROM enrichment_results e WHERE e.run_id = r.run_id)
		 FROM enrichment_runs r
		 ORDER BY r.created DESC, r.run_id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var info RunInfo
		if err := rows.Scan(&info.RunID, &info.Created, &info.Label,
			&info.QuerySize, &info.UniverseSize, &info.TestedSets,
			&info.FDRThreshold, &info.ResultCount); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, info)
	}
	return runs, rows.Err()
}

// Results loads the ranked results of a run. Evidence rows are not
// persisted; they are reassembled from the DEG table when needed.
func (s *Store) Results(runID string) ([]enrich.Result, error) {
	rows, err := s.db.Query(
		`SELECT set_id, name, aops, overlap_count, set_size, percent_covered,
		        odds_ratio, raw_p, adjusted_p, overlapping_genes
		 FROM enrichment_results
		 WHERE run_id = ?
		 ORDER BY rank`, runID)
	if err != nil {
		return nil, fmt.Errorf("query results for run %s: %w", runID, err)
	}
	defer rows.Close()

	var results []enrich.Result
	for rows.Next() {
		var r enrich.Result
		var aops, genes sql.NullString
		if err := rows.Scan(&r.SetID, &r.Name, &aops, &r.OverlapCount,
			&r.SetSize, &r.PercentCovered, &r.OddsRatio, &r.RawP,
			&r.AdjustedP, &genes); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.AOPs = splitJoined(aops.String)
		r.OverlappingGenes = splitJoined(genes.String)
		results = append(results, r)
	}
	return results, rows.Err()
}

// splitJoined reverses the comma-space joining used on write.
func splitJoined(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ", ")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
