package enrich

// Result is the enrichment outcome for one reference set. Results are
// never mutated after a run returns them.
type Result struct {
	SetID            string         // Key Event identifier
	Name             string         // Key Event display name
	AOPs             []string       // Parent Adverse Outcome Pathway ids
	OverlapCount     int            // Query genes found in the set (cell A)
	SetSize          int            // Member gene count
	PercentCovered   float64        // OverlapCount / SetSize * 100
	OddsRatio        float64        // Sample odds ratio, >= 0 (may be +Inf)
	RawP             float64        // One-sided Fisher p-value
	AdjustedP        float64        // Benjamini-Hochberg adjusted p-value
	OverlappingGenes []string       // Overlap gene ids, lexicographic order
	Evidence         []GeneEvidence // Per-gene rows, descending log2FC
}

// Report is the complete outcome of one enrichment run.
type Report struct {
	Results      []Result // Significant sets, deterministically ranked
	TestedSets   int      // Sets with overlap > 0 that entered correction
	QuerySize    int      // Query gene set cardinality
	UniverseSize int      // Background cardinality N
	FDRThreshold float64  // Significance cutoff used for filtering
}
