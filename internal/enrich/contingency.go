package enrich

// ContingencyTable holds the four cell counts of a 2x2 enrichment table:
//
//	          in set   not in set
//	in query     A         B
//	not in query C         D
type ContingencyTable struct {
	A int // in query and in set
	B int // in query, not in set
	C int // in set, not in query
	D int // in neither, within the universe
}

// BuildContingency computes the contingency table for a query gene set
// against one reference set over the background universe. Pure function.
//
// Query genes absent from the universe are not dropped: they still count
// toward B, exactly as the reference behavior computes |query \ set|.
// They can never contribute to C or D since those cells are drawn from
// the universe.
func BuildContingency(query, set, universe map[string]struct{}) ContingencyTable {
	var a, setInUniverse, overlapInUniverse, queryInUniverse int

	for g := range set {
		_, inQuery := query[g]
		if inQuery {
			a++
		}
		if _, ok := universe[g]; ok {
			setInUniverse++
			if inQuery {
				overlapInUniverse++
			}
		}
	}
	for g := range query {
		if _, ok := universe[g]; ok {
			queryInUniverse++
		}
	}

	return ContingencyTable{
		A: a,
		B: len(query) - a,
		C: len(set) - a,
		D: len(universe) - setInUniverse - queryInUniverse + overlapInUniverse,
	}
}

// Overlap returns the gene ids present in both query and set.
func Overlap(query, set map[string]struct{}) []string {
	small, large := query, set
	if len(set) < len(query) {
		small, large = set, query
	}

	var genes []string
	for g := range small {
		if _, ok := large[g]; ok {
			genes = append(genes, g)
		}
	}
	return genes
}
