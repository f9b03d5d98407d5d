package enrich

import (
	"runtime"
	"sync"

	"github.com/enrichkes/kenrich/internal/catalog"
)

// WorkItem holds one reference set queued for the Build+Test stage.
type WorkItem struct {
	Seq int
	Set *catalog.Set
}

// WorkResult holds the Build+Test output for a single reference set.
// Tested is false when the set had zero overlap with the query: such sets
// are skipped entirely and must never enter the correction stage.
type WorkResult struct {
	Seq    int
	Set    *catalog.Set
	Tested bool
	Result Result
}

// ParallelTest builds contingency tables and runs the exact test across
// reference sets using a pool of workers. The query and universe are
// read-only shared inputs, so no locking is needed. Results arrive on the
// returned channel in completion order; use OrderedCollect to consume them
// in sequence-number order. If workers is 0, runtime.NumCPU() is used.
func (a *Analyzer) ParallelTest(query map[string]struct{}, items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	universe := a.catalog.Universe()
	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				results <- testSet(query, universe, item)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// testSet runs the Build+Test stage for one reference set.
func testSet(query, universe map[string]struct{}, item WorkItem) WorkResult {
	overlap := Overlap(query, item.Set.Members)
	if len(overlap) == 0 {
		return WorkResult{Seq: item.Seq, Set: item.Set}
	}

	table := BuildContingency(query, item.Set.Members, universe)
	oddsRatio, rawP := FisherGreater(table)

	setSize := item.Set.Size()
	return WorkResult{
		Seq:    item.Seq,
		Set:    item.Set,
		Tested: true,
		Result: Result{
			SetID:            item.Set.ID,
			Name:             item.Set.Name,
			AOPs:             item.Set.AOPs,
			OverlapCount:     len(overlap),
			SetSize:          setSize,
			PercentCovered:   float64(len(overlap)) / float64(setSize) * 100,
			OddsRatio:        oddsRatio,
			RawP:             rawP,
			OverlappingGenes: sortedCopy(overlap),
		},
	}
}

// OrderedCollect calls fn for each result in sequence-number order,
// buffering out-of-order arrivals until the next expected sequence number
// is available. This is the synchronization barrier before correction: it
// returns only once every Build+Test task has finished. If fn returns an
// error the remaining results are drained to unblock workers and the
// error is returned.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
