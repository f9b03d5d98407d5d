package enrich

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enrichkes/kenrich/internal/catalog"
)

func newSet(id, name string, genes ...string) *catalog.Set {
	members := make(map[string]struct{}, len(genes))
	for _, g := range genes {
		members[g] = struct{}{}
	}
	return &catalog.Set{ID: id, Name: name, Members: members}
}

// makeItems queues n single-gene sets; even-numbered sets overlap the
// query gene "G0", odd-numbered sets do not.
func makeItems(n int) <-chan WorkItem {
	ch := make(chan WorkItem, n)
	for i := range n {
		gene := fmt.Sprintf("G%d", i%2)
		ch <- WorkItem{Seq: i, Set: newSet(fmt.Sprintf("KE:%04d", i), "set", gene)}
	}
	close(ch)
	return ch
}

func poolAnalyzer(t *testing.T, n int) *Analyzer {
	t.Helper()
	c := catalog.New()
	for i := range n {
		c.Add(newSet(fmt.Sprintf("KE:%04d", i), "set", fmt.Sprintf("G%d", i%2)))
	}
	return NewAnalyzer(c)
}

func TestParallelTest_OrderPreservation(t *testing.T) {
	a := poolAnalyzer(t, 200)
	query := geneSet("G0")

	results := a.ParallelTest(query, makeItems(200), 8)

	var collected []int
	err := OrderedCollect(results, func(r WorkResult) error {
		collected = append(collected, r.Seq)
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, collected, 200)
	for i, seq := range collected {
		assert.Equal(t, i, seq, "result %d out of order", i)
	}
}

func TestParallelTest_ZeroOverlapSetsAreSkipped(t *testing.T) {
	a := poolAnalyzer(t, 20)
	query := geneSet("G0")

	results := a.ParallelTest(query, makeItems(20), 4)

	tested := 0
	err := OrderedCollect(results, func(r WorkResult) error {
		if r.Seq%2 == 0 {
			assert.True(t, r.Tested, "overlapping set %d must be tested", r.Seq)
			tested++
		} else {
			assert.False(t, r.Tested, "zero-overlap set %d must be skipped", r.Seq)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 10, tested)
}

func TestParallelTest_SingleWorker(t *testing.T) {
	a := poolAnalyzer(t, 50)
	results := a.ParallelTest(geneSet("G0"), makeItems(50), 1)

	count := 0
	err := OrderedCollect(results, func(r WorkResult) error {
		count++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 50, count)
}

func TestOrderedCollect_ErrorDrainsRemaining(t *testing.T) {
	a := poolAnalyzer(t, 100)
	results := a.ParallelTest(geneSet("G0"), makeItems(100), 8)

	wantErr := fmt.Errorf("stop")
	calls := 0
	err := OrderedCollect(results, func(r WorkResult) error {
		calls++
		if calls == 3 {
			return wantErr
		}
		return nil
	})
	assert.Equal(t, wantErr, err)
	assert.Equal(t, 3, calls)
}
