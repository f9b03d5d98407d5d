// Package catalog provides the Key Event reference catalog and the
// background gene universe used for enrichment testing.
package catalog

import "sort"

// Set is a curated, named collection of genes for one Key Event.
type Set struct {
	ID      string              // Key Event identifier (e.g., KE:1549)
	Name    string              // Human-readable Key Event name
	AOPs    []string            // Parent Adverse Outcome Pathway ids, sorted unique
	Members map[string]struct{} // Member gene ids
}

// Size returns the number of member genes.
func (s *Set) Size() int {
	return len(s.Members)
}

// Contains returns true if the gene is a member of the set.
func (s *Set) Contains(geneID string) bool {
	_, ok := s.Members[geneID]
	return ok
}

// SortedMembers returns the member gene ids in lexicographic order.
func (s *Set) SortedMembers() []string {
	genes := make([]string, 0, len(s.Members))
	for g := range s.Members {
		genes = append(genes, g)
	}
	sort.Strings(genes)
	return genes
}

// Catalog maps Key Event ids to their gene sets. It is loaded once per
// session and read-only for the lifetime of any number of enrichment runs.
type Catalog struct {
	sets     map[string]*Set
	universe map[string]struct{}
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		sets:     make(map[string]*Set),
		universe: make(map[string]struct{}),
	}
}

// Add inserts a set into the catalog and folds its members into the
// universe. Adding the same id twice merges the member genes.
func (c *Catalog) Add(s *Set) {
	existing, ok := c.sets[s.ID]
	if !ok {
		c.sets[s.ID] = s
		existing = s
	} else {
		for g := range s.Members {
			existing.Members[g] = struct{}{}
		}
		if existing.Name == "" {
			existing.Name = s.Name
		}
		existing.AOPs = mergeSorted(existing.AOPs, s.AOPs)
	}
	for g := range s.Members {
		c.universe[g] = struct{}{}
	}
}

// Get returns the set for the given id, or nil.
func (c *Catalog) Get(id string) *Set {
	return c.sets[id]
}

// SetCount returns the number of sets in the catalog.
func (c *Catalog) SetCount() int {
	return len(c.sets)
}

// SetIDs returns all set ids in lexicographic order. Iterating the catalog
// in this order gives every run a stable, reproducible task sequence.
func (c *Catalog) SetIDs() []string {
	ids := make([]string, 0, len(c.sets))
	for id := range c.sets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Universe returns the background gene population: the union of all member
// genes across all sets. The returned map is shared and must not be mutated.
func (c *Catalog) Universe() map[string]struct{} {
	return c.universe
}

// UniverseSize returns the background cardinality N.
func (c *Catalog) UniverseSize() int {
	return len(c.universe)
}

// mergeSorted merges two sorted unique string slices into one.
func mergeSorted(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	for _, v := range a {
		seen[v] = struct{}{}
	}
	for _, v := range b {
		seen[v] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
