package graph

import (
	"slices"
	"sort"

	"github.com/syssam/qbe/schema"
)

// AllPaths enumerates every simple path (no repeated node) from start to
// end by depth-first exploration of outgoing edges. start == end yields
// the singleton path; a start with no outgoing edges yields none. Paths
// are bounded by graph size, so enumeration always terminates, but on
// densely connected schemas the result count can grow combinatorially;
// use AllPathsN to bound path length in that case.
func AllPaths(g *Graph, start, end schema.EntityID) [][]schema.EntityID {
	return findPaths(g, start, end, nil, 0)
}

// AllPathsN is AllPaths with path length capped at maxLen nodes.
// maxLen <= 0 means unbounded.
func AllPathsN(g *Graph, start, end schema.EntityID, maxLen int) [][]schema.EntityID {
	return findPaths(g, start, end, nil, maxLen)
}

// findPaths recurses with a copied prefix per branch. Sharing a single
// mutable accumulator across sibling branches corrupts paths; every
// branch owns its own slice.
func findPaths(g *Graph, start, end schema.EntityID, prefix []schema.EntityID, maxLen int) [][]schema.EntityID {
	path := make([]schema.EntityID, 0, len(prefix)+1)
	path = append(path, prefix...)
	path = append(path, start)
	if start == end {
		return [][]schema.EntityID{path}
	}
	if maxLen > 0 && len(path) >= maxLen {
		return nil
	}
	if !g.Has(start) {
		return nil
	}
	var paths [][]schema.EntityID
	for _, e := range g.edgesOf(start) {
		if slices.Contains(path, e.Entity) {
			continue
		}
		paths = append(paths, findPaths(g, e.Entity, end, path, maxLen)...)
	}
	return paths
}

// Suggest computes the candidate lists for the "add another model"
// autocomplete: for every pair of selected entities it enumerates all
// simple paths, keeps only paths passing through the entire selection,
// strips the already-selected entities, deduplicates, and sorts by
// length (shortest connector first) with a lexicographic tie-break.
//
// Fewer than two selected entities is "no suggestion": ok is false and
// the list nil. With ok true, an empty list means the selection is
// already directly connected and nothing needs to be added.
func Suggest(g *Graph, selected []schema.EntityID) (suggestions [][]schema.EntityID, ok bool) {
	if len(selected) < 2 {
		return nil, false
	}
	selSet := make(map[schema.EntityID]bool, len(selected))
	for _, id := range selected {
		selSet[id] = true
	}
	suggestions = [][]schema.EntityID{}
	for i := 0; i < len(selected); i++ {
		for j := i + 1; j < len(selected); j++ {
			for _, path := range AllPaths(g, selected[i], selected[j]) {
				if !coversAll(path, selected) {
					continue
				}
				trimmed := stripSelected(path, selSet)
				if !containsPath(suggestions, trimmed) {
					suggestions = append(suggestions, trimmed)
				}
			}
		}
	}
	sort.SliceStable(suggestions, func(i, j int) bool {
		if len(suggestions[i]) != len(suggestions[j]) {
			return len(suggestions[i]) < len(suggestions[j])
		}
		return slices.Compare(suggestions[i], suggestions[j]) < 0
	})
	return suggestions, true
}

// SuggestCatalog builds the graph from the catalog and runs Suggest on
// it. Build failures (dangling references) propagate untouched.
func SuggestCatalog(c *schema.Catalog, selected []schema.EntityID, directed bool) ([][]schema.EntityID, bool, error) {
	var opts []Option
	if directed {
		opts = append(opts, Directed())
	}
	g, err := Build(c, opts...)
	if err != nil {
		return nil, false, err
	}
	suggestions, ok := Suggest(g, selected)
	return suggestions, ok, nil
}

// coversAll reports whether the path contains every selected entity,
// not just the pair's endpoints. This is what forces multi-entity joins
// through a common path.
func coversAll(path, selected []schema.EntityID) bool {
	for _, id := range selected {
		if !slices.Contains(path, id) {
			return false
		}
	}
	return true
}

func stripSelected(path []schema.EntityID, selected map[schema.EntityID]bool) []schema.EntityID {
	out := make([]schema.EntityID, 0, len(path))
	for _, id := range path {
		if !selected[id] {
			out = append(out, id)
		}
	}
	return out
}

func containsPath(paths [][]schema.EntityID, p []schema.EntityID) bool {
	for _, have := range paths {
		if slices.Equal(have, p) {
			return true
		}
	}
	return false
}
