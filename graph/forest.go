package graph

import (
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/qbe/schema"
)

// ForestOption configures forest assembly.
type ForestOption func(*forestConfig)

type forestConfig struct {
	workers int
}

// WithWorkers bounds the number of concurrent per-root extractions.
// The default is GOMAXPROCS.
func WithWorkers(n int) ForestOption {
	return func(c *forestConfig) {
		if n > 0 {
			c.workers = n
		}
	}
}

// BuildForest runs one tree extraction per graph node as root, keeps the
// attempts that connected the full required set, drops structural
// duplicates, and sorts ascending by node count (ties by root id), so
// the first element is a minimal-cost connector.
//
// An empty result means no root connects every required entity; the
// requirement spans disconnected parts of the schema. That is a
// legitimate outcome, not an error.
func BuildForest(g *Graph, required []schema.EntityID, opts ...ForestOption) []*Tree {
	cfg := forestConfig{workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(&cfg)
	}
	roots := g.Nodes()
	results := make([]*Tree, len(roots))
	var eg errgroup.Group
	eg.SetLimit(cfg.workers)
	for i, root := range roots {
		eg.Go(func() error {
			// Each extraction owns a fresh required copy and reads the
			// shared graph immutably.
			if t, ok := ExtractTree(g, required, root); ok {
				results[i] = t
			}
			return nil
		})
	}
	_ = eg.Wait() // extractions never fail

	var forest []*Tree
	for _, t := range results {
		if t == nil || containsTree(forest, t) {
			continue
		}
		forest = append(forest, t)
	}
	sort.SliceStable(forest, func(i, j int) bool {
		if forest[i].Len() != forest[j].Len() {
			return forest[i].Len() < forest[j].Len()
		}
		return forest[i].Root < forest[j].Root
	})
	return forest
}

func containsTree(forest []*Tree, t *Tree) bool {
	for _, have := range forest {
		if have.Equal(t) {
			return true
		}
	}
	return false
}
