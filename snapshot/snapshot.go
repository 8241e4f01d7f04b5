// Package snapshot publishes immutable (catalog, graph) pairs. The graph
// layer requires that in-flight discovery never observes a mutating
// graph; hosts that rebuild on schema change therefore build a fresh
// Snapshot and swap it into a Holder atomically.
package snapshot

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/syssam/qbe/graph"
	"github.com/syssam/qbe/schema"
)

// Snapshot is one immutable schema derivation. ID and BuiltAt identify
// the generation for logging and cache keys.
type Snapshot struct {
	ID      uuid.UUID
	BuiltAt time.Time
	Catalog *schema.Catalog
	Graph   *graph.Graph
}

// New builds a snapshot from a catalog. Build failures (dangling
// references) propagate untouched.
func New(c *schema.Catalog, opts ...graph.Option) (*Snapshot, error) {
	g, err := graph.Build(c, opts...)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		ID:      uuid.New(),
		BuiltAt: time.Now(),
		Catalog: c,
		Graph:   g,
	}, nil
}

// Holder is an atomic cell holding the current snapshot. The zero value
// is ready to use and loads nil until the first Store.
type Holder struct {
	cur atomic.Pointer[Snapshot]
}

// Load returns the current snapshot, or nil before the first publish.
func (h *Holder) Load() *Snapshot { return h.cur.Load() }

// Store publishes a new snapshot. Readers holding the previous one keep
// computing against it; nothing is mutated in place.
func (h *Holder) Store(s *Snapshot) { h.cur.Store(s) }
