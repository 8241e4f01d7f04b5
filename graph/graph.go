package graph

import (
	"sort"

	"github.com/syssam/qbe/schema"
)

// Edge is a single hop out of a graph node: the local field carrying the
// relation, the neighbor entity, and the key field on the neighbor the
// relation joins against.
type Edge struct {
	Field       string
	Entity      schema.EntityID
	TargetField string
}

// Graph is the relationship graph over a catalog snapshot. It is
// immutable after Build; treat it as read-only shared state.
type Graph struct {
	directed bool
	edges    map[schema.EntityID][]Edge
}

// Option configures graph construction.
type Option func(*Graph)

// Directed builds only forward edges, skipping the mirror edge normally
// inserted under the target entity.
func Directed() Option {
	return func(g *Graph) { g.directed = true }
}

// Build derives the relationship graph from the catalog. Every relation
// contributes an edge under its source entity and, unless the graph is
// directed, a mirror edge under the entity it routes to. Many-to-many
// relations with a through entity route via that entity. Entities that
// end up with no edges at all are absent from the graph.
//
// A relation whose target or through entity is missing from the catalog
// is a configuration error and fails with a *DanglingReferenceError.
func Build(c *schema.Catalog, opts ...Option) (*Graph, error) {
	g := &Graph{edges: make(map[schema.EntityID][]Edge)}
	for _, opt := range opts {
		opt(g)
	}
	for _, e := range c.All() {
		src := e.ID()
		for _, rel := range e.Relations {
			if !c.Has(rel.Target.Entity) {
				return nil, NewDanglingReferenceError(src, rel.Field, rel.Target.Entity)
			}
			if rel.Through != nil && !c.Has(rel.Through.Entity) {
				return nil, NewDanglingReferenceError(src, rel.Field, rel.Through.Entity)
			}
			hop := rel.Route()
			g.insert(src, Edge{Field: rel.Field, Entity: hop.Entity, TargetField: hop.Field})
			if !g.directed {
				// The mirror edge keys on the logical target field even
				// when the hop is routed through an intermediate entity.
				g.insert(hop.Entity, Edge{Field: rel.Target.Field, Entity: src, TargetField: rel.Field})
			}
		}
	}
	return g, nil
}

// insert appends the edge under id, deduplicating by value.
func (g *Graph) insert(id schema.EntityID, e Edge) {
	for _, have := range g.edges[id] {
		if have == e {
			return
		}
	}
	g.edges[id] = append(g.edges[id], e)
}

// Directed reports whether the graph was built in directed mode.
func (g *Graph) Directed() bool { return g.directed }

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int { return len(g.edges) }

// Has reports whether the entity is a node of the graph.
func (g *Graph) Has(id schema.EntityID) bool {
	_, ok := g.edges[id]
	return ok
}

// Degree returns the number of edges recorded for the entity.
func (g *Graph) Degree(id schema.EntityID) int {
	return len(g.edges[id])
}

// Nodes returns the graph's node ids in lexicographic order.
func (g *Graph) Nodes() []schema.EntityID {
	out := make([]schema.EntityID, 0, len(g.edges))
	for id := range g.edges {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Edges returns a copy of the edge list of the entity, in insertion
// order. It returns nil for entities absent from the graph.
func (g *Graph) Edges(id schema.EntityID) []Edge {
	edges, ok := g.edges[id]
	if !ok {
		return nil
	}
	out := make([]Edge, len(edges))
	copy(out, edges)
	return out
}

// edgesOf returns the internal edge list. Callers must not mutate it.
func (g *Graph) edgesOf(id schema.EntityID) []Edge {
	return g.edges[id]
}
