package graph

import (
	"sort"

	"github.com/syssam/qbe/schema"
)

// Tree is a connected, cycle-free subset of the graph covering a set of
// required entities. Edges are symmetric: an edge between A and B is
// recorded once under A and once under B, with the field names swapped.
type Tree struct {
	// Root is the entity the traversal started from. It is metadata for
	// ordering and reporting; structural equality ignores it.
	Root  schema.EntityID
	nodes map[schema.EntityID][]Edge
}

// newTree returns an empty tree rooted at the given entity.
func newTree(root schema.EntityID) *Tree {
	return &Tree{Root: root, nodes: make(map[schema.EntityID][]Edge)}
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return len(t.nodes) }

// Has reports whether the entity is a node of the tree.
func (t *Tree) Has(id schema.EntityID) bool {
	_, ok := t.nodes[id]
	return ok
}

// Degree returns the number of edges recorded for the entity.
func (t *Tree) Degree(id schema.EntityID) int {
	return len(t.nodes[id])
}

// Edges returns a copy of the entity's edge list.
func (t *Tree) Edges(id schema.EntityID) []Edge {
	edges, ok := t.nodes[id]
	if !ok {
		return nil
	}
	out := make([]Edge, len(edges))
	copy(out, edges)
	return out
}

// EntityIDs returns the tree's node ids in lexicographic order.
func (t *Tree) EntityIDs() []schema.EntityID {
	out := make([]schema.EntityID, 0, len(t.nodes))
	for id := range t.nodes {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Equal reports whether both trees record the same node and edge sets.
// Edge order and roots are ignored, so two traversals of the same
// structure from different roots compare equal.
func (t *Tree) Equal(other *Tree) bool {
	if len(t.nodes) != len(other.nodes) {
		return false
	}
	for id, edges := range t.nodes {
		oedges, ok := other.nodes[id]
		if !ok || len(edges) != len(oedges) {
			return false
		}
		if !sameEdgeSet(edges, oedges) {
			return false
		}
	}
	return true
}

func sameEdgeSet(a, b []Edge) bool {
	as := sortedEdges(a)
	bs := sortedEdges(b)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func sortedEdges(edges []Edge) []Edge {
	out := make([]Edge, len(edges))
	copy(out, edges)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Entity != out[j].Entity {
			return out[i].Entity < out[j].Entity
		}
		if out[i].Field != out[j].Field {
			return out[i].Field < out[j].Field
		}
		return out[i].TargetField < out[j].TargetField
	})
	return out
}

// link records the traversed edge in both directions, skipping
// duplicates per node.
func (t *Tree) link(parent schema.EntityID, parentField string, node schema.EntityID, nodeField string) {
	t.addEdge(parent, Edge{Field: parentField, Entity: node, TargetField: nodeField})
	t.addEdge(node, Edge{Field: nodeField, Entity: parent, TargetField: parentField})
}

func (t *Tree) addEdge(id schema.EntityID, e Edge) {
	for _, have := range t.nodes[id] {
		if have == e {
			return
		}
	}
	t.nodes[id] = append(t.nodes[id], e)
}

// remove deletes a leaf and fixes up its neighbors' edge lists.
func (t *Tree) remove(leaf schema.EntityID) {
	for _, e := range t.nodes[leaf] {
		neighbor := t.nodes[e.Entity]
		kept := neighbor[:0]
		for _, ne := range neighbor {
			if ne.Entity != leaf {
				kept = append(kept, ne)
			}
		}
		t.nodes[e.Entity] = kept
	}
	delete(t.nodes, leaf)
}

// prune repeatedly removes leaves (recorded degree under 2) that are not
// required, until a full pass removes none. Each productive round drops
// at least one node, so the explicit round bound is a safety net only.
func (t *Tree) prune(required map[schema.EntityID]bool) {
	maxRounds := len(t.nodes)
	for round := 0; round < maxRounds; round++ {
		var leaves []schema.EntityID
		for id, edges := range t.nodes {
			if len(edges) < 2 && !required[id] {
				leaves = append(leaves, id)
			}
		}
		if len(leaves) == 0 {
			return
		}
		for _, leaf := range leaves {
			if t.Has(leaf) {
				t.remove(leaf)
			}
		}
	}
}

// ExtractTree traverses the graph breadth-first from root, records every
// traversed edge in both directions, and prunes non-required leaves. The
// boolean result reports whether every required entity was visited.
//
// A node joins the tree only if it has at least two graph edges or is
// itself required; dead ends can never help connect two required nodes.
// The traversal stops as soon as the required set is exhausted. If root
// is the zero value, the lexicographically smallest required entity is
// used, so results are reproducible. An empty graph, or a root absent
// from it, yields an empty tree and false; callers treat that as an
// ordinary "no connector from here" outcome.
func ExtractTree(g *Graph, required []schema.EntityID, root schema.EntityID) (*Tree, bool) {
	reqSet := make(map[schema.EntityID]bool, len(required))
	remaining := make(map[schema.EntityID]bool, len(required))
	for _, id := range required {
		reqSet[id] = true
		remaining[id] = true
	}
	if root == "" {
		for id := range reqSet {
			if root == "" || id < root {
				root = id
			}
		}
	}
	t := newTree(root)
	if g.Len() == 0 || !g.Has(root) {
		return t, false
	}

	type hop struct {
		parent      schema.EntityID
		parentField string
		node        schema.EntityID
		nodeField   string
	}
	visited := make(map[schema.EntityID]bool)
	queue := []hop{{node: root}}
	for len(queue) > 0 && len(remaining) > 0 {
		h := queue[0]
		queue = queue[1:]
		delete(remaining, h.node)
		edges := g.edgesOf(h.node)
		if visited[h.node] || (len(edges) < 2 && !reqSet[h.node]) {
			continue
		}
		visited[h.node] = true
		if h.parent != "" {
			t.link(h.parent, h.parentField, h.node, h.nodeField)
		}
		for _, e := range edges {
			if !visited[e.Entity] {
				queue = append(queue, hop{
					parent:      h.node,
					parentField: e.Field,
					node:        e.Entity,
					nodeField:   e.TargetField,
				})
			}
		}
	}
	t.prune(reqSet)
	return t, len(remaining) == 0
}
