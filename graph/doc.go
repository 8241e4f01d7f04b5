// Package graph builds the entity relationship graph and discovers join
// paths over it.
//
// The graph is derived once from a schema.Catalog and is immutable from
// then on. All discovery operations are pure functions over that shared
// snapshot, so any number of them may run concurrently as long as nobody
// rebuilds the graph in place; publish a fresh graph instead (see the
// snapshot package).
//
// # Building
//
//	g, err := graph.Build(catalog)
//	if err != nil {
//	    // a relation points at an entity missing from the catalog
//	    log.Fatal(err)
//	}
//
// Edges are inserted in both directions unless the Directed option is
// given. A many-to-many relation with a through entity is routed via
// that entity, so the join table is a real node on the path.
//
// # Discovery
//
// ExtractTree grows a breadth-first tree from a root and prunes every
// leaf that is not part of the required set, yielding a minimal
// connector. BuildForest runs one extraction per graph node and keeps
// the cheapest distinct results. AllPaths enumerates simple paths
// between two entities, and Suggest turns those paths into the "models
// needed to connect your selection" candidate lists:
//
//	suggestions, ok := graph.Suggest(g, []schema.EntityID{
//	    "Shop.Customer", "Shop.Product",
//	})
//
// Absence of a result (empty forest, empty suggestion list) is an
// ordinary outcome, not an error: required entities may simply be
// disconnected in the schema.
package graph
