// Package schema defines the normalized entity catalog consumed by the
// qbe graph engine.
//
// A Catalog is an ordered set of Entity descriptions. Each entity carries
// its plain fields and its relations to other entities:
//
//   - FK: foreign key to another entity
//   - O2O: one-to-one link
//   - M2M: many-to-many, optionally routed through an intermediate entity
//   - Generic: generic (content-type style) relation
//
// Entities are addressed by EntityID, a "<Group>.<Name>" pair where the
// group is the owning module or application, title-cased. The catalog is
// the sole input of graph.Build; it owns no behavior beyond lookup and
// normalization.
//
// Catalogs are produced by the schema/load package, either from a YAML
// file or by introspecting a live database.
package schema
