package schema

import "fmt"

// Kind is the relation type of an entity relation.
type Kind int

// Relation kinds.
const (
	Unk     Kind = iota // Unknown.
	FK                  // Foreign key / many-to-one.
	O2O                 // One-to-one.
	M2M                 // Many-to-many, possibly through an intermediate entity.
	Generic             // Generic (content-type style) relation.
)

// String returns the relation kind name.
func (k Kind) String() string {
	s := "Unknown"
	switch k {
	case FK:
		s = "FK"
	case O2O:
		s = "O2O"
	case M2M:
		s = "M2M"
	case Generic:
		s = "Generic"
	}
	return s
}

// ParseKind parses a relation kind from its catalog spelling. Both the
// short form ("fk") and the long form ("foreign_key") are accepted.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "fk", "foreign_key", "foreignkey":
		return FK, nil
	case "o2o", "one_to_one", "onetoone":
		return O2O, nil
	case "m2m", "many_to_many", "manytomany":
		return M2M, nil
	case "generic", "generic_relation":
		return Generic, nil
	}
	return Unk, fmt.Errorf("qbe: unknown relation kind %q", s)
}

// Target is the far end of a relation: the entity it points at and the
// key field on that entity the relation joins against.
type Target struct {
	Entity EntityID
	Field  string
}

// Relation is a typed link from one entity's field to another entity.
type Relation struct {
	// Field is the local field carrying the relation.
	Field string
	// Kind is the relation type.
	Kind Kind
	// Target is the logical far end of the relation.
	Target Target
	// Through is the intermediate entity of a many-to-many relation,
	// nil for direct relations. When set, the graph hop is routed
	// through it so the join table is a real, traversable node.
	Through *Target
}

// Route returns the graph hop the relation materializes: the through
// entity when present, the logical target otherwise.
func (r *Relation) Route() Target {
	if r.Through != nil {
		return *r.Through
	}
	return r.Target
}
