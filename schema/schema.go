package schema

import (
	"fmt"
	"strings"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// titler capitalizes group labels the same way regardless of locale.
var titler = cases.Title(language.Und)

// EntityID identifies an entity in the catalog as "<Group>.<Name>",
// e.g. "Shop.Order". It is the node key of the relationship graph.
type EntityID string

// MakeID builds an EntityID from a group label and an entity name.
// The group is title-cased, so MakeID("shop", "Order") == "Shop.Order".
func MakeID(group, name string) EntityID {
	return EntityID(titler.String(group) + "." + name)
}

// ParseID validates and returns s as an EntityID. Both the group and the
// name part must be non-empty.
func ParseID(s string) (EntityID, error) {
	group, name, ok := strings.Cut(s, ".")
	if !ok || group == "" || name == "" {
		return "", fmt.Errorf("qbe: malformed entity id %q (want \"Group.Name\")", s)
	}
	return EntityID(s), nil
}

// Group returns the group part of the id.
func (id EntityID) Group() string {
	group, _, _ := strings.Cut(string(id), ".")
	return group
}

// Name returns the entity-name part of the id.
func (id EntityID) Name() string {
	_, name, _ := strings.Cut(string(id), ".")
	return name
}

// String returns the id as a plain string.
func (id EntityID) String() string { return string(id) }

// Field describes a single non-structural attribute of an entity.
type Field struct {
	// Name is the field name as declared by the source schema.
	Name string
	// Type is the source type tag (e.g. "CharField", "varchar", "int64").
	// The graph engine never interprets it; it is carried for renderers.
	Type string
	// Optional reports whether the field may be left blank.
	Optional bool
	// Label is the human-readable label. Empty means derived; see
	// DisplayLabel.
	Label string
}

// DisplayLabel returns the label to present for the field, deriving a
// humanized one from the field name when no explicit label was supplied.
func (f *Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return inflect.Humanize(f.Name)
}

// Entity is the normalized description of a single schema entity.
type Entity struct {
	// Group is the owning module/application label.
	Group string
	// Name is the entity name, unique within its group.
	Name string
	// Fields are the entity's attributes in declaration order.
	Fields []*Field
	// Relations are the entity's outgoing relations in declaration order.
	Relations []*Relation
	// Collapsible marks entities not exposed in an admin/front-end
	// context. Advisory only; the graph algorithms ignore it.
	Collapsible bool
}

// ID returns the entity's catalog identifier.
func (e *Entity) ID() EntityID {
	return MakeID(e.Group, e.Name)
}

// Field returns the named field, or nil if the entity has no such field.
func (e *Entity) Field(name string) *Field {
	for _, f := range e.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Catalog is an ordered, id-keyed set of entities. It is the immutable
// input of graph.Build; mutation after handing it to the graph layer is
// the caller's bug.
type Catalog struct {
	order    []EntityID
	entities map[EntityID]*Entity
}

// NewCatalog returns a catalog holding the given entities. It fails if
// two entities map to the same id.
func NewCatalog(entities ...*Entity) (*Catalog, error) {
	c := &Catalog{entities: make(map[EntityID]*Entity, len(entities))}
	for _, e := range entities {
		if err := c.Add(e); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add appends an entity to the catalog, keeping insertion order.
func (c *Catalog) Add(e *Entity) error {
	if c.entities == nil {
		c.entities = make(map[EntityID]*Entity)
	}
	id := e.ID()
	if _, ok := c.entities[id]; ok {
		return fmt.Errorf("qbe: entity %q redeclared in catalog", id)
	}
	c.entities[id] = e
	c.order = append(c.order, id)
	return nil
}

// Entity returns the entity with the given id.
func (c *Catalog) Entity(id EntityID) (*Entity, bool) {
	e, ok := c.entities[id]
	return e, ok
}

// Has reports whether the catalog contains the given id.
func (c *Catalog) Has(id EntityID) bool {
	_, ok := c.entities[id]
	return ok
}

// Len returns the number of entities in the catalog.
func (c *Catalog) Len() int { return len(c.order) }

// All returns the entities in insertion order.
func (c *Catalog) All() []*Entity {
	out := make([]*Entity, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.entities[id])
	}
	return out
}

// IDs returns the entity ids in insertion order.
func (c *Catalog) IDs() []EntityID {
	out := make([]EntityID, len(c.order))
	copy(out, c.order)
	return out
}
