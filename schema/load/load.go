// Package load produces schema catalogs from external sources: YAML
// catalog files and live databases. It is the qbe equivalent of the
// collaborator that introspects data-model definitions; the graph layer
// only ever sees the normalized schema.Catalog it emits.
package load

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/syssam/qbe/schema"
)

// ParseError reports a catalog file that failed to decode or validate.
type ParseError struct {
	Path string // source path, empty for readers
	Err  error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("qbe: parsing catalog %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("qbe: parsing catalog: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error { return e.Err }

// IsParseError reports whether the error is a ParseError.
func IsParseError(err error) bool {
	var e *ParseError
	return errors.As(err, &e)
}

// Raw document shapes, decoded 1:1 from YAML before normalization.
type (
	document struct {
		Entities []rawEntity `yaml:"entities"`
	}
	rawEntity struct {
		Group       string        `yaml:"group"`
		Name        string        `yaml:"name"`
		Collapsible bool          `yaml:"collapsible"`
		Fields      []rawField    `yaml:"fields"`
		Relations   []rawRelation `yaml:"relations"`
	}
	rawField struct {
		Name     string `yaml:"name"`
		Type     string `yaml:"type"`
		Optional bool   `yaml:"optional"`
		Label    string `yaml:"label"`
	}
	rawRelation struct {
		Field   string     `yaml:"field"`
		Kind    string     `yaml:"kind"`
		Target  rawTarget  `yaml:"target"`
		Through *rawTarget `yaml:"through"`
	}
	rawTarget struct {
		Entity string `yaml:"entity"`
		Field  string `yaml:"field"`
	}
)

// File loads a YAML catalog from disk.
func File(path string) (*schema.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := Decode(f)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Path = path
			return nil, perr
		}
		return nil, err
	}
	return c, nil
}

// Decode reads a YAML catalog from r and returns the normalized catalog.
func Decode(r io.Reader) (*schema.Catalog, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, &ParseError{Err: err}
	}
	c := &schema.Catalog{}
	for _, re := range doc.Entities {
		e, err := normalize(re)
		if err != nil {
			return nil, &ParseError{Err: err}
		}
		if err := c.Add(e); err != nil {
			return nil, &ParseError{Err: err}
		}
	}
	return c, nil
}

// normalize validates one raw entity and converts it to schema form.
func normalize(re rawEntity) (*schema.Entity, error) {
	if re.Group == "" || re.Name == "" {
		return nil, fmt.Errorf("entity %q.%q: group and name are required", re.Group, re.Name)
	}
	e := &schema.Entity{
		Group:       re.Group,
		Name:        re.Name,
		Collapsible: re.Collapsible,
	}
	for _, rf := range re.Fields {
		if rf.Name == "" {
			return nil, fmt.Errorf("entity %s: field with empty name", e.ID())
		}
		e.Fields = append(e.Fields, &schema.Field{
			Name:     rf.Name,
			Type:     rf.Type,
			Optional: rf.Optional,
			Label:    rf.Label,
		})
	}
	for _, rr := range re.Relations {
		rel, err := normalizeRelation(e.ID(), rr)
		if err != nil {
			return nil, err
		}
		e.Relations = append(e.Relations, rel)
	}
	return e, nil
}

func normalizeRelation(owner schema.EntityID, rr rawRelation) (*schema.Relation, error) {
	if rr.Field == "" {
		return nil, fmt.Errorf("entity %s: relation with empty field", owner)
	}
	kind, err := schema.ParseKind(rr.Kind)
	if err != nil {
		return nil, fmt.Errorf("entity %s, relation %q: %w", owner, rr.Field, err)
	}
	target, err := normalizeTarget(owner, rr.Field, rr.Target)
	if err != nil {
		return nil, err
	}
	rel := &schema.Relation{Field: rr.Field, Kind: kind, Target: *target}
	if rr.Through != nil {
		if kind != schema.M2M {
			return nil, fmt.Errorf("entity %s, relation %q: through is only valid on m2m relations (got %s)", owner, rr.Field, kind)
		}
		through, terr := normalizeTarget(owner, rr.Field, *rr.Through)
		if terr != nil {
			return nil, terr
		}
		rel.Through = through
	}
	return rel, nil
}

func normalizeTarget(owner schema.EntityID, field string, rt rawTarget) (*schema.Target, error) {
	id, err := schema.ParseID(rt.Entity)
	if err != nil {
		return nil, fmt.Errorf("entity %s, relation %q: %w", owner, field, err)
	}
	if rt.Field == "" {
		return nil, fmt.Errorf("entity %s, relation %q: target %s has no key field", owner, field, id)
	}
	return &schema.Target{Entity: id, Field: rt.Field}, nil
}
