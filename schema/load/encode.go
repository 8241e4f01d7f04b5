package load

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/syssam/qbe/schema"
)

// Encode writes the catalog as a YAML document readable by Decode.
// Introspected catalogs are persisted this way.
func Encode(w io.Writer, c *schema.Catalog) error {
	doc := document{Entities: make([]rawEntity, 0, c.Len())}
	for _, e := range c.All() {
		re := rawEntity{
			Group:       e.Group,
			Name:        e.Name,
			Collapsible: e.Collapsible,
		}
		for _, f := range e.Fields {
			re.Fields = append(re.Fields, rawField{
				Name:     f.Name,
				Type:     f.Type,
				Optional: f.Optional,
				Label:    f.Label,
			})
		}
		for _, rel := range e.Relations {
			kind, err := kindSpelling(rel.Kind)
			if err != nil {
				return fmt.Errorf("qbe: encoding catalog entity %s: %w", e.ID(), err)
			}
			rr := rawRelation{
				Field: rel.Field,
				Kind:  kind,
				Target: rawTarget{
					Entity: string(rel.Target.Entity),
					Field:  rel.Target.Field,
				},
			}
			if rel.Through != nil {
				rr.Through = &rawTarget{
					Entity: string(rel.Through.Entity),
					Field:  rel.Through.Field,
				}
			}
			re.Relations = append(re.Relations, rr)
		}
		doc.Entities = append(doc.Entities, re)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return err
	}
	return enc.Close()
}

func kindSpelling(k schema.Kind) (string, error) {
	switch k {
	case schema.FK:
		return "fk", nil
	case schema.O2O:
		return "o2o", nil
	case schema.M2M:
		return "m2m", nil
	case schema.Generic:
		return "generic", nil
	}
	return "", fmt.Errorf("relation kind %v has no catalog spelling", k)
}
