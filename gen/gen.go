// Package gen generates Go constants for catalog entities, so host code
// can reference entity ids and field names without string literals.
package gen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"

	"github.com/syssam/qbe/schema"
)

const schemaPkg = "github.com/syssam/qbe/schema"

// Generator emits one Go file per catalog group.
type Generator struct {
	catalog *schema.Catalog
	outDir  string
	pkg     string
}

// New creates a generator writing into outDir. An empty pkg defaults to
// the output directory's base name.
func New(c *schema.Catalog, outDir, pkg string) *Generator {
	if pkg == "" {
		pkg = filepath.Base(outDir)
	}
	return &Generator{catalog: c, outDir: outDir, pkg: pkg}
}

// Generate renders and writes all files.
func (g *Generator) Generate() error {
	files := make(map[string]*jen.File)
	var order []string
	for _, e := range g.catalog.All() {
		f, ok := files[e.Group]
		if !ok {
			f = jen.NewFile(g.pkg)
			f.HeaderComment("Code generated by qbe. DO NOT EDIT.")
			files[e.Group] = f
			order = append(order, e.Group)
		}
		g.entityConstants(f, e)
	}
	if err := os.MkdirAll(g.outDir, 0o755); err != nil {
		return err
	}
	for _, group := range order {
		name := strings.ToLower(group) + ".go"
		if err := g.writeFile(files[group], name); err != nil {
			return fmt.Errorf("qbe: generating %s: %w", name, err)
		}
	}
	return nil
}

// entityConstants emits the id constant and one constant per field.
func (g *Generator) entityConstants(f *jen.File, e *schema.Entity) {
	f.Commentf("%s identifies the %s entity.", e.Name+"ID", e.ID())
	f.Const().Id(e.Name + "ID").Qual(schemaPkg, "EntityID").Op("=").Lit(string(e.ID()))
	if len(e.Fields) == 0 {
		return
	}
	defs := make([]jen.Code, 0, len(e.Fields))
	for _, field := range e.Fields {
		defs = append(defs, jen.Id(e.Name+"Field"+inflect.Camelize(field.Name)).Op("=").Lit(field.Name))
	}
	f.Commentf("Field names of %s.", e.ID())
	f.Const().Defs(defs...)
}

// writeFile streams the rendered file straight to disk.
func (g *Generator) writeFile(f *jen.File, filename string) error {
	out, err := os.Create(filepath.Join(g.outDir, filename))
	if err != nil {
		return err
	}
	defer out.Close()
	return f.Render(out)
}

// Generate is a convenience wrapper over New(...).Generate().
func Generate(c *schema.Catalog, outDir, pkg string) error {
	return New(c, outDir, pkg).Generate()
}
