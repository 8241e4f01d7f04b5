package load

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/syssam/qbe/schema"
)

// Supported introspection dialects.
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
	DialectMySQL    = "mysql"
)

// IntrospectOptions configures database introspection.
type IntrospectOptions struct {
	// Dialect selects the catalog queries: sqlite, postgres or mysql.
	Dialect string
	// Group is the group label assigned to every produced entity.
	// Defaults to "app".
	Group string
	// Schema is the database schema to read: "public" by default for
	// postgres, the current database for mysql. Ignored for sqlite.
	Schema string
}

// table is the raw shape read from the database before normalization.
type table struct {
	name    string
	columns []column
	fks     []fkey
}

type column struct {
	name     string
	typ      string
	nullable bool
	pk       bool
}

type fkey struct {
	column    string
	refTable  string
	refColumn string // may be empty; resolved against the target's key
}

// Introspect derives a catalog from a live database: every table becomes
// an entity, every foreign key an FK relation targeting the referenced
// table's key column. A table holding exactly two foreign keys and no
// payload columns is reported as a join table: the two referenced tables
// get M2M relations through it, and the join entity itself is marked
// collapsible.
func Introspect(ctx context.Context, db *sql.DB, opts IntrospectOptions) (*schema.Catalog, error) {
	if opts.Group == "" {
		opts.Group = "app"
	}
	var (
		tables []table
		err    error
	)
	switch opts.Dialect {
	case DialectSQLite:
		tables, err = sqliteTables(ctx, db)
	case DialectPostgres:
		tables, err = infoSchemaTables(ctx, db, postgresQueries, defaultSchema(opts.Schema, "public"))
	case DialectMySQL:
		tables, err = infoSchemaTables(ctx, db, mysqlQueries, defaultSchema(opts.Schema, ""))
	default:
		return nil, fmt.Errorf("qbe: unknown introspection dialect %q", opts.Dialect)
	}
	if err != nil {
		return nil, fmt.Errorf("qbe: introspecting %s schema: %w", opts.Dialect, err)
	}
	return assemble(tables, opts.Group)
}

func defaultSchema(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// assemble turns raw tables into a normalized catalog.
func assemble(tables []table, group string) (*schema.Catalog, error) {
	byName := make(map[string]*table, len(tables))
	for i := range tables {
		byName[tables[i].name] = &tables[i]
	}
	entityID := func(tbl string) schema.EntityID {
		return schema.MakeID(group, inflect.Typeify(tbl))
	}
	c := &schema.Catalog{}
	for i := range tables {
		t := &tables[i]
		joinTable := isJoinTable(t)
		e := &schema.Entity{
			Group:       group,
			Name:        inflect.Typeify(t.name),
			Collapsible: joinTable,
		}
		for _, col := range t.columns {
			e.Fields = append(e.Fields, &schema.Field{
				Name:     col.name,
				Type:     col.typ,
				Optional: col.nullable,
			})
		}
		for _, fk := range t.fks {
			ref, ok := byName[fk.refTable]
			if !ok {
				// Leave the dangling reference in place; graph.Build
				// is the layer that rejects it.
				ref = &table{name: fk.refTable}
			}
			e.Relations = append(e.Relations, &schema.Relation{
				Field: fk.column,
				Kind:  schema.FK,
				Target: schema.Target{
					Entity: entityID(fk.refTable),
					Field:  resolveRefColumn(fk, ref),
				},
			})
		}
		if err := c.Add(e); err != nil {
			return nil, err
		}
	}
	// Second pass: report join tables as M2M relations on both sides.
	for i := range tables {
		t := &tables[i]
		if !isJoinTable(t) {
			continue
		}
		left, right := t.fks[0], t.fks[1]
		addM2M(c, byName, entityID, left, right, t)
		addM2M(c, byName, entityID, right, left, t)
	}
	return c, nil
}

// addM2M attaches an M2M relation to near's referenced table pointing at
// far's referenced table through the join table.
func addM2M(c *schema.Catalog, byName map[string]*table, entityID func(string) schema.EntityID, near, far fkey, join *table) {
	owner, ok := c.Entity(entityID(near.refTable))
	if !ok {
		return
	}
	farRef, ok := byName[far.refTable]
	if !ok {
		return
	}
	owner.Relations = append(owner.Relations, &schema.Relation{
		Field: inflect.Pluralize(inflect.Underscore(inflect.Typeify(far.refTable))),
		Kind:  schema.M2M,
		Target: schema.Target{
			Entity: entityID(far.refTable),
			Field:  resolveRefColumn(far, farRef),
		},
		Through: &schema.Target{
			Entity: entityID(join.name),
			Field:  keyColumn(join),
		},
	})
}

// isJoinTable reports whether the table is a pure many-to-many link:
// exactly two foreign keys and no payload columns beyond keys and the
// FK columns themselves.
func isJoinTable(t *table) bool {
	if len(t.fks) != 2 {
		return false
	}
	fkCols := map[string]bool{
		t.fks[0].column: true,
		t.fks[1].column: true,
	}
	for _, col := range t.columns {
		if !col.pk && !fkCols[col.name] {
			return false
		}
	}
	return true
}

// resolveRefColumn returns the key field the foreign key joins against,
// falling back to the referenced table's primary key when the driver
// reports none (sqlite leaves it implicit).
func resolveRefColumn(fk fkey, ref *table) string {
	if fk.refColumn != "" {
		return fk.refColumn
	}
	return keyColumn(ref)
}

// keyColumn returns the table's primary key column, or "id" when the
// table has no declared key (sqlite rowid tables).
func keyColumn(t *table) string {
	for _, col := range t.columns {
		if col.pk {
			return col.name
		}
	}
	return "id"
}

// sqliteTables reads the schema through sqlite_master and PRAGMAs.
func sqliteTables(ctx context.Context, db *sql.DB) ([]table, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tables := make([]table, 0, len(names))
	for _, name := range names {
		t := table{name: name}
		if err := sqliteColumns(ctx, db, &t); err != nil {
			return nil, fmt.Errorf("table %q: %w", name, err)
		}
		if err := sqliteForeignKeys(ctx, db, &t); err != nil {
			return nil, fmt.Errorf("table %q: %w", name, err)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func sqliteColumns(ctx context.Context, db *sql.DB, t *table) error {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", t.name))
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			cid, notnull, pk int
			name, typ        string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &name, &typ, &notnull, &dflt, &pk); err != nil {
			return err
		}
		t.columns = append(t.columns, column{
			name:     name,
			typ:      typ,
			nullable: notnull == 0,
			pk:       pk > 0,
		})
	}
	return rows.Err()
}

func sqliteForeignKeys(ctx context.Context, db *sql.DB, t *table) error {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA foreign_key_list(%q)", t.name))
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id, seq                  int
			refTable, from           string
			to                       sql.NullString
			onUpdate, onDelete, mtch string
		)
		if err := rows.Scan(&id, &seq, &refTable, &from, &to, &onUpdate, &onDelete, &mtch); err != nil {
			return err
		}
		t.fks = append(t.fks, fkey{
			column:    from,
			refTable:  refTable,
			refColumn: to.String,
		})
	}
	return rows.Err()
}

// dialectQueries holds the information_schema statements of a dialect.
type dialectQueries struct {
	columns     string
	primaryKeys string
	foreignKeys string
}

var postgresQueries = dialectQueries{
	columns: `SELECT table_name, column_name, data_type, is_nullable
FROM information_schema.columns
WHERE table_schema = $1
ORDER BY table_name, ordinal_position`,
	primaryKeys: `SELECT tc.table_name, kcu.column_name
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu
  ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
WHERE tc.constraint_type = 'PRIMARY KEY' AND tc.table_schema = $1
ORDER BY tc.table_name, kcu.ordinal_position`,
	foreignKeys: `SELECT tc.table_name, kcu.column_name, ccu.table_name, ccu.column_name
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu
  ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
JOIN information_schema.constraint_column_usage ccu
  ON tc.constraint_name = ccu.constraint_name AND tc.table_schema = ccu.table_schema
WHERE tc.constraint_type = 'FOREIGN KEY' AND tc.table_schema = $1
ORDER BY tc.table_name, kcu.ordinal_position`,
}

var mysqlQueries = dialectQueries{
	columns: `SELECT table_name, column_name, data_type, is_nullable
FROM information_schema.columns
WHERE table_schema = COALESCE(NULLIF(?, ''), DATABASE())
ORDER BY table_name, ordinal_position`,
	primaryKeys: `SELECT table_name, column_name
FROM information_schema.key_column_usage
WHERE table_schema = COALESCE(NULLIF(?, ''), DATABASE())
  AND constraint_name = 'PRIMARY'
ORDER BY table_name, ordinal_position`,
	foreignKeys: `SELECT table_name, column_name, referenced_table_name, referenced_column_name
FROM information_schema.key_column_usage
WHERE table_schema = COALESCE(NULLIF(?, ''), DATABASE())
  AND referenced_table_name IS NOT NULL
ORDER BY table_name, ordinal_position`,
}

// infoSchemaTables reads the schema through information_schema, shared
// by the postgres and mysql dialects.
func infoSchemaTables(ctx context.Context, db *sql.DB, q dialectQueries, dbSchema string) ([]table, error) {
	byName := make(map[string]*table)
	var order []string

	rows, err := db.QueryContext(ctx, q.columns, dbSchema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var tbl, col, typ, nullable string
		if err := rows.Scan(&tbl, &col, &typ, &nullable); err != nil {
			return nil, err
		}
		t, ok := byName[tbl]
		if !ok {
			t = &table{name: tbl}
			byName[tbl] = t
			order = append(order, tbl)
		}
		t.columns = append(t.columns, column{
			name:     col,
			typ:      typ,
			nullable: strings.EqualFold(nullable, "YES"),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	pkRows, err := db.QueryContext(ctx, q.primaryKeys, dbSchema)
	if err != nil {
		return nil, err
	}
	defer pkRows.Close()
	for pkRows.Next() {
		var tbl, col string
		if err := pkRows.Scan(&tbl, &col); err != nil {
			return nil, err
		}
		if t, ok := byName[tbl]; ok {
			for i := range t.columns {
				if t.columns[i].name == col {
					t.columns[i].pk = true
				}
			}
		}
	}
	if err := pkRows.Err(); err != nil {
		return nil, err
	}

	fkRows, err := db.QueryContext(ctx, q.foreignKeys, dbSchema)
	if err != nil {
		return nil, err
	}
	defer fkRows.Close()
	for fkRows.Next() {
		var tbl, col, refTable, refColumn string
		if err := fkRows.Scan(&tbl, &col, &refTable, &refColumn); err != nil {
			return nil, err
		}
		if t, ok := byName[tbl]; ok {
			t.fks = append(t.fks, fkey{column: col, refTable: refTable, refColumn: refColumn})
		}
	}
	if err := fkRows.Err(); err != nil {
		return nil, err
	}

	sort.Strings(order)
	tables := make([]table, 0, len(order))
	for _, name := range order {
		tables = append(tables, *byName[name])
	}
	return tables, nil
}
