package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Database drivers selectable through --driver.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/syssam/qbe/schema/load"
)

// driverNames maps the --driver flag value onto the registered sql driver.
var driverNames = map[string]string{
	load.DialectSQLite:   "sqlite",
	load.DialectPostgres: "postgres",
	load.DialectMySQL:    "mysql",
}

func newIntrospectCmd() *cobra.Command {
	var (
		driver   string
		dsn      string
		group    string
		dbSchema string
		outPath  string
	)
	cmd := &cobra.Command{
		Use:   "introspect --driver sqlite --dsn file.db",
		Short: "Derive a catalog from a live database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, ok := driverNames[driver]
			if !ok {
				return fmt.Errorf("qbe: unsupported driver %q", driver)
			}
			db, err := sql.Open(name, dsn)
			if err != nil {
				return err
			}
			defer db.Close()

			c, err := load.Introspect(cmd.Context(), db, load.IntrospectOptions{
				Dialect: driver,
				Group:   group,
				Schema:  dbSchema,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return load.Encode(w, c)
		},
	}
	cmd.Flags().StringVar(&driver, "driver", "", "database driver: sqlite, postgres or mysql")
	cmd.Flags().StringVar(&dsn, "dsn", "", "database connection string")
	cmd.Flags().StringVar(&group, "group", "", "group assigned to introspected entities (default app)")
	cmd.Flags().StringVar(&dbSchema, "db-schema", "", "database schema to introspect (default per driver)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the catalog YAML to a file instead of stdout")
	_ = cmd.MarkFlagRequired("driver")
	_ = cmd.MarkFlagRequired("dsn")
	return cmd
}
