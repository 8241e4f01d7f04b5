package main

import (
	"github.com/spf13/cobra"

	"github.com/syssam/qbe/gen"
	"github.com/syssam/qbe/schema/load"
)

func newGenCmd() *cobra.Command {
	var (
		catalogPath string
		outDir      string
		pkg         string
	)
	cmd := &cobra.Command{
		Use:   "gen -c catalog.yaml -o ./entids",
		Short: "Generate typed entity and field constants from a catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := load.File(catalogPath)
			if err != nil {
				return err
			}
			return gen.Generate(c, outDir, pkg)
		},
	}
	cmd.Flags().StringVarP(&catalogPath, "catalog", "c", "", "catalog YAML file")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory for generated files")
	cmd.Flags().StringVar(&pkg, "pkg", "", "package name for generated files (default directory name)")
	_ = cmd.MarkFlagRequired("catalog")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
