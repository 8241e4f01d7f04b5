package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/syssam/qbe/graph"
	"github.com/syssam/qbe/schema"
)

func newSuggestCmd() *cobra.Command {
	var (
		catalogPath string
		directed    bool
	)
	cmd := &cobra.Command{
		Use:   "suggest -c catalog.yaml ENTITY,ENTITY[,ENTITY...]",
		Short: "Print the entities needed to connect a comma-separated selection",
		Long: `Suggest enumerates join paths connecting every entity in the
selection and prints, shortest first, the additional entities each path
requires. Fewer than two selected entities prints null ("no suggestion");
an empty list means the selection is already directly connected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var selected []schema.EntityID
			for _, part := range strings.Split(args[0], ",") {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				id, err := schema.ParseID(part)
				if err != nil {
					return err
				}
				selected = append(selected, id)
			}
			g, err := buildGraph(catalogPath, directed)
			if err != nil {
				return err
			}
			suggestions, ok := graph.Suggest(g, selected)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if !ok {
				return enc.Encode(nil)
			}
			out := make([][]string, 0, len(suggestions))
			for _, path := range suggestions {
				ids := make([]string, 0, len(path))
				for _, id := range path {
					ids = append(ids, string(id))
				}
				out = append(out, ids)
			}
			return enc.Encode(out)
		},
	}
	cmd.Flags().StringVarP(&catalogPath, "catalog", "c", "", "catalog YAML file")
	cmd.Flags().BoolVar(&directed, "directed", false, "build only forward edges")
	_ = cmd.MarkFlagRequired("catalog")
	return cmd
}
