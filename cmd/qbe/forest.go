package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syssam/qbe/graph"
	"github.com/syssam/qbe/schema"
)

// treeOut is the JSON shape of one connecting tree.
type treeOut struct {
	Root  string               `json:"root"`
	Size  int                  `json:"size"`
	Nodes map[string][]edgeOut `json:"nodes"`
}

func newForestCmd() *cobra.Command {
	var (
		catalogPath string
		directed    bool
		workers     int
	)
	cmd := &cobra.Command{
		Use:   "forest -c catalog.yaml ENTITY...",
		Short: "Print minimal trees connecting the given entities, smallest first",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			required := make([]schema.EntityID, 0, len(args))
			for _, arg := range args {
				id, err := schema.ParseID(arg)
				if err != nil {
					return err
				}
				required = append(required, id)
			}
			g, err := buildGraph(catalogPath, directed)
			if err != nil {
				return err
			}
			var opts []graph.ForestOption
			if workers > 0 {
				opts = append(opts, graph.WithWorkers(workers))
			}
			forest := graph.BuildForest(g, required, opts...)
			if len(forest) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "no tree connects the requested entities")
			}
			out := make([]treeOut, 0, len(forest))
			for _, t := range forest {
				nodes := make(map[string][]edgeOut, t.Len())
				for _, id := range t.EntityIDs() {
					nodes[string(id)] = edgesOut(t.Edges(id))
				}
				out = append(out, treeOut{
					Root:  string(t.Root),
					Size:  t.Len(),
					Nodes: nodes,
				})
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().StringVarP(&catalogPath, "catalog", "c", "", "catalog YAML file")
	cmd.Flags().BoolVar(&directed, "directed", false, "build only forward edges")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent per-root extractions (default GOMAXPROCS)")
	_ = cmd.MarkFlagRequired("catalog")
	return cmd
}
