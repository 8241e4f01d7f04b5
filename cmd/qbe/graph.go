package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/syssam/qbe/graph"
	"github.com/syssam/qbe/schema/load"
)

// edgeOut is the JSON shape of a single graph or tree edge.
type edgeOut struct {
	Field       string `json:"field"`
	Entity      string `json:"entity"`
	TargetField string `json:"target_field"`
}

func edgesOut(edges []graph.Edge) []edgeOut {
	out := make([]edgeOut, 0, len(edges))
	for _, e := range edges {
		out = append(out, edgeOut{
			Field:       e.Field,
			Entity:      string(e.Entity),
			TargetField: e.TargetField,
		})
	}
	return out
}

func buildGraph(catalogPath string, directed bool) (*graph.Graph, error) {
	c, err := load.File(catalogPath)
	if err != nil {
		return nil, err
	}
	var opts []graph.Option
	if directed {
		opts = append(opts, graph.Directed())
	}
	return graph.Build(c, opts...)
}

func newGraphCmd() *cobra.Command {
	var (
		catalogPath string
		directed    bool
	)
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the relationship graph as a JSON adjacency map",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := buildGraph(catalogPath, directed)
			if err != nil {
				return err
			}
			out := make(map[string][]edgeOut, g.Len())
			for _, id := range g.Nodes() {
				out[string(id)] = edgesOut(g.Edges(id))
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().StringVarP(&catalogPath, "catalog", "c", "", "catalog YAML file")
	cmd.Flags().BoolVar(&directed, "directed", false, "build only forward edges")
	_ = cmd.MarkFlagRequired("catalog")
	return cmd
}
