package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/waypoint/internal/presentation/graph"
	"github.com/aretw0/waypoint/pkg/config"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <flow.yaml>",
	Short: "Export the flow graph visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the flow. Edge labels give the order successors are tried in.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := config.Load(args[0])
		if err != nil {
			return err
		}
		reg, err := spec.Registry()
		if err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if path, _ := cmd.Flags().GetString("report"); path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			var report domain.RunReport
			if err := json.Unmarshal(data, &report); err != nil {
				return fmt.Errorf("invalid report %s: %w", path, err)
			}
			overlay = graph.OverlayFromReport(&report)
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.FromRegistry(reg, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("report", "", "JSON run report to overlay on the graph")
}
