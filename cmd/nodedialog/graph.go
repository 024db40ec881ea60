package main

import (
	"fmt"

	"github.com/aretw0/nodedialog"
	"github.com/aretw0/nodedialog/internal/presentation/graph"
	"github.com/aretw0/nodedialog/pkg/adapters/file"
	dialoggraph "github.com/aretw0/nodedialog/pkg/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [path]",
	Short: "Export the dialog graph",
	Long: `Loads the graph and prints it as a Mermaid diagram (graph TD), or re-encodes
it as a YAML or JSON asset file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		policyName, _ := cmd.Flags().GetString("root-policy")
		policy, err := dialoggraph.ParseRootPolicy(policyName)
		if err != nil {
			return err
		}
		g, err := nodedialog.Load(cmd.Context(), graphPath(cmd, args), dialoggraph.WithRootPolicy(policy))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "mermaid":
			root, err := g.Root()
			if err != nil {
				return err
			}
			fmt.Fprint(out, graph.GenerateMermaid(g, root, nil))
			return nil
		case "yaml":
			return file.Encode(out, g, file.FormatYAML)
		case "json":
			return file.Encode(out, g, file.FormatJSON)
		default:
			return fmt.Errorf("unknown format %q (want mermaid, yaml or json)", format)
		}
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("format", "f", "mermaid", "Output format: mermaid, yaml or json")
}
