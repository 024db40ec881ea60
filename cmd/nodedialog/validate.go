package main

import (
	"github.com/aretw0/nodedialog/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Check the graph for consistency",
	Long: `Reports dangling connections, choices without options, invalid event
bindings and nodes unreachable from the root. With --watch the check reruns
whenever a node document changes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.ValidateOptions{Path: graphPath(cmd, args)}
		opts.LogLevel, _ = cmd.Flags().GetString("log-level")
		opts.RootPolicy, _ = cmd.Flags().GetString("root-policy")
		opts.Strict, _ = cmd.Flags().GetBool("strict")
		opts.Watch, _ = cmd.Flags().GetBool("watch")

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		if opts.Watch {
			return cli.RunValidateWatch(sigCtx, opts, cmd.OutOrStdout())
		}
		return cli.Validate(sigCtx, opts, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolP("watch", "w", false, "Revalidate on every change (node directories only)")
}
