package main

import (
	"github.com/aretw0/nodedialog/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [path]",
	Short: "Talk through the dialog graph in the terminal",
	Long:  `Starts a conversation at the root node. Choices are answered by typing the option number; q leaves.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := runOptions(cmd, args)
		opts.Speaker, _ = cmd.Flags().GetString("speaker")
		opts.Plain, _ = cmd.Flags().GetBool("plain")
		opts.ShowVars, _ = cmd.Flags().GetBool("vars")
		opts.MaxSteps, _ = cmd.Flags().GetInt("max-steps")
		opts.Debug, _ = cmd.Flags().GetBool("debug")
		return cli.Execute(opts)
	},
}

func runOptions(cmd *cobra.Command, args []string) cli.RunOptions {
	opts := cli.RunOptions{Path: graphPath(cmd, args)}
	opts.LogLevel, _ = cmd.Flags().GetString("log-level")
	opts.RootPolicy, _ = cmd.Flags().GetString("root-policy")
	opts.Strict, _ = cmd.Flags().GetBool("strict")
	opts.Locale, _ = cmd.Flags().GetString("locale")
	opts.Catalog, _ = cmd.Flags().GetString("catalog")
	return opts
}

func addLocaleFlags(cmd *cobra.Command) {
	cmd.Flags().String("locale", "", "Preferred locale for the message catalog, e.g. pt-BR")
	cmd.Flags().String("catalog", "", "YAML message catalog used to localize tokens")
}

func init() {
	rootCmd.AddCommand(runCmd)

	addLocaleFlags(runCmd)
	runCmd.Flags().String("speaker", "console", "Speaker id")
	runCmd.Flags().Bool("plain", false, "Disable colors and markdown rendering")
	runCmd.Flags().Bool("vars", false, "Print each node's user variables")
	runCmd.Flags().Int("max-steps", 0, "Stop after this many steps (0 = unlimited)")
	runCmd.Flags().Bool("debug", false, "Log lifecycle events to stderr")

	// 'run' is the default if no command is provided
	rootCmd.Args = runCmd.Args
	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
