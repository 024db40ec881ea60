package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nodedialog",
	Short: "NodeDialog runs branching dialog graphs",
	Long: `NodeDialog loads a dialog graph from a YAML/JSON asset file or a directory
of markdown node documents and lets speakers traverse it.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.String("dir", ".", "Directory containing the node documents")
	flags.String("file", "", "YAML or JSON asset file (takes precedence over --dir)")
	flags.String("log-level", "", "Log level: debug, info, warn, error (env NODEDIALOG_LOG_LEVEL)")
	flags.String("root-policy", "first-authored", "How the root is picked: first-authored or no-incoming")
	flags.Bool("strict", false, "Treat statements with several outgoing connections as errors")
}

// graphPath resolves the graph source: --file, then a positional argument, then --dir.
func graphPath(cmd *cobra.Command, args []string) string {
	if file, _ := cmd.Flags().GetString("file"); file != "" {
		return file
	}
	dir, _ := cmd.Flags().GetString("dir")
	if !cmd.Flags().Changed("dir") && len(args) > 0 {
		return args[0]
	}
	return dir
}
