package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/nodedialog"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of nodedialog",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "nodedialog version %s\n", strings.TrimSpace(nodedialog.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
