// Package cli implements the splitr command line.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X github.com/splitr/splitr/internal/cli.Version=...".
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "splitr",
	Short: "Shared expense tracking server",
	Long: `Splitr records shared expenses and payments inside groups and
derives who owes whom. Run "splitr serve" to start the server, or
"splitr balances" to query a running one.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the splitr version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("splitr %s\n", Version)
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
