package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string

	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rentbook",
	Short: "Rentbook - local property-management record keeper",
	Long: `Rentbook keeps the books for a small rental portfolio: properties,
tenants, income and expenses, and uploaded documents.

Records live in Redis (one JSON document per collection, with change
notification across processes) and uploaded files live in a local SQLite
blob store. Rentbook keeps the two referentially consistent: deleting a
property also removes its tenants, transactions, documents, and every
file they reference.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to rentbook.yml (default: ./rentbook.yml)")
}
