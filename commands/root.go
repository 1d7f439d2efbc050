// Package commands is the marketplace-api command line: the HTTP server and
// the MongoDB index migrations.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func Execute() {
	rootCmd := &cobra.Command{
		Use:   "marketplace-api",
		Short: "marketplace REST backend",
	}
	rootCmd.AddCommand(
		serveCommand(),
		migrateUpCommand(),
		migrateDownCommand(),
		createMigrationCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
