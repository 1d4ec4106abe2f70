package cli

import (
	"os"

	"github.com/lazypower/portfolio/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Gamified time-use ledger",
	Long:  "Portfolio turns logged activity sessions into point awards under tier rules and tracks the derived equity curve. Single Go binary, local SQLite storage.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(examCmd)
	rootCmd.AddCommand(assetCmd)
	rootCmd.AddCommand(bountyCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(importCmd)
}

// openDB is a helper that opens the database for CLI commands.
func openDB() (*store.DB, error) {
	dbPath := os.Getenv("PORTFOLIO_DB")
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
	}
	return store.Open(dbPath)
}
