package cli

import (
	"fmt"

	"github.com/lazypower/portfolio/internal/store"
	"github.com/spf13/cobra"
)

var assetCmd = &cobra.Command{
	Use:   "asset",
	Short: "Manage the activity catalog",
}

var assetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active activities",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer db.Close()

		activities, err := db.ListActive()
		if err != nil {
			return fmt.Errorf("list activities: %w", err)
		}
		if len(activities) == 0 {
			fmt.Println("Catalog is empty. Add an activity with `portfolio asset add`.")
			return nil
		}
		for _, a := range activities {
			fmt.Printf("  %-10s %s\n", a.Tier, a.Name)
		}
		return nil
	},
}

var assetAddCmd = &cobra.Command{
	Use:   "add [name] [tier]",
	Short: "Add an activity (tier: Core, DeepWork, Rent, Social)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tier, err := store.ParseTier(args[1])
		if err != nil {
			return err
		}

		db, err := openDB()
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer db.Close()

		if err := db.InsertActivity(args[0], tier); err != nil {
			return fmt.Errorf("add activity: %w", err)
		}
		fmt.Printf("added %s [%s]\n", args[0], tier)
		return nil
	},
}

var assetDelistCmd = &cobra.Command{
	Use:   "delist [name]",
	Short: "Remove an activity from the catalog (history stays)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer db.Close()

		if err := db.DeleteActivity(args[0]); err != nil {
			return fmt.Errorf("delist activity: %w", err)
		}
		fmt.Printf("delisted %s\n", args[0])
		return nil
	},
}

func init() {
	assetCmd.AddCommand(assetListCmd)
	assetCmd.AddCommand(assetAddCmd)
	assetCmd.AddCommand(assetDelistCmd)
}
