package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/lazypower/portfolio/internal/config"
	"github.com/lazypower/portfolio/internal/engine"
	"github.com/spf13/cobra"
)

var bountyCmd = &cobra.Command{
	Use:   "bounty",
	Short: "Manage one-off bounties",
}

var bountyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bounties",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer db.Close()

		bounties, err := db.ListBounties()
		if err != nil {
			return fmt.Errorf("list bounties: %w", err)
		}
		if len(bounties) == 0 {
			fmt.Println("No bounties posted.")
			return nil
		}
		for _, b := range bounties {
			fmt.Printf("  [%-7s] %s — %d pts\n", b.Status, b.Name, b.Value)
		}
		return nil
	},
}

var bountyPostCmd = &cobra.Command{
	Use:   "post [name] [value]",
	Short: "Post a new open bounty",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := strconv.Atoi(args[1])
		if err != nil || value < 0 {
			return fmt.Errorf("value must be a non-negative integer")
		}

		db, err := openDB()
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer db.Close()

		eng := engine.New(db, config.FromEnv())
		if err := eng.PostBounty(args[0], value); err != nil {
			return fmt.Errorf("post bounty: %w", err)
		}
		fmt.Printf("posted %s (%d pts)\n", args[0], value)
		return nil
	},
}

var bountyClaimCmd = &cobra.Command{
	Use:   "claim [name]",
	Short: "Claim an open bounty and pay it out",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer db.Close()

		eng := engine.New(db, config.FromEnv())
		ev, err := eng.ClaimBounty(args[0], time.Now())
		if err != nil {
			return fmt.Errorf("claim bounty: %w", err)
		}
		fmt.Printf("claimed %s — +%d pts\n", args[0], ev.Points)
		return nil
	},
}

var bountyDelistCmd = &cobra.Command{
	Use:   "delist [name]",
	Short: "Delete a bounty regardless of status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer db.Close()

		if err := db.DeleteBounty(args[0]); err != nil {
			return fmt.Errorf("delist bounty: %w", err)
		}
		fmt.Printf("delisted %s\n", args[0])
		return nil
	},
}

func init() {
	bountyCmd.AddCommand(bountyListCmd)
	bountyCmd.AddCommand(bountyPostCmd)
	bountyCmd.AddCommand(bountyClaimCmd)
	bountyCmd.AddCommand(bountyDelistCmd)
}
