package cli

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/lazypower/portfolio/internal/store"
	"github.com/spf13/cobra"
)

var seedHistoryDays int

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Install the default catalog and optionally demo history",
	Long:  "Seeds the stock activity catalog when the catalog is empty. With --history N, also generates N days of plausible session history for demos.",
	RunE:  runSeed,
}

var defaultCatalog = []struct {
	Name string
	Tier store.Tier
}{
	{"News App", store.TierCore},
	{"Trading Algos", store.TierCore},
	{"Agentic AI", store.TierDeepWork},
	{"Adversarial DL", store.TierDeepWork},
	{"Academics", store.TierRent},
	{"Volleyball", store.TierRent},
	{"Social Life", store.TierSocial},
}

// Session profiles for generated history: name, duration, points, note.
var seedProfiles = []struct {
	Name     string
	Duration int
	Points   int
	Note     string
}{
	{"News App", 25, 15, "Fixed bug in scraper"},
	{"Trading Algos", 45, 15, "Optimized backtest loop"},
	{"Agentic AI", 120, 30, "Implemented memory module"},
	{"Adversarial DL", 95, 30, "Read research paper"},
	{"Academics", 60, 10, "Finance chapter review"},
	{"Volleyball", 120, 25, "Practice match"},
	{"Social Life", 180, 30, "Dinner with team"},
}

func runSeed(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	existing, err := db.ListActive()
	if err != nil {
		return fmt.Errorf("list activities: %w", err)
	}
	if len(existing) == 0 {
		for _, a := range defaultCatalog {
			if err := db.InsertActivity(a.Name, a.Tier); err != nil {
				return fmt.Errorf("seed catalog: %w", err)
			}
		}
		fmt.Printf("seeded %d default activities\n", len(defaultCatalog))
	} else {
		fmt.Println("catalog not empty, leaving it alone")
	}

	if seedHistoryDays <= 0 {
		return nil
	}

	fmt.Printf("seeding %d days of history...\n", seedHistoryDays)
	now := time.Now()
	inserted := 0
	for day := seedHistoryDays; day > 0; day-- {
		// Roughly one day in seven is a truancy day with nothing logged.
		if rand.Float64() <= 0.15 {
			continue
		}
		sessions := 1 + rand.Intn(4)
		for i := 0; i < sessions; i++ {
			p := seedProfiles[rand.Intn(len(seedProfiles))]
			duration := p.Duration + rand.Intn(21) - 5
			d := now.AddDate(0, 0, -day)
			ts := time.Date(d.Year(), d.Month(), d.Day(), 9+rand.Intn(14), rand.Intn(60), 0, 0, d.Location())
			if _, err := db.InsertEvent(ts, p.Name, duration, p.Points, "[AUTO-SEED] "+p.Note); err != nil {
				return fmt.Errorf("seed history: %w", err)
			}
			inserted++
		}
	}
	fmt.Printf("seeded %d events\n", inserted)
	return nil
}

func init() {
	seedCmd.Flags().IntVar(&seedHistoryDays, "history", 0, "Also generate this many days of demo history")
}
