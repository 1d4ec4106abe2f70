package cli

import (
	"fmt"
	"time"

	"github.com/lazypower/portfolio/internal/config"
	"github.com/lazypower/portfolio/internal/engine"
	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show today's derived metrics",
	RunE:  runDashboard,
}

func runDashboard(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	eng := engine.New(db, config.FromEnv())
	snap := eng.Aggregate(time.Now())

	gate := "CLOSED"
	if snap.GatekeeperOpen {
		gate = "OPEN"
	}

	fmt.Printf("Today's Alpha:    %d (rent %d)\n", snap.TodayAlpha, snap.CurrentRent)
	fmt.Printf("Gatekeeper:       %s\n", gate)
	fmt.Printf("Deep Work Tokens: %d / %d\n", snap.DeepWorkTokens, snap.WeeklyTokenCap)
	fmt.Printf("Social EMA:       %.1f / %.1f\n", snap.SocialEMA, eng.Cfg.Scoring.SocialEMATarget)
	if snap.CurrentRent > snap.BaseRent {
		fmt.Printf("RENT PENALTY:     %d pts (social isolation)\n", snap.CurrentRent)
	}
	if snap.Exam.Active {
		fmt.Printf("EXAM MODE ACTIVE — ends %s\n", snap.Exam.ExpiresAt.Format("Jan 02 15:04"))
	}

	if len(snap.Equity) > 0 {
		fmt.Println("\nEquity (last 7 days):")
		start := len(snap.Equity) - 7
		if start < 0 {
			start = 0
		}
		for _, d := range snap.Equity[start:] {
			fmt.Printf("  %s  net %+4d  equity %+d\n", d.Date.Format("2006-01-02"), d.Net, d.Equity)
		}
	}
	return nil
}

var reportDays int

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the shareholder-letter prompt for the trailing window",
	RunE:  runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	eng := engine.New(db, config.FromEnv())
	rep := eng.Report(time.Now(), reportDays)
	if rep.TotalPoints == 0 && len(rep.NoteLines) == 0 {
		fmt.Println("No data in the trailing window.")
		return nil
	}

	fmt.Println("--------------------------------------------------")
	fmt.Println("COPY THE TEXT BELOW AND PASTE INTO YOUR LLM OF CHOICE")
	fmt.Println("--------------------------------------------------")
	fmt.Println(rep.Prompt())
	fmt.Println("--------------------------------------------------")
	return nil
}

func init() {
	reportCmd.Flags().IntVar(&reportDays, "days", 30, "Trailing window in days")
}
