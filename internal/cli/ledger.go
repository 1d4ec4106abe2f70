package cli

import (
	"fmt"
	"time"

	"github.com/lazypower/portfolio/internal/config"
	"github.com/lazypower/portfolio/internal/engine"
	"github.com/spf13/cobra"
)

var (
	logDuration int
	logNotes    string
	logSleep    float64
	logSubtype  string
)

var logCmd = &cobra.Command{
	Use:   "log [activity]",
	Short: "Log one activity session",
	Long:  "Score a session under the activity's tier rules and append it to the event log.",
	Args:  cobra.ExactArgs(1),
	RunE:  runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	eng := engine.New(db, config.FromEnv())
	result, err := eng.LogSession(engine.SessionReport{
		Activity:      args[0],
		Duration:      logDuration,
		Notes:         logNotes,
		SleepHours:    logSleep,
		SocialSubtype: logSubtype,
	}, time.Now())
	if err != nil {
		return fmt.Errorf("log session: %w", err)
	}

	if result.Points > 0 {
		fmt.Printf("+%d pts — %s\n", result.Points, result.Notes)
	} else {
		fmt.Printf("0 pts — %s\n", result.Notes)
	}
	return nil
}

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Delete the most recent event",
	RunE:  runUndo,
}

func runUndo(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	eng := engine.New(db, config.FromEnv())
	ev, err := eng.UndoLast()
	if err != nil {
		return fmt.Errorf("undo: %w", err)
	}

	fmt.Printf("removed #%d %s %s (%dm, %+d pts)\n",
		ev.ID, ev.Timestamp.Format("2006-01-02 15:04"), ev.Activity, ev.Duration, ev.Points)
	return nil
}

var examActivate bool

var examCmd = &cobra.Command{
	Use:   "exam",
	Short: "Show or activate exam mode",
	Long:  "Exam mode disables the vampire rule and boosts the exam rent activity for 72 hours, for a one-time point fee. Use --activate to turn it on.",
	RunE:  runExam,
}

func runExam(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	cfg := config.FromEnv()
	eng := engine.New(db, cfg)
	now := time.Now()

	if examActivate {
		if err := eng.ActivateExamMode(now); err != nil {
			return fmt.Errorf("activate exam mode: %w", err)
		}
		fmt.Printf("exam mode activated (-%d pts)\n", cfg.Scoring.ExamModeFee)
	}

	status := eng.ExamMode(time.Now())
	if status.Active {
		fmt.Printf("EXAM MODE ACTIVE — ends %s\n", status.ExpiresAt.Format("Jan 02 15:04"))
	} else {
		fmt.Println("exam mode inactive")
	}
	return nil
}

func init() {
	logCmd.Flags().IntVarP(&logDuration, "duration", "d", 0, "Session duration in minutes")
	logCmd.Flags().StringVarP(&logNotes, "notes", "n", "", "Free-text session notes")
	logCmd.Flags().Float64VarP(&logSleep, "sleep", "s", 7.0, "Hours slept last night")
	logCmd.Flags().StringVar(&logSubtype, "subtype", "", "Social subtype (Social-tier activities only)")

	examCmd.Flags().BoolVar(&examActivate, "activate", false, "Activate exam mode (incurs the fee)")
}
