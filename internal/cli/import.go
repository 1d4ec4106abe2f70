package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/lazypower/portfolio/internal/store"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [file.jsonl]",
	Short: "Import events from a JSONL file",
	Long:  "Reads one event per line ({timestamp, activity, duration, points, notes}) and appends them to the log. Malformed lines are skipped.",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

type importLine struct {
	Timestamp string `json:"timestamp"`
	Activity  string `json:"activity"`
	Duration  int    `json:"duration"`
	Points    int    `json:"points"`
	Notes     string `json:"notes"`
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	imported, skipped := 0, 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec importLine
		if err := json.Unmarshal(line, &rec); err != nil {
			skipped++
			continue
		}
		ts, err := time.ParseInLocation(store.TimeLayout, rec.Timestamp, time.Local)
		if err != nil || rec.Activity == "" || rec.Duration < 0 {
			skipped++
			continue
		}

		if _, err := db.InsertEvent(ts, rec.Activity, rec.Duration, rec.Points, rec.Notes); err != nil {
			return fmt.Errorf("insert imported event: %w", err)
		}
		imported++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read import file: %w", err)
	}

	fmt.Printf("imported %d events (%d skipped)\n", imported, skipped)
	return nil
}
