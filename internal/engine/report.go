package engine

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// Report is the read-only export surface consumed by the external report
// generator: trailing-window stats plus the raw note lines. No scoring
// happens here.
type Report struct {
	Days        int
	TotalPoints int
	TopActivity string // largest summed duration in the window
	NoteLines   []string
}

// Report summarizes the trailing `days` of the event log. Read path: a
// storage failure yields an empty report.
func (e *Engine) Report(now time.Time, days int) Report {
	rep := Report{Days: days}

	events, err := e.DB.ListEventsSince(now.AddDate(0, 0, -days))
	if err != nil {
		log.Printf("report: list events: %v", err)
		return rep
	}

	durations := make(map[string]int)
	for _, ev := range events {
		rep.TotalPoints += ev.Points
		durations[ev.Activity] += ev.Duration
		if ev.Notes != "" {
			rep.NoteLines = append(rep.NoteLines, fmt.Sprintf(
				"- [%s] %s (%dm): %s",
				ev.Timestamp.Format("2006-01-02"), ev.Activity, ev.Duration, ev.Notes,
			))
		}
	}

	top := ""
	best := -1
	for name, d := range durations {
		if d > best || (d == best && name < top) {
			top, best = name, d
		}
	}
	rep.TopActivity = top
	return rep
}

const shareholderLetterTemplate = `ACT AS: A ruthlessly efficient Hedge Fund Manager reviewing a Portfolio Manager's performance.

CONTEXT:
I am a student/engineer managing my life like a portfolio.
- 'Core' assets are daily habits.
- 'DeepWork' assets are high-value projects.
- 'Social' is liquidity.

DATA (LAST %d DAYS):
- Total Alpha Generated: %d
- Primary Asset Focus: %s

LOGS & NOTES:
%s

TASK:
Write a "Monthly Shareholder Letter" to me.
1. Analyze my asset allocation. Did I over-index on low-value tasks?
2. Roast me for any inconsistencies found in the logs.
3. Highlight the specific wins based on the notes.
4. Give a "Buy/Sell/Hold" rating on my current trajectory.`

// Prompt renders the shareholder-letter prompt for an external LLM. The
// engine never calls a model itself; the text is meant to be pasted.
func (r Report) Prompt() string {
	return fmt.Sprintf(shareholderLetterTemplate,
		r.Days, r.TotalPoints, r.TopActivity, strings.Join(r.NoteLines, "\n"))
}
