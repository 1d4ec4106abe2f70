package engine

import (
	"fmt"
	"time"

	"github.com/lazypower/portfolio/internal/store"
)

// Social subtypes and their base awards.
const (
	SocialDeepConvo = "Deep Convo / New People"
	SocialHangout   = "Hangout / Activity"
	SocialCheckup   = "Casual Check-up"
)

// SessionReport is one raw session as the user logs it. The tier comes
// from the catalog, not the caller.
type SessionReport struct {
	Activity      string
	Duration      int // minutes
	Notes         string
	SleepHours    float64
	SocialSubtype string // only consulted for Social-tier activities
}

// ScoreResult is the outcome of evaluating one report.
type ScoreResult struct {
	EventID int64
	Points  int
	Notes   string // report notes plus any rule suffixes
}

// LogSession converts a session report into a point award and appends
// exactly one event. The step order is load-bearing: the sleep multiplier
// is computed first but applied last, the vampire check short-circuits
// before any tier scoring, and tier scoring consults only same-day history
// for the same activity.
func (e *Engine) LogSession(rep SessionReport, now time.Time) (ScoreResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if rep.Duration < 0 {
		return ScoreResult{}, fmt.Errorf("duration must be >= 0")
	}

	act, err := e.DB.GetActivity(rep.Activity)
	if err != nil {
		return ScoreResult{}, err
	}
	if act == nil {
		return ScoreResult{}, fmt.Errorf("activity %q: %w", rep.Activity, ErrUnknownActivity)
	}
	if _, err := store.ParseTier(string(act.Tier)); err != nil {
		return ScoreResult{}, fmt.Errorf("activity %q: %w", rep.Activity, ErrUnrecognizedTier)
	}

	sc := e.Cfg.Scoring
	notes := rep.Notes

	// 1. Sleep multiplier: computed now, applied at the very end.
	multiplier := 1.0
	switch {
	case rep.SleepHours < 5:
		multiplier = 0.5
		notes += " (ZOMBIE TAX -50%)"
	case rep.SleepHours < 6.5:
		multiplier = 0.8
		notes += " (TIRED TAX -20%)"
	}

	examActive, _, err := e.examStatus(now)
	if err != nil {
		return ScoreResult{}, err
	}

	// 2. Vampire check. Exam mode disables the window outright; Social tier
	// and the premium rent activity are exempt. The penalty path bypasses
	// the multiplier and always awards exactly 0.
	vampire := now.Hour() < sc.VampireEndHour
	if examActive {
		vampire = false
	}
	exempt := act.Tier == store.TierSocial || rep.Activity == sc.PremiumRent
	if vampire && !exempt {
		notes += " (VAMPIRE PENALTY)"
		id, err := e.DB.InsertEvent(now, rep.Activity, rep.Duration, 0, notes)
		if err != nil {
			return ScoreResult{}, err
		}
		return ScoreResult{EventID: id, Points: 0, Notes: notes}, nil
	}

	// 3. Same-day history for this activity.
	dayEvents, err := e.DB.ListActivityEventsOn(rep.Activity, now)
	if err != nil {
		return ScoreResult{}, err
	}

	// 4. Tier scoring.
	points := 0
	switch act.Tier {
	case store.TierCore:
		collectedBase := false
		priorDuration := 0
		for _, ev := range dayEvents {
			if ev.Points >= 10 {
				collectedBase = true
			}
			priorDuration += ev.Duration
		}
		if rep.Duration >= 20 && !collectedBase {
			points += 10
			if now.Hour() < sc.MorningEndHour {
				points += 5
			}
		}
		// One-time deep session bonus when cumulative duration crosses 90,
		// independent of the base-reward flag.
		if priorDuration+rep.Duration >= 90 && priorDuration < 90 {
			points += 15
		}

	case store.TierDeepWork:
		if rep.Duration >= 90 {
			points = 30
		} else {
			points = 5
		}

	case store.TierRent:
		// Only the first session of the day pays rent credit.
		if len(dayEvents) == 0 {
			switch {
			case rep.Activity == sc.PremiumRent:
				points = 25
			case examActive && rep.Activity == sc.ExamBoostRent:
				points = 20
				notes += " (EXAM SURGE)"
			default:
				points = 10
			}
		}

	case store.TierSocial:
		base := 0
		switch rep.SocialSubtype {
		case SocialDeepConvo:
			base = 30
		case SocialHangout:
			base = 15
		case SocialCheckup:
			base = 5
		}
		// The cap gates on prior accumulation only; a session can still push
		// the daily total past it.
		todayPoints := 0
		for _, ev := range dayEvents {
			todayPoints += ev.Points
		}
		if todayPoints < sc.SocialDailyCap {
			points = base
		} else {
			notes += " (Social Cap Hit)"
		}

	default:
		return ScoreResult{}, fmt.Errorf("tier %q: %w", act.Tier, ErrUnrecognizedTier)
	}

	// 5. Apply multiplier, truncating toward zero.
	finalPoints := int(float64(points) * multiplier)

	// 6. Append exactly one event.
	id, err := e.DB.InsertEvent(now, rep.Activity, rep.Duration, finalPoints, notes)
	if err != nil {
		return ScoreResult{}, err
	}
	return ScoreResult{EventID: id, Points: finalPoints, Notes: notes}, nil
}
