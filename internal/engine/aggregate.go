package engine

import (
	"log"
	"time"

	"github.com/lazypower/portfolio/internal/config"
	"github.com/lazypower/portfolio/internal/store"
)

// DayEquity is one point on the cumulative equity curve.
type DayEquity struct {
	Date   time.Time
	Net    int // gatekeeper-gated points minus base rent
	Equity int // running sum of Net
}

// Snapshot is the derived read model consumed by any presentation layer.
// It is a pure function of the event log, the catalog, and "now".
type Snapshot struct {
	GeneratedAt    time.Time
	DeepWorkTokens int
	WeeklyTokenCap int
	SocialEMA      float64
	CurrentRent    int
	BaseRent       int
	GatekeeperOpen bool
	TodayAlpha     int
	Exam           ExamStatus
	Equity         []DayEquity
}

// Aggregate performs a read-only full-history scan and derives all
// metrics. It has no side effects and is idempotent. Read paths fail open:
// a storage error yields the empty snapshot at base rent.
func (e *Engine) Aggregate(now time.Time) Snapshot {
	sc := e.Cfg.Scoring
	snap := Snapshot{
		GeneratedAt:    now,
		WeeklyTokenCap: sc.WeeklyTokenCap,
		CurrentRent:    sc.BaseRent,
		BaseRent:       sc.BaseRent,
		Exam:           e.ExamMode(now),
	}

	events, err := e.DB.ListEvents()
	if err != nil {
		log.Printf("aggregate: list events: %v", err)
		return snap
	}
	if len(events) == 0 {
		return snap
	}

	activities, err := e.DB.ListActive()
	if err != nil {
		log.Printf("aggregate: list activities: %v", err)
		return snap
	}
	tierOf := make(map[string]store.Tier, len(activities))
	for _, a := range activities {
		tierOf[a.Name] = a.Tier
	}

	// Weekly deep-work tokens: long sessions in the current week to date.
	weekStart := startOfWeek(now)
	for _, ev := range events {
		if tierOf[ev.Activity] == store.TierDeepWork && ev.Duration >= 90 && !ev.Timestamp.Before(weekStart) {
			snap.DeepWorkTokens++
		}
	}

	// Daily buckets over the full history.
	today := dayOf(now)
	firstDay := dayOf(events[0].Timestamp)
	socialByDay := make(map[string]int)
	pointsByDay := make(map[string]int)
	unlockedDay := make(map[string]bool)
	for _, ev := range events {
		key := dayKey(ev.Timestamp)
		pointsByDay[key] += ev.Points
		switch tierOf[ev.Activity] {
		case store.TierSocial:
			socialByDay[key] += ev.Points
		case store.TierCore:
			if ev.Duration >= 20 {
				unlockedDay[key] = true
			}
		}
	}

	// Social EMA over a gap-filled daily series. Missing days count as 0;
	// skipping them would bias the average upward.
	var socialSeries []float64
	for d := firstDay; !d.After(today); d = d.AddDate(0, 0, 1) {
		socialSeries = append(socialSeries, float64(socialByDay[dayKey(d)]))
	}
	snap.SocialEMA = ewma(socialSeries, sc.SocialEMASpan)
	snap.CurrentRent = dynamicRent(sc, snap.SocialEMA)

	// Cumulative equity. Historical rent is always the base rent: the
	// dynamic rent modulates only the live display, never restated history.
	equity := 0
	for d := firstDay; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := dayKey(d)
		gated := 0
		if unlockedDay[key] {
			gated = pointsByDay[key]
		}
		net := gated - sc.BaseRent
		equity += net
		snap.Equity = append(snap.Equity, DayEquity{Date: d, Net: net, Equity: equity})
	}

	snap.GatekeeperOpen = unlockedDay[dayKey(today)]
	if snap.GatekeeperOpen {
		snap.TodayAlpha = pointsByDay[dayKey(today)]
	}
	return snap
}

// ewma computes the exponentially weighted moving average of the series
// with the standard recurrence seeded at the first value, and returns the
// value at the last position.
func ewma(series []float64, span int) float64 {
	if len(series) == 0 {
		return 0
	}
	alpha := 2.0 / float64(span+1)
	ema := series[0]
	for _, v := range series[1:] {
		ema = alpha*v + (1-alpha)*ema
	}
	return ema
}

// dynamicRent maps the social EMA onto the rent tiers. At exactly the
// target the rent reverts to base.
func dynamicRent(sc config.ScoringConfig, ema float64) int {
	switch {
	case ema < sc.SocialEMATarget/2:
		return int(float64(sc.BaseRent) * 1.5)
	case ema < sc.SocialEMATarget:
		return int(float64(sc.BaseRent) * 1.2)
	}
	return sc.BaseRent
}

// startOfWeek returns the preceding Monday at 00:00 local time.
func startOfWeek(t time.Time) time.Time {
	d := dayOf(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
