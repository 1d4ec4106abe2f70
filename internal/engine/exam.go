package engine

import (
	"time"

	"github.com/lazypower/portfolio/internal/store"
)

// ExamStatus reports whether the exam mode override window is open.
// While open, the vampire rule is disabled and the exam-boost rent
// activity pays double.
type ExamStatus struct {
	Active    bool
	ExpiresAt time.Time // zero when inactive
}

// ExamMode derives the current exam mode state from the most recent
// activation sentinel. Read path: a storage failure reads as inactive.
func (e *Engine) ExamMode(now time.Time) ExamStatus {
	active, expires, err := e.examStatus(now)
	if err != nil {
		return ExamStatus{}
	}
	return ExamStatus{Active: active, ExpiresAt: expires}
}

func (e *Engine) examStatus(now time.Time) (bool, time.Time, error) {
	last, err := e.DB.LatestExamActivation()
	if err != nil {
		return false, time.Time{}, err
	}
	if last == nil {
		return false, time.Time{}, nil
	}
	expires := last.Timestamp.Add(e.Cfg.Scoring.ExamModeWindow)
	if now.Before(expires) {
		return true, expires, nil
	}
	return false, time.Time{}, nil
}

// ActivateExamMode appends one activation sentinel and charges the fee.
// Deliberately unguarded: re-activating while already active moves the
// expiry forward and incurs the fee again.
func (e *Engine) ActivateExamMode(now time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, err := e.DB.InsertEvent(now, store.SystemActivity, 0, -e.Cfg.Scoring.ExamModeFee, store.ExamModeNote)
	return err
}
