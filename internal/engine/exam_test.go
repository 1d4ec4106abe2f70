package engine

import (
	"testing"
	"time"

	"github.com/lazypower/portfolio/internal/store"
)

func TestExamModeInactiveByDefault(t *testing.T) {
	e := testEngine(t)

	status := e.ExamMode(morning)
	if status.Active {
		t.Error("expected inactive with no sentinels")
	}
}

func TestExamModeWindow(t *testing.T) {
	e := testEngine(t)

	if err := e.ActivateExamMode(morning); err != nil {
		t.Fatalf("ActivateExamMode: %v", err)
	}

	status := e.ExamMode(morning.Add(time.Hour))
	if !status.Active {
		t.Fatal("expected active inside the window")
	}
	if want := morning.Add(72 * time.Hour); !status.ExpiresAt.Equal(want) {
		t.Errorf("expires = %v, want %v", status.ExpiresAt, want)
	}

	// The boundary instant is already outside the window.
	status = e.ExamMode(morning.Add(72 * time.Hour))
	if status.Active {
		t.Error("expected inactive at exactly +72h")
	}
}

func TestExamModeFeeEvent(t *testing.T) {
	e := testEngine(t)

	if err := e.ActivateExamMode(morning); err != nil {
		t.Fatalf("ActivateExamMode: %v", err)
	}

	events, _ := e.DB.ListEvents()
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	ev := events[0]
	if ev.Activity != store.SystemActivity || ev.Notes != store.ExamModeNote {
		t.Errorf("sentinel = %+v, want System / Exam Mode Activated", ev)
	}
	if ev.Points != -50 || ev.Duration != 0 {
		t.Errorf("points/duration = %d/%d, want -50/0", ev.Points, ev.Duration)
	}
}

func TestExamModeRestack(t *testing.T) {
	e := testEngine(t)

	// Reactivating is unguarded: it charges again and moves the expiry.
	e.ActivateExamMode(morning)
	e.ActivateExamMode(morning.Add(10 * time.Hour))

	status := e.ExamMode(morning.Add(11 * time.Hour))
	if want := morning.Add(82 * time.Hour); !status.ExpiresAt.Equal(want) {
		t.Errorf("expires = %v, want %v (most recent sentinel wins)", status.ExpiresAt, want)
	}

	events, _ := e.DB.ListEvents()
	total := 0
	for _, ev := range events {
		total += ev.Points
	}
	if total != -100 {
		t.Errorf("total fees = %d, want -100", total)
	}
}
