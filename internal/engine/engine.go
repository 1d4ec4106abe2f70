// Package engine implements the scoring rule evaluator and the temporal
// aggregator over the append-only event log.
package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/lazypower/portfolio/internal/config"
	"github.com/lazypower/portfolio/internal/store"
)

var (
	// ErrUnrecognizedTier rejects a tier outside the closed set. The failing
	// call appends nothing.
	ErrUnrecognizedTier = errors.New("unrecognized tier")

	// ErrEmptyLedger rejects an undo against an empty event log.
	ErrEmptyLedger = errors.New("event log is empty")

	// ErrUnknownActivity rejects a session for an activity not in the catalog.
	ErrUnknownActivity = errors.New("activity not in catalog")
)

// Engine evaluates session reports and derives read models. All operations
// are synchronous units of work; mu serializes the writers so each
// evaluate/claim/undo/activate stays a single logical write.
type Engine struct {
	DB  *store.DB
	Cfg config.Config

	mu sync.Mutex
}

// New creates a new Engine.
func New(db *store.DB, cfg config.Config) *Engine {
	return &Engine{DB: db, Cfg: cfg}
}

// UndoLast deletes the single most recently inserted event and returns it.
// Not a general undo stack: repeated calls walk backward one record at a
// time with no redo.
func (e *Engine) UndoLast() (*store.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ev, err := e.DB.DeleteMostRecentEvent()
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, ErrEmptyLedger
	}
	return ev, nil
}

// PostBounty creates a new open bounty.
func (e *Engine) PostBounty(name string, value int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.DB.InsertBounty(name, value)
}

// ClaimBounty claims an open bounty, appending its payout event atomically
// with the status transition.
func (e *Engine) ClaimBounty(name string, now time.Time) (*store.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.DB.ClaimBounty(name, now)
}
