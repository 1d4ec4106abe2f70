package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lazypower/portfolio/internal/engine"
	"github.com/lazypower/portfolio/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrDuplicateName), errors.Is(err, store.ErrAlreadyClaimed):
		status = http.StatusConflict
	case errors.Is(err, store.ErrNotFound), errors.Is(err, engine.ErrEmptyLedger),
		errors.Is(err, engine.ErrUnknownActivity):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrUnrecognizedTier):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

type eventJSON struct {
	ID        int64  `json:"id"`
	Timestamp string `json:"timestamp"`
	Activity  string `json:"activity"`
	Duration  int    `json:"duration"`
	Points    int    `json:"points"`
	Notes     string `json:"notes,omitempty"`
}

func toEventJSON(e store.Event) eventJSON {
	return eventJSON{
		ID:        e.ID,
		Timestamp: e.Timestamp.Format(store.TimeLayout),
		Activity:  e.Activity,
		Duration:  e.Duration,
		Points:    e.Points,
		Notes:     e.Notes,
	}
}

// --- activities ---

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := s.db.ListActive()
	if err != nil {
		writeError(w, err)
		return
	}

	type activityJSON struct {
		Name string `json:"name"`
		Tier string `json:"tier"`
	}
	out := make([]activityJSON, len(activities))
	for i, a := range activities {
		out[i] = activityJSON{Name: a.Name, Tier: string(a.Tier)}
	}
	writeJSON(w, http.StatusOK, map[string]any{"activities": out})
}

func (s *Server) handleAddActivity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		Tier string `json:"tier"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, `{"error":"name required"}`, http.StatusBadRequest)
		return
	}
	tier, err := store.ParseTier(req.Tier)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}

	if err := s.db.InsertActivity(req.Name, tier); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"name": req.Name, "tier": req.Tier})
}

func (s *Server) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.db.DeleteActivity(name); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "delisted"})
}

// --- sessions / events ---

func (s *Server) handleLogSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Activity      string  `json:"activity"`
		Duration      int     `json:"duration"`
		Notes         string  `json:"notes"`
		SleepHours    float64 `json:"sleep_hours"`
		SocialSubtype string  `json:"social_subtype"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	if req.Activity == "" {
		http.Error(w, `{"error":"activity required"}`, http.StatusBadRequest)
		return
	}
	if req.Duration < 0 {
		http.Error(w, `{"error":"duration must be >= 0"}`, http.StatusBadRequest)
		return
	}

	result, err := s.engine.LogSession(engine.SessionReport{
		Activity:      req.Activity,
		Duration:      req.Duration,
		Notes:         req.Notes,
		SleepHours:    req.SleepHours,
		SocialSubtype: req.SocialSubtype,
	}, time.Now())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"event_id": result.EventID,
		"points":   result.Points,
		"notes":    result.Notes,
	})
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	var events []store.Event
	var err error
	if d := r.URL.Query().Get("days"); d != "" {
		days, convErr := strconv.Atoi(d)
		if convErr != nil || days <= 0 {
			http.Error(w, `{"error":"days must be a positive integer"}`, http.StatusBadRequest)
			return
		}
		events, err = s.db.ListEventsSince(time.Now().AddDate(0, 0, -days))
	} else {
		events, err = s.db.ListEvents()
	}
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]eventJSON, len(events))
	for i, e := range events {
		out[i] = toEventJSON(e)
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": len(out), "events": out})
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	ev, err := s.engine.UndoLast()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "undone", "event": toEventJSON(*ev)})
}

// --- dashboard ---

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Aggregate(time.Now())

	type dayJSON struct {
		Date   string `json:"date"`
		Net    int    `json:"net"`
		Equity int    `json:"equity"`
	}
	equity := make([]dayJSON, len(snap.Equity))
	for i, d := range snap.Equity {
		equity[i] = dayJSON{Date: d.Date.Format("2006-01-02"), Net: d.Net, Equity: d.Equity}
	}

	resp := map[string]any{
		"today_alpha":      snap.TodayAlpha,
		"gatekeeper_open":  snap.GatekeeperOpen,
		"deep_work_tokens": snap.DeepWorkTokens,
		"weekly_token_cap": snap.WeeklyTokenCap,
		"social_ema":       snap.SocialEMA,
		"current_rent":     snap.CurrentRent,
		"base_rent":        snap.BaseRent,
		"exam_active":      snap.Exam.Active,
		"equity":           equity,
	}
	if snap.Exam.Active {
		resp["exam_expires_at"] = snap.Exam.ExpiresAt.Format(store.TimeLayout)
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- exam mode ---

func (s *Server) handleExamStatus(w http.ResponseWriter, r *http.Request) {
	status := s.engine.ExamMode(time.Now())
	resp := map[string]any{"active": status.Active}
	if status.Active {
		resp["expires_at"] = status.ExpiresAt.Format(store.TimeLayout)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleActivateExam(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.ActivateExamMode(time.Now()); err != nil {
		writeError(w, err)
		return
	}
	status := s.engine.ExamMode(time.Now())
	writeJSON(w, http.StatusCreated, map[string]any{
		"active":     status.Active,
		"expires_at": status.ExpiresAt.Format(store.TimeLayout),
	})
}

// --- bounties ---

func (s *Server) handleListBounties(w http.ResponseWriter, r *http.Request) {
	bounties, err := s.db.ListBounties()
	if err != nil {
		writeError(w, err)
		return
	}

	type bountyJSON struct {
		Name   string `json:"name"`
		Value  int    `json:"value"`
		Status string `json:"status"`
	}
	out := make([]bountyJSON, len(bounties))
	for i, b := range bounties {
		out[i] = bountyJSON{Name: b.Name, Value: b.Value, Status: b.Status}
	}
	writeJSON(w, http.StatusOK, map[string]any{"bounties": out})
}

func (s *Server) handlePostBounty(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, `{"error":"name required"}`, http.StatusBadRequest)
		return
	}
	if req.Value < 0 {
		http.Error(w, `{"error":"value must be >= 0"}`, http.StatusBadRequest)
		return
	}

	if err := s.engine.PostBounty(req.Name, req.Value); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"name": req.Name, "value": req.Value, "status": store.BountyOpen})
}

func (s *Server) handleClaimBounty(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ev, err := s.engine.ClaimBounty(name, time.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "claimed", "payout": toEventJSON(*ev)})
}

func (s *Server) handleDeleteBounty(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.db.DeleteBounty(name); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "delisted"})
}

// --- report ---

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	days := 30
	if d := r.URL.Query().Get("days"); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil || n <= 0 {
			http.Error(w, `{"error":"days must be a positive integer"}`, http.StatusBadRequest)
			return
		}
		days = n
	}

	rep := s.engine.Report(time.Now(), days)
	writeJSON(w, http.StatusOK, map[string]any{
		"days":         rep.Days,
		"total_points": rep.TotalPoints,
		"top_activity": rep.TopActivity,
		"notes":        rep.NoteLines,
		"prompt":       rep.Prompt(),
	})
}
