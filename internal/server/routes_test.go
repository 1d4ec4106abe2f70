package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lazypower/portfolio/internal/config"
	"github.com/lazypower/portfolio/internal/engine"
	"github.com/lazypower/portfolio/internal/store"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db, engine.New(db, config.Default()), "test")
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return m
}

func TestHealth(t *testing.T) {
	s := testServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := decodeBody(t, w)
	if body["status"] != "ok" || body["db"] != true {
		t.Errorf("body = %v", body)
	}
}

func TestAddAndListActivities(t *testing.T) {
	s := testServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/activities",
		map[string]string{"name": "Agentic AI", "tier": "DeepWork"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, s, http.MethodGet, "/api/activities", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	body := decodeBody(t, w)
	list, ok := body["activities"].([]any)
	if !ok || len(list) != 1 {
		t.Fatalf("activities = %v, want 1 entry", body["activities"])
	}
}

func TestAddActivityValidation(t *testing.T) {
	s := testServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/activities",
		map[string]string{"name": "X", "tier": "Leisure"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad tier status = %d, want 400", w.Code)
	}

	w = doJSON(t, s, http.MethodPost, "/api/activities",
		map[string]string{"tier": "Core"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing name status = %d, want 400", w.Code)
	}
}

func TestAddActivityDuplicate(t *testing.T) {
	s := testServer(t)

	doJSON(t, s, http.MethodPost, "/api/activities",
		map[string]string{"name": "Volleyball", "tier": "Rent"})
	w := doJSON(t, s, http.MethodPost, "/api/activities",
		map[string]string{"name": "Volleyball", "tier": "Core"})
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestLogSessionAndUndo(t *testing.T) {
	s := testServer(t)

	doJSON(t, s, http.MethodPost, "/api/activities",
		map[string]string{"name": "Social Life", "tier": "Social"})

	// Social sessions score the same at any hour, so the handler's use of
	// the wall clock does not matter here.
	w := doJSON(t, s, http.MethodPost, "/api/sessions", map[string]any{
		"activity":       "Social Life",
		"duration":       60,
		"sleep_hours":    8.0,
		"social_subtype": "Hangout / Activity",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["points"] != float64(15) {
		t.Errorf("points = %v, want 15", body["points"])
	}

	w = doJSON(t, s, http.MethodDelete, "/api/events/last", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("undo status = %d: %s", w.Code, w.Body.String())
	}

	// Empty ledger now
	w = doJSON(t, s, http.MethodDelete, "/api/events/last", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("undo on empty status = %d, want 404", w.Code)
	}
}

func TestLogSessionUnknownActivity(t *testing.T) {
	s := testServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/sessions", map[string]any{
		"activity": "ghost", "duration": 30, "sleep_hours": 8.0,
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestLogSessionBadInput(t *testing.T) {
	s := testServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/sessions", map[string]any{
		"activity": "x", "duration": -5,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("negative duration status = %d, want 400", w.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/sessions", bytes.NewBufferString("{"))
	w2 := httptest.NewRecorder()
	s.ServeHTTP(w2, req)
	if w2.Code != http.StatusBadRequest {
		t.Errorf("malformed json status = %d, want 400", w2.Code)
	}
}

func TestListEvents(t *testing.T) {
	s := testServer(t)

	s.db.InsertEvent(time.Now().AddDate(0, 0, -10), "Old", 30, 5, "")
	s.db.InsertEvent(time.Now(), "New", 30, 5, "")

	w := doJSON(t, s, http.MethodGet, "/api/events", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if body := decodeBody(t, w); body["count"] != float64(2) {
		t.Errorf("count = %v, want 2", body["count"])
	}

	w = doJSON(t, s, http.MethodGet, "/api/events?days=5", nil)
	if body := decodeBody(t, w); body["count"] != float64(1) {
		t.Errorf("windowed count = %v, want 1", body["count"])
	}

	w = doJSON(t, s, http.MethodGet, "/api/events?days=zero", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad days status = %d, want 400", w.Code)
	}
}

func TestBountyLifecycle(t *testing.T) {
	s := testServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/bounties",
		map[string]any{"name": "Ship v1", "value": 100})
	if w.Code != http.StatusCreated {
		t.Fatalf("post status = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, s, http.MethodPost, "/api/bounties/Ship%20v1/claim", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("claim status = %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	payout, ok := body["payout"].(map[string]any)
	if !ok || payout["points"] != float64(100) {
		t.Errorf("payout = %v, want 100 points", body["payout"])
	}

	w = doJSON(t, s, http.MethodPost, "/api/bounties/Ship%20v1/claim", nil)
	if w.Code != http.StatusConflict {
		t.Errorf("second claim status = %d, want 409", w.Code)
	}

	w = doJSON(t, s, http.MethodDelete, "/api/bounties/Ship%20v1", nil)
	if w.Code != http.StatusOK {
		t.Errorf("delist status = %d", w.Code)
	}

	w = doJSON(t, s, http.MethodDelete, "/api/bounties/Ship%20v1", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("delist absent status = %d, want 404", w.Code)
	}
}

func TestClaimUnknownBounty(t *testing.T) {
	s := testServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/bounties/ghost/claim", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestPostBountyValidation(t *testing.T) {
	s := testServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/bounties",
		map[string]any{"name": "", "value": 10})
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty name status = %d, want 400", w.Code)
	}

	w = doJSON(t, s, http.MethodPost, "/api/bounties",
		map[string]any{"name": "x", "value": -1})
	if w.Code != http.StatusBadRequest {
		t.Errorf("negative value status = %d, want 400", w.Code)
	}
}

func TestExamEndpoints(t *testing.T) {
	s := testServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/exam", nil)
	if body := decodeBody(t, w); body["active"] != false {
		t.Errorf("active = %v, want false", body["active"])
	}

	w = doJSON(t, s, http.MethodPost, "/api/exam", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("activate status = %d: %s", w.Code, w.Body.String())
	}
	if body := decodeBody(t, w); body["active"] != true || body["expires_at"] == nil {
		t.Errorf("body = %v, want active with expiry", body)
	}

	w = doJSON(t, s, http.MethodGet, "/api/exam", nil)
	if body := decodeBody(t, w); body["active"] != true {
		t.Errorf("active = %v, want true after activation", body["active"])
	}
}

func TestDashboard(t *testing.T) {
	s := testServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/dashboard", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["current_rent"] != float64(30) || body["base_rent"] != float64(30) {
		t.Errorf("rent = %v/%v, want 30/30 on an empty log", body["current_rent"], body["base_rent"])
	}
	if body["gatekeeper_open"] != false {
		t.Errorf("gatekeeper_open = %v, want false", body["gatekeeper_open"])
	}
	if body["weekly_token_cap"] != float64(6) {
		t.Errorf("weekly_token_cap = %v, want 6", body["weekly_token_cap"])
	}
}

func TestReportEndpoint(t *testing.T) {
	s := testServer(t)

	s.db.InsertEvent(time.Now(), "Trading Algos", 100, 30, "backtest green")

	w := doJSON(t, s, http.MethodGet, "/api/report?days=7", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["days"] != float64(7) || body["total_points"] != float64(30) {
		t.Errorf("days/total = %v/%v, want 7/30", body["days"], body["total_points"])
	}
	if body["top_activity"] != "Trading Algos" {
		t.Errorf("top = %v", body["top_activity"])
	}
	if body["prompt"] == "" || body["prompt"] == nil {
		t.Error("prompt missing")
	}

	w = doJSON(t, s, http.MethodGet, "/api/report?days=-1", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad days status = %d, want 400", w.Code)
	}
}
