package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/claude/gymbuddy/internal/coach"
	"github.com/claude/gymbuddy/internal/voice"
)

type fakeStatus struct {
	status coach.Status
}

func (f *fakeStatus) Status() coach.Status { return f.status }

func testServer(t *testing.T, queueCap int) (*Server, *voice.Queue) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	q := voice.NewQueue(queueCap, log)
	src := &fakeStatus{status: coach.Status{State: coach.StateIdle}}
	return New(nil, src, q, log), q
}

// TestHandleHealth checks the liveness endpoint responds ok.
func TestHandleHealth(t *testing.T) {
	srv, _ := testServer(t, 8)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

// TestHandleStatus checks the snapshot endpoint returns the source's
// current status as JSON.
func TestHandleStatus(t *testing.T) {
	srv, _ := testServer(t, 8)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var got coach.Status
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if got.State != coach.StateIdle {
		t.Errorf("state = %q, want idle", got.State)
	}
}

// TestHandleIntent checks a valid command is queued and can be popped.
func TestHandleIntent(t *testing.T) {
	srv, q := testServer(t, 8)

	body := `{"intent":"start_bicep_curl","weight_lbs":25}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/intent", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusAccepted, rec.Body.String())
	}

	cmd, ok := q.Pop()
	if !ok {
		t.Fatal("expected queued command")
	}
	if cmd.Intent != voice.IntentStartCurl {
		t.Errorf("intent = %q, want %q", cmd.Intent, voice.IntentStartCurl)
	}
	if cmd.WeightLbs == nil || *cmd.WeightLbs != 25 {
		t.Errorf("weight = %v, want 25", cmd.WeightLbs)
	}
}

// TestHandleIntentUnknown checks unrecognized intents are rejected before
// reaching the queue.
func TestHandleIntentUnknown(t *testing.T) {
	srv, q := testServer(t, 8)

	body := `{"intent":"make_coffee"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/intent", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if _, ok := q.Pop(); ok {
		t.Error("unknown intent should not be queued")
	}
}

// TestHandleIntentQueueFull checks a saturated queue yields 429 instead of
// blocking the request.
func TestHandleIntentQueueFull(t *testing.T) {
	srv, q := testServer(t, 1)
	q.Push(voice.Command{Intent: voice.IntentStop})

	body := `{"intent":"stop"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/intent", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
}

// TestLogsWithoutDB checks history endpoints degrade cleanly when no
// database is configured.
func TestLogsWithoutDB(t *testing.T) {
	srv, _ := testServer(t, 8)

	for _, path := range []string{"/api/v1/logs", "/api/v1/logs/stats"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s: status = %d, want %d", path, rec.Code, http.StatusServiceUnavailable)
		}
	}
}

// TestParseTimeRange checks supported formats and the date-only end
// adjustment.
func TestParseTimeRange(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/logs?start=2026-01-01&end=2026-01-31", nil)
	start, end, err := parseTimeRange(req)
	if err != nil {
		t.Fatalf("parseTimeRange: %v", err)
	}
	if start.Format("2006-01-02") != "2026-01-01" {
		t.Errorf("start = %v", start)
	}
	// Date-only end rolls forward to include the whole day.
	if end.Format("2006-01-02") != "2026-02-01" {
		t.Errorf("end = %v", end)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/logs?start=not-a-date", nil)
	if _, _, err := parseTimeRange(req); err == nil {
		t.Error("expected error for malformed start")
	}
}
