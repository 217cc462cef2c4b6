package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/meltforce/kinetic/internal/ingest"
)

const pushExport = `"Push";"2026-02-17 5:04 h";"1:12 hr"
"1. Bench Press · Barbell · 6 reps";"WU1 · 47,5 kg · 8 reps"
#;KG;REPS;RIR
1;102,5;6;0
2;100;6;0
`

func postCSV(s *Server, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

// TestAlphaImport verifies an export becomes a workout log and warmups are
// opt-in.
func TestAlphaImport(t *testing.T) {
	s, h := newTestServer(t, "")
	signIn(t, s, h)

	rec := postCSV(s, "/api/v1/import/alpha?warmups=true", pushExport)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var res ingest.Result
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if res.LogsImported != 1 || res.SetsImported != 3 {
		t.Errorf("result = %+v, want 1 log with 3 sets", res)
	}
	if got := h.WorkoutLogs.Get(); len(got) != 1 || got[0].WorkoutName != "Push" {
		t.Errorf("logs = %+v", got)
	}
}

// TestAlphaImportStatus verifies malformed input is a 400 and a missing
// sign-in a 401.
func TestAlphaImportStatus(t *testing.T) {
	s, h := newTestServer(t, "")
	if rec := postCSV(s, "/api/v1/import/alpha", pushExport); rec.Code != http.StatusUnauthorized {
		t.Errorf("signed out status = %d, want 401", rec.Code)
	}

	signIn(t, s, h)
	if rec := postCSV(s, "/api/v1/import/alpha", "1;100;5;1\n"); rec.Code != http.StatusBadRequest {
		t.Errorf("malformed status = %d, want 400", rec.Code)
	}
}
