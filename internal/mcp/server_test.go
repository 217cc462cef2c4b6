package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/kinetic/internal/auth"
	"github.com/meltforce/kinetic/internal/gateway"
	"github.com/meltforce/kinetic/internal/localstore"
	"github.com/meltforce/kinetic/internal/models"
	"github.com/meltforce/kinetic/internal/state"
	"github.com/meltforce/kinetic/internal/timer"
)

type idleTicker struct{ c chan time.Time }

func (t idleTicker) C() <-chan time.Time { return t.c }
func (idleTicker) Stop()                 {}

var athlete = models.Identity{ID: "athlete", Email: "athlete@example.com"}

// newTestHandlers returns tool handlers over a signed-in in-memory hub.
func newTestHandlers(t *testing.T) (*handlers, *state.Hub) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := state.New(context.Background(), state.Options{
		Store:   localstore.NewMemory(),
		Backend: gateway.NewMemory(),
		Auth:    auth.NewStatic(athlete, "pw", []byte("secret")),
		TimerOptions: []timer.Option{timer.WithTicker(func(time.Duration) timer.Ticker {
			return idleTicker{make(chan time.Time)}
		})},
		Log: log,
	})
	t.Cleanup(h.Close)
	if h.SignIn(context.Background(), athlete.Email, "pw") == nil {
		t.Fatal("sign in failed")
	}
	h.Wait()
	return &handlers{ds: HubSource{Hub: h}, log: log}, h
}

func call(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

// decodeResult unmarshals the text content of a successful tool result.
func decodeResult(t *testing.T, res *mcp.CallToolResult, err error, out any) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("tool error: %+v", res.Content)
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content = %T, want TextContent", res.Content[0])
	}
	if err := json.Unmarshal([]byte(text.Text), out); err != nil {
		t.Fatal(err)
	}
}

// TestDefaultTimeRange verifies time range defaults (last 7 days) and parsing.
func TestDefaultTimeRange(t *testing.T) {
	// Both empty → defaults to last 7 days
	start, end, err := defaultTimeRange("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h := end.Sub(start).Hours(); h < 167 || h > 169 {
		t.Errorf("default range = %.0f hours, want ~168", h)
	}

	start, end, err = defaultTimeRange("2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Day() != 1 || end.Day() != 31 {
		t.Errorf("range = %v..%v, want 1..31", start, end)
	}

	start, _, err = defaultTimeRange("2026-06-15T10:30:00Z", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Hour() != 10 || start.Minute() != 30 {
		t.Errorf("start = %v, want 10:30", start)
	}

	if _, _, err := defaultTimeRange("not-a-date", ""); err == nil {
		t.Error("expected error for invalid date")
	}
}

// TestExerciseProgress verifies per-session aggregation and oldest-first order.
func TestExerciseProgress(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 5, d, 18, 0, 0, 0, time.UTC) }
	logs := []models.WorkoutLog{
		{ID: "b", WorkoutName: "Push", StartedAt: day(8), Sets: []models.LoggedSet{
			{ExerciseName: "Bench Press", Weight: 85, Reps: 5},
			{ExerciseName: "Bench Press", Weight: 80, Reps: 8},
			{ExerciseName: "Dips", Weight: 0, Reps: 12},
		}},
		{ID: "a", WorkoutName: "Push", StartedAt: day(1), Sets: []models.LoggedSet{
			{ExerciseName: "Bench Press", Weight: 80, Reps: 5},
		}},
		{ID: "c", WorkoutName: "Legs", StartedAt: day(3), Sets: []models.LoggedSet{
			{ExerciseName: "Squat", Weight: 120, Reps: 5},
		}},
	}

	got := exerciseProgress(logs, "bench")
	if len(got) != 2 {
		t.Fatalf("got %d points, want 2", len(got))
	}
	if got[0].LogID != "a" || got[1].LogID != "b" {
		t.Errorf("order = %s,%s, want a,b", got[0].LogID, got[1].LogID)
	}
	p := got[1]
	if p.Sets != 2 || p.TopWeight != 85 || p.TotalReps != 13 || p.Volume != 85*5+80*8 {
		t.Errorf("point = %+v", p)
	}
}

// TestLogsBetween verifies the half-open start filter.
func TestLogsBetween(t *testing.T) {
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)
	logs := []models.WorkoutLog{
		{ID: "before", StartedAt: start.Add(-time.Second)},
		{ID: "first", StartedAt: start},
		{ID: "last", StartedAt: end.Add(-time.Second)},
		{ID: "end", StartedAt: end},
	}
	got := logsBetween(logs, start, end)
	if len(got) != 2 || got[0].ID != "first" || got[1].ID != "last" {
		t.Errorf("got %+v, want first,last", got)
	}
}

// TestWorkoutSessionTools runs a session end to end through the tools.
func TestWorkoutSessionTools(t *testing.T) {
	h, hub := newTestHandlers(t)
	ctx := context.Background()

	ex, err := hub.AddExercise(ctx, models.Exercise{Name: "Bench Press", PrimaryMuscles: []string{"Chest"}})
	if err != nil {
		t.Fatal(err)
	}

	var started models.WorkoutLog
	res, err := h.startWorkout(ctx, call("start_workout", map[string]any{"name": "Push"}))
	decodeResult(t, res, err, &started)
	if started.WorkoutName != "Push" || !started.InProgress() {
		t.Errorf("started = %+v", started)
	}

	res, err = h.startWorkout(ctx, call("start_workout", map[string]any{"name": "Again"}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("second start: IsError = false, want true")
	}

	var logged models.WorkoutLog
	res, err = h.logSet(ctx, call("log_set", map[string]any{
		"exercise_id": ex.ID, "weight": 80.0, "reps": 5.0, "drop_set": true,
	}))
	decodeResult(t, res, err, &logged)
	if len(logged.Sets) != 1 {
		t.Fatalf("sets = %d, want 1", len(logged.Sets))
	}
	if s := logged.Sets[0]; s.ExerciseName != "Bench Press" || s.Reps != 5 || !s.DropSet {
		t.Errorf("set = %+v", s)
	}

	var active ActiveState
	res, err = h.getActiveWorkout(ctx, call("get_active_workout", nil))
	decodeResult(t, res, err, &active)
	if active.Workout == nil || !active.TimerRunning {
		t.Errorf("active = %+v, want running workout", active)
	}

	var finished models.WorkoutLog
	res, err = h.finishWorkout(ctx, call("finish_workout", nil))
	decodeResult(t, res, err, &finished)
	if finished.ID == "" || finished.InProgress() {
		t.Errorf("finished = %+v", finished)
	}

	var logs []models.WorkoutLog
	res, err = h.getWorkoutLogs(ctx, call("get_workout_logs", nil))
	decodeResult(t, res, err, &logs)
	if len(logs) != 1 || logs[0].ID != finished.ID {
		t.Errorf("logs = %+v, want the finished workout", logs)
	}

	var progress []ProgressPoint
	res, err = h.getExerciseProgress(ctx, call("get_exercise_progress", map[string]any{"exercise": "bench"}))
	decodeResult(t, res, err, &progress)
	if len(progress) != 1 || progress[0].TopWeight != 80 {
		t.Errorf("progress = %+v", progress)
	}
}

// TestLogSetWithoutWorkout verifies a tool error when nothing is active.
func TestLogSetWithoutWorkout(t *testing.T) {
	h, _ := newTestHandlers(t)
	res, err := h.logSet(context.Background(), call("log_set", map[string]any{"exercise_id": "x", "reps": 5.0}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("IsError = false, want true")
	}
}

// TestListExercisesMuscleFilter verifies the case-insensitive muscle filter.
func TestListExercisesMuscleFilter(t *testing.T) {
	h, hub := newTestHandlers(t)
	ctx := context.Background()
	for _, e := range []models.Exercise{
		{Name: "Bench Press", PrimaryMuscles: []string{"Chest"}, SecondaryMuscles: []string{"Triceps"}},
		{Name: "Squat", PrimaryMuscles: []string{"Quads"}},
	} {
		if _, err := hub.AddExercise(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	var list []models.Exercise
	res, err := h.listExercises(ctx, call("list_exercises", map[string]any{"muscle": "triceps"}))
	decodeResult(t, res, err, &list)
	if len(list) != 1 || list[0].Name != "Bench Press" {
		t.Errorf("list = %+v, want Bench Press only", list)
	}
}

// TestCatalogResource verifies the catalog resource bundles all three lists.
func TestCatalogResource(t *testing.T) {
	h, _ := newTestHandlers(t)
	var req mcp.ReadResourceRequest
	req.Params.URI = "kinetic://catalog"

	contents, err := h.catalog(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	text := contents[0].(mcp.TextResourceContents)
	var got map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text.Text), &got); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"exercises", "workouts", "taxonomies"} {
		if _, ok := got[k]; !ok {
			t.Errorf("catalog missing %q", k)
		}
	}
}

// TestNewRegistersTools verifies the server builds without panicking.
func TestNewRegistersTools(t *testing.T) {
	h, _ := newTestHandlers(t)
	if s := New(h.ds, "test", h.log); s == nil {
		t.Fatal("New returned nil")
	}
}
