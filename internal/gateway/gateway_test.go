package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/meltforce/kinetic/internal/models"
	"github.com/meltforce/kinetic/internal/syncstatus"
)

var alice = &models.Identity{ID: "user-alice", Email: "alice@example.com"}

// flakyBackend fails the operations named in failOn and counts calls.
type flakyBackend struct {
	*Memory
	failOn map[string]error
	calls  map[string]int
	purged []Table
}

func newFlaky() *flakyBackend {
	return &flakyBackend{Memory: NewMemory(), failOn: map[string]error{}, calls: map[string]int{}}
}

func (f *flakyBackend) InsertWorkoutLog(ctx context.Context, l models.WorkoutLog) (*models.WorkoutLog, error) {
	f.calls["InsertWorkoutLog"]++
	if err := f.failOn["InsertWorkoutLog"]; err != nil {
		return nil, err
	}
	return f.Memory.InsertWorkoutLog(ctx, l)
}

func (f *flakyBackend) ListWorkoutLogs(ctx context.Context, userID string) ([]models.WorkoutLog, error) {
	f.calls["ListWorkoutLogs"]++
	return f.Memory.ListWorkoutLogs(ctx, userID)
}

func (f *flakyBackend) PurgeUser(ctx context.Context, t Table, userID string) error {
	if err := f.failOn[string(t)]; err != nil {
		return err
	}
	f.purged = append(f.purged, t)
	return f.Memory.PurgeUser(ctx, t, userID)
}

// TestUnauthenticatedMakesNoCall verifies a nil identity is rejected before
// the backend or the status flag is touched.
func TestUnauthenticatedMakesNoCall(t *testing.T) {
	b := newFlaky()
	g := New(b, nil)
	var transitions int
	g.Status().Subscribe(func(syncstatus.Status) { transitions++ })

	_, err := g.CreateWorkoutLog(context.Background(), nil, models.WorkoutLog{WorkoutName: "Push"})
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}
	if _, err := g.ListWorkoutLogs(context.Background(), &models.Identity{}); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("empty identity err = %v, want ErrUnauthenticated", err)
	}
	if b.calls["InsertWorkoutLog"]+b.calls["ListWorkoutLogs"] != 0 {
		t.Errorf("backend calls = %v, want none", b.calls)
	}
	if transitions != 1 {
		t.Errorf("status transitions = %d, want only the initial notification", transitions)
	}
}

// TestCreateAttachesOwner verifies the owner comes from the identity and a
// conflicting caller-supplied owner is refused.
func TestCreateAttachesOwner(t *testing.T) {
	g := New(NewMemory(), nil)
	ctx := context.Background()

	e, err := g.CreateExercise(ctx, alice, models.Exercise{Name: "Squat", Type: "Strength", Equipment: "Barbell"})
	if err != nil {
		t.Fatal(err)
	}
	if e.ID == "" {
		t.Error("created exercise has no id")
	}
	if e.UserID != alice.ID {
		t.Errorf("user_id = %q, want %q", e.UserID, alice.ID)
	}

	_, err = g.CreateExercise(ctx, alice, models.Exercise{Name: "Row", UserID: "user-bob"})
	if !errors.Is(err, ErrOwnerConflict) {
		t.Errorf("err = %v, want ErrOwnerConflict", err)
	}
}

// TestInvalidInputRejected verifies validation happens before any call.
func TestInvalidInputRejected(t *testing.T) {
	g := New(NewMemory(), nil)
	_, err := g.AddExerciseToWorkout(context.Background(), models.WorkoutExercise{WorkoutID: "w", ExerciseID: "e", Reps: -2})
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
	if g.Status().Get() != syncstatus.Synced {
		t.Errorf("status = %q, want synced", g.Status().Get())
	}
}

// TestStatusOnFailure verifies a backend error is classified as remote,
// recorded as Error and still returned.
func TestStatusOnFailure(t *testing.T) {
	b := newFlaky()
	b.failOn["InsertWorkoutLog"] = errors.New("connection reset")
	g := New(b, nil)

	var seen []syncstatus.Status
	g.Status().Subscribe(func(s syncstatus.Status) { seen = append(seen, s) })

	_, err := g.CreateWorkoutLog(context.Background(), alice, models.WorkoutLog{WorkoutName: "Legs"})
	if !errors.Is(err, ErrRemote) {
		t.Fatalf("err = %v, want ErrRemote", err)
	}
	var re *RemoteError
	if !errors.As(err, &re) || re.Op != "create workout log" {
		t.Errorf("remote error = %#v", re)
	}
	want := []syncstatus.Status{syncstatus.Synced, syncstatus.Logging, syncstatus.Error}
	if len(seen) != len(want) {
		t.Fatalf("transitions = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("transition %d = %q, want %q", i, seen[i], want[i])
		}
	}
}

// TestSettingsAbsentIsNil verifies the not-found case resolves to nil with
// a successful status.
func TestSettingsAbsentIsNil(t *testing.T) {
	g := New(NewMemory(), nil)
	s, err := g.GetUserSettings(context.Background(), alice)
	if err != nil {
		t.Fatalf("err = %v, want nil", err)
	}
	if s != nil {
		t.Errorf("settings = %+v, want nil", s)
	}
	if g.Status().Get() != syncstatus.Synced {
		t.Errorf("status = %q, want synced", g.Status().Get())
	}

	saved, err := g.UpsertUserSettings(context.Background(), alice, models.UserSettings{ExerciseTypes: []string{"Yoga"}})
	if err != nil {
		t.Fatal(err)
	}
	if saved.UserID != alice.ID {
		t.Errorf("user_id = %q, want %q", saved.UserID, alice.ID)
	}
}

// TestGetWorkoutNotFound verifies single-row misses surface as ErrNotFound
// for lookups other than settings.
func TestGetWorkoutNotFound(t *testing.T) {
	g := New(NewMemory(), nil)
	_, err := g.GetWorkout(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// TestWorkoutEmbedsChildrenInCreationOrder verifies workout reads carry their
// exercises, oldest link first, with the exercise row attached.
func TestWorkoutEmbedsChildrenInCreationOrder(t *testing.T) {
	g := New(NewMemory(), nil)
	ctx := context.Background()

	w, err := g.CreateWorkout(ctx, alice, models.Workout{Name: "Push A", Category: "Push"})
	if err != nil {
		t.Fatal(err)
	}
	names := []string{"Bench", "Dip", "Press"}
	for _, n := range names {
		e, err := g.CreateExercise(ctx, alice, models.Exercise{Name: n})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := g.AddExerciseToWorkout(ctx, models.WorkoutExercise{WorkoutID: w.ID, ExerciseID: e.ID, Sets: 3, Reps: 8}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := g.GetWorkout(ctx, w.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Exercises) != len(names) {
		t.Fatalf("children = %d, want %d", len(got.Exercises), len(names))
	}
	for i, n := range names {
		if got.Exercises[i].Exercise == nil || got.Exercises[i].Exercise.Name != n {
			t.Errorf("child %d = %+v, want exercise %q", i, got.Exercises[i].Exercise, n)
		}
	}
}

// TestDeleteAccountStopsOnFailure verifies the purge runs in order and
// leaves earlier tables deleted when a later one fails.
func TestDeleteAccountStopsOnFailure(t *testing.T) {
	b := newFlaky()
	b.failOn[string(TableExercises)] = errors.New("permission denied")
	g := New(b, nil)
	ctx := context.Background()

	if _, err := g.CreateWorkoutLog(ctx, alice, models.WorkoutLog{WorkoutName: "Pull"}); err != nil {
		t.Fatal(err)
	}

	err := g.DeleteAccount(ctx, alice)
	if !errors.Is(err, ErrRemote) {
		t.Fatalf("err = %v, want ErrRemote", err)
	}
	if len(b.purged) != 2 || b.purged[0] != TableWorkoutLogs || b.purged[1] != TableWorkouts {
		t.Errorf("purged = %v, want [workout_logs workouts]", b.purged)
	}
	logs, _ := b.Memory.ListWorkoutLogs(ctx, alice.ID)
	if len(logs) != 0 {
		t.Errorf("logs after partial purge = %d, want 0", len(logs))
	}
}

// TestDeleteAccountNamesFailedTable verifies the error says which table
// could not be purged.
func TestDeleteAccountNamesFailedTable(t *testing.T) {
	b := newFlaky()
	b.failOn[string(TableWorkouts)] = &RemoteError{Code: "42501", Message: "permission denied"}
	g := New(b, nil)

	err := g.DeleteAccount(context.Background(), alice)
	var re *RemoteError
	if !errors.As(err, &re) || re.Code != "42501" {
		t.Fatalf("err = %v, want RemoteError 42501", err)
	}
	if !strings.Contains(err.Error(), string(TableWorkouts)) {
		t.Errorf("err = %q, want it to name %s", err, TableWorkouts)
	}

	b = newFlaky()
	b.failOn[string(TableExercises)] = fmt.Errorf("purge exercises: %w", &RemoteError{Message: "timeout"})
	err = New(b, nil).DeleteAccount(context.Background(), alice)
	if !errors.Is(err, ErrRemote) || !strings.Contains(err.Error(), "purge exercises") {
		t.Errorf("err = %q, want wrapped context kept", err)
	}
}
