package models

import (
	"encoding/json"
	"testing"
	"time"
)

// TestMyoRepValid verifies the closed set of myo-rep roles.
func TestMyoRepValid(t *testing.T) {
	cases := []struct {
		input MyoRep
		want  bool
	}{
		{MyoRepNone, true},
		{MyoRepStart, true},
		{MyoRepMatch, true},
		{"finish", false},
		{"START", false},
	}
	for _, tc := range cases {
		if got := tc.input.Valid(); got != tc.want {
			t.Errorf("MyoRep(%q).Valid() = %v, want %v", tc.input, got, tc.want)
		}
	}
}

// TestWorkoutExerciseValidate rejects negative targets and unknown roles.
func TestWorkoutExerciseValidate(t *testing.T) {
	base := WorkoutExercise{WorkoutID: "w1", ExerciseID: "e1", Sets: 3, Reps: 10, Weight: 60}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid link rejected: %v", err)
	}

	bad := []WorkoutExercise{
		{ExerciseID: "e1"},
		{WorkoutID: "w1"},
		{WorkoutID: "w1", ExerciseID: "e1", Sets: -1},
		{WorkoutID: "w1", ExerciseID: "e1", Reps: -1},
		{WorkoutID: "w1", ExerciseID: "e1", Weight: -0.5},
		{WorkoutID: "w1", ExerciseID: "e1", MyoRep: "bogus"},
	}
	for i, we := range bad {
		if err := we.Validate(); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

// TestWorkoutLogPatchApply verifies only set fields are copied.
func TestWorkoutLogPatchApply(t *testing.T) {
	started := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	log := WorkoutLog{ID: "l1", WorkoutName: "Push", StartedAt: started}

	ended := started.Add(45 * time.Minute)
	WorkoutLogPatch{EndedAt: &ended}.Apply(&log)

	if log.WorkoutName != "Push" {
		t.Errorf("workout name = %q, want %q", log.WorkoutName, "Push")
	}
	if log.EndedAt == nil || !log.EndedAt.Equal(ended) {
		t.Errorf("ended_at = %v, want %v", log.EndedAt, ended)
	}
	if log.InProgress() {
		t.Error("log with ended_at should not be in progress")
	}
}

// TestWorkoutLogPatchJSON verifies nil fields are left out of the wire body
// so a partial update never clobbers columns it does not name.
func TestWorkoutLogPatchJSON(t *testing.T) {
	name := "Pull"
	body, err := json.Marshal(WorkoutLogPatch{WorkoutName: &name})
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != `{"workout_name":"Pull"}` {
		t.Errorf("body = %s", body)
	}
}

// TestSessionExpired covers known, past and unknown expiry.
func TestSessionExpired(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	if (Session{}).Expired(now) {
		t.Error("session without expiry should not be expired")
	}
	if !(Session{ExpiresAt: now.Unix() - 1}).Expired(now) {
		t.Error("past expiry should be expired")
	}
	if (Session{ExpiresAt: now.Unix() + 60}).Expired(now) {
		t.Error("future expiry should not be expired")
	}
}

// TestDefaultTaxonomiesAreCopies verifies callers cannot mutate the defaults.
func TestDefaultTaxonomiesAreCopies(t *testing.T) {
	a := DefaultEquipmentTypes()
	a[0] = "Anvil"
	if b := DefaultEquipmentTypes(); b[0] != "Barbell" {
		t.Errorf("default equipment[0] = %q, want %q", b[0], "Barbell")
	}
	if n := len(DefaultExerciseTypes()); n != 7 {
		t.Errorf("len(exercise types) = %d, want 7", n)
	}
}
