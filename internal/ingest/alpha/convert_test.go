package alpha

import (
	"testing"
	"time"

	"github.com/meltforce/kinetic/internal/models"
)

func exerciseIDByName(ex Exercise) string { return "id-" + ex.Name }

var armsSession = Session{
	Name: "Arms",
	Date: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	Exercises: []Exercise{
		{Name: "Curl", DropSets: true, Sets: []Set{
			{Warmup: true, Weight: 10, Reps: 10},
			{Weight: 20, Reps: 8},
			{Weight: 15, Reps: 6},
			{Weight: 10, Reps: 6},
		}},
		{Name: "Pushdown", MyoReps: true, Sets: []Set{
			{Warmup: true, Weight: 15, Reps: 12},
			{Weight: 30, Reps: 15},
			{Weight: 30, Reps: 5},
			{Weight: 30, Reps: 4},
		}},
	},
}

// TestToWorkoutLogSkipsWarmups verifies warmups are dropped unless asked for.
func TestToWorkoutLogSkipsWarmups(t *testing.T) {
	l := ToWorkoutLog(armsSession, exerciseIDByName, false)
	if len(l.Sets) != 6 {
		t.Fatalf("sets = %d, want 6 working sets", len(l.Sets))
	}
	if l.Sets[0].Weight != 20 || l.Sets[3].Weight != 30 {
		t.Errorf("first sets = %+v, %+v, want the working sets", l.Sets[0], l.Sets[3])
	}

	l = ToWorkoutLog(armsSession, exerciseIDByName, true)
	if len(l.Sets) != 8 {
		t.Fatalf("sets with warmups = %d, want 8", len(l.Sets))
	}
	warm := l.Sets[0]
	if warm.DropSet || warm.MyoRep != "" || warm.ExerciseID != "id-Curl" {
		t.Errorf("warmup = %+v, want unmarked curl set", warm)
	}
	if l.Sets[4].MyoRep != "" {
		t.Errorf("pushdown warmup myo = %q, want none", l.Sets[4].MyoRep)
	}
}

// TestToWorkoutLogMarkers verifies the top set starts a drop or myo-rep
// sequence and only the following sets carry the follow-up marker.
func TestToWorkoutLogMarkers(t *testing.T) {
	l := ToWorkoutLog(armsSession, exerciseIDByName, true)

	wantDrop := []bool{false, false, true, true}
	for i, want := range wantDrop {
		if got := l.Sets[i].DropSet; got != want {
			t.Errorf("curl set %d DropSet = %v, want %v", i, got, want)
		}
	}

	wantMyo := []models.MyoRep{"", models.MyoRepStart, models.MyoRepMatch, models.MyoRepMatch}
	for i, want := range wantMyo {
		if got := l.Sets[4+i].MyoRep; got != want {
			t.Errorf("pushdown set %d MyoRep = %q, want %q", i, got, want)
		}
	}
	if err := l.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

// TestToWorkoutLogTimes verifies the end time follows the session duration.
func TestToWorkoutLogTimes(t *testing.T) {
	l := ToWorkoutLog(armsSession, exerciseIDByName, false)
	if l.EndedAt == nil || !l.EndedAt.Equal(l.StartedAt) {
		t.Errorf("EndedAt = %v, want start when duration is unknown", l.EndedAt)
	}

	s := armsSession
	s.Duration = 45 * time.Minute
	l = ToWorkoutLog(s, exerciseIDByName, false)
	if l.EndedAt == nil || l.EndedAt.Sub(l.StartedAt) != 45*time.Minute {
		t.Errorf("EndedAt = %v, want start + 45m", l.EndedAt)
	}
	if !sameSession(l, s) {
		t.Error("sameSession = false for the converted session")
	}
	s.Name = "Arms B"
	if sameSession(l, s) {
		t.Error("sameSession = true for a different name")
	}
}
