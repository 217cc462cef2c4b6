package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Identity is the signed-in user as reported by the auth provider.
type Identity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
}

// Session is the credential bundle issued alongside an Identity.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
}

// Expired reports whether the session has a known expiry at or before now.
func (s Session) Expired(now time.Time) bool {
	return s.ExpiresAt > 0 && now.Unix() >= s.ExpiresAt
}

// MyoRep is the role a set plays in a myo-rep cluster.
type MyoRep string

const (
	MyoRepNone  MyoRep = ""
	MyoRepStart MyoRep = "start"
	MyoRepMatch MyoRep = "match"
)

// Valid reports whether m is one of the known roles.
func (m MyoRep) Valid() bool {
	switch m {
	case MyoRepNone, MyoRepStart, MyoRepMatch:
		return true
	}
	return false
}

// Exercise is a user-defined movement.
type Exercise struct {
	ID               string   `json:"id,omitempty"`
	Name             string   `json:"name"`
	PrimaryMuscles   []string `json:"primary_muscles"`
	SecondaryMuscles []string `json:"secondary_muscles"`
	Type             string   `json:"type"`
	Equipment        string   `json:"equipment"`
	UserID           string   `json:"user_id,omitempty"`
}

func (e Exercise) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return errors.New("exercise name is required")
	}
	return nil
}

// Workout is a named template composed of exercises.
type Workout struct {
	ID        string            `json:"id,omitempty"`
	Name      string            `json:"name"`
	Note      string            `json:"note,omitempty"`
	Category  string            `json:"category,omitempty"`
	UserID    string            `json:"user_id,omitempty"`
	Exercises []WorkoutExercise `json:"workout_exercises,omitempty"`
}

func (w Workout) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return errors.New("workout name is required")
	}
	return nil
}

// WorkoutExercise links an Exercise into a Workout with its targets.
// Exercise is only populated on reads that embed the referenced row.
type WorkoutExercise struct {
	ID         string     `json:"id,omitempty"`
	WorkoutID  string     `json:"workout_id"`
	ExerciseID string     `json:"exercise_id"`
	Sets       int        `json:"sets"`
	Reps       int        `json:"reps"`
	Weight     float64    `json:"weight"`
	DropSet    bool       `json:"drop_set"`
	MyoRep     MyoRep     `json:"myo_rep,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
	Exercise   *Exercise  `json:"exercises,omitempty"`
}

func (we WorkoutExercise) Validate() error {
	if we.WorkoutID == "" {
		return errors.New("workout_id is required")
	}
	if we.ExerciseID == "" {
		return errors.New("exercise_id is required")
	}
	return validateTargets(we.Sets, we.Reps, we.Weight, we.MyoRep)
}

// WorkoutExercisePatch carries a partial update; nil fields are left alone.
type WorkoutExercisePatch struct {
	Sets    *int     `json:"sets,omitempty"`
	Reps    *int     `json:"reps,omitempty"`
	Weight  *float64 `json:"weight,omitempty"`
	DropSet *bool    `json:"drop_set,omitempty"`
	MyoRep  *MyoRep  `json:"myo_rep,omitempty"`
}

func (p WorkoutExercisePatch) Validate() error {
	if p.Sets != nil && *p.Sets < 0 {
		return errors.New("sets must not be negative")
	}
	if p.Reps != nil && *p.Reps < 0 {
		return errors.New("reps must not be negative")
	}
	if p.Weight != nil && *p.Weight < 0 {
		return errors.New("weight must not be negative")
	}
	if p.MyoRep != nil && !p.MyoRep.Valid() {
		return fmt.Errorf("unknown myo-rep role %q", *p.MyoRep)
	}
	return nil
}

// Apply copies the set fields of p onto we.
func (p WorkoutExercisePatch) Apply(we *WorkoutExercise) {
	if p.Sets != nil {
		we.Sets = *p.Sets
	}
	if p.Reps != nil {
		we.Reps = *p.Reps
	}
	if p.Weight != nil {
		we.Weight = *p.Weight
	}
	if p.DropSet != nil {
		we.DropSet = *p.DropSet
	}
	if p.MyoRep != nil {
		we.MyoRep = *p.MyoRep
	}
}

// LoggedSet is one performed set inside a WorkoutLog.
type LoggedSet struct {
	ExerciseID   string    `json:"exercise_id"`
	ExerciseName string    `json:"exercise_name"`
	Weight       float64   `json:"weight"`
	Reps         int       `json:"reps"`
	DropSet      bool      `json:"drop_set"`
	MyoRep       MyoRep    `json:"myo_rep,omitempty"`
	Elapsed      int       `json:"elapsed"`
	LoggedAt     time.Time `json:"logged_at"`
}

func (s LoggedSet) Validate() error {
	if s.ExerciseID == "" {
		return errors.New("exercise_id is required")
	}
	return validateTargets(0, s.Reps, s.Weight, s.MyoRep)
}

// WorkoutLog is a performed workout session. EndedAt is nil while the
// session is still in progress.
type WorkoutLog struct {
	ID          string      `json:"id,omitempty"`
	UserID      string      `json:"user_id,omitempty"`
	WorkoutName string      `json:"workout_name"`
	StartedAt   time.Time   `json:"started_at"`
	EndedAt     *time.Time  `json:"ended_at"`
	Sets        []LoggedSet `json:"sets"`
}

// InProgress reports whether the session has not been finished yet.
func (l WorkoutLog) InProgress() bool {
	return l.EndedAt == nil
}

func (l WorkoutLog) Validate() error {
	if strings.TrimSpace(l.WorkoutName) == "" {
		return errors.New("workout name is required")
	}
	for i, s := range l.Sets {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("set %d: %w", i, err)
		}
	}
	return nil
}

// WorkoutLogPatch carries a partial update; nil fields are left alone.
type WorkoutLogPatch struct {
	WorkoutName *string      `json:"workout_name,omitempty"`
	StartedAt   *time.Time   `json:"started_at,omitempty"`
	EndedAt     *time.Time   `json:"ended_at,omitempty"`
	Sets        *[]LoggedSet `json:"sets,omitempty"`
}

func (p WorkoutLogPatch) Validate() error {
	if p.WorkoutName != nil && strings.TrimSpace(*p.WorkoutName) == "" {
		return errors.New("workout name must not be blank")
	}
	if p.Sets != nil {
		for i, s := range *p.Sets {
			if err := s.Validate(); err != nil {
				return fmt.Errorf("set %d: %w", i, err)
			}
		}
	}
	return nil
}

// Apply copies the set fields of p onto l.
func (p WorkoutLogPatch) Apply(l *WorkoutLog) {
	if p.WorkoutName != nil {
		l.WorkoutName = *p.WorkoutName
	}
	if p.StartedAt != nil {
		l.StartedAt = *p.StartedAt
	}
	if p.EndedAt != nil {
		t := *p.EndedAt
		l.EndedAt = &t
	}
	if p.Sets != nil {
		l.Sets = append([]LoggedSet(nil), (*p.Sets)...)
	}
}

// UserSettings is a per-user override of the taxonomy lists.
type UserSettings struct {
	UserID         string   `json:"user_id"`
	ExerciseTypes  []string `json:"exercise_types"`
	EquipmentTypes []string `json:"equipment_types"`
	WorkoutTypes   []string `json:"workout_types"`
}

func DefaultExerciseTypes() []string {
	return []string{"Strength", "Cardio", "Stretching", "Plyometrics", "Powerlifting", "Strongman", "Olympic Weightlifting"}
}

func DefaultEquipmentTypes() []string {
	return []string{"Barbell", "Dumbbell", "Kettlebell", "Machine", "Cable", "Bodyweight", "Bands", "Medicine Ball", "Other"}
}

func DefaultWorkoutTypes() []string {
	return []string{"Push", "Pull", "Legs", "Upper", "Lower", "Full Body", "Cardio", "Other"}
}

func validateTargets(sets, reps int, weight float64, myo MyoRep) error {
	if sets < 0 {
		return errors.New("sets must not be negative")
	}
	if reps < 0 {
		return errors.New("reps must not be negative")
	}
	if weight < 0 {
		return errors.New("weight must not be negative")
	}
	if !myo.Valid() {
		return fmt.Errorf("unknown myo-rep role %q", myo)
	}
	return nil
}
