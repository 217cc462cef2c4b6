package gateway

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/kinetic/internal/models"
)

// Memory is a Backend held entirely in process. It backs the "memory"
// backend kind for offline use and stands in for the hosted store in tests.
type Memory struct {
	mu        sync.Mutex
	now       func() time.Time
	exercises map[string]models.Exercise
	workouts  map[string]models.Workout
	links     map[string]models.WorkoutExercise
	logs      map[string]models.WorkoutLog
	settings  map[string]models.UserSettings
	order     map[string]int
	seq       int
}

var _ Backend = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		now:       time.Now,
		exercises: make(map[string]models.Exercise),
		workouts:  make(map[string]models.Workout),
		links:     make(map[string]models.WorkoutExercise),
		logs:      make(map[string]models.WorkoutLog),
		settings:  make(map[string]models.UserSettings),
		order:     make(map[string]int),
	}
}

func (m *Memory) newID() string {
	id := uuid.NewString()
	m.seq++
	m.order[id] = m.seq
	return id
}

func notFound(what, id string) error {
	return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
}

func (m *Memory) ListExercises(_ context.Context, userID string) ([]models.Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Exercise{}
	for _, e := range m.exercises {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return m.order[out[i].ID] < m.order[out[j].ID] })
	return out, nil
}

func (m *Memory) InsertExercise(_ context.Context, e models.Exercise) (*models.Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = m.newID()
	m.exercises[e.ID] = e
	return &e, nil
}

func (m *Memory) UpdateExercise(_ context.Context, id string, e models.Exercise) (*models.Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.exercises[id]
	if !ok {
		return nil, notFound("exercise", id)
	}
	e.ID, e.UserID = id, cur.UserID
	m.exercises[id] = e
	return &e, nil
}

func (m *Memory) DeleteExercise(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.exercises, id)
	for lid, l := range m.links {
		if l.ExerciseID == id {
			delete(m.links, lid)
		}
	}
	return nil
}

// withChildren must be called with mu held.
func (m *Memory) withChildren(w models.Workout) models.Workout {
	w.Exercises = []models.WorkoutExercise{}
	for _, l := range m.links {
		if l.WorkoutID != w.ID {
			continue
		}
		if e, ok := m.exercises[l.ExerciseID]; ok {
			ex := e
			l.Exercise = &ex
		}
		w.Exercises = append(w.Exercises, l)
	}
	sort.Slice(w.Exercises, func(i, j int) bool {
		return m.order[w.Exercises[i].ID] < m.order[w.Exercises[j].ID]
	})
	return w
}

func (m *Memory) ListWorkouts(_ context.Context, userID string) ([]models.Workout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Workout{}
	for _, w := range m.workouts {
		if w.UserID == userID {
			out = append(out, m.withChildren(w))
		}
	}
	sort.Slice(out, func(i, j int) bool { return m.order[out[i].ID] < m.order[out[j].ID] })
	return out, nil
}

func (m *Memory) GetWorkout(_ context.Context, id string) (*models.Workout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.workouts[id]
	if !ok {
		return nil, notFound("workout", id)
	}
	w = m.withChildren(w)
	return &w, nil
}

func (m *Memory) InsertWorkout(_ context.Context, w models.Workout) (*models.Workout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w.ID = m.newID()
	w.Exercises = nil
	m.workouts[w.ID] = w
	w = m.withChildren(w)
	return &w, nil
}

func (m *Memory) UpdateWorkout(_ context.Context, id string, w models.Workout) (*models.Workout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.workouts[id]
	if !ok {
		return nil, notFound("workout", id)
	}
	w.ID, w.UserID, w.Exercises = id, cur.UserID, nil
	m.workouts[id] = w
	w = m.withChildren(w)
	return &w, nil
}

func (m *Memory) DeleteWorkout(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.workouts, id)
	for lid, l := range m.links {
		if l.WorkoutID == id {
			delete(m.links, lid)
		}
	}
	return nil
}

func (m *Memory) InsertWorkoutExercise(_ context.Context, we models.WorkoutExercise) (*models.WorkoutExercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.workouts[we.WorkoutID]
	if !ok {
		return nil, &RemoteError{Code: "23503", Message: "workout does not exist"}
	}
	if e, ok := m.exercises[we.ExerciseID]; !ok || e.UserID != w.UserID {
		return nil, &RemoteError{Code: "23503", Message: "exercise does not exist"}
	}
	we.ID = m.newID()
	now := m.now().UTC()
	we.CreatedAt = &now
	we.Exercise = nil
	m.links[we.ID] = we
	return &we, nil
}

func (m *Memory) UpdateWorkoutExercise(_ context.Context, id string, p models.WorkoutExercisePatch) (*models.WorkoutExercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	we, ok := m.links[id]
	if !ok {
		return nil, notFound("workout exercise", id)
	}
	p.Apply(&we)
	m.links[id] = we
	return &we, nil
}

func (m *Memory) DeleteWorkoutExercise(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.links, id)
	return nil
}

func copyLog(l models.WorkoutLog) models.WorkoutLog {
	l.Sets = append([]models.LoggedSet{}, l.Sets...)
	if l.EndedAt != nil {
		t := *l.EndedAt
		l.EndedAt = &t
	}
	return l
}

func (m *Memory) ListWorkoutLogs(_ context.Context, userID string) ([]models.WorkoutLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.WorkoutLog{}
	for _, l := range m.logs {
		if l.UserID == userID {
			out = append(out, copyLog(l))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return m.order[out[i].ID] > m.order[out[j].ID]
	})
	return out, nil
}

func (m *Memory) GetWorkoutLog(_ context.Context, id string) (*models.WorkoutLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.logs[id]
	if !ok {
		return nil, notFound("workout log", id)
	}
	l = copyLog(l)
	return &l, nil
}

func (m *Memory) InsertWorkoutLog(_ context.Context, l models.WorkoutLog) (*models.WorkoutLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l = copyLog(l)
	l.ID = m.newID()
	m.logs[l.ID] = l
	l = copyLog(l)
	return &l, nil
}

func (m *Memory) UpdateWorkoutLog(_ context.Context, id string, p models.WorkoutLogPatch) (*models.WorkoutLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.logs[id]
	if !ok {
		return nil, notFound("workout log", id)
	}
	l = copyLog(l)
	p.Apply(&l)
	m.logs[id] = l
	l = copyLog(l)
	return &l, nil
}

func (m *Memory) DeleteWorkoutLog(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.logs, id)
	return nil
}

func (m *Memory) GetUserSettings(_ context.Context, userID string) (*models.UserSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.settings[userID]
	if !ok {
		return nil, notFound("user settings", userID)
	}
	return &s, nil
}

func (m *Memory) UpsertUserSettings(_ context.Context, s models.UserSettings) (*models.UserSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[s.UserID] = s
	return &s, nil
}

func (m *Memory) PurgeUser(_ context.Context, table Table, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch table {
	case TableWorkoutLogs:
		for id, l := range m.logs {
			if l.UserID == userID {
				delete(m.logs, id)
			}
		}
	case TableWorkouts:
		for id, w := range m.workouts {
			if w.UserID != userID {
				continue
			}
			delete(m.workouts, id)
			for lid, l := range m.links {
				if l.WorkoutID == id {
					delete(m.links, lid)
				}
			}
		}
	case TableExercises:
		for id, e := range m.exercises {
			if e.UserID == userID {
				delete(m.exercises, id)
			}
		}
	case TableUserSettings:
		delete(m.settings, userID)
	default:
		return fmt.Errorf("unknown table %q", table)
	}
	return nil
}
