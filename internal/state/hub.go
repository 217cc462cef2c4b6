// Package state holds the application's reactive containers and keeps them
// consistent with the backend and with device storage as the signed-in
// identity changes.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/meltforce/kinetic/internal/auth"
	"github.com/meltforce/kinetic/internal/gateway"
	"github.com/meltforce/kinetic/internal/localstore"
	"github.com/meltforce/kinetic/internal/models"
	"github.com/meltforce/kinetic/internal/reactive"
	"github.com/meltforce/kinetic/internal/syncstatus"
	"github.com/meltforce/kinetic/internal/timer"
)

// Device storage keys.
const (
	KeyUser           = "user"
	KeySession        = "session"
	KeyExerciseTypes  = "exerciseTypes"
	KeyEquipmentTypes = "equipmentTypes"
	KeyWorkoutTypes   = "workoutTypes"
	KeyActiveWorkout  = "activeWorkout"
)

// ErrNotAuthenticated is returned by operations that need a signed-in user.
var ErrNotAuthenticated = gateway.ErrUnauthenticated

var (
	ErrWorkoutActive   = errors.New("a workout is already in progress")
	ErrNoActiveWorkout = errors.New("no workout in progress")
)

// Options wires a Hub to its collaborators.
type Options struct {
	Store         localstore.Store // nil keeps everything in memory
	Backend       gateway.Backend
	Auth          auth.Provider
	TimerInterval time.Duration
	TimerOptions  []timer.Option
	Log           *slog.Logger
	Now           func() time.Time
}

// Hub owns the containers. Containers are exported for observation;
// callers change backend-tracked state through Hub methods.
type Hub struct {
	User          *reactive.Value[*models.Identity]
	Session       *reactive.Value[*models.Session]
	Exercises     *reactive.Value[[]models.Exercise]
	Workouts      *reactive.Value[[]models.Workout]
	WorkoutLogs   *reactive.Value[[]models.WorkoutLog]
	ActiveWorkout *reactive.Persisted[*models.WorkoutLog]

	ExerciseTypes  *reactive.Persisted[[]string]
	EquipmentTypes *reactive.Persisted[[]string]
	WorkoutTypes   *reactive.Persisted[[]string]

	Status *syncstatus.Tracker
	Timer  *timer.Timer

	gw    *gateway.Gateway
	auth  auth.Provider
	store localstore.Store
	log   *slog.Logger
	now   func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	bg     sync.WaitGroup

	// identityMu orders identity changes against background log fetches;
	// generation counts identity changes so a stale fetch can tell.
	identityMu sync.Mutex
	generation uint64

	// activeMu serializes read-modify-write of the active workout.
	activeMu sync.Mutex

	unsubs []func()
}

// New builds the containers, restores a stored session and registers the
// identity and session effects.
func New(ctx context.Context, opts Options) *Hub {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	status := syncstatus.NewTracker()

	h := &Hub{
		User:        reactive.NewValue[*models.Identity](nil),
		Session:     reactive.NewValue[*models.Session](nil),
		Exercises:   reactive.NewValue([]models.Exercise{}),
		Workouts:    reactive.NewValue([]models.Workout{}),
		WorkoutLogs: reactive.NewValue([]models.WorkoutLog{}),

		ActiveWorkout:  reactive.NewPersisted[*models.WorkoutLog](opts.Store, KeyActiveWorkout, nil, log),
		ExerciseTypes:  reactive.NewPersisted(opts.Store, KeyExerciseTypes, models.DefaultExerciseTypes(), log),
		EquipmentTypes: reactive.NewPersisted(opts.Store, KeyEquipmentTypes, models.DefaultEquipmentTypes(), log),
		WorkoutTypes:   reactive.NewPersisted(opts.Store, KeyWorkoutTypes, models.DefaultWorkoutTypes(), log),

		Status: status,
		Timer:  timer.New(opts.TimerInterval, opts.TimerOptions...),

		gw:    gateway.New(opts.Backend, status),
		auth:  opts.Auth,
		store: opts.Store,
		log:   log,
		now:   now,
	}
	h.ctx, h.cancel = context.WithCancel(context.Background())

	h.restoreSession(ctx)
	h.resumeActiveWorkout()

	h.unsubs = append(h.unsubs,
		h.User.Subscribe(h.onIdentity),
		h.Session.Subscribe(h.onSession),
	)
	return h
}

// Gateway exposes the gateway for reads that have no container.
func (h *Hub) Gateway() *gateway.Gateway { return h.gw }

// Wait blocks until background log fetches have finished.
func (h *Hub) Wait() { h.bg.Wait() }

// Close stops the timer, cancels background work and waits for it.
func (h *Hub) Close() {
	for _, u := range h.unsubs {
		u()
	}
	h.cancel()
	h.Timer.Stop()
	h.bg.Wait()
}

func (h *Hub) identity() (*models.Identity, error) {
	id := h.User.Get()
	if id == nil {
		return nil, ErrNotAuthenticated
	}
	return id, nil
}

// onIdentity persists a present identity and fetches its logs in the
// background; an absent identity clears the stored key and the logs.
func (h *Hub) onIdentity(id *models.Identity) {
	h.identityMu.Lock()
	defer h.identityMu.Unlock()
	h.generation++

	if id == nil {
		h.remove(KeyUser)
		h.WorkoutLogs.Set([]models.WorkoutLog{})
		return
	}

	h.persist(KeyUser, id)
	gen := h.generation
	h.bg.Add(1)
	go func() {
		defer h.bg.Done()
		h.fetchLogs(id, gen)
	}()
}

func (h *Hub) fetchLogs(id *models.Identity, gen uint64) {
	logs, err := h.gw.ListWorkoutLogs(h.ctx, id)
	if err != nil {
		h.log.Error("fetching workout logs", "user", id.ID, "error", err)
		return
	}

	h.identityMu.Lock()
	defer h.identityMu.Unlock()
	if gen != h.generation {
		h.log.Debug("dropping workout logs for previous identity", "user", id.ID)
		return
	}
	h.WorkoutLogs.Set(logs)
}

func (h *Hub) onSession(s *models.Session) {
	if s == nil {
		h.remove(KeySession)
		return
	}
	h.persist(KeySession, s)
}

// restoreSession reinstates a stored, unexpired session and its identity.
func (h *Hub) restoreSession(ctx context.Context) {
	var sess models.Session
	var user models.Identity
	haveSession := h.load(KeySession, &sess)
	haveUser := h.load(KeyUser, &user)
	if !haveSession && !haveUser {
		return
	}

	if sess.ExpiresAt == 0 && sess.AccessToken != "" {
		if exp := auth.ExpiresAt(sess.AccessToken); !exp.IsZero() {
			sess.ExpiresAt = exp.Unix()
		}
	}
	if !haveSession || !haveUser || sess.AccessToken == "" || sess.Expired(h.now()) {
		h.log.Info("discarding stored session")
		h.remove(KeySession)
		h.remove(KeyUser)
		return
	}

	if h.auth != nil {
		id, err := h.auth.Resume(ctx, sess)
		if err != nil {
			h.log.Warn("resuming stored session", "error", err)
			h.remove(KeySession)
			h.remove(KeyUser)
			return
		}
		if id.ID != user.ID {
			h.log.Warn("stored identity does not match session", "stored", user.ID, "session", id.ID)
			user = *id
		}
	}

	h.Session.Set(&sess)
	h.User.Set(&user)
	h.log.Info("restored session", "user", user.ID)
}

func (h *Hub) load(key string, v any) bool {
	if h.store == nil {
		return false
	}
	raw, ok, err := h.store.Get(key)
	if err != nil {
		h.log.Warn("reading stored value", "key", key, "error", err)
		return false
	}
	if !ok || raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		h.log.Debug("discarding malformed stored value", "key", key, "error", err)
		return false
	}
	return true
}

func (h *Hub) persist(key string, v any) {
	if h.store == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		h.log.Error("encoding stored value", "key", key, "error", err)
		return
	}
	if err := h.store.Set(key, string(data)); err != nil {
		h.log.Error("writing stored value", "key", key, "error", err)
	}
}

func (h *Hub) remove(key string) {
	if h.store == nil {
		return
	}
	if err := h.store.Remove(key); err != nil {
		h.log.Error("removing stored value", "key", key, "error", err)
	}
}
