package alpha

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/meltforce/kinetic/internal/ingest"
	"github.com/meltforce/kinetic/internal/models"
	"github.com/meltforce/kinetic/internal/state"
)

// ErrMalformed marks an export that could not be parsed.
var ErrMalformed = errors.New("malformed export")

// Provider imports exports into the signed-in user's workout logs.
type Provider struct {
	hub *state.Hub
	log *slog.Logger

	// Warmups keeps warmup sets in the imported logs.
	Warmups bool
}

// NewProvider creates a new Alpha Progression import provider.
func NewProvider(hub *state.Hub, log *slog.Logger) *Provider {
	return &Provider{hub: hub, log: log}
}

// Ingest parses an export and adds every session not imported before as a
// workout log, oldest first. Exercises are matched by name
// (case-insensitive); unknown ones are created with the export's equipment.
func (p *Provider) Ingest(ctx context.Context, r io.Reader) (*ingest.Result, error) {
	sessions, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w: %w", ErrMalformed, err)
	}
	result := &ingest.Result{SessionsReceived: len(sessions)}
	if len(sessions) == 0 {
		result.Message = "no sessions found"
		return result, nil
	}

	if err := p.hub.RefreshExercises(ctx); err != nil {
		return nil, fmt.Errorf("loading exercises: %w", err)
	}
	if err := p.hub.RefreshWorkoutLogs(ctx); err != nil {
		return nil, fmt.Errorf("loading workout logs: %w", err)
	}

	ids := make(map[string]string)
	for _, e := range p.hub.Exercises.Get() {
		ids[strings.ToLower(e.Name)] = e.ID
	}
	for _, s := range sessions {
		for _, ex := range s.Exercises {
			key := strings.ToLower(ex.Name)
			if _, ok := ids[key]; ok {
				continue
			}
			created, err := p.hub.AddExercise(ctx, models.Exercise{Name: ex.Name, Equipment: ex.Equipment})
			if err != nil {
				return result, fmt.Errorf("creating exercise %q: %w", ex.Name, err)
			}
			ids[key] = created.ID
			result.ExercisesCreated++
		}
	}

	existing := p.hub.WorkoutLogs.Get()
	sort.SliceStable(sessions, func(i, j int) bool { return sessions[i].Date.Before(sessions[j].Date) })
	lookup := func(ex Exercise) string { return ids[strings.ToLower(ex.Name)] }

	for _, s := range sessions {
		if imported(existing, s) {
			result.LogsSkipped++
			continue
		}
		l := ToWorkoutLog(s, lookup, p.Warmups)
		if _, err := p.hub.AddWorkoutLog(ctx, l); err != nil {
			return result, fmt.Errorf("adding session %q: %w", s.Name, err)
		}
		result.LogsImported++
		result.SetsImported += len(l.Sets)
	}

	p.log.Info("alpha import complete",
		"sessions", result.SessionsReceived,
		"imported", result.LogsImported,
		"skipped", result.LogsSkipped,
		"exercises_created", result.ExercisesCreated)
	return result, nil
}

func imported(logs []models.WorkoutLog, s Session) bool {
	for _, l := range logs {
		if sameSession(l, s) {
			return true
		}
	}
	return false
}
