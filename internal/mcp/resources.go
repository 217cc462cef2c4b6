package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) activeWorkout(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	active, err := h.ds.Active(ctx)
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, active)
}

func (h *handlers) recentLogs(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	logs, err := h.ds.WorkoutLogs(ctx)
	if err != nil {
		return nil, err
	}
	end := time.Now()
	return jsonContents(req.Params.URI, logsBetween(logs, end.AddDate(0, 0, -14), end))
}

func (h *handlers) catalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	exercises, err := h.ds.Exercises(ctx)
	if err != nil {
		return nil, err
	}
	workouts, err := h.ds.Workouts(ctx)
	if err != nil {
		h.log.Warn("catalog: workouts failed", "error", err)
	}
	taxonomies, err := h.ds.Taxonomies(ctx)
	if err != nil {
		h.log.Warn("catalog: taxonomies failed", "error", err)
	}
	return jsonContents(req.Params.URI, map[string]any{
		"exercises":  exercises,
		"workouts":   workouts,
		"taxonomies": taxonomies,
	})
}
