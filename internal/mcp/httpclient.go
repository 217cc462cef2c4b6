package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/meltforce/kinetic/internal/models"
)

// HTTPClient implements DataSource by calling the kinetic REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// the hub lives on the server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("httpclient: encode %s: %w", path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, bytes.TrimSpace(data))
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) WorkoutLogs(ctx context.Context) ([]models.WorkoutLog, error) {
	var logs []models.WorkoutLog
	if err := c.do(ctx, http.MethodGet, "/api/v1/logs/?refresh=true", nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (c *HTTPClient) Exercises(ctx context.Context) ([]models.Exercise, error) {
	var list []models.Exercise
	if err := c.do(ctx, http.MethodGet, "/api/v1/exercises/?refresh=true", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *HTTPClient) Workouts(ctx context.Context) ([]models.Workout, error) {
	var list []models.Workout
	if err := c.do(ctx, http.MethodGet, "/api/v1/workouts/?refresh=true", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *HTTPClient) Taxonomies(ctx context.Context) (*Taxonomies, error) {
	var t Taxonomies
	if err := c.do(ctx, http.MethodGet, "/api/v1/settings", nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *HTTPClient) Active(ctx context.Context) (*ActiveState, error) {
	var a ActiveState
	if err := c.do(ctx, http.MethodGet, "/api/v1/active/", nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *HTTPClient) StartWorkout(ctx context.Context, name string) (*models.WorkoutLog, error) {
	var l models.WorkoutLog
	if err := c.do(ctx, http.MethodPost, "/api/v1/active/", map[string]string{"workout_name": name}, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *HTTPClient) LogSet(ctx context.Context, set models.LoggedSet) (*models.WorkoutLog, error) {
	var l models.WorkoutLog
	if err := c.do(ctx, http.MethodPost, "/api/v1/active/sets", set, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *HTTPClient) FinishWorkout(ctx context.Context) (*models.WorkoutLog, error) {
	var l models.WorkoutLog
	if err := c.do(ctx, http.MethodPost, "/api/v1/active/finish", nil, &l); err != nil {
		return nil, err
	}
	return &l, nil
}
