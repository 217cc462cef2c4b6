package mcp

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/kinetic/internal/models"
)

// defaultTimeRange returns start/end defaulting to the last 7 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -7)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// logsBetween keeps logs that started in [start, end).
func logsBetween(logs []models.WorkoutLog, start, end time.Time) []models.WorkoutLog {
	out := []models.WorkoutLog{}
	for _, l := range logs {
		if !l.StartedAt.Before(start) && l.StartedAt.Before(end) {
			out = append(out, l)
		}
	}
	return out
}

// --- Tool definitions ---

var toolGetWorkoutLogs = mcp.NewTool("get_workout_logs",
	mcp.WithDescription("Retrieve performed workout sessions, newest first. Each log has its name, start and end time, and every logged set with weight, reps and drop-set/myo-rep markers."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List the user's exercises with muscles worked, movement type and equipment."),
	mcp.WithString("muscle", mcp.Description("Only exercises that work this muscle (primary or secondary, case-insensitive)")),
)

var toolListWorkouts = mcp.NewTool("list_workouts",
	mcp.WithDescription("List the user's workout templates with their exercises and target sets, reps and weight."),
)

var toolGetExerciseProgress = mcp.NewTool("get_exercise_progress",
	mcp.WithDescription("Session-by-session progression for one exercise: top weight, total reps and volume (weight x reps) per logged workout."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name (partial match, e.g. 'bench')")),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 90 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

var toolGetActiveWorkout = mcp.NewTool("get_active_workout",
	mcp.WithDescription("The workout in progress, if any, with its logged sets and the session timer."),
)

var toolStartWorkout = mcp.NewTool("start_workout",
	mcp.WithDescription("Start a workout session and its timer. Fails if one is already in progress."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Workout name, e.g. 'Push' or a template name")),
)

var toolLogSet = mcp.NewTool("log_set",
	mcp.WithDescription("Log a set in the active workout. The set is stamped with the session timer."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Exercise id from list_exercises")),
	mcp.WithString("exercise_name", mcp.Description("Exercise name; looked up from the id when omitted")),
	mcp.WithNumber("weight", mcp.Description("Weight lifted"), mcp.Min(0)),
	mcp.WithNumber("reps", mcp.Required(), mcp.Description("Repetitions performed"), mcp.Min(0)),
	mcp.WithBoolean("drop_set", mcp.Description("Whether this set is a drop set")),
	mcp.WithString("myo_rep", mcp.Description("Myo-rep role"), mcp.Enum("start", "match")),
)

var toolFinishWorkout = mcp.NewTool("finish_workout",
	mcp.WithDescription("Finish the active workout and store it as a workout log."),
)

var toolGetTaxonomies = mcp.NewTool("get_taxonomies",
	mcp.WithDescription("The exercise types, equipment types and workout types in effect for the user."),
)

// --- Tool handlers ---

func (h *handlers) getWorkoutLogs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	logs, err := h.ds.WorkoutLogs(ctx)
	if err != nil {
		h.log.Error("mcp get_workout_logs", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(logsBetween(logs, start, end))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := h.ds.Exercises(ctx)
	if err != nil {
		h.log.Error("mcp list_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	if muscle := strings.ToLower(strings.TrimSpace(req.GetString("muscle", ""))); muscle != "" {
		filtered := []models.Exercise{}
		for _, e := range list {
			if worksMuscle(e, muscle) {
				filtered = append(filtered, e)
			}
		}
		list = filtered
	}

	result, err := mcp.NewToolResultJSON(list)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func worksMuscle(e models.Exercise, muscle string) bool {
	for _, m := range append(append([]string{}, e.PrimaryMuscles...), e.SecondaryMuscles...) {
		if strings.ToLower(m) == muscle {
			return true
		}
	}
	return false
}

func (h *handlers) listWorkouts(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := h.ds.Workouts(ctx)
	if err != nil {
		h.log.Error("mcp list_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(list)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// ProgressPoint summarises one exercise within one workout log.
type ProgressPoint struct {
	LogID       string    `json:"log_id"`
	WorkoutName string    `json:"workout_name"`
	Date        time.Time `json:"date"`
	Sets        int       `json:"sets"`
	TopWeight   float64   `json:"top_weight"`
	TotalReps   int       `json:"total_reps"`
	Volume      float64   `json:"volume"`
}

// exerciseProgress walks logs oldest first and summarises the sets whose
// exercise name contains filter.
func exerciseProgress(logs []models.WorkoutLog, filter string) []ProgressPoint {
	filter = strings.ToLower(filter)
	out := []ProgressPoint{}
	for _, l := range logs {
		p := ProgressPoint{LogID: l.ID, WorkoutName: l.WorkoutName, Date: l.StartedAt}
		for _, s := range l.Sets {
			if !strings.Contains(strings.ToLower(s.ExerciseName), filter) {
				continue
			}
			p.Sets++
			p.TotalReps += s.Reps
			p.Volume += s.Weight * float64(s.Reps)
			if s.Weight > p.TopWeight {
				p.TopWeight = s.Weight
			}
		}
		if p.Sets > 0 {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (h *handlers) getExerciseProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil || strings.TrimSpace(exercise) == "" {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	endStr := req.GetString("end", "")
	end := time.Now()
	if endStr != "" {
		if end, err = parseFlexTime(endStr); err != nil {
			return mcp.NewToolResultError("invalid end date: " + err.Error()), nil
		}
	}
	start := end.AddDate(0, 0, -90)
	if startStr := req.GetString("start", ""); startStr != "" {
		if start, err = parseFlexTime(startStr); err != nil {
			return mcp.NewToolResultError("invalid start date: " + err.Error()), nil
		}
	}

	logs, err := h.ds.WorkoutLogs(ctx)
	if err != nil {
		h.log.Error("mcp get_exercise_progress", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(exerciseProgress(logsBetween(logs, start, end), exercise))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getActiveWorkout(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	active, err := h.ds.Active(ctx)
	if err != nil {
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(active)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) startWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name parameter is required"), nil
	}
	active, err := h.ds.StartWorkout(ctx, name)
	if err != nil {
		return mcp.NewToolResultError("start failed: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(active)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) logSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exerciseID, err := req.RequireString("exercise_id")
	if err != nil {
		return mcp.NewToolResultError("exercise_id parameter is required"), nil
	}
	reps, err := req.RequireInt("reps")
	if err != nil {
		return mcp.NewToolResultError("reps parameter is required"), nil
	}
	set := models.LoggedSet{
		ExerciseID:   exerciseID,
		ExerciseName: req.GetString("exercise_name", ""),
		Weight:       req.GetFloat("weight", 0),
		Reps:         reps,
		DropSet:      req.GetBool("drop_set", false),
		MyoRep:       models.MyoRep(req.GetString("myo_rep", "")),
	}

	active, err := h.ds.LogSet(ctx, set)
	if err != nil {
		return mcp.NewToolResultError("log set failed: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(active)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) finishWorkout(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	done, err := h.ds.FinishWorkout(ctx)
	if err != nil {
		h.log.Error("mcp finish_workout", "error", err)
		return mcp.NewToolResultError("finish failed: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(done)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTaxonomies(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t, err := h.ds.Taxonomies(ctx)
	if err != nil {
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(t)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
