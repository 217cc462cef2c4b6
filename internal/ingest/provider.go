// Package ingest holds the shared result type for workout imports.
package ingest

// Result holds the outcome of an import.
type Result struct {
	SessionsReceived int `json:"sessions_received"`
	LogsImported     int `json:"logs_imported"`
	LogsSkipped      int `json:"logs_skipped"`
	SetsImported     int `json:"sets_imported"`
	ExercisesCreated int `json:"exercises_created"`

	Message string `json:"message,omitempty"`
}
