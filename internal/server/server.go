package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/meltforce/kinetic/internal/ingest/alpha"
	"github.com/meltforce/kinetic/internal/state"
)

// Server exposes a Hub over HTTP.
type Server struct {
	hub      *state.Hub
	alpha    *alpha.Provider
	log      *slog.Logger
	apiKey   string
	whois    WhoIser
	router   chi.Router
	upgrader websocket.Upgrader
}

// New creates a new Server with all routes configured. An empty apiKey
// leaves the API open, for tailnet-only deployments.
func New(hub *state.Hub, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		hub:    hub,
		alpha:  alpha.NewProvider(hub, log),
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetTailscale enables tailnet peer lookup for /api/v1/me.
func (s *Server) SetTailscale(w WhoIser) {
	s.whois = w
}

func (s *Server) routes() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-API-Key"},
		MaxAge:         300,
	}))

	s.router.Route("/api/v1", func(r chi.Router) {
		if s.apiKey != "" {
			r.Use(APIKeyAuth(s.apiKey))
		}
		r.Use(s.tailnetIdentity)

		r.Get("/me", s.handleMe)
		r.Post("/auth/signin", s.handleSignIn)
		r.Post("/auth/signout", s.handleSignOut)
		r.Delete("/account", s.handleDeleteAccount)
		r.Get("/status", s.handleStatus)
		r.Get("/watch", s.handleWatch)

		r.Route("/exercises", func(r chi.Router) {
			r.Get("/", s.handleListExercises)
			r.Post("/", s.handleCreateExercise)
			r.Put("/{id}", s.handleUpdateExercise)
			r.Delete("/{id}", s.handleDeleteExercise)
		})
		r.Route("/workouts", func(r chi.Router) {
			r.Get("/", s.handleListWorkouts)
			r.Post("/", s.handleCreateWorkout)
			r.Get("/{id}", s.handleGetWorkout)
			r.Put("/{id}", s.handleUpdateWorkout)
			r.Delete("/{id}", s.handleDeleteWorkout)
		})
		r.Route("/workout-exercises", func(r chi.Router) {
			r.Post("/", s.handleAddWorkoutExercise)
			r.Patch("/{id}", s.handleUpdateWorkoutExercise)
			r.Delete("/{id}", s.handleRemoveWorkoutExercise)
		})
		r.Route("/logs", func(r chi.Router) {
			r.Get("/", s.handleListLogs)
			r.Post("/", s.handleCreateLog)
			r.Get("/{id}", s.handleGetLog)
			r.Patch("/{id}", s.handleUpdateLog)
			r.Delete("/{id}", s.handleDeleteLog)
		})
		r.Route("/active", func(r chi.Router) {
			r.Get("/", s.handleGetActive)
			r.Post("/", s.handleStartActive)
			r.Delete("/", s.handleDiscardActive)
			r.Post("/sets", s.handleLogSet)
			r.Post("/finish", s.handleFinishActive)
		})
		r.Post("/import/alpha", s.handleAlphaImport)
		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handleSaveSettings)
	})
}
