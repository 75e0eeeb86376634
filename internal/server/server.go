package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/terrapump/internal/catalog"
	"github.com/meltforce/terrapump/internal/history"
	"github.com/meltforce/terrapump/internal/session"
	"github.com/meltforce/terrapump/internal/storage"
	"tailscale.com/client/local"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db       *storage.DB
	catalog  *catalog.Service
	sessions *session.Manager
	history  *history.Service
	log      *slog.Logger
	adminKey string
	ts       *local.Client
	router   chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, cat *catalog.Service, sessions *session.Manager, hist *history.Service, adminKey string, log *slog.Logger) *Server {
	s := &Server{
		db:       db,
		catalog:  cat,
		sessions: sessions,
		history:  hist,
		log:      log,
		adminKey: adminKey,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// SetTailscale wires the tsnet local client used to resolve caller
// identity. Without it the server runs with the dev identity.
func (s *Server) SetTailscale(lc *local.Client) {
	s.ts = lc
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(s.identity)

	s.router.Get("/api/v1/me", s.handleMe)

	// Catalog reads (no auth; tsnet handles access)
	s.router.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/types", s.handleEquipmentTypes)
		r.Get("/options", s.handleCatalogOptions)
		r.Get("/brands", s.handleListBrands)
		r.Get("/brands/{brandID}/machines", s.handleListMachines)
		r.Get("/attachments", s.handleListAttachments)
		r.Get("/library", s.handleListLibrary)
		r.Post("/refresh", s.handleCatalogRefresh)
	})

	// Catalog admin mutations (API key required)
	s.router.Route("/api/v1/admin/catalog", func(r chi.Router) {
		r.Use(APIKeyAuth(s.adminKey))
		r.Put("/brands/{brandID}", s.handleUpsertBrand)
		r.Delete("/brands/{brandID}", s.handleDeleteBrand)
		r.Put("/brands/{brandID}/machines/{machineID}", s.handleUpsertMachine)
		r.Delete("/brands/{brandID}/machines/{machineID}", s.handleDeleteMachine)
		r.Put("/attachments/{name}", s.handleUpsertAttachment)
		r.Delete("/attachments/{name}", s.handleDeleteAttachment)
		r.Put("/library/{name}", s.handleUpsertLibraryExercise)
		r.Delete("/library/{name}", s.handleDeleteLibraryExercise)
	})

	// Workout session (per-user reducer)
	s.router.Route("/api/v1/session", func(r chi.Router) {
		r.Get("/", s.handleSessionState)
		r.Post("/start", s.handleSessionStart)
		r.Post("/resume", s.handleSessionResume)
		r.Post("/discard", s.handleSessionDiscard)
		r.Post("/select-type", s.handleSelectType)
		r.Post("/select-exercise", s.handleSelectExercise)
		r.Get("/seed", s.handleSeed)
		r.Post("/sets", s.handleSetSetCount)
		r.Post("/sets/add", s.handleAddSet)
		r.Post("/sets/remove", s.handleRemoveSet)
		r.Post("/commit", s.handleCommit)
		r.Delete("/entries/{index}", s.handleRemoveLogged)
		r.Post("/save", s.handleSaveProgress)
		r.Post("/end", s.handleSessionEnd)
	})

	// Previous-stats cache reads
	s.router.Get("/api/v1/stats/{key}", s.handleGetPreviousStats)

	// Workout history
	s.router.Get("/api/v1/workouts", s.handleListWorkouts)
	s.router.Get("/api/v1/workouts/{id}", s.handleGetWorkout)
	s.router.Delete("/api/v1/workouts/{id}", s.handleDeleteWorkout)

	// Daily health entries
	s.router.Get("/api/v1/entries", s.handleListEntries)
	s.router.Get("/api/v1/entries/{date}", s.handleGetEntry)
	s.router.Put("/api/v1/entries/{date}", s.handleUpsertEntry)
}
