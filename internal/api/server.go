// Package api is the HTTP boundary of the game core. Identity arrives
// pre-verified in headers and is trusted unconditionally.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/jawago/server/internal/catalog"
	"github.com/jawago/server/internal/claim"
	"github.com/jawago/server/internal/config"
	"github.com/jawago/server/internal/geo"
	"github.com/jawago/server/internal/model"
)

// Refiller tops up the spawn pool.
type Refiller interface {
	Refill(ctx context.Context, target int, bounds geo.Bounds) ([]model.Spawn, error)
}

// Claimer resolves capture and check-in attempts.
type Claimer interface {
	ClaimSpawn(ctx context.Context, userID uuid.UUID, spawnID int64, userCoord geo.Coordinate, role model.Role) (claim.Result, error)
	ClaimLandmark(ctx context.Context, userID uuid.UUID, landmarkID int64, userCoord geo.Coordinate, role model.Role) (claim.Result, error)
}

// SpawnReader serves the live-spawn snapshot.
type SpawnReader interface {
	ListActive(ctx context.Context) ([]model.ActiveSpawn, error)
}

// LandmarkReader serves landmark reference data and visit state.
type LandmarkReader interface {
	LoadAll(ctx context.Context) ([]model.Landmark, error)
	VisitedIDs(ctx context.Context, userID uuid.UUID) ([]int64, error)
	CountVisits(ctx context.Context, userID uuid.UUID) (int64, error)
}

// ProfileStore serves and renames player profiles.
type ProfileStore interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	UpdateDisplayName(ctx context.Context, userID uuid.UUID, name string) error
}

// CaptureCounter counts a player's captures for the stats block.
type CaptureCounter interface {
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Server holds the handler dependencies.
type Server struct {
	cfg       config.GameServer
	pool      Refiller
	claims    Claimer
	spawns    SpawnReader
	landmarks LandmarkReader
	profiles  ProfileStore
	captures  CaptureCounter
	catalog   *catalog.Catalog
}

// NewServer wires the HTTP server.
func NewServer(
	cfg config.GameServer,
	pool Refiller,
	claims Claimer,
	spawns SpawnReader,
	landmarks LandmarkReader,
	profiles ProfileStore,
	captures CaptureCounter,
	cat *catalog.Catalog,
) *Server {
	return &Server{
		cfg:       cfg,
		pool:      pool,
		claims:    claims,
		spawns:    spawns,
		landmarks: landmarks,
		profiles:  profiles,
		captures:  captures,
		catalog:   cat,
	}
}

// Routes builds the router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", headerUserID, headerUserRole},
	}))

	r.Get("/healthz", s.handleHealth)

	r.Route("/spawns", func(r chi.Router) {
		r.Get("/refill", s.handleRefill)
		r.Get("/active", s.handleActiveSpawns)
		r.With(s.requireIdentity).Post("/{id}/claim", s.handleClaimSpawn)
	})

	r.Route("/landmarks", func(r chi.Router) {
		r.With(s.requireIdentity).Get("/", s.handleListLandmarks)
		r.With(s.requireIdentity).Post("/{id}/claim", s.handleClaimLandmark)
	})

	r.Get("/catalog", s.handleCatalog)
	r.With(s.requireIdentity).Get("/search", s.handleSearch)

	r.Route("/profile", func(r chi.Router) {
		r.Use(s.requireIdentity)
		r.Get("/", s.handleGetProfile)
		r.Patch("/", s.handleUpdateProfile)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
