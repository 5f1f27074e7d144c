package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jawago/server/internal/api"
	"github.com/jawago/server/internal/catalog"
	"github.com/jawago/server/internal/claim"
	"github.com/jawago/server/internal/config"
	"github.com/jawago/server/internal/db"
	"github.com/jawago/server/internal/progress"
	"github.com/jawago/server/internal/spawn"
)

const GameConfigPath = "config/gameserver.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := GameConfigPath
	if p := os.Getenv("JAWAGO_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadGameServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	slog.Info("jawago server starting",
		"bind", cfg.BindAddress,
		"port", cfg.Port,
		"target_spawns", cfg.TargetSpawns,
		"refill_interval", cfg.RefillInterval)

	database, err := db.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()
	slog.Info("database connected")

	if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database migrations applied")

	pool := database.Pool()
	spawnRepo := db.NewSpawnRepository(pool)
	speciesRepo := db.NewSpeciesRepository(pool)
	landmarkRepo := db.NewLandmarkRepository(pool)
	captureRepo := db.NewCaptureRepository(pool)
	profileRepo := db.NewProfileRepository(pool)

	cat, err := catalog.Load(ctx, speciesRepo)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	slog.Info("species catalog loaded", "species", cat.Len())

	spawnPool := spawn.NewPool(spawnRepo, cat)
	engine := progress.NewEngine(profileRepo)
	coordinator := claim.NewCoordinator(
		spawnRepo, captureRepo, landmarkRepo, engine, cat,
		cfg.CaptureRadiusMeters, cfg.LandmarkRadiusMeters,
	)

	server := api.NewServer(cfg, spawnPool, coordinator, spawnRepo, landmarkRepo, profileRepo, captureRepo, cat)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.BindAddress, cfg.Port),
		Handler:      server.Routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("http server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return refillLoop(ctx, spawnPool, cfg)
	})

	return g.Wait()
}

// refillLoop keeps the pool near the target population. Refill and claims
// run concurrently by design: refill only inserts, claims only delete.
func refillLoop(ctx context.Context, pool *spawn.Pool, cfg config.GameServer) error {
	ticker := time.NewTicker(cfg.RefillInterval)
	defer ticker.Stop()

	for {
		refillCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		_, err := pool.Refill(refillCtx, cfg.TargetSpawns, cfg.PlayArea)
		cancel()
		if err != nil {
			// EmptyCatalog would repeat forever; transient store errors
			// resolve on a later tick.
			slog.Error("background refill failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
