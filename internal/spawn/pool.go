// Package spawn maintains the bounded pool of live spawns. The pool
// exclusively owns the live-spawn set; the persistent store is canonical
// and nothing here caches it.
package spawn

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/jawago/server/internal/catalog"
	"github.com/jawago/server/internal/geo"
	"github.com/jawago/server/internal/model"
)

// Rarity roll thresholds: r < 0.05 Legendary, r < 0.30 Rare, else Common.
const (
	legendaryThreshold = 0.05
	rareThreshold      = 0.30
)

// Repository is the slice of the store the pool needs.
type Repository interface {
	CountActive(ctx context.Context) (int, error)
	InsertBatch(ctx context.Context, draws []model.SpawnDraw) ([]model.Spawn, error)
	DeleteByID(ctx context.Context, spawnID int64) error
}

// Pool generates and removes live spawns.
type Pool struct {
	repo    Repository
	catalog *catalog.Catalog
}

// NewPool creates a spawn pool over the given store and species catalog.
func NewPool(repo Repository, cat *catalog.Catalog) *Pool {
	return &Pool{repo: repo, catalog: cat}
}

// Refill tops the live pool up to target spawns inside bounds. A full pool
// is a no-op, never an error. All generated spawns persist in one batch,
// so the pool count stays deterministic per refill. The count read is a
// snapshot: concurrent refills may overshoot target slightly, which is
// tolerated.
func (p *Pool) Refill(ctx context.Context, target int, bounds geo.Bounds) ([]model.Spawn, error) {
	if p.catalog.Len() == 0 {
		return nil, model.ErrEmptyCatalog
	}

	current, err := p.repo.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading live spawn count: %w", err)
	}

	missing := target - current
	if missing <= 0 {
		slog.Debug("spawn pool full", "current", current, "target", target)
		return nil, nil
	}

	draws := make([]model.SpawnDraw, 0, missing)
	for range missing {
		draws = append(draws, model.SpawnDraw{
			SpeciesID: p.drawSpecies().ID,
			Location:  bounds.RandomPoint(),
		})
	}

	inserted, err := p.repo.InsertBatch(ctx, draws)
	if err != nil {
		return nil, fmt.Errorf("persisting %d spawns: %w", len(draws), err)
	}

	slog.Info("spawn pool refilled", "inserted", len(inserted), "current", current, "target", target)
	return inserted, nil
}

// Remove deletes exactly one spawn. Returns model.ErrSpawnGone when the
// spawn was already removed, the race-losing branch under concurrent
// claims.
func (p *Pool) Remove(ctx context.Context, spawnID int64) error {
	return p.repo.DeleteByID(ctx, spawnID)
}

// drawSpecies rolls a rarity tier and picks a uniform member of that tier.
// An empty rolled tier cascades to the next branch, and an empty Common
// list falls back to a uniform pick across the whole catalog. A non-empty
// catalog always produces a spawn, at the cost of skewing the advertised
// odds when tiers are unpopulated.
func (p *Pool) drawSpecies() model.Species {
	r := rand.Float64()

	var tier []model.Species
	if legendary := p.catalog.ByRarity(model.RarityLegendary); r < legendaryThreshold && len(legendary) > 0 {
		tier = legendary
	} else if rare := p.catalog.ByRarity(model.RarityRare); r < rareThreshold && len(rare) > 0 {
		tier = rare
	} else {
		tier = p.catalog.ByRarity(model.RarityCommon)
	}

	if len(tier) == 0 {
		tier = p.catalog.All()
	}
	return tier[rand.IntN(len(tier))]
}
