// Package catalog holds the immutable species reference data, loaded once
// per process. It is the only state in the system that is safe to cache;
// everything else lives in the store.
package catalog

import (
	"context"
	"fmt"

	"github.com/jawago/server/internal/model"
)

// SpeciesRepository loads species definitions from the store.
type SpeciesRepository interface {
	LoadAll(ctx context.Context) ([]model.Species, error)
}

// Catalog is a read-only view of the species list, indexed by ID and by
// rarity tier. Safe for concurrent use after Load.
type Catalog struct {
	all      []model.Species
	byID     map[int32]model.Species
	byRarity map[model.Rarity][]model.Species
}

// Load reads the full species list from the repository and builds the
// indexes. An empty catalog loads fine; drawing from it fails later with
// model.ErrEmptyCatalog.
func Load(ctx context.Context, repo SpeciesRepository) (*Catalog, error) {
	species, err := repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading species catalog: %w", err)
	}
	return New(species), nil
}

// New builds a catalog from an in-memory species list.
func New(species []model.Species) *Catalog {
	c := &Catalog{
		all:      species,
		byID:     make(map[int32]model.Species, len(species)),
		byRarity: make(map[model.Rarity][]model.Species),
	}
	for _, s := range species {
		c.byID[s.ID] = s
		c.byRarity[s.Rarity] = append(c.byRarity[s.Rarity], s)
	}
	return c
}

// All returns the full species list. Callers must not modify it.
func (c *Catalog) All() []model.Species {
	return c.all
}

// Get returns the species with the given ID.
func (c *Catalog) Get(id int32) (model.Species, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// ByRarity returns all species in the given tier. A populated tier list
// may be empty; the spawn pool falls back to a uniform catalog pick then.
func (c *Catalog) ByRarity(r model.Rarity) []model.Species {
	return c.byRarity[r]
}

// Len returns the number of species in the catalog.
func (c *Catalog) Len() int {
	return len(c.all)
}
