// Package progress owns the level/XP transition function. Callers hand in
// a reward value; nothing else mutates profile progression.
package progress

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jawago/server/internal/model"
)

// thresholdGrowth is the per-level multiplier on the XP threshold,
// truncated to an integer.
const thresholdGrowth = 1.2

// ProfileStore applies a progression update under per-user serialization
// (row lock or equivalent) so simultaneous rewards cannot lose an update.
type ProfileStore interface {
	UpdateProgress(ctx context.Context, userID uuid.UUID, fn func(p *model.Profile)) (*model.Profile, error)
}

// Result reports a single experience credit.
type Result struct {
	NewLevel  int32 `json:"new_level"`
	NewXP     int64 `json:"new_xp"`
	XPGained  int64 `json:"xp_gained"`
	LeveledUp bool  `json:"leveled_up"`
}

// Engine converts reward points into level/XP state transitions.
type Engine struct {
	store ProfileStore
}

// NewEngine creates a progression engine over the given profile store.
func NewEngine(store ProfileStore) *Engine {
	return &Engine{store: store}
}

// AddExperience credits reward XP and rolls up every level boundary it
// crosses: while xp >= threshold, subtract the threshold, bump the level
// and grow the threshold by 1.2x (floored). One huge reward may produce
// several level-ups in a single call; the persisted triple reflects every
// intermediate roll-up. Returns model.ErrProfileNotFound for unknown users.
func (e *Engine) AddExperience(ctx context.Context, userID uuid.UUID, reward int64) (Result, error) {
	leveledUp := false

	p, err := e.store.UpdateProgress(ctx, userID, func(p *model.Profile) {
		p.CurrentXP += reward
		for p.NextLevelXP > 0 && p.CurrentXP >= p.NextLevelXP {
			p.CurrentXP -= p.NextLevelXP
			p.Level++
			p.NextLevelXP = int64(float64(p.NextLevelXP) * thresholdGrowth)
			leveledUp = true
		}
	})
	if err != nil {
		return Result{}, fmt.Errorf("crediting %d xp to %s: %w", reward, userID, err)
	}

	return Result{
		NewLevel:  p.Level,
		NewXP:     p.CurrentXP,
		XPGained:  reward,
		LeveledUp: leveledUp,
	}, nil
}
