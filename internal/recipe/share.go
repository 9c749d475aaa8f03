package recipe

import (
	"context"
	"errors"
	"fmt"

	"codeberg.org/snonux/recipetrans/internal/store"
)

// ErrNotShared is returned for unknown share tokens and private recipes
var ErrNotShared = errors.New("recipe is not shared")

// Sharer serves public recipes by share token
type Sharer struct {
	store        store.Store
	orchestrator *Orchestrator
}

// NewSharer creates a sharer
func NewSharer(st store.Store, orchestrator *Orchestrator) *Sharer {
	return &Sharer{store: st, orchestrator: orchestrator}
}

// SharedRecipe renders the public recipe carrying token in target
func (s *Sharer) SharedRecipe(ctx context.Context, token, target string) (View, error) {
	r, err := s.store.GetRecipeByShareToken(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return View{}, ErrNotShared
	}
	if err != nil {
		return View{}, fmt.Errorf("failed to load shared recipe: %w", err)
	}
	if !r.Public {
		return View{}, ErrNotShared
	}
	return s.orchestrator.TranslatedRecipe(ctx, &r, target), nil
}
