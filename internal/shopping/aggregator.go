package shopping

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"mealmate/internal/logger"
	"mealmate/internal/plan"
	"mealmate/internal/recipe"
)

// Errors surfaced by aggregation. ErrEmptyPlan means there was nothing
// to aggregate; ErrNoIngredients means every referenced recipe resolved
// but contributed nothing.
var (
	ErrEmptyPlan     = errors.New("empty meal plan")
	ErrNoIngredients = errors.New("no ingredients in meal plan")
)

// RecipeSource is the recipe surface the aggregator resolves entries
// against: a cache read plus a remote-first fetch for incomplete entries.
type RecipeSource interface {
	Cached(ctx context.Context, id string) (*recipe.Recipe, error)
	Fetch(ctx context.Context, id string) (*recipe.Recipe, error)
}

// Aggregator folds a meal plan's recipes into a deduplicated
// ingredient-quantity map.
type Aggregator struct {
	recipes RecipeSource
}

// NewAggregator creates a new Aggregator.
func NewAggregator(recipes RecipeSource) *Aggregator {
	return &Aggregator{recipes: recipes}
}

// Aggregate resolves every meal entry to its recipe's ingredient list
// and folds the ingredients into a map keyed by the trimmed, lowercased
// name. Each occurrence appends its free-text quantity; nothing is
// summed or unit-converted. The returned slice preserves first-seen key
// order, which fixes the order of the generated shopping list.
//
// A recipe that is missing from the cache or cached without ingredients
// is re-fetched; a fetch failure only logs and the remaining entries
// still aggregate. Only an empty input or an empty result is fatal.
func (a *Aggregator) Aggregate(ctx context.Context, entries []plan.Entry) (map[string][]string, []string, error) {
	if len(entries) == 0 {
		return nil, nil, fmt.Errorf("no meal plan found, generate a meal plan first: %w", ErrEmptyPlan)
	}

	quantities := make(map[string][]string)
	var order []string

	for _, entry := range entries {
		rec, err := a.resolve(ctx, entry.RecipeID)
		if err != nil {
			logger.Warn("skipping meal entry, recipe unavailable",
				zap.String("recipe_id", entry.RecipeID), zap.Error(err))
			continue
		}
		if rec == nil {
			logger.Warn("skipping meal entry, recipe not in cache",
				zap.String("recipe_id", entry.RecipeID))
			continue
		}

		for _, ing := range rec.Ingredients {
			key := strings.ToLower(strings.TrimSpace(ing.Name))
			if key == "" {
				continue
			}
			if _, seen := quantities[key]; !seen {
				order = append(order, key)
			}
			quantities[key] = append(quantities[key], ing.Quantity)
		}
	}

	if len(quantities) == 0 {
		return nil, nil, fmt.Errorf("no ingredients found in meal plan, add recipes with ingredients first: %w", ErrNoIngredients)
	}

	logger.Debug("aggregated meal plan", zap.Int("unique_ingredients", len(quantities)))
	return quantities, order, nil
}

// resolve returns the cached recipe, fetching first when the cached
// copy is missing or incomplete. The post-fetch state of the cache is
// authoritative.
func (a *Aggregator) resolve(ctx context.Context, recipeID string) (*recipe.Recipe, error) {
	rec, err := a.recipes.Cached(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if rec != nil && rec.Complete() {
		return rec, nil
	}

	if _, err := a.recipes.Fetch(ctx, recipeID); err != nil {
		logger.Warn("failed to fetch recipe during aggregation",
			zap.String("recipe_id", recipeID), zap.Error(err))
	}
	return a.recipes.Cached(ctx, recipeID)
}
