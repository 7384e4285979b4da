package plan

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mealmate/internal/logger"
	"mealmate/internal/recipe"
)

// RecipeSource is the recipe surface consumed by the plan service.
type RecipeSource interface {
	Cached(ctx context.Context, id string) (*recipe.Recipe, error)
	Fetch(ctx context.Context, id string) (*recipe.Recipe, error)
	ListCached(ctx context.Context) ([]recipe.Recipe, error)
}

// Store is the meal-entry persistence surface consumed by the service.
type Store interface {
	List(ctx context.Context) ([]Entry, error)
	Insert(ctx context.Context, e Entry) error
	InsertMany(ctx context.Context, entries []Entry) error
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

// PlanGenerator produces the weekly-plan text from user preferences.
type PlanGenerator interface {
	GenerateWeeklyPlan(ctx context.Context, preferences map[string]string) (string, error)
}

// Service manages the weekly meal plan.
type Service struct {
	store   Store
	recipes RecipeSource
	ai      PlanGenerator
}

// NewService creates a new plan Service.
func NewService(store Store, recipes RecipeSource, ai PlanGenerator) *Service {
	return &Service{store: store, recipes: recipes, ai: ai}
}

// Weekly returns the current plan ordered by day, then slot.
func (s *Service) Weekly(ctx context.Context) ([]Entry, error) {
	return s.store.List(ctx)
}

// AddMeal puts a recipe into the plan at the given day and slot. The
// recipe's ingredient data is completed from the remote API first so a
// later shopping-list generation does not start from an empty cache
// entry; a failed fetch only logs, the entry is stored regardless.
func (s *Service) AddMeal(ctx context.Context, recipeID string, dayOfWeek int, slot Slot) error {
	if dayOfWeek < 1 || dayOfWeek > 7 {
		return fmt.Errorf("day of week must be between 1 and 7, got %d", dayOfWeek)
	}
	if !slot.Valid() {
		return fmt.Errorf("unknown meal slot %q", slot)
	}

	s.ensureComplete(ctx, recipeID)

	rec, err := s.recipes.Cached(ctx, recipeID)
	if err != nil {
		return fmt.Errorf("failed to read recipe cache: %w", err)
	}

	entry := Entry{
		ID:        uuid.NewString(),
		RecipeID:  recipeID,
		DayOfWeek: dayOfWeek,
		Slot:      slot,
	}
	if rec != nil {
		entry.RecipeName = rec.Title
		entry.RecipeImageURL = rec.ImageURL
	}

	return s.store.Insert(ctx, entry)
}

// RemoveMeal deletes a single entry from the plan.
func (s *Service) RemoveMeal(ctx context.Context, entryID string) error {
	return s.store.Delete(ctx, entryID)
}

// Clear removes the whole plan.
func (s *Service) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// GenerateWeekly asks the AI for a weekly plan, then fills all 21 slots
// (7 days, 3 meals) from the cached recipe pool, replacing any existing
// plan. The generated plan text is returned for display.
func (s *Service) GenerateWeekly(ctx context.Context, preferences map[string]string) (string, error) {
	planText, err := s.ai.GenerateWeeklyPlan(ctx, preferences)
	if err != nil {
		return "", fmt.Errorf("failed to generate meal plan: %w", err)
	}

	recipes, err := s.recipes.ListCached(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list cached recipes: %w", err)
	}
	if len(recipes) == 0 {
		return "", fmt.Errorf("no recipes available to generate meal plan, search for recipes first")
	}

	if err := s.store.Clear(ctx); err != nil {
		return "", fmt.Errorf("failed to clear previous plan: %w", err)
	}

	var entries []Entry
	for day := 1; day <= 7; day++ {
		for _, slot := range Slots {
			rec := recipes[rand.IntN(len(recipes))]
			entries = append(entries, Entry{
				ID:             uuid.NewString(),
				RecipeID:       rec.ID,
				DayOfWeek:      day,
				Slot:           slot,
				RecipeName:     rec.Title,
				RecipeImageURL: rec.ImageURL,
			})
		}
	}

	if err := s.store.InsertMany(ctx, entries); err != nil {
		return "", fmt.Errorf("failed to store meal plan: %w", err)
	}

	// Backfill ingredient data for the chosen recipes so shopping-list
	// generation does not hit a wall of incomplete cache entries.
	seen := make(map[string]struct{})
	for _, entry := range entries {
		if _, done := seen[entry.RecipeID]; done {
			continue
		}
		seen[entry.RecipeID] = struct{}{}
		s.ensureComplete(ctx, entry.RecipeID)
	}

	logger.Info("weekly meal plan generated", zap.Int("entries", len(entries)))
	return planText, nil
}

// ensureComplete fetches a recipe from the remote API when the cached
// copy is missing or has no ingredients. Failures only log; callers
// proceed with whatever the cache holds.
func (s *Service) ensureComplete(ctx context.Context, recipeID string) {
	rec, err := s.recipes.Cached(ctx, recipeID)
	if err != nil {
		logger.Warn("failed to read recipe cache", zap.String("recipe_id", recipeID), zap.Error(err))
		return
	}
	if rec != nil && rec.Complete() {
		return
	}

	if _, err := s.recipes.Fetch(ctx, recipeID); err != nil {
		logger.Warn("failed to fetch recipe details", zap.String("recipe_id", recipeID), zap.Error(err))
	}
}
