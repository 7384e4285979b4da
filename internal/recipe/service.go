package recipe

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"mealmate/internal/logger"
)

// ErrRecipeUnavailable marks a fetch that failed remotely with no cached
// copy to fall back on.
var ErrRecipeUnavailable = errors.New("recipe unavailable")

// Cache is the local recipe store surface consumed by Service.
type Cache interface {
	GetByID(ctx context.Context, id string) (*Recipe, error)
	Upsert(ctx context.Context, rec Recipe) error
	UpsertMany(ctx context.Context, recs []Recipe) error
	List(ctx context.Context) ([]Recipe, error)
	ListFavorites(ctx context.Context) ([]Recipe, error)
	SetFavorite(ctx context.Context, id string, favorite bool) error
}

// Service fetches recipes remote-first and keeps the local cache warm.
type Service struct {
	api   API
	cache Cache
}

// NewService creates a new Service.
func NewService(api API, cache Cache) *Service {
	return &Service{api: api, cache: cache}
}

// Fetch retrieves a recipe by id, preferring the remote API so detail
// views always see fresh data. A successful fetch is normalized and
// cached before returning. On remote failure the cached copy is used;
// with no cached copy the returned error names the recipe id.
func (s *Service) Fetch(ctx context.Context, id string) (*Recipe, error) {
	remote, err := s.api.GetByID(ctx, id)
	if err == nil {
		rec := Normalize(remote)
		if upsertErr := s.cache.Upsert(ctx, rec); upsertErr != nil {
			return nil, fmt.Errorf("failed to cache recipe %s: %w", id, upsertErr)
		}
		logger.Debug("fetched recipe from remote",
			zap.String("recipe_id", id),
			zap.Int("ingredients", len(rec.Ingredients)))
		return &rec, nil
	}

	if errors.Is(err, ErrQuotaExceeded) {
		logger.Warn("api quota exceeded, falling back to cache", zap.String("recipe_id", id))
	} else {
		logger.Error("recipe fetch failed, falling back to cache",
			zap.String("recipe_id", id), zap.Error(err))
	}

	cached, cacheErr := s.cache.GetByID(ctx, id)
	if cacheErr != nil {
		return nil, fmt.Errorf("failed to read cache for recipe %s: %w", id, cacheErr)
	}
	if cached != nil {
		return cached, nil
	}

	return nil, fmt.Errorf("recipe details unavailable for recipe %s: %w: %w", id, ErrRecipeUnavailable, err)
}

// Search queries the remote API, caches the results, and returns them.
// When the remote call fails, the full cached list stands in if it is
// non-empty; otherwise the remote error propagates.
func (s *Service) Search(ctx context.Context, query, diet string, intolerances []string) ([]Recipe, error) {
	results, err := s.api.Search(ctx, query, diet, intolerances)
	if err == nil {
		recipes := make([]Recipe, 0, len(results))
		for i := range results {
			recipes = append(recipes, Normalize(&results[i]))
		}
		if upsertErr := s.cache.UpsertMany(ctx, recipes); upsertErr != nil {
			return nil, fmt.Errorf("failed to cache search results: %w", upsertErr)
		}
		return recipes, nil
	}

	logger.Warn("recipe search failed, falling back to cache", zap.Error(err))
	cached, cacheErr := s.cache.List(ctx)
	if cacheErr == nil && len(cached) > 0 {
		return cached, nil
	}
	return nil, err
}

// Cached returns the cached recipe, or nil when absent.
func (s *Service) Cached(ctx context.Context, id string) (*Recipe, error) {
	return s.cache.GetByID(ctx, id)
}

// ListCached returns every cached recipe.
func (s *Service) ListCached(ctx context.Context) ([]Recipe, error) {
	return s.cache.List(ctx)
}

// Favorites returns the cached recipes marked as favorite.
func (s *Service) Favorites(ctx context.Context) ([]Recipe, error) {
	return s.cache.ListFavorites(ctx)
}

// ToggleFavorite flips the favorite flag for a cached recipe. A missing
// recipe is a no-op.
func (s *Service) ToggleFavorite(ctx context.Context, id string) error {
	rec, err := s.cache.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rec == nil {
		return nil
	}
	return s.cache.SetFavorite(ctx, id, !rec.IsFavorite)
}
