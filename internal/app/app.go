package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"mealmate/internal/config"
	"mealmate/internal/database"
	"mealmate/internal/llm"
	"mealmate/internal/logger"
	"mealmate/internal/plan"
	"mealmate/internal/recipe"
	"mealmate/internal/shopping"
)

// App wires the configuration, storage and services together and owns
// their lifecycles.
type App struct {
	Config   *config.Config
	Recipes  *recipe.Service
	Plans    *plan.Service
	Shopping *shopping.Service
	AI       *llm.Service

	db         *database.DB
	recipeRepo *recipe.Repository
	completer  llm.Completer
}

// New builds the full application from configuration. The AI provider
// is selected by cfg.AIProvider; everything downstream only sees the
// Completer interface.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	completer, err := newCompleter(ctx, cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	aiService := llm.NewService(completer, cfg.AITimeout)

	recipeRepo := recipe.NewRepository(db.SQL)
	recipeService := recipe.NewService(recipe.NewSpoonacularClient(cfg), recipeRepo)

	planRepo := plan.NewRepository(db.SQL)
	planService := plan.NewService(planRepo, recipeService, aiService)

	shoppingRepo := shopping.NewRepository(db.SQL)
	aggregator := shopping.NewAggregator(recipeService)
	shoppingService := shopping.NewService(shoppingRepo, planRepo, aggregator, aiService)

	return &App{
		Config:     cfg,
		Recipes:    recipeService,
		Plans:      planService,
		Shopping:   shoppingService,
		AI:         aiService,
		db:         db,
		recipeRepo: recipeRepo,
		completer:  completer,
	}, nil
}

func newCompleter(ctx context.Context, cfg *config.Config) (llm.Completer, error) {
	switch cfg.AIProvider {
	case "gemini":
		return llm.NewGeminiClient(ctx, cfg)
	default:
		return llm.NewOpenAIClient(cfg), nil
	}
}

// CleanupCache evicts non-favorite recipes older than the configured
// retention window.
func (a *App) CleanupCache(ctx context.Context) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -a.Config.CacheRetentionDays)
	evicted, err := a.recipeRepo.EvictOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up recipe cache: %w", err)
	}
	logger.Info("recipe cache cleaned up",
		zap.Int64("evicted", evicted), zap.Time("cutoff", cutoff))
	return evicted, nil
}

// Close releases the database and the AI client.
func (a *App) Close() {
	if closer, ok := a.completer.(llm.Closer); ok {
		if err := closer.Close(); err != nil {
			logger.Warn("failed to close AI client", zap.Error(err))
		}
	}
	if err := a.db.Close(); err != nil {
		logger.Warn("failed to close database", zap.Error(err))
	}
}
