package recipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Repository is the local recipe cache, backed by SQLite. Recipes are
// stored as JSON blobs with the favorite flag and cache timestamp broken
// out into columns for querying. A missing id is represented as
// (nil, nil), never an error.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// GetByID retrieves the cached recipe, or nil when absent.
func (r *Repository) GetByID(ctx context.Context, id string) (*Recipe, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT data, is_favorite, cached_at FROM recipes WHERE id = ?`, id)

	var data string
	var favorite bool
	var cachedAt time.Time
	if err := row.Scan(&data, &favorite, &cachedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Recipe not cached
		}
		return nil, fmt.Errorf("failed to get recipe by ID: %w", err)
	}

	var rec Recipe
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe JSON: %w", err)
	}
	rec.IsFavorite = favorite
	rec.CachedAt = cachedAt

	return &rec, nil
}

// Upsert inserts or refreshes a cached recipe. The favorite flag of an
// existing row is preserved across refreshes.
func (r *Repository) Upsert(ctx context.Context, rec Recipe) error {
	return r.upsert(ctx, r.db, rec)
}

// UpsertMany inserts or refreshes a batch of recipes in one transaction.
func (r *Repository) UpsertMany(ctx context.Context, recs []Recipe) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, rec := range recs {
		if err := r.upsert(ctx, tx, rec); err != nil {
			return err
		}
	}
	return tx.Commit()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *Repository) upsert(ctx context.Context, ex execer, rec Recipe) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe: %w", err)
	}

	cachedAt := rec.CachedAt
	if cachedAt.IsZero() {
		cachedAt = time.Now().UTC()
	}

	_, err = ex.ExecContext(ctx,
		`INSERT INTO recipes (id, data, is_favorite, cached_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, cached_at = excluded.cached_at`,
		rec.ID, string(data), rec.IsFavorite, cachedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert recipe %s: %w", rec.ID, err)
	}
	return nil
}

// List retrieves every cached recipe.
func (r *Repository) List(ctx context.Context) ([]Recipe, error) {
	return r.list(ctx, `SELECT data, is_favorite, cached_at FROM recipes`)
}

// ListFavorites retrieves every recipe marked as favorite.
func (r *Repository) ListFavorites(ctx context.Context) ([]Recipe, error) {
	return r.list(ctx, `SELECT data, is_favorite, cached_at FROM recipes WHERE is_favorite = 1`)
}

func (r *Repository) list(ctx context.Context, query string) ([]Recipe, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		var data string
		var favorite bool
		var cachedAt time.Time
		if err := rows.Scan(&data, &favorite, &cachedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recipe row: %w", err)
		}
		var rec Recipe
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal recipe JSON: %w", err)
		}
		rec.IsFavorite = favorite
		rec.CachedAt = cachedAt
		recipes = append(recipes, rec)
	}
	return recipes, rows.Err()
}

// SetFavorite updates the favorite flag for a cached recipe.
func (r *Repository) SetFavorite(ctx context.Context, id string, favorite bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE recipes SET is_favorite = ? WHERE id = ?`, favorite, id)
	if err != nil {
		return fmt.Errorf("failed to update favorite status for recipe %s: %w", id, err)
	}
	return nil
}

// EvictOlderThan deletes non-favorite recipes cached before the cutoff
// and returns how many rows were removed.
func (r *Repository) EvictOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM recipes WHERE cached_at < ? AND is_favorite = 0`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to evict old recipes: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count evicted recipes: %w", err)
	}
	return affected, nil
}
