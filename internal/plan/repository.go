package plan

import (
	"context"
	"database/sql"
	"fmt"
)

// listQuery orders entries by day, then by slot within the day. Slot is
// stored as its name, so the ordering spells out breakfast before lunch
// before dinner.
const listQuery = `SELECT id, recipe_id, day_of_week, slot, recipe_name, recipe_image_url
FROM meal_entries
ORDER BY day_of_week,
	CASE slot WHEN 'BREAKFAST' THEN 0 WHEN 'LUNCH' THEN 1 ELSE 2 END`

// Repository handles persistence of meal-plan entries.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new meal-plan repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// List retrieves all entries ordered by day, then slot.
func (r *Repository) List(ctx context.Context) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, listQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var imageURL sql.NullString
		if err := rows.Scan(&e.ID, &e.RecipeID, &e.DayOfWeek, &e.Slot, &e.RecipeName, &imageURL); err != nil {
			return nil, fmt.Errorf("failed to scan meal entry: %w", err)
		}
		e.RecipeImageURL = imageURL.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Insert stores a single entry.
func (r *Repository) Insert(ctx context.Context, e Entry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO meal_entries (id, recipe_id, day_of_week, slot, recipe_name, recipe_image_url)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.RecipeID, e.DayOfWeek, string(e.Slot), e.RecipeName, nullable(e.RecipeImageURL))
	if err != nil {
		return fmt.Errorf("failed to insert meal entry: %w", err)
	}
	return nil
}

// InsertMany stores a batch of entries in one transaction.
func (r *Repository) InsertMany(ctx context.Context, entries []Entry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, e := range entries {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO meal_entries (id, recipe_id, day_of_week, slot, recipe_name, recipe_image_url)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			e.ID, e.RecipeID, e.DayOfWeek, string(e.Slot), e.RecipeName, nullable(e.RecipeImageURL)); err != nil {
			return fmt.Errorf("failed to insert meal entry %s: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

// Delete removes a single entry by id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM meal_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete meal entry %s: %w", id, err)
	}
	return nil
}

// Clear removes every entry.
func (r *Repository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM meal_entries`)
	if err != nil {
		return fmt.Errorf("failed to clear meal plan: %w", err)
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
