package shopping

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles persistence of shopping items.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new shopping-list repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// List retrieves all items, unchecked first, then by section and name.
func (r *Repository) List(ctx context.Context) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, ingredient_name, quantity, section, estimated_price, notes, checked, available_at_home
		 FROM shopping_items
		 ORDER BY checked, section, ingredient_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanItem(rows *sql.Rows) (Item, error) {
	var item Item
	var section, notes sql.NullString
	var price sql.NullFloat64
	if err := rows.Scan(&item.ID, &item.IngredientName, &item.Quantity,
		&section, &price, &notes, &item.Checked, &item.AvailableAtHome); err != nil {
		return Item{}, fmt.Errorf("failed to scan shopping item: %w", err)
	}
	item.Section = section.String
	item.Notes = notes.String
	if price.Valid {
		item.EstimatedPrice = &price.Float64
	}
	return item, nil
}

// Insert stores a single item.
func (r *Repository) Insert(ctx context.Context, item Item) error {
	return insertItem(ctx, r.db, item)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertItem(ctx context.Context, ex execer, item Item) error {
	var price sql.NullFloat64
	if item.EstimatedPrice != nil {
		price = sql.NullFloat64{Float64: *item.EstimatedPrice, Valid: true}
	}
	_, err := ex.ExecContext(ctx,
		`INSERT OR REPLACE INTO shopping_items
		 (id, ingredient_name, quantity, section, estimated_price, notes, checked, available_at_home)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.IngredientName, item.Quantity,
		sql.NullString{String: item.Section, Valid: item.Section != ""},
		price,
		sql.NullString{String: item.Notes, Valid: item.Notes != ""},
		item.Checked, item.AvailableAtHome)
	if err != nil {
		return fmt.Errorf("failed to insert shopping item %s: %w", item.ID, err)
	}
	return nil
}

// ReplaceAll atomically swaps the whole list: the prior set is deleted
// and the new one inserted inside a single transaction, so a failure
// never leaves a half-written list behind.
func (r *Repository) ReplaceAll(ctx context.Context, items []Item) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM shopping_items`); err != nil {
		return fmt.Errorf("failed to clear shopping list: %w", err)
	}
	for _, item := range items {
		if err := insertItem(ctx, tx, item); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SetChecked updates the checked flag for one item.
func (r *Repository) SetChecked(ctx context.Context, id string, checked bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE shopping_items SET checked = ? WHERE id = ?`, checked, id)
	if err != nil {
		return fmt.Errorf("failed to update checked status for item %s: %w", id, err)
	}
	return nil
}

// SetPrice updates the estimated price for one item.
func (r *Repository) SetPrice(ctx context.Context, id string, price float64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE shopping_items SET estimated_price = ? WHERE id = ?`, price, id)
	if err != nil {
		return fmt.Errorf("failed to update price for item %s: %w", id, err)
	}
	return nil
}

// SetAvailableAtHome updates the available-at-home flag for one item.
func (r *Repository) SetAvailableAtHome(ctx context.Context, id string, available bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE shopping_items SET available_at_home = ? WHERE id = ?`, available, id)
	if err != nil {
		return fmt.Errorf("failed to update availability for item %s: %w", id, err)
	}
	return nil
}

// Delete removes a single item.
func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM shopping_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete shopping item %s: %w", id, err)
	}
	return nil
}

// DeleteChecked removes every checked item.
func (r *Repository) DeleteChecked(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM shopping_items WHERE checked = 1`)
	if err != nil {
		return fmt.Errorf("failed to delete checked items: %w", err)
	}
	return nil
}
