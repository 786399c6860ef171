package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Hemanthlepcha/budget-tracker-app/internal/domain"
)

// CategoryRepo reads and writes categories rows.
type CategoryRepo struct {
	pool *pgxpool.Pool
}

func NewCategoryRepo(pool *pgxpool.Pool) *CategoryRepo {
	return &CategoryRepo{pool: pool}
}

// Find returns the category with the exact (user, name, type) key.
func (r *CategoryRepo) Find(ctx context.Context, userID, name string, t domain.TransactionType) (*domain.Category, error) {
	query := `
		SELECT id, user_id, name, type, color, "order", created_at
		FROM categories
		WHERE user_id = $1 AND name = $2 AND type = $3
	`
	var c domain.Category
	err := r.pool.QueryRow(ctx, query, userID, name, t).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &c.Color, &c.Order, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: find category: %w", err)
	}
	return &c, nil
}

// MaxOrder returns the highest order value among the user's categories of the
// given type, or 0 when there are none.
func (r *CategoryRepo) MaxOrder(ctx context.Context, userID string, t domain.TransactionType) (int, error) {
	query := `
		SELECT COALESCE(MAX("order"), 0)
		FROM categories
		WHERE user_id = $1 AND type = $2
	`
	var max int
	if err := r.pool.QueryRow(ctx, query, userID, t).Scan(&max); err != nil {
		return 0, fmt.Errorf("store: max category order: %w", err)
	}
	return max, nil
}

// Create inserts a new category row.
func (r *CategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	query := `
		INSERT INTO categories (id, user_id, name, type, color, "order")
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.pool.Exec(ctx, query, c.ID, c.UserID, c.Name, c.Type, c.Color, c.Order); err != nil {
		return fmt.Errorf("store: create category: %w", err)
	}
	return nil
}

// List returns the user's categories ordered for display.
func (r *CategoryRepo) List(ctx context.Context, userID string) ([]domain.Category, error) {
	query := `
		SELECT id, user_id, name, type, color, "order", created_at
		FROM categories
		WHERE user_id = $1
		ORDER BY type, "order"
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("store: list categories: %w", err)
	}
	defer rows.Close()

	var cats []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &c.Color, &c.Order, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// Update renames or recolors a category.
func (r *CategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	query := `
		UPDATE categories
		SET name = $3, color = $4, "order" = $5
		WHERE id = $1 AND user_id = $2
	`
	tag, err := r.pool.Exec(ctx, query, c.ID, c.UserID, c.Name, c.Color, c.Order)
	if err != nil {
		return fmt.Errorf("store: update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a category. Transactions referencing it by name are left
// untouched; the ledger does not enforce referential integrity on names.
func (r *CategoryRepo) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("store: delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
