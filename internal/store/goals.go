package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Hemanthlepcha/budget-tracker-app/internal/domain"
)

// GoalRepo reads and writes savings_goals rows. Each account has at most one
// active goal.
type GoalRepo struct {
	pool *pgxpool.Pool
}

func NewGoalRepo(pool *pgxpool.Pool) *GoalRepo {
	return &GoalRepo{pool: pool}
}

// Get returns the account's savings goal.
func (r *GoalRepo) Get(ctx context.Context, userID string) (*domain.SavingsGoal, error) {
	query := `
		SELECT id, user_id, name, target_amount, current_amount, deadline, updated_at
		FROM savings_goals
		WHERE user_id = $1
	`
	var g domain.SavingsGoal
	var deadline *time.Time
	err := r.pool.QueryRow(ctx, query, userID).
		Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &deadline, &g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get savings goal: %w", err)
	}
	if deadline != nil {
		g.Deadline = civil.DateOf(*deadline)
	}
	return &g, nil
}

// Upsert creates or replaces the account's savings goal.
func (r *GoalRepo) Upsert(ctx context.Context, g *domain.SavingsGoal) error {
	query := `
		INSERT INTO savings_goals (id, user_id, name, target_amount, current_amount, deadline)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET name = EXCLUDED.name,
		    target_amount = EXCLUDED.target_amount,
		    current_amount = EXCLUDED.current_amount,
		    deadline = EXCLUDED.deadline,
		    updated_at = now()
	`
	var deadline *time.Time
	if g.Deadline.IsValid() {
		d := g.Deadline.In(time.UTC)
		deadline = &d
	}
	if _, err := r.pool.Exec(ctx, query, g.ID, g.UserID, g.Name, g.TargetAmount, g.CurrentAmount, deadline); err != nil {
		return fmt.Errorf("store: upsert savings goal: %w", err)
	}
	return nil
}
