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

// TransactionRepo reads and writes transactions rows.
type TransactionRepo struct {
	pool *pgxpool.Pool
}

func NewTransactionRepo(pool *pgxpool.Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

const transactionColumns = `id, user_id, amount, category, type, date, merchant, notes, source, created_at`

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	var date time.Time
	err := row.Scan(&t.ID, &t.UserID, &t.Amount, &t.Category, &t.Type, &date,
		&t.Merchant, &t.Notes, &t.Source, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.Date = civil.DateOf(date)
	return &t, nil
}

// Insert persists one ledger row.
func (r *TransactionRepo) Insert(ctx context.Context, t *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, amount, category, type, date, merchant, notes, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		t.ID, t.UserID, t.Amount, t.Category, t.Type, t.Date.In(time.UTC),
		t.Merchant, t.Notes, t.Source)
	if err != nil {
		return fmt.Errorf("store: insert transaction: %w", err)
	}
	return nil
}

// RecentMatching returns the user's transactions with exactly this amount and
// date, created after the given cutoff, newest first, capped at limit. The
// duplicate detector runs its merchant heuristics over this set.
func (r *TransactionRepo) RecentMatching(ctx context.Context, userID string, amount float64, date civil.Date, createdAfter time.Time, limit int) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND amount = $2 AND date = $3 AND created_at >= $4
		ORDER BY created_at DESC
		LIMIT $5
	`
	rows, err := r.pool.Query(ctx, query, userID, amount, date.In(time.UTC), createdAfter, limit)
	if err != nil {
		return nil, fmt.Errorf("store: recent matching transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// List returns the user's transactions, newest first.
func (r *TransactionRepo) List(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY date DESC, created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// Get returns one transaction by id.
func (r *TransactionRepo) Get(ctx context.Context, userID, id string) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE id = $1 AND user_id = $2
	`
	t, err := scanTransaction(r.pool.QueryRow(ctx, query, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get transaction: %w", err)
	}
	return t, nil
}

// Update rewrites the editable fields of a transaction.
func (r *TransactionRepo) Update(ctx context.Context, t *domain.Transaction) error {
	query := `
		UPDATE transactions
		SET amount = $3, category = $4, type = $5, date = $6, merchant = $7, notes = $8
		WHERE id = $1 AND user_id = $2
	`
	tag, err := r.pool.Exec(ctx, query,
		t.ID, t.UserID, t.Amount, t.Category, t.Type, t.Date.In(time.UTC), t.Merchant, t.Notes)
	if err != nil {
		return fmt.Errorf("store: update transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a transaction.
func (r *TransactionRepo) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("store: delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Summary aggregates income and expense totals within a date range.
func (r *TransactionRepo) Summary(ctx context.Context, userID string, from, to civil.Date) (income, expense float64, err error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)
		FROM transactions
		WHERE user_id = $1 AND date >= $2 AND date <= $3
	`
	err = r.pool.QueryRow(ctx, query, userID, from.In(time.UTC), to.In(time.UTC)).Scan(&income, &expense)
	if err != nil {
		return 0, 0, fmt.Errorf("store: summary: %w", err)
	}
	return income, expense, nil
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan transaction: %w", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}
