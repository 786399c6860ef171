package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Hemanthlepcha/budget-tracker-app/internal/domain"
)

// ProfileRepo reads and writes user_profiles rows.
type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

// ListWhatsAppEnabled returns every profile with messaging enabled. The phone
// resolver matches inbound addresses against this set.
func (r *ProfileRepo) ListWhatsAppEnabled(ctx context.Context) ([]domain.Account, error) {
	query := `
		SELECT user_id, phone_number, whatsapp_enabled
		FROM user_profiles
		WHERE whatsapp_enabled = TRUE
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: list enabled profiles: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.UserID, &a.PhoneNumber, &a.WhatsAppEnabled); err != nil {
			return nil, fmt.Errorf("store: scan profile: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// Get returns one profile by user id.
func (r *ProfileRepo) Get(ctx context.Context, userID string) (*domain.Account, error) {
	query := `
		SELECT user_id, phone_number, whatsapp_enabled
		FROM user_profiles
		WHERE user_id = $1
	`
	var a domain.Account
	err := r.pool.QueryRow(ctx, query, userID).Scan(&a.UserID, &a.PhoneNumber, &a.WhatsAppEnabled)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get profile: %w", err)
	}
	return &a, nil
}

// Upsert creates or updates a profile's phone registration.
func (r *ProfileRepo) Upsert(ctx context.Context, a *domain.Account) error {
	query := `
		INSERT INTO user_profiles (user_id, phone_number, whatsapp_enabled)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET phone_number = EXCLUDED.phone_number,
		    whatsapp_enabled = EXCLUDED.whatsapp_enabled,
		    updated_at = now()
	`
	if _, err := r.pool.Exec(ctx, query, a.UserID, a.PhoneNumber, a.WhatsAppEnabled); err != nil {
		return fmt.Errorf("store: upsert profile: %w", err)
	}
	return nil
}
