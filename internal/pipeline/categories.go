package pipeline

import (
	"context"
	"errors"

	"github.com/Hemanthlepcha/budget-tracker-app/internal/domain"
	"github.com/Hemanthlepcha/budget-tracker-app/internal/store"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Fixed display colors for lazily created categories.
const (
	incomeColor  = "#10b981"
	expenseColor = "#ef4444"
)

// CategoryResolver ensures a named category exists for an (account, type)
// pair, creating it at the next order position when absent.
type CategoryResolver struct {
	store CategoryStore
	log   zerolog.Logger
}

// NewCategoryResolver creates a resolver over the given store.
func NewCategoryResolver(store CategoryStore, log zerolog.Logger) *CategoryResolver {
	return &CategoryResolver{store: store, log: log}
}

// Ensure returns the existing category or creates one appended after the
// account's current categories of that type. Creation failures are logged
// and swallowed: the ledger references categories by name only, so the
// transaction write proceeds either way. Returns nil when nothing could be
// found or created.
func (r *CategoryResolver) Ensure(ctx context.Context, userID, name string, t domain.TransactionType) *domain.Category {
	existing, err := r.store.Find(ctx, userID, name, t)
	if err == nil {
		return existing
	}
	if !errors.Is(err, store.ErrNotFound) {
		r.log.Error().Err(err).Str("category", name).Msg("Category lookup failed")
	}

	maxOrder, err := r.store.MaxOrder(ctx, userID, t)
	if err != nil {
		r.log.Error().Err(err).Str("category", name).Msg("Category order lookup failed")
		maxOrder = 0
	}

	cat := &domain.Category{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   name,
		Type:   t,
		Color:  colorFor(t),
		Order:  maxOrder + 1,
	}
	if err := r.store.Create(ctx, cat); err != nil {
		r.log.Error().Err(err).Str("category", name).Msg("Category creation failed")
		return nil
	}

	r.log.Info().Str("category", name).Int("order", cat.Order).Msg("Category created")
	return cat
}

func colorFor(t domain.TransactionType) string {
	if t == domain.TypeIncome {
		return incomeColor
	}
	return expenseColor
}
