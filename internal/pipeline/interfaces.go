package pipeline

import (
	"context"
	"time"

	"cloud.google.com/go/civil"

	"github.com/Hemanthlepcha/budget-tracker-app/internal/domain"
)

// TransactionStore is the slice of the persistence layer the pipeline writes
// through. A minimal interface so tests can supply fakes.
type TransactionStore interface {
	Insert(ctx context.Context, t *domain.Transaction) error
	RecentMatching(ctx context.Context, userID string, amount float64, date civil.Date, createdAfter time.Time, limit int) ([]domain.Transaction, error)
}

// CategoryStore is the slice of the persistence layer the category resolver
// uses.
type CategoryStore interface {
	Find(ctx context.Context, userID, name string, t domain.TransactionType) (*domain.Category, error)
	MaxOrder(ctx context.Context, userID string, t domain.TransactionType) (int, error)
	Create(ctx context.Context, c *domain.Category) error
}
