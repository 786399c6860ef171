package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/Hemanthlepcha/budget-tracker-app/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrInvalidAmount rejects candidates whose amount is not positive.
var ErrInvalidAmount = errors.New("pipeline: transaction amount must be positive")

// provenanceNote tags pipeline-created rows in their free-text notes.
const provenanceNote = "Auto-added via WhatsApp"

// LedgerWriter persists validated transactions with pipeline provenance.
type LedgerWriter struct {
	store TransactionStore
	log   zerolog.Logger
}

// NewLedgerWriter creates a writer over the given store.
func NewLedgerWriter(store TransactionStore, log zerolog.Logger) *LedgerWriter {
	return &LedgerWriter{store: store, log: log}
}

// Commit writes one ledger row and returns its id. Store failures propagate:
// silent loss of a financial write is unacceptable, and the caller owns
// telling the user.
func (w *LedgerWriter) Commit(ctx context.Context, userID string, cand domain.ExtractedTransaction) (string, error) {
	if !cand.Valid() {
		return "", ErrInvalidAmount
	}

	merchant := cand.Merchant
	if merchant == "" {
		merchant = "Unknown"
	}

	notes := provenanceNote
	if cand.Merchant != "" {
		notes = fmt.Sprintf("%s for: %s", provenanceNote, cand.Merchant)
	}

	tx := &domain.Transaction{
		ID:       uuid.NewString(),
		UserID:   userID,
		Amount:   cand.Amount,
		Category: cand.Category,
		Type:     cand.Type,
		Date:     cand.Date,
		Merchant: merchant,
		Notes:    notes,
		Source:   domain.SourceWhatsApp,
	}

	if err := w.store.Insert(ctx, tx); err != nil {
		return "", fmt.Errorf("pipeline: commit transaction: %w", err)
	}

	w.log.Info().Str("transaction_id", tx.ID).Str("user_id", userID).Float64("amount", tx.Amount).Msg("Transaction committed")
	return tx.ID, nil
}
