package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/Hemanthlepcha/budget-tracker-app/internal/domain"
	"github.com/rs/zerolog"
)

const (
	// duplicateWindow is how far back same-amount/same-date rows are checked.
	duplicateWindow = 24 * time.Hour
	// duplicateScanLimit caps how many candidate rows one check inspects.
	duplicateScanLimit = 10
)

// DuplicateDetector decides whether an equivalent transaction already exists
// in the account's recent history.
type DuplicateDetector struct {
	store TransactionStore
	log   zerolog.Logger
	now   func() time.Time
}

// NewDuplicateDetector creates a detector over the given store.
func NewDuplicateDetector(store TransactionStore, log zerolog.Logger) *DuplicateDetector {
	return &DuplicateDetector{store: store, log: log, now: time.Now}
}

// IsDuplicate reports whether the candidate matches an existing row: same
// amount and date within the trailing window, and either overlapping merchant
// text or a row the pipeline itself created. Any same-amount/same-date
// pipeline-created row counts regardless of merchant, favoring false
// positives over duplicate ledger entries. Fails open: a query error never
// blocks a legitimate transaction.
func (d *DuplicateDetector) IsDuplicate(ctx context.Context, userID string, cand domain.ExtractedTransaction) bool {
	cutoff := d.now().Add(-duplicateWindow)

	existing, err := d.store.RecentMatching(ctx, userID, cand.Amount, cand.Date, cutoff, duplicateScanLimit)
	if err != nil {
		d.log.Error().Err(err).Str("user_id", userID).Msg("Duplicate check failed, allowing transaction")
		return false
	}

	for i := range existing {
		row := &existing[i]
		if merchantsOverlap(row.Merchant, cand.Merchant) {
			d.log.Info().Str("existing_id", row.ID).Str("merchant", row.Merchant).Msg("Duplicate by merchant overlap")
			return true
		}
		if row.Source == domain.SourceWhatsApp || strings.Contains(row.Notes, provenanceNote) {
			d.log.Info().Str("existing_id", row.ID).Msg("Duplicate by pipeline provenance")
			return true
		}
	}

	return false
}

// merchantsOverlap reports whether two non-empty merchant strings contain
// each other case-insensitively in either direction.
func merchantsOverlap(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
