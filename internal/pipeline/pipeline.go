// Package pipeline commits extracted transactions to the ledger: duplicate
// detection, lazy category creation, and the provenance-tagged write.
package pipeline

import (
	"context"

	"github.com/Hemanthlepcha/budget-tracker-app/internal/domain"
	"github.com/rs/zerolog"
)

// Outcome is the terminal state of one candidate transaction.
type Outcome int

const (
	// OutcomeSaved: the transaction was committed to the ledger.
	OutcomeSaved Outcome = iota
	// OutcomeInvalid: extraction produced no usable amount; nothing written.
	OutcomeInvalid
	// OutcomeDuplicate: an equivalent recent row exists; nothing written.
	OutcomeDuplicate
	// OutcomeFailed: the ledger write itself failed.
	OutcomeFailed
)

// Processor runs a candidate transaction through duplicate detection,
// category resolution, and the ledger write, in that order. Any failing
// stage short-circuits; no later stage executes.
type Processor struct {
	dup    *DuplicateDetector
	cats   *CategoryResolver
	ledger *LedgerWriter
	log    zerolog.Logger
}

// NewProcessor wires the pipeline stages over the given stores.
func NewProcessor(txs TransactionStore, cats CategoryStore, log zerolog.Logger) *Processor {
	return &Processor{
		dup:    NewDuplicateDetector(txs, log),
		cats:   NewCategoryResolver(cats, log),
		ledger: NewLedgerWriter(txs, log),
		log:    log,
	}
}

// Process commits one extracted transaction for the account. The returned
// error is non-nil only for OutcomeFailed.
func (p *Processor) Process(ctx context.Context, userID string, cand domain.ExtractedTransaction) (Outcome, error) {
	if !cand.Valid() {
		return OutcomeInvalid, nil
	}

	if p.dup.IsDuplicate(ctx, userID, cand) {
		return OutcomeDuplicate, nil
	}

	// Category creation is best-effort; the ledger stores the name either way.
	p.cats.Ensure(ctx, userID, cand.Category, cand.Type)

	if _, err := p.ledger.Commit(ctx, userID, cand); err != nil {
		return OutcomeFailed, err
	}

	return OutcomeSaved, nil
}
