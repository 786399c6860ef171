package phone

import (
	"context"
	"errors"
	"strings"

	"github.com/Hemanthlepcha/budget-tracker-app/internal/domain"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned when no registered account matches the address.
var ErrNotFound = errors.New("phone: no account matches number")

// ProfileSource lists the WhatsApp-enabled profiles the resolver matches
// against. A minimal interface so tests can supply fakes.
type ProfileSource interface {
	ListWhatsAppEnabled(ctx context.Context) ([]domain.Account, error)
}

// Resolver maps inbound WhatsApp addresses to registered accounts.
type Resolver struct {
	profiles ProfileSource
	log      zerolog.Logger
}

// NewResolver creates a resolver backed by the given profile source.
func NewResolver(profiles ProfileSource, log zerolog.Logger) *Resolver {
	return &Resolver{profiles: profiles, log: log}
}

// Resolve finds the account registered under rawAddress. It tries every
// generated candidate format as an exact match first, then falls back to
// digits-only comparison against each stored number. Store errors are
// treated as no match; the resolver never blocks the pipeline on a read
// failure.
func (r *Resolver) Resolve(ctx context.Context, rawAddress string) (*domain.Account, error) {
	accounts, err := r.profiles.ListWhatsAppEnabled(ctx)
	if err != nil {
		r.log.Error().Err(err).Str("from", rawAddress).Msg("Failed to list enabled profiles")
		return nil, ErrNotFound
	}
	if len(accounts) == 0 {
		return nil, ErrNotFound
	}

	// Index stored numbers verbatim for the exact-match pass.
	byStored := make(map[string]*domain.Account, len(accounts))
	for i := range accounts {
		byStored[strings.TrimSpace(accounts[i].PhoneNumber)] = &accounts[i]
	}

	for _, candidate := range CandidateFormats(rawAddress) {
		if acct, ok := byStored[candidate]; ok {
			r.log.Debug().Str("format", candidate).Str("user_id", acct.UserID).Msg("Resolved by exact format match")
			return acct, nil
		}
	}

	// Fuzzy pass: compare digits-only forms.
	clean := Normalize(rawAddress)
	for i := range accounts {
		stored := Normalize(accounts[i].PhoneNumber)
		if stored == "" {
			continue
		}
		if stored == clean {
			return &accounts[i], nil
		}
		if !strings.Contains(clean, stored) && !strings.Contains(stored, clean) {
			continue
		}
		// Partial overlap: only trust the known full-number/subscriber-suffix
		// relation, anything looser matches unrelated accounts.
		if len(clean) == bhutanFullLen && len(stored) == bhutanLocalLen && strings.HasSuffix(clean, stored) {
			return &accounts[i], nil
		}
		if len(clean) == bhutanLocalLen && len(stored) == bhutanFullLen && strings.HasSuffix(stored, clean) {
			return &accounts[i], nil
		}
	}

	return nil, ErrNotFound
}
