package phone

import (
	"context"
	"errors"
	"testing"

	"github.com/Hemanthlepcha/budget-tracker-app/internal/domain"
	"github.com/rs/zerolog"
)

type fakeProfiles struct {
	accounts []domain.Account
	err      error
}

func (f *fakeProfiles) ListWhatsAppEnabled(ctx context.Context) ([]domain.Account, error) {
	return f.accounts, f.err
}

func newTestResolver(f *fakeProfiles) *Resolver {
	return NewResolver(f, zerolog.Nop())
}

func TestResolve_ExactMatch(t *testing.T) {
	r := newTestResolver(&fakeProfiles{accounts: []domain.Account{
		{UserID: "u1", PhoneNumber: "+97517773326", WhatsAppEnabled: true},
	}})

	acct, err := r.Resolve(context.Background(), "97517773326")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if acct.UserID != "u1" {
		t.Errorf("UserID = %q, want u1", acct.UserID)
	}
}

func TestResolve_FullInboundLocalStored(t *testing.T) {
	// WhatsApp sends the full number, user registered the local form.
	r := newTestResolver(&fakeProfiles{accounts: []domain.Account{
		{UserID: "u1", PhoneNumber: "17773326", WhatsAppEnabled: true},
	}})

	acct, err := r.Resolve(context.Background(), "97517773326")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if acct.UserID != "u1" {
		t.Errorf("UserID = %q, want u1", acct.UserID)
	}
}

func TestResolve_LocalInboundFullStored(t *testing.T) {
	r := newTestResolver(&fakeProfiles{accounts: []domain.Account{
		{UserID: "u1", PhoneNumber: "+975 1777 3326", WhatsAppEnabled: true},
	}})

	acct, err := r.Resolve(context.Background(), "17773326")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if acct.UserID != "u1" {
		t.Errorf("UserID = %q, want u1", acct.UserID)
	}
}

func TestResolve_DigitsOnlyEquality(t *testing.T) {
	// Stored with spacing and punctuation that exact formats never generate.
	r := newTestResolver(&fakeProfiles{accounts: []domain.Account{
		{UserID: "u1", PhoneNumber: "975-17-77-33-26", WhatsAppEnabled: true},
	}})

	acct, err := r.Resolve(context.Background(), "97517773326")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if acct.UserID != "u1" {
		t.Errorf("UserID = %q, want u1", acct.UserID)
	}
}

func TestResolve_FirstMatchWins(t *testing.T) {
	r := newTestResolver(&fakeProfiles{accounts: []domain.Account{
		{UserID: "first", PhoneNumber: "97517773326", WhatsAppEnabled: true},
		{UserID: "second", PhoneNumber: "17773326", WhatsAppEnabled: true},
	}})

	acct, err := r.Resolve(context.Background(), "97517773326")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if acct.UserID != "first" {
		t.Errorf("UserID = %q, want first", acct.UserID)
	}
}

func TestResolve_NotFound(t *testing.T) {
	r := newTestResolver(&fakeProfiles{accounts: []domain.Account{
		{UserID: "u1", PhoneNumber: "17112233", WhatsAppEnabled: true},
	}})

	if _, err := r.Resolve(context.Background(), "97517773326"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestResolve_StoreErrorIsNotFound(t *testing.T) {
	r := newTestResolver(&fakeProfiles{err: errors.New("connection refused")})

	if _, err := r.Resolve(context.Background(), "97517773326"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestResolve_EmptyStoreIsNotFound(t *testing.T) {
	r := newTestResolver(&fakeProfiles{})

	if _, err := r.Resolve(context.Background(), "97517773326"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestResolve_LooseContainmentRejected(t *testing.T) {
	// A 9-digit stored number contained in the inbound number must not match;
	// only the full-form/subscriber-suffix relation is trusted.
	r := newTestResolver(&fakeProfiles{accounts: []domain.Account{
		{UserID: "u1", PhoneNumber: "751777332", WhatsAppEnabled: true},
	}})

	if _, err := r.Resolve(context.Background(), "97517773326"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
