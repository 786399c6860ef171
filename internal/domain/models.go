package domain

import (
	"time"

	"cloud.google.com/go/civil"
)

// TransactionType distinguishes money in from money out.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Source records how a transaction entered the ledger.
type Source string

const (
	SourceManual   Source = "manual"
	SourceWhatsApp Source = "whatsapp"
)

// Account is a registered user profile as stored in user_profiles.
// PhoneNumber is free-form, exactly as the user typed it at registration;
// the phone resolver owns all normalization.
type Account struct {
	UserID          string
	PhoneNumber     string
	WhatsAppEnabled bool
}

// Category belongs to exactly one account. Order gives stable list
// positioning within an (account, type) group.
type Category struct {
	ID        string
	UserID    string
	Name      string
	Type      TransactionType
	Color     string
	Order     int
	CreatedAt time.Time
}

// Transaction is one persisted ledger row. Category is a plain name, not a
// foreign key; categories may be renamed or deleted independently.
type Transaction struct {
	ID        string
	UserID    string
	Amount    float64
	Category  string
	Type      TransactionType
	Date      civil.Date
	Merchant  string
	Notes     string
	Source    Source
	CreatedAt time.Time
}

// SavingsGoal is the per-account savings target shown on the dashboard.
type SavingsGoal struct {
	ID            string
	UserID        string
	Name          string
	TargetAmount  float64
	CurrentAmount float64
	Deadline      civil.Date
	UpdatedAt     time.Time
}

// ExtractedTransaction is the transient best-effort guess produced by the
// recognition adapter. It is never persisted as-is; an amount <= 0 means
// extraction failed and the value must not reach the ledger.
type ExtractedTransaction struct {
	Amount      float64
	Merchant    string
	Category    string
	Date        civil.Date
	Type        TransactionType
	Description string
}

// Valid reports whether the extraction produced something worth persisting.
func (e ExtractedTransaction) Valid() bool {
	return e.Amount > 0
}
