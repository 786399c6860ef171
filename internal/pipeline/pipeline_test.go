package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	"github.com/Hemanthlepcha/budget-tracker-app/internal/domain"
	"github.com/Hemanthlepcha/budget-tracker-app/internal/store"
)

type fakeTransactionStore struct {
	inserted []domain.Transaction
	recent   []domain.Transaction

	insertErr error
	recentErr error
}

func (f *fakeTransactionStore) Insert(ctx context.Context, t *domain.Transaction) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, *t)
	return nil
}

func (f *fakeTransactionStore) RecentMatching(ctx context.Context, userID string, amount float64, date civil.Date, createdAfter time.Time, limit int) ([]domain.Transaction, error) {
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	return f.recent, nil
}

type fakeCategoryStore struct {
	existing  *domain.Category
	maxOrder  int
	created   []domain.Category
	findErr   error
	createErr error
}

func (f *fakeCategoryStore) Find(ctx context.Context, userID, name string, t domain.TransactionType) (*domain.Category, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.existing != nil && f.existing.Name == name && f.existing.Type == t {
		return f.existing, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeCategoryStore) MaxOrder(ctx context.Context, userID string, t domain.TransactionType) (int, error) {
	return f.maxOrder, nil
}

func (f *fakeCategoryStore) Create(ctx context.Context, c *domain.Category) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, *c)
	f.existing = c
	return nil
}

func validCandidate() domain.ExtractedTransaction {
	return domain.ExtractedTransaction{
		Amount:   250,
		Merchant: "Jhol Momo Restaurant",
		Category: "Food",
		Date:     civil.Date{Year: 2025, Month: 8, Day: 18},
		Type:     domain.TypeExpense,
	}
}

func TestDuplicateDetector_MerchantOverlap(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		cand     string
		want     bool
	}{
		{"exact", "Jhol Momo Restaurant", "Jhol Momo Restaurant", true},
		{"existing contains candidate", "Jhol Momo Restaurant", "jhol momo", true},
		{"candidate contains existing", "momo", "Jhol Momo Restaurant", true},
		{"case-insensitive", "JHOL MOMO", "jhol momo restaurant", true},
		{"disjoint", "Druk Cafe", "City Taxi", false},
		{"empty existing", "", "Jhol Momo", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs := &fakeTransactionStore{recent: []domain.Transaction{
				{ID: "t1", Merchant: tt.existing, Source: domain.SourceManual},
			}}
			d := NewDuplicateDetector(txs, zerolog.Nop())

			cand := validCandidate()
			cand.Merchant = tt.cand
			if got := d.IsDuplicate(context.Background(), "u1", cand); got != tt.want {
				t.Errorf("IsDuplicate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDuplicateDetector_PipelineProvenanceAlwaysMatches(t *testing.T) {
	// A same-amount/same-date whatsapp-created row is suspect even when the
	// merchant text shares nothing with the candidate.
	txs := &fakeTransactionStore{recent: []domain.Transaction{
		{ID: "t1", Merchant: "Completely Different", Source: domain.SourceWhatsApp},
	}}
	d := NewDuplicateDetector(txs, zerolog.Nop())

	if !d.IsDuplicate(context.Background(), "u1", validCandidate()) {
		t.Error("expected duplicate for pipeline-created row")
	}
}

func TestDuplicateDetector_ProvenanceNotes(t *testing.T) {
	txs := &fakeTransactionStore{recent: []domain.Transaction{
		{ID: "t1", Merchant: "Different", Notes: "Auto-added via WhatsApp for: X", Source: domain.SourceManual},
	}}
	d := NewDuplicateDetector(txs, zerolog.Nop())

	if !d.IsDuplicate(context.Background(), "u1", validCandidate()) {
		t.Error("expected duplicate for provenance-tagged notes")
	}
}

func TestDuplicateDetector_ManualUnrelatedRowAllowed(t *testing.T) {
	txs := &fakeTransactionStore{recent: []domain.Transaction{
		{ID: "t1", Merchant: "Druk Hardware", Source: domain.SourceManual},
	}}
	d := NewDuplicateDetector(txs, zerolog.Nop())

	if d.IsDuplicate(context.Background(), "u1", validCandidate()) {
		t.Error("unrelated manual row must not flag duplicate")
	}
}

func TestDuplicateDetector_FailsOpen(t *testing.T) {
	txs := &fakeTransactionStore{recentErr: errors.New("connection reset")}
	d := NewDuplicateDetector(txs, zerolog.Nop())

	if d.IsDuplicate(context.Background(), "u1", validCandidate()) {
		t.Error("query error must not block the transaction")
	}
}

func TestCategoryResolver_ReturnsExisting(t *testing.T) {
	existing := &domain.Category{ID: "c1", Name: "Food", Type: domain.TypeExpense, Order: 3}
	cats := &fakeCategoryStore{existing: existing}
	r := NewCategoryResolver(cats, zerolog.Nop())

	got := r.Ensure(context.Background(), "u1", "Food", domain.TypeExpense)
	if got == nil || got.ID != "c1" {
		t.Fatalf("Ensure = %+v, want existing c1", got)
	}
	if len(cats.created) != 0 {
		t.Errorf("created %d categories, want 0", len(cats.created))
	}
}

func TestCategoryResolver_CreatesAtNextOrder(t *testing.T) {
	cats := &fakeCategoryStore{maxOrder: 4}
	r := NewCategoryResolver(cats, zerolog.Nop())

	got := r.Ensure(context.Background(), "u1", "Food", domain.TypeExpense)
	if got == nil {
		t.Fatal("Ensure returned nil")
	}
	if got.Order != 5 {
		t.Errorf("Order = %d, want 5", got.Order)
	}
	if got.Color != expenseColor {
		t.Errorf("Color = %q, want %q", got.Color, expenseColor)
	}
	if got.ID == "" {
		t.Error("expected generated id")
	}
}

func TestCategoryResolver_IncomeColor(t *testing.T) {
	cats := &fakeCategoryStore{}
	r := NewCategoryResolver(cats, zerolog.Nop())

	got := r.Ensure(context.Background(), "u1", "Salary", domain.TypeIncome)
	if got == nil {
		t.Fatal("Ensure returned nil")
	}
	if got.Color != incomeColor {
		t.Errorf("Color = %q, want %q", got.Color, incomeColor)
	}
}

func TestCategoryResolver_Idempotent(t *testing.T) {
	cats := &fakeCategoryStore{}
	r := NewCategoryResolver(cats, zerolog.Nop())

	first := r.Ensure(context.Background(), "u1", "Food", domain.TypeExpense)
	second := r.Ensure(context.Background(), "u1", "Food", domain.TypeExpense)

	if first == nil || second == nil {
		t.Fatal("Ensure returned nil")
	}
	if len(cats.created) != 1 {
		t.Fatalf("created %d categories, want 1", len(cats.created))
	}
	if second.ID != first.ID || second.Order != first.Order {
		t.Errorf("second call changed category: %+v vs %+v", second, first)
	}
}

func TestCategoryResolver_CreateFailureSwallowed(t *testing.T) {
	cats := &fakeCategoryStore{createErr: errors.New("insert failed")}
	r := NewCategoryResolver(cats, zerolog.Nop())

	if got := r.Ensure(context.Background(), "u1", "Food", domain.TypeExpense); got != nil {
		t.Errorf("Ensure = %+v, want nil on create failure", got)
	}
}

func TestLedgerWriter_RejectsNonPositiveAmount(t *testing.T) {
	txs := &fakeTransactionStore{}
	w := NewLedgerWriter(txs, zerolog.Nop())

	cand := validCandidate()
	cand.Amount = 0
	if _, err := w.Commit(context.Background(), "u1", cand); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("err = %v, want ErrInvalidAmount", err)
	}
	if len(txs.inserted) != 0 {
		t.Error("nothing must be written for an invalid amount")
	}
}

func TestLedgerWriter_WritesProvenance(t *testing.T) {
	txs := &fakeTransactionStore{}
	w := NewLedgerWriter(txs, zerolog.Nop())

	id, err := w.Commit(context.Background(), "u1", validCandidate())
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if id == "" {
		t.Error("expected transaction id")
	}
	if len(txs.inserted) != 1 {
		t.Fatalf("inserted %d rows, want 1", len(txs.inserted))
	}

	row := txs.inserted[0]
	if row.Source != domain.SourceWhatsApp {
		t.Errorf("Source = %q, want whatsapp", row.Source)
	}
	if row.Notes != "Auto-added via WhatsApp for: Jhol Momo Restaurant" {
		t.Errorf("Notes = %q", row.Notes)
	}
}

func TestLedgerWriter_StoreErrorPropagates(t *testing.T) {
	txs := &fakeTransactionStore{insertErr: errors.New("disk full")}
	w := NewLedgerWriter(txs, zerolog.Nop())

	if _, err := w.Commit(context.Background(), "u1", validCandidate()); err == nil {
		t.Error("expected write error to propagate")
	}
}

func TestProcessor_Saved(t *testing.T) {
	txs := &fakeTransactionStore{}
	p := NewProcessor(txs, &fakeCategoryStore{}, zerolog.Nop())

	outcome, err := p.Process(context.Background(), "u1", validCandidate())
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if outcome != OutcomeSaved {
		t.Errorf("outcome = %v, want OutcomeSaved", outcome)
	}
	if len(txs.inserted) != 1 {
		t.Errorf("inserted %d rows, want 1", len(txs.inserted))
	}
}

func TestProcessor_InvalidNeverReachesLedger(t *testing.T) {
	txs := &fakeTransactionStore{}
	p := NewProcessor(txs, &fakeCategoryStore{}, zerolog.Nop())

	cand := validCandidate()
	cand.Amount = 0
	outcome, err := p.Process(context.Background(), "u1", cand)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if outcome != OutcomeInvalid {
		t.Errorf("outcome = %v, want OutcomeInvalid", outcome)
	}
	if len(txs.inserted) != 0 {
		t.Error("invalid candidate must not be written")
	}
}

func TestProcessor_Duplicate(t *testing.T) {
	txs := &fakeTransactionStore{recent: []domain.Transaction{
		{ID: "t1", Merchant: "Jhol Momo Restaurant", Source: domain.SourceWhatsApp},
	}}
	p := NewProcessor(txs, &fakeCategoryStore{}, zerolog.Nop())

	outcome, err := p.Process(context.Background(), "u1", validCandidate())
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if outcome != OutcomeDuplicate {
		t.Errorf("outcome = %v, want OutcomeDuplicate", outcome)
	}
	if len(txs.inserted) != 0 {
		t.Error("duplicate must not be written")
	}
}

func TestProcessor_WriteFailure(t *testing.T) {
	txs := &fakeTransactionStore{insertErr: errors.New("insert failed")}
	p := NewProcessor(txs, &fakeCategoryStore{}, zerolog.Nop())

	outcome, err := p.Process(context.Background(), "u1", validCandidate())
	if err == nil {
		t.Error("expected error for failed write")
	}
	if outcome != OutcomeFailed {
		t.Errorf("outcome = %v, want OutcomeFailed", outcome)
	}
}
