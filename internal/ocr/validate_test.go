package ocr

import (
	"encoding/json"
	"testing"

	"cloud.google.com/go/civil"

	"github.com/Hemanthlepcha/budget-tracker-app/internal/domain"
)

var testToday = civil.Date{Year: 2025, Month: 8, Day: 20}

func TestValidateExtraction_Valid(t *testing.T) {
	tx, ok := validateExtraction(&modelOutput{
		Amount:   json.RawMessage(`150`),
		Merchant: "Jhol Momo Restaurant",
		Category: "Other",
		Date:     "18 Aug 2025",
		Type:     "income", // model's guess is overridden by re-derivation
	}, testToday)

	if !ok {
		t.Fatal("expected valid extraction")
	}
	if tx.Amount != 150 {
		t.Errorf("Amount = %v, want 150", tx.Amount)
	}
	if tx.Category != "Food" {
		t.Errorf("Category = %q, want Food", tx.Category)
	}
	if tx.Type != domain.TypeExpense {
		t.Errorf("Type = %q, want expense", tx.Type)
	}
	if tx.Date.String() != "2025-08-18" {
		t.Errorf("Date = %q, want 2025-08-18", tx.Date)
	}
}

func TestValidateExtraction_RejectsNonPositiveAmount(t *testing.T) {
	for _, raw := range []string{`0`, `-5`, `"garbage"`, `null`} {
		_, ok := validateExtraction(&modelOutput{Amount: json.RawMessage(raw)}, testToday)
		if ok {
			t.Errorf("amount %s accepted, want rejection", raw)
		}
	}
}

func TestValidateExtraction_Defaults(t *testing.T) {
	tx, ok := validateExtraction(&modelOutput{
		Amount: json.RawMessage(`99.5`),
	}, testToday)

	if !ok {
		t.Fatal("expected valid extraction")
	}
	if tx.Merchant != "Bank Transfer" {
		t.Errorf("Merchant = %q, want Bank Transfer", tx.Merchant)
	}
	if tx.Category != "Transfer" {
		t.Errorf("Category = %q, want Transfer", tx.Category)
	}
	if tx.Date != testToday {
		t.Errorf("Date = %v, want today", tx.Date)
	}
	if tx.Description != "Fund transfer - Bank Transfer" {
		t.Errorf("Description = %q", tx.Description)
	}
}

func TestValidateExtraction_SalaryIsIncome(t *testing.T) {
	tx, ok := validateExtraction(&modelOutput{
		Amount:   json.RawMessage(`30000`),
		Merchant: "August Salary",
	}, testToday)

	if !ok {
		t.Fatal("expected valid extraction")
	}
	if tx.Type != domain.TypeIncome {
		t.Errorf("Type = %q, want income", tx.Type)
	}
	if tx.Category != "Salary" {
		t.Errorf("Category = %q, want Salary", tx.Category)
	}
}

func TestFallbackTransaction(t *testing.T) {
	fb := FallbackTransaction(testToday)

	if fb.Valid() {
		t.Error("fallback transaction must not be valid for the ledger")
	}
	if fb.Category != "Other" || fb.Type != domain.TypeExpense {
		t.Errorf("fallback = %+v", fb)
	}
	if fb.Date != testToday {
		t.Errorf("Date = %v, want today", fb.Date)
	}
}
