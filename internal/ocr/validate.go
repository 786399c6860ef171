package ocr

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/Hemanthlepcha/budget-tracker-app/internal/domain"
)

const defaultMerchant = "Bank Transfer"

// validateExtraction turns raw model output into a trusted transaction.
// The model's category and type are advisory only: both are re-derived from
// the merchant text so a hallucinated classification can't leak through.
// Returns ok=false when the amount is not positive.
func validateExtraction(raw *modelOutput, today civil.Date) (domain.ExtractedTransaction, bool) {
	amount := coerceAmount(raw.Amount)
	if amount <= 0 {
		return domain.ExtractedTransaction{}, false
	}

	merchant := strings.TrimSpace(raw.Merchant)
	if merchant == "" {
		merchant = defaultMerchant
	}

	category := ImproveCategory(merchant, strings.TrimSpace(raw.Category))
	txType := DetermineType(merchant, category)
	date := ParseDate(raw.Date, today)

	description := strings.TrimSpace(raw.Description)
	if description == "" {
		description = fmt.Sprintf("Fund transfer - %s", merchant)
	}

	return domain.ExtractedTransaction{
		Amount:      amount,
		Merchant:    merchant,
		Category:    category,
		Date:        date,
		Type:        txType,
		Description: description,
	}, true
}
