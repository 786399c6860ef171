package ocr

import (
	"strings"

	"github.com/Hemanthlepcha/budget-tracker-app/internal/domain"
)

type keywordMapping struct {
	keyword  string
	category string
}

// categoryMappings maps common merchant/purpose substrings to categories.
// Matching is case-insensitive first-match-wins, so more specific keywords
// come before generic ones within each group. Tuned for Bhutanese banking
// screenshots (local dishes, fund-transfer purposes).
var categoryMappings = []keywordMapping{
	// Food & dining
	{"jhol momo", "Food"},
	{"momo", "Food"},
	{"jhol", "Food"},
	{"restaurant", "Food"},
	{"cafe", "Food"},
	{"food", "Food"},
	{"dining", "Food"},
	{"grocery", "Food"},
	{"supermarket", "Food"},
	{"thukpa", "Food"},
	{"ema datshi", "Food"},
	{"chow mein", "Food"},
	{"snack", "Food"},
	{"meal", "Food"},

	// Transportation
	{"taxi", "Transportation"},
	{"bus", "Transportation"},
	{"fuel", "Transportation"},
	{"petrol", "Transportation"},
	{"parking", "Transportation"},
	{"transport", "Transportation"},
	{"vehicle", "Transportation"},

	// Shopping
	{"shopping", "Shopping"},
	{"store", "Shopping"},
	{"market", "Shopping"},
	{"clothes", "Shopping"},
	{"electronics", "Shopping"},
	{"purchase", "Shopping"},

	// Bills & utilities
	{"electricity", "Bills"},
	{"water", "Bills"},
	{"internet", "Bills"},
	{"phone", "Bills"},
	{"mobile", "Bills"},
	{"bill", "Bills"},
	{"utility", "Bills"},

	// Transfers & banking
	{"fund transfer", "Transfer"},
	{"send money", "Transfer"},
	{"transfer", "Transfer"},
	{"beneficiary", "Transfer"},
	{"payment", "Transfer"},

	// Healthcare
	{"hospital", "Healthcare"},
	{"pharmacy", "Healthcare"},
	{"doctor", "Healthcare"},
	{"medical", "Healthcare"},

	// Entertainment
	{"movie", "Entertainment"},
	{"cinema", "Entertainment"},
	{"game", "Entertainment"},

	// Education
	{"school", "Education"},
	{"college", "Education"},
	{"university", "Education"},
	{"book", "Education"},
	{"tuition", "Education"},
}

// ImproveCategory re-derives the category from the merchant text, falling
// back to the model's own guess and then to "Other".
func ImproveCategory(merchant, extracted string) string {
	if merchant == "" {
		if extracted != "" {
			return extracted
		}
		return "Other"
	}

	lower := strings.ToLower(merchant)

	for _, m := range categoryMappings {
		if strings.Contains(lower, m.keyword) {
			return m.category
		}
	}

	// Common banking purposes that don't fit the keyword table.
	if strings.Contains(lower, "salary") || strings.Contains(lower, "allowance") {
		return "Salary"
	}
	if strings.Contains(lower, "rent") {
		return "Housing"
	}
	if strings.Contains(lower, "loan") || strings.Contains(lower, "emi") {
		return "Loan"
	}

	if extracted != "" {
		return extracted
	}
	return "Other"
}

// DetermineType classifies a transaction as income or expense from its
// merchant text and resolved category.
func DetermineType(merchant, category string) domain.TransactionType {
	if merchant == "" {
		return domain.TypeExpense
	}

	lower := strings.ToLower(merchant)
	if strings.Contains(lower, "salary") ||
		strings.Contains(lower, "allowance") ||
		strings.Contains(lower, "deposit") ||
		strings.Contains(lower, "credit") ||
		category == "Salary" {
		return domain.TypeIncome
	}

	return domain.TypeExpense
}
