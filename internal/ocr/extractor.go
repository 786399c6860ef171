// Package ocr extracts structured transaction data from bank-transaction
// screenshots using the Gemini vision API.
package ocr

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/Hemanthlepcha/budget-tracker-app/internal/domain"
	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// DefaultModelName is the Gemini model used for screenshot extraction.
const DefaultModelName = "gemini-2.5-flash"

// extractionPrompt instructs the model to return a bare JSON object and
// nothing else. The parser still defends against prose around the object.
const extractionPrompt = `
Extract the transaction details from this image.
Return ONLY a JSON object with fields:
amount (number), merchant (string), category (string), date (YYYY-MM-DD), type ('expense' or 'income'), description (optional).
Do not add any extra text.
`

// Result is the outcome of one extraction attempt. Degraded is set when the
// engine failed or returned unusable output and Transaction holds the
// deterministic fallback; callers must treat a non-positive amount as
// "extraction failed" and never persist it.
type Result struct {
	Transaction domain.ExtractedTransaction
	Degraded    bool
	Err         error
}

// Extractor turns image bytes into a best-effort transaction guess.
// Implementations never return an error; failures surface as a degraded
// Result.
type Extractor interface {
	Extract(ctx context.Context, image []byte, mimeType string) Result
}

// GeminiExtractor is the production Extractor backed by the Gemini API.
type GeminiExtractor struct {
	apiKey string
	model  string
	log    zerolog.Logger
}

// NewGeminiExtractor creates an extractor using the given API key and the
// default model.
func NewGeminiExtractor(apiKey string, log zerolog.Logger) *GeminiExtractor {
	return &GeminiExtractor{apiKey: apiKey, model: DefaultModelName, log: log}
}

// Extract sends the screenshot to Gemini and parses the response. Engine and
// parse failures degrade to the fallback transaction instead of propagating.
func (e *GeminiExtractor) Extract(ctx context.Context, image []byte, mimeType string) Result {
	text, err := e.generate(ctx, image, mimeType)
	if err != nil {
		e.log.Error().Err(err).Msg("Gemini extraction failed")
		return degraded(err)
	}

	obj := safeParseJSON(text)
	if obj == nil {
		e.log.Warn().Str("raw", truncate(text, 300)).Msg("No JSON object in model output")
		return degraded(fmt.Errorf("ocr: no JSON object in model output"))
	}

	tx, ok := validateExtraction(obj, civil.DateOf(time.Now()))
	if !ok {
		return degraded(fmt.Errorf("ocr: model output failed validation"))
	}

	return Result{Transaction: tx}
}

func (e *GeminiExtractor) generate(ctx context.Context, image []byte, mimeType string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      e.apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("ocr: create genai client: %w", err)
	}

	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{
					InlineData: &genai.Blob{
						MIMEType: mimeType,
						Data:     image,
					},
				},
				{Text: extractionPrompt},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, e.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("ocr: generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("ocr: empty response from model")
	}
	return text, nil
}

func degraded(err error) Result {
	return Result{
		Transaction: FallbackTransaction(civil.DateOf(time.Now())),
		Degraded:    true,
		Err:         err,
	}
}

// FallbackTransaction is the deterministic result used when extraction fails.
// Its zero amount marks it invalid for the ledger.
func FallbackTransaction(today civil.Date) domain.ExtractedTransaction {
	return domain.ExtractedTransaction{
		Amount:      0,
		Merchant:    "Transaction (OCR Failed)",
		Category:    "Other",
		Date:        today,
		Type:        domain.TypeExpense,
		Description: "Transaction - OCR extraction failed",
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
