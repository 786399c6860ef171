package ocr

import (
	"encoding/json"
	"strconv"
	"strings"
)

// modelOutput mirrors the JSON object the model is instructed to return.
// Amount stays raw because the model sometimes quotes it.
type modelOutput struct {
	Amount      json.RawMessage `json:"amount"`
	Merchant    string          `json:"merchant"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
}

// safeParseJSON parses the model's raw text output. It tries a strict parse
// first; when the model wrapped the object in prose or code fences, it
// retries on the first brace-delimited block. Returns nil if no object can
// be recovered.
func safeParseJSON(text string) *modelOutput {
	s := strings.TrimSpace(text)

	var out modelOutput
	if err := json.Unmarshal([]byte(s), &out); err == nil {
		return &out
	}

	block := firstJSONObject(s)
	if block == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(block), &out); err != nil {
		return nil
	}
	return &out
}

// firstJSONObject returns the substring from the first '{' to the last '}',
// or "" when no such block exists.
func firstJSONObject(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}
	end := strings.LastIndex(s, "}")
	if end <= start {
		return ""
	}
	return s[start : end+1]
}

// coerceAmount accepts both numeric and string-quoted amounts.
func coerceAmount(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return 0
}
