package ocr

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// dateLayouts are the formats seen on bank screenshots, most common first.
// "2 Jan 2006" covers the "18 Aug 2025" style used by Bhutanese banks.
var dateLayouts = []string{
	"2006-01-02",
	"2 Jan 2006",
	"2 January 2006",
	"02/01/2006",
	time.RFC3339,
}

// ParseDate normalizes a free-form date string to a calendar date.
// Unparseable or empty input defaults to today.
func ParseDate(s string, today civil.Date) civil.Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return today
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return civil.DateOf(t)
		}
	}

	return today
}
