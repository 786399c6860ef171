// Package phone maps channel-native phone identifiers to registered accounts.
//
// WhatsApp delivers sender addresses as bare international digit strings
// (e.g. "97517773326") while users register numbers in whatever format they
// typed into the app ("+97517773326", "17773326", ...). This package generates
// the plausible stored representations of an inbound address and matches them
// against registered numbers.
package phone

import "strings"

// Bhutan numbering: country code 975, 8-digit subscriber numbers, mobile
// numbers starting with 17 or 77.
const (
	bhutanCountryCode = "975"
	bhutanFullLen     = 11
	bhutanLocalLen    = 8
)

var bhutanMobilePrefixes = []string{"17", "77"}

// Normalize strips everything but digits from a phone number.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CandidateFormats returns the ordered set of stored representations a raw
// inbound address could have been registered under. The original formatting
// is tried first, then locale-specific expansions.
func CandidateFormats(raw string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(f string) {
		if f != "" && !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}

	trimmed := strings.TrimSpace(raw)
	add(trimmed)
	add("+" + trimmed)
	if strings.HasPrefix(trimmed, "+") {
		add(strings.TrimPrefix(trimmed, "+"))
	}

	clean := Normalize(raw)

	switch {
	case len(clean) == bhutanFullLen && strings.HasPrefix(clean, bhutanCountryCode):
		// Full Bhutan number like 97517773326: also try the 8-digit
		// subscriber suffix on its own.
		local := clean[len(bhutanCountryCode):]
		add(clean)
		add("+" + clean)
		add(local)
		add("+" + bhutanCountryCode + local)
		add(bhutanCountryCode + local)

	case len(clean) == bhutanLocalLen && hasBhutanMobilePrefix(clean):
		// Local Bhutan mobile number: also try with the country code.
		add(clean)
		add("+" + clean)
		add(bhutanCountryCode + clean)
		add("+" + bhutanCountryCode + clean)

	case len(clean) >= 10:
		add(clean)
		add("+" + clean)
		// A bare 10-digit number may be missing its country code.
		if len(clean) == 10 {
			add("+1" + clean)
		}
	}

	return out
}

func hasBhutanMobilePrefix(clean string) bool {
	for _, p := range bhutanMobilePrefixes {
		if strings.HasPrefix(clean, p) {
			return true
		}
	}
	return false
}
