// Package normalize canonicalises user identifiers before they reach the
// store, so lookups are plain equality matches.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Email trims surrounding space and lowercases the address.
func Email(s string) string {
	// A Caser is stateful; build one per call.
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}

// Username trims surrounding space. Usernames stay case-sensitive.
func Username(s string) string {
	return strings.TrimSpace(s)
}

// EmailDomain returns the part after the last '@', or "" if there is none.
func EmailDomain(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at < 1 || at == len(email)-1 {
		return ""
	}
	return email[at+1:]
}
