// Package voucher extracts series/number receipt identifiers from the
// free-text description fields of ledger and journal rows. This is the one
// format-dependent piece of the engine, so it lives behind a single
// function with an explicit grammar.
//
// Canonical key grammar:
//
//	series: 1-3 upper-case letters followed by 3-4 digits (E001, B002, FT001)
//	number: 1-8 digits
//	key:    series "-" number
//
// Lower-case input is accepted and folded to upper case. When a text
// contains more than one key, the first occurrence wins.
package voucher

import (
	"regexp"
	"strings"
)

var keyPattern = regexp.MustCompile(`\b[A-Z]{1,3}[0-9]{3,4}-[0-9]{1,8}\b`)

// Extract returns the first voucher key found in text, normalized to upper
// case, and whether one was found.
func Extract(text string) (string, bool) {
	key := keyPattern.FindString(strings.ToUpper(text))
	if key == "" {
		return "", false
	}
	return key, true
}
