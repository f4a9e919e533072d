// Package core defines the cash-book domain: entries, loans, the category
// vocabulary, and the error taxonomy shared by the ledgers.
//
// This file contains parsing of monetary amounts from user input.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user-entered amount to a decimal.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Only
// positive values are accepted; explicit signs are rejected. Precision is
// kept as entered, display rounding is left to the presentation layer.
//
// Examples:
//
//	ParseAmount("150")    -> 150
//	ParseAmount("12,34")  -> 12.34
//	ParseAmount("-5")     -> error
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, Invalid("amount", "required")
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, Invalid("amount", "must be a positive number")
	}
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '.' {
			return decimal.Zero, Invalid("amount", "must be a positive number")
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, Invalid("amount", "must be a positive number")
	}
	if !d.IsPositive() {
		return decimal.Zero, Invalid("amount", "must be a positive number")
	}
	return d, nil
}
