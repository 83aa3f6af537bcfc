// Package normalize holds the canonical cleanup for values that are
// stored or compared: emails, names, phone numbers, currency codes and
// enum-like keywords.
package normalize

import "strings"

// Email trims and lowercases an address. Stored and compared emails always
// go through it.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims and collapses inner whitespace. Case is kept.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Mobile collapses whitespace like Name. Punctuation is kept so the number
// reads the way the visitor typed it.
func Mobile(s string) string {
	return Name(s)
}

// Currency uppercases an ISO 4217 code ("inr " becomes "INR").
func Currency(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Keyword trims and lowercases an enum-like value such as an inquiry
// status filter or a feed name.
func Keyword(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
