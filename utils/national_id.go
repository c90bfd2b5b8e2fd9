package utils

import "strings"

// NationalIDLength is the number of digits of a normalized CPF
const NationalIDLength = 11

// NormalizeNationalID strips every non-digit character, so "123.456.789-09" becomes "12345678909"
func NormalizeNationalID(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValidNationalID reports whether a normalized id has exactly NationalIDLength digits
func IsValidNationalID(normalized string) bool {
	if len(normalized) != NationalIDLength {
		return false
	}
	for _, r := range normalized {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
