// Package verhoeff validates 12-digit identity numbers using the Verhoeff
// check-digit algorithm, which catches all single-digit errors and most
// adjacent transpositions.
package verhoeff

import "strings"

// Standard Verhoeff tables. These are published constants of the algorithm
// (multiplication over the dihedral group D5 and the fixed permutation);
// they must not be re-derived.
var d = [10][10]int{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
	{1, 2, 3, 4, 0, 6, 7, 8, 9, 5},
	{2, 3, 4, 0, 1, 7, 8, 9, 5, 6},
	{3, 4, 0, 1, 2, 8, 9, 5, 6, 7},
	{4, 0, 1, 2, 3, 9, 5, 6, 7, 8},
	{5, 9, 8, 7, 6, 0, 4, 3, 2, 1},
	{6, 5, 9, 8, 7, 1, 0, 4, 3, 2},
	{7, 6, 5, 9, 8, 2, 1, 0, 4, 3},
	{8, 7, 6, 5, 9, 3, 2, 1, 0, 4},
	{9, 8, 7, 6, 5, 4, 3, 2, 1, 0},
}

var p = [8][10]int{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
	{1, 5, 7, 6, 2, 8, 3, 0, 9, 4},
	{5, 8, 0, 3, 7, 9, 6, 1, 4, 2},
	{8, 9, 1, 6, 0, 4, 3, 5, 2, 7},
	{9, 4, 5, 3, 1, 2, 6, 8, 7, 0},
	{4, 2, 8, 6, 5, 7, 3, 9, 0, 1},
	{2, 7, 9, 3, 8, 0, 6, 4, 1, 5},
	{7, 0, 4, 6, 9, 1, 3, 2, 5, 8},
}

// inv maps a check value to the digit that cancels it, used when computing
// a check digit for an 11-digit base.
var inv = [10]int{0, 4, 3, 2, 1, 5, 6, 7, 8, 9}

// Validate reports whether raw is a well-formed 12-digit identity number
// with a correct Verhoeff check digit. Spaces and hyphens are ignored.
func Validate(raw string) bool {
	cleaned := clean(raw)
	if len(cleaned) != 12 {
		return false
	}

	c := 0
	// Digits are processed from least significant to most significant.
	for i := 0; i < len(cleaned); i++ {
		ch := cleaned[len(cleaned)-1-i]
		if ch < '0' || ch > '9' {
			return false
		}
		c = d[c][p[i%8][ch-'0']]
	}
	return c == 0
}

// CheckDigit computes the Verhoeff check digit for an 11-digit base string.
// Returns -1 if base is not exactly 11 digits.
func CheckDigit(base string) int {
	cleaned := clean(base)
	if len(cleaned) != 11 {
		return -1
	}

	c := 0
	// Position 0 is reserved for the check digit itself, so the base digits
	// start at position 1 of the reversed sequence.
	for i := 0; i < len(cleaned); i++ {
		ch := cleaned[len(cleaned)-1-i]
		if ch < '0' || ch > '9' {
			return -1
		}
		c = d[c][p[(i+1)%8][ch-'0']]
	}
	return inv[c]
}

func clean(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, s)
}
