// Package accession normalizes librarian-entered accession numbers into the
// fixed-width keys used to look up catalog rows.
package accession

import "strings"

// Width is the length of a canonical accession key.
const Width = 6

// Normalize left-pads inputs of length 3, 4 or 5 with zeros to Width
// characters. Every other length passes through unchanged; the input is not
// trimmed and is not required to be numeric.
func Normalize(s string) string {
	switch len(s) {
	case 3, 4, 5:
		return strings.Repeat("0", Width-len(s)) + s
	default:
		return s
	}
}

// IsCanonical reports whether s is exactly Width ASCII digits.
func IsCanonical(s string) bool {
	if len(s) != Width {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
