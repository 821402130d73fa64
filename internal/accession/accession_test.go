package accession

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// padded to six
		{"123", "000123"},
		{"1234", "001234"},
		{"12345", "012345"},
		// already canonical
		{"123456", "123456"},
		{"000123", "000123"},
		// pass-through lengths
		{"", ""},
		{"1", "1"},
		{"12", "12"},
		{"1234567", "1234567"},
		// no trimming, no digit check
		{" 12", "000 12"},
		{"abc", "000abc"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := Normalize(tt.input)
			if result != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNormalizePadsEveryShortDigitString(t *testing.T) {
	for n := 3; n <= 5; n++ {
		for _, d := range "0123456789" {
			input := strings.Repeat(string(d), n)
			result := Normalize(input)
			if len(result) != Width {
				t.Fatalf("Normalize(%q) has length %d, want %d", input, len(result), Width)
			}
			if !strings.HasSuffix(result, input) || strings.TrimLeft(result[:Width-n], "0") != "" {
				t.Errorf("Normalize(%q) = %q is not a zero left-pad", input, result)
			}
		}
	}
}

func TestIsCanonical(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"000123", true},
		{"123456", true},
		{"12345", false},
		{"1234567", false},
		{"00012a", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsCanonical(tt.input); got != tt.expected {
				t.Errorf("IsCanonical(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}
