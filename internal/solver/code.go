// Package solver implements the guess-selection engine for Bulls and Cows:
// the candidate space, the feedback-consistency filter and the
// entropy-based ranking that picks the next guess.
//
// Codes are digit strings ("0123"): fixed length, all digits distinct.
// Everything is parametric over alphabet size and code length; the service
// runs the classic 10/4 configuration.
package solver

import (
	"math"
	"math/rand"
)

const (
	// DefaultAlphabetSize and DefaultCodeLength describe the classic game:
	// 4 distinct digits out of 0-9, 5040 possible codes.
	DefaultAlphabetSize = 10
	DefaultCodeLength   = 4

	// MaxAlphabetSize is capped at 10 so a code stays a plain digit string.
	MaxAlphabetSize = 10
)

// ValidCode reports whether s is a well-formed code for the given
// dimensions: exact length, digits within the alphabet, no repeats.
func ValidCode(s string, alphabetSize, length int) bool {
	if len(s) != length {
		return false
	}
	var seen [MaxAlphabetSize]bool
	for i := 0; i < len(s); i++ {
		d := int(s[i] - '0')
		if d < 0 || d >= alphabetSize {
			return false
		}
		if seen[d] {
			return false
		}
		seen[d] = true
	}
	return true
}

// RandomCode returns a uniformly random valid code (distinct digits).
// Used by practice mode to pick the secret. The shared math/rand source
// is safe for concurrent sessions.
func RandomCode(alphabetSize, length int) string {
	digits := make([]byte, alphabetSize)
	for i := range digits {
		digits[i] = '0' + byte(i)
	}
	rand.Shuffle(len(digits), func(i, j int) {
		digits[i], digits[j] = digits[j], digits[i]
	})
	return string(digits[:length])
}

// Bits is the uncertainty of a candidate set of size n, log2(n).
// This is the "current entropy" readout: how many bits of information
// still separate us from the answer.
func Bits(n int) float64 {
	if n <= 0 {
		return 0
	}
	return math.Log2(float64(n))
}
