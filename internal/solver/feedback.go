package solver

// Feedback is the (bulls, cows) answer to a guess.
type Feedback struct {
	Bulls int `json:"bulls"`
	Cows  int `json:"cows"`
}

// Valid checks the numeric ranges: no negatives, bulls+cows within the
// code length. The transport layer validates raw input; this is the
// defensive check before the filter runs.
func (f Feedback) Valid(length int) bool {
	if f.Bulls < 0 || f.Cows < 0 {
		return false
	}
	return f.Bulls+f.Cows <= length
}

// Win reports whether f means the guess was the secret.
func (f Feedback) Win(length int) bool {
	return f.Bulls == length
}

// Evaluate scores guess against secret.
//
// Bulls: positional matches. Cows: digits present in both codes on the
// remaining positions, counted as a multiset so the same function works
// for codes with repeats (our universe never has them, but the scoring
// should not depend on that). Symmetric: Evaluate(a,b) == Evaluate(b,a).
func Evaluate(secret, guess string) Feedback {
	n := len(secret)

	// fixed-size scratch: the ranker calls this millions of times per
	// round, keep it allocation-free (length is capped by the alphabet)
	var used [MaxAlphabetSize]bool
	bulls := 0
	for i := 0; i < n; i++ {
		if secret[i] == guess[i] {
			bulls++
			used[i] = true
		}
	}

	// counts for remaining positions
	var cntS, cntG [MaxAlphabetSize]int
	for i := 0; i < n; i++ {
		if !used[i] {
			cntS[int(secret[i]-'0')]++
			cntG[int(guess[i]-'0')]++
		}
	}

	cows := 0
	for d := 0; d < MaxAlphabetSize; d++ {
		if cntS[d] < cntG[d] {
			cows += cntS[d]
		} else {
			cows += cntG[d]
		}
	}

	return Feedback{Bulls: bulls, Cows: cows}
}
