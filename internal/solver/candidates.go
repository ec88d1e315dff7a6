package solver

// Candidates is the set of codes still consistent with every observed
// feedback. It only ever shrinks: Filter returns a subset, nothing adds.
type Candidates []string

// Universe enumerates every valid code for the given dimensions, in
// lexicographic order (deterministic for reproducible ranking and tests).
// Size is alphabetSize * (alphabetSize-1) * ... over length positions:
// 5040 for the 10/4 game.
func Universe(alphabetSize, length int) Candidates {
	if alphabetSize > MaxAlphabetSize {
		alphabetSize = MaxAlphabetSize
	}
	if length > alphabetSize {
		return nil
	}

	size := 1
	for i := 0; i < length; i++ {
		size *= alphabetSize - i
	}
	out := make(Candidates, 0, size)

	var used [MaxAlphabetSize]bool
	buf := make([]byte, length)

	var gen func(pos int)
	gen = func(pos int) {
		if pos == length {
			out = append(out, string(buf))
			return
		}
		for d := 0; d < alphabetSize; d++ {
			if used[d] {
				continue
			}
			used[d] = true
			buf[pos] = '0' + byte(d)
			gen(pos + 1)
			used[d] = false
		}
	}
	gen(0)

	return out
}

// Filter keeps the candidates that would have produced the observed
// feedback for the guess. Monotonic by construction; the true secret is
// never dropped as long as the feedback was honest. An empty result means
// the feedback history contradicts itself — the caller must treat that as
// an error, not as "no answer".
func (cs Candidates) Filter(guess string, observed Feedback) Candidates {
	out := make(Candidates, 0, len(cs))
	for _, c := range cs {
		if Evaluate(c, guess) == observed {
			out = append(out, c)
		}
	}
	return out
}

// Contains reports set membership (linear scan; the ranker builds a map
// when it needs many lookups).
func (cs Candidates) Contains(code string) bool {
	for _, c := range cs {
		if c == code {
			return true
		}
	}
	return false
}
