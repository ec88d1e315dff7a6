package solver

import (
	"errors"
	"math"
)

// ErrNoCandidates: ranking over an empty candidate set. There is no code
// consistent with the feedback so far — see Solver's contradiction state.
var ErrNoCandidates = errors.New("no candidates remain")

// Option is a scored hypothetical guess. Ephemeral: recomputed each round.
type Option struct {
	Guess string
	// Entropy is the expected information gain in bits: the Shannon
	// entropy of the feedback partition this guess induces over the
	// current candidates.
	Entropy float64
	// InSet marks guesses that are themselves still possible answers,
	// so guessing them can win outright.
	InSet bool
}

const entropyEps = 1e-9

// BestGuess picks the guess from pool that maximizes expected information
// gain over candidates. Ties prefer a guess that is itself a candidate
// (a lucky win stays possible); among equals the first in pool order wins,
// which is the lexicographically smallest for a Universe pool.
//
// pool == nil means "guess only from the candidates themselves".
// |candidates| == 1 short-circuits: the sole candidate is the answer.
func BestGuess(candidates, pool Candidates) (Option, error) {
	switch len(candidates) {
	case 0:
		return Option{}, ErrNoCandidates
	case 1:
		return Option{Guess: candidates[0], Entropy: 0, InSet: true}, nil
	}

	if pool == nil {
		pool = candidates
	}

	inSet := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		inSet[c] = struct{}{}
	}

	// A guess cannot gain more than log2(N) bits; stop early if some
	// guess splits the candidates into singletons.
	maxGain := Bits(len(candidates))

	var best Option
	best.Entropy = -1
	for _, g := range pool {
		h := partitionEntropy(candidates, g)
		_, member := inSet[g]

		better := h > best.Entropy+entropyEps
		tied := math.Abs(h-best.Entropy) <= entropyEps
		if better || (tied && member && !best.InSet) {
			best = Option{Guess: g, Entropy: h, InSet: member}
		}

		if best.InSet && maxGain-best.Entropy <= entropyEps {
			break
		}
	}

	return best, nil
}

// partitionEntropy scores one hypothetical guess: partition the candidates
// by the feedback they would return, then H = -sum p*log2(p) over the
// partition classes.
func partitionEntropy(candidates Candidates, guess string) float64 {
	counts := make(map[Feedback]int)
	for _, c := range candidates {
		counts[Evaluate(c, guess)]++
	}

	n := float64(len(candidates))
	h := 0.0
	for _, cnt := range counts {
		p := float64(cnt) / n
		h -= p * math.Log2(p)
	}
	return h
}
