package solver

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBestGuess_EmptySet(t *testing.T) {
	_, err := BestGuess(Candidates{}, nil)
	require.ErrorIs(t, err, ErrNoCandidates)
}

func TestBestGuess_Singleton_ShortCircuit(t *testing.T) {
	opt, err := BestGuess(Candidates{"4567"}, Universe(10, 4))
	require.NoError(t, err)
	assert.Equal(t, "4567", opt.Guess)
	assert.Zero(t, opt.Entropy)
	assert.True(t, opt.InSet)
}

func TestBestGuess_GreedyOptimal(t *testing.T) {
	// small enough to brute-force the criterion
	u := Universe(5, 2) // 20 codes
	cs := u.Filter("01", Feedback{Bulls: 0, Cows: 1})

	opt, err := BestGuess(cs, u)
	require.NoError(t, err)

	for _, g := range u {
		h := partitionEntropy(cs, g)
		require.LessOrEqual(t, h, opt.Entropy+entropyEps,
			"guess %s scores %.6f above chosen %s (%.6f)", g, h, opt.Guess, opt.Entropy)
	}
}

func TestBestGuess_TieBreak_PrefersCandidate(t *testing.T) {
	// "12" and "01" split {"01","10"} into the same two singleton
	// classes (entropy 1 bit each), but only "01" can actually win.
	cs := Candidates{"01", "10"}
	pool := Candidates{"12", "01"}

	opt, err := BestGuess(cs, pool)
	require.NoError(t, err)
	assert.Equal(t, "01", opt.Guess)
	assert.True(t, opt.InSet)
	assert.InDelta(t, 1.0, opt.Entropy, entropyEps)
}

func TestBestGuess_NilPool_UsesCandidates(t *testing.T) {
	cs := Candidates{"01", "10", "02"}
	opt, err := BestGuess(cs, nil)
	require.NoError(t, err)
	assert.True(t, cs.Contains(opt.Guess))
}

func TestPartitionEntropy_KnownValues(t *testing.T) {
	cases := []struct {
		name  string
		cs    Candidates
		guess string
		want  float64
	}{
		{
			name:  "two singleton classes, one bit",
			cs:    Candidates{"01", "10"},
			guess: "01",
			want:  1.0,
		},
		{
			name:  "single class, zero bits",
			cs:    Candidates{"01", "10"},
			guess: "23",
			want:  0.0,
		},
		{
			name:  "four singletons, two bits",
			cs:    Candidates{"01", "10", "02", "20"},
			guess: "01",
			want:  2.0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := partitionEntropy(tc.cs, tc.guess)
			assert.InDelta(t, tc.want, got, entropyEps)
		})
	}
}

func TestBestGuess_NeverExceedsMaxGain(t *testing.T) {
	u := Universe(6, 3)
	opt, err := BestGuess(u, u)
	require.NoError(t, err)
	assert.LessOrEqual(t, opt.Entropy, math.Log2(float64(len(u)))+entropyEps)
}
