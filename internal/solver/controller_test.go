package solver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// solveHonest drives a solver against a known secret with honest feedback
// and returns the number of rounds taken.
func solveHonest(t *testing.T, s *Solver, secret string) int {
	t.Helper()

	prev := s.Remaining()
	for round := 1; round <= 20; round++ {
		opt, err := s.NextGuess()
		require.NoError(t, err)
		require.Equal(t, round, s.Round())

		st, err := s.Apply(Evaluate(secret, opt.Guess))
		if st == StateSolved {
			require.NoError(t, err)
			answer, ok := s.Answer()
			require.True(t, ok)
			require.Equal(t, secret, answer)
			return round
		}
		require.NoError(t, err)
		require.Equal(t, StateGuessing, st)

		// honest feedback must keep shrinking the space
		require.Less(t, s.Remaining(), prev, "no narrowing on round %d", round)
		require.Positive(t, s.Remaining())
		prev = s.Remaining()
	}
	t.Fatalf("secret %s not solved in 20 rounds", secret)
	return 0
}

func TestSolver_EndToEnd_FullGame(t *testing.T) {
	s := New(DefaultAlphabetSize, DefaultCodeLength)
	require.Equal(t, 5040, s.Remaining())
	require.Equal(t, StateGuessing, s.State())

	rounds := solveHonest(t, s, "1234")
	// entropy-greedy averages 5-6 rounds on 10/4; anything close is fine
	assert.LessOrEqual(t, rounds, 9)
}

func TestSolver_EndToEnd_SmallGames(t *testing.T) {
	for _, secret := range Universe(5, 3) {
		s := New(5, 3)
		solveHonest(t, s, secret)
	}
}

func TestSolver_FirstGuess_Deterministic(t *testing.T) {
	// over the full universe every guess ties by symmetry, so the
	// lexicographically smallest candidate must win
	s := New(6, 3)
	opt, err := s.NextGuess()
	require.NoError(t, err)
	assert.Equal(t, "012", opt.Guess)
	assert.True(t, opt.InSet)
}

func TestSolver_NextGuess_IdempotentWhileAwaiting(t *testing.T) {
	s := New(6, 3)
	first, err := s.NextGuess()
	require.NoError(t, err)

	again, err := s.NextGuess()
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Equal(t, 1, s.Round())
}

func TestSolver_Apply_WithoutPendingGuess(t *testing.T) {
	s := New(6, 3)
	_, err := s.Apply(Feedback{Bulls: 1, Cows: 1})
	require.ErrorIs(t, err, ErrNoPendingGuess)
}

func TestSolver_Apply_RejectsInvalidFeedback(t *testing.T) {
	s := New(10, 4)
	_, err := s.NextGuess()
	require.NoError(t, err)

	before := s.Remaining()
	st, err := s.Apply(Feedback{Bulls: 3, Cows: 2})
	require.ErrorIs(t, err, ErrInvalidFeedback)
	assert.Equal(t, StateAwaitingFeedback, st)
	assert.Equal(t, before, s.Remaining(), "invalid feedback must not filter")

	// session continues: honest feedback still accepted afterwards
	_, err = s.Apply(Feedback{Bulls: 0, Cows: 0})
	require.NoError(t, err)
}

func TestSolver_Contradiction(t *testing.T) {
	s := New(10, 4)

	// the same guess cannot yield (0,0) in one round and (1,1) in another
	_, err := s.Observe("0123", Feedback{Bulls: 0, Cows: 0})
	require.NoError(t, err)

	st, err := s.Observe("0123", Feedback{Bulls: 1, Cows: 1})
	require.ErrorIs(t, err, ErrContradiction)
	require.Equal(t, StateContradiction, st)
	assert.Zero(t, s.Remaining())

	// terminal: no silent recovery
	_, err = s.NextGuess()
	require.ErrorIs(t, err, ErrFinished)
	_, err = s.Apply(Feedback{})
	require.ErrorIs(t, err, ErrFinished)
}

func TestSolver_WinFeedbackShortCircuits(t *testing.T) {
	s := New(10, 4)
	opt, err := s.NextGuess()
	require.NoError(t, err)

	st, err := s.Apply(Feedback{Bulls: 4, Cows: 0})
	require.NoError(t, err)
	require.Equal(t, StateSolved, st)

	answer, ok := s.Answer()
	require.True(t, ok)
	assert.Equal(t, opt.Guess, answer)
}

type scriptedCollaborator struct {
	secret    string
	presented []string
	result    State
	answer    string
}

func (c *scriptedCollaborator) RequestFeedback(_ context.Context, guess string, _ int) (Feedback, error) {
	return Evaluate(c.secret, guess), nil
}

func (c *scriptedCollaborator) PresentGuess(guess string, _ int, _ float64) {
	c.presented = append(c.presented, guess)
}

func (c *scriptedCollaborator) PresentResult(outcome State, answer string) {
	c.result = outcome
	c.answer = answer
}

func TestSolver_Run_AgainstHonestCollaborator(t *testing.T) {
	collab := &scriptedCollaborator{secret: "402"}
	s := New(5, 3)

	answer, err := s.Run(context.Background(), collab)
	require.NoError(t, err)
	assert.Equal(t, "402", answer)
	assert.Equal(t, StateSolved, collab.result)
	assert.Equal(t, "402", collab.answer)
	assert.NotEmpty(t, collab.presented)
}

func TestSolver_Run_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(5, 3)
	_, err := s.Run(ctx, &scriptedCollaborator{secret: "012"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
