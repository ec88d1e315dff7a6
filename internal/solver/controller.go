package solver

import (
	"context"
	"errors"
	"fmt"
)

// State of a solving session.
type State string

const (
	// StateGuessing: ready to compute the next guess.
	StateGuessing State = "guessing"
	// StateAwaitingFeedback: a guess is out, waiting for bulls/cows.
	StateAwaitingFeedback State = "awaiting_feedback"
	// StateSolved: exactly one code fits everything observed.
	StateSolved State = "solved"
	// StateContradiction: nothing fits — the feedback lied somewhere.
	StateContradiction State = "contradiction"
)

var (
	ErrInvalidFeedback = errors.New("feedback out of range")
	// ErrContradiction is returned when filtering empties the candidate
	// set. Not recoverable within the session: some earlier answer was
	// wrong, and we cannot tell which.
	ErrContradiction  = errors.New("feedback history is contradictory")
	ErrNoPendingGuess = errors.New("no guess awaiting feedback")
	ErrFinished       = errors.New("session already finished")
)

// Solver owns the candidate set across rounds and drives the
// guess -> feedback -> filter loop. It is step-driven (NextGuess / Apply)
// so an event-based transport can feed it, with Run as the blocking
// convenience loop on top.
//
// Not safe for concurrent use; the owner serializes access.
type Solver struct {
	alphabetSize int
	length       int

	// pool is the full universe; guessing outside the remaining
	// candidates is allowed and often gains more information.
	pool       Candidates
	candidates Candidates

	state   State
	round   int
	current Option // pending guess while awaiting feedback
	answer  string
}

// New builds a solver with a fresh full candidate set.
func New(alphabetSize, length int) *Solver {
	u := Universe(alphabetSize, length)
	return &Solver{
		alphabetSize: alphabetSize,
		length:       length,
		pool:         u,
		candidates:   u,
		state:        StateGuessing,
	}
}

func (s *Solver) State() State { return s.state }

func (s *Solver) Round() int { return s.round }

func (s *Solver) Remaining() int { return len(s.candidates) }

func (s *Solver) CodeLength() int { return s.length }

// Uncertainty is log2 of the remaining candidate count, in bits.
func (s *Solver) Uncertainty() float64 { return Bits(len(s.candidates)) }

// Answer returns the deduced secret once solved.
func (s *Solver) Answer() (string, bool) {
	return s.answer, s.state == StateSolved
}

// NextGuess ranks the candidates and commits to the best guess for this
// round. The solver then awaits Apply with the real feedback.
func (s *Solver) NextGuess() (Option, error) {
	switch s.state {
	case StateSolved, StateContradiction:
		return Option{}, ErrFinished
	case StateAwaitingFeedback:
		// idempotent: re-emit the committed guess (reconnects)
		return s.current, nil
	}

	opt, err := BestGuess(s.candidates, s.pool)
	if err != nil {
		s.state = StateContradiction
		return Option{}, err
	}

	s.round++
	s.current = opt
	s.state = StateAwaitingFeedback
	return opt, nil
}

// Apply narrows the candidate set with the real feedback for the pending
// guess and transitions the state machine.
func (s *Solver) Apply(fb Feedback) (State, error) {
	if s.state != StateAwaitingFeedback {
		if s.state == StateSolved || s.state == StateContradiction {
			return s.state, ErrFinished
		}
		return s.state, ErrNoPendingGuess
	}
	st, err := s.Observe(s.current.Guess, fb)
	if err != nil {
		return st, err
	}
	if s.state == StateAwaitingFeedback {
		s.state = StateGuessing
	}
	return s.state, nil
}

// Observe filters with an explicit (guess, feedback) pair. Apply uses it
// for the committed guess; session restore uses it to replay history
// without re-ranking every round.
func (s *Solver) Observe(guess string, fb Feedback) (State, error) {
	if s.state == StateSolved || s.state == StateContradiction {
		return s.state, ErrFinished
	}
	if !fb.Valid(s.length) {
		return s.state, fmt.Errorf("%w: bulls=%d cows=%d", ErrInvalidFeedback, fb.Bulls, fb.Cows)
	}

	if fb.Win(s.length) {
		s.state = StateSolved
		s.answer = guess
		s.candidates = Candidates{guess}
		return s.state, nil
	}

	s.candidates = s.candidates.Filter(guess, fb)
	switch len(s.candidates) {
	case 0:
		s.state = StateContradiction
		return s.state, ErrContradiction
	case 1:
		// единственный оставшийся кандидат и есть ответ
		s.state = StateSolved
		s.answer = s.candidates[0]
	}
	return s.state, nil
}

// Collaborator is the external boundary: a console, a websocket client,
// a test harness. It supplies real feedback and receives the guesses.
type Collaborator interface {
	// RequestFeedback blocks until the holder of the secret has scored
	// the guess. Implementations own input parsing and re-prompting;
	// the solver only sees validated numbers.
	RequestFeedback(ctx context.Context, guess string, round int) (Feedback, error)

	PresentGuess(guess string, round int, expectedGain float64)
	PresentResult(outcome State, answer string)
}

// Run drives rounds until solved or contradiction. Returns the deduced
// secret on success.
func (s *Solver) Run(ctx context.Context, c Collaborator) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		opt, err := s.NextGuess()
		if err != nil {
			c.PresentResult(s.state, "")
			return "", err
		}
		c.PresentGuess(opt.Guess, s.round, opt.Entropy)

		fb, err := c.RequestFeedback(ctx, opt.Guess, s.round)
		if err != nil {
			return "", err
		}

		st, err := s.Apply(fb)
		switch st {
		case StateSolved:
			c.PresentResult(StateSolved, s.answer)
			return s.answer, nil
		case StateContradiction:
			c.PresentResult(StateContradiction, "")
			return "", err
		}
		if err != nil {
			// invalid feedback: report and re-request on the next loop
			continue
		}
	}
}
