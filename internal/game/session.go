package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"example.com/bc-solver/internal/solver"
)

type Mode string

const (
	// ModeSolver: the human holds the secret, the engine deduces it.
	ModeSolver Mode = "solver"
	// ModePractice: the server holds a random secret, the human guesses.
	ModePractice Mode = "practice"
)

// Config — game dimensions shared by both modes.
type Config struct {
	AlphabetSize int
	CodeLength   int
	// MaxAttempts caps practice mode (classic: 20). 0 => no cap.
	// Solver mode is never capped.
	MaxAttempts int
}

func (c Config) withDefaults() Config {
	if c.AlphabetSize == 0 {
		c.AlphabetSize = solver.DefaultAlphabetSize
	}
	if c.CodeLength == 0 {
		c.CodeLength = solver.DefaultCodeLength
	}
	return c
}

// Session is one solving (or practice) run owned by a single user.
type Session struct {
	id string
	mu sync.Mutex

	cfg  Config
	mode Mode

	phase   string // waiting_player|playing|finished
	outcome string // solved|contradiction|won|lost|""

	ownerID   string
	ownerName string
	conn      *ClientConn
	connected bool

	// solver mode
	slv     *solver.Solver
	pending *solver.Option // proposed guess awaiting the human's feedback

	// practice mode
	secret string
	// remaining mirrors what an honest deducer could still consider;
	// drives the entropy readout shown to the guesser.
	remaining solver.Candidates

	history []Turn

	onPersist func(SessionSnapshot)
	onFinish  func(ownerID, outcome string, rounds int)
}

func NewSession(id string, mode Mode, cfg Config) *Session {
	cfg = cfg.withDefaults()
	s := &Session{
		id:    id,
		cfg:   cfg,
		mode:  mode,
		phase: "waiting_player",
	}
	switch mode {
	case ModePractice:
		s.secret = solver.RandomCode(cfg.AlphabetSize, cfg.CodeLength)
		s.remaining = solver.Universe(cfg.AlphabetSize, cfg.CodeLength)
	default:
		s.mode = ModeSolver
		s.slv = solver.New(cfg.AlphabetSize, cfg.CodeLength)
	}
	return s
}

// Attach binds the connection to the session. First user to attach owns
// the session; the same user may reconnect, anyone else is rejected.
func (s *Session) Attach(userID, displayName string, cc *ClientConn) (errCode, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.ownerID == "":
		s.ownerID = userID
		s.ownerName = displayName
	case s.ownerID != userID:
		return "session_owned", "session belongs to another player"
	}

	s.conn = cc
	s.connected = true
	if s.phase == "waiting_player" {
		s.phase = "playing"
	}

	// solver mode: make sure a proposal is on the table. Recomputed
	// after restore; the ranking is deterministic, so a reconnect sees
	// the same guess it left.
	if s.mode == ModeSolver && s.phase == "playing" && s.pending == nil {
		s.proposeLocked()
	}

	s.sendStateLocked()
	if s.mode == ModeSolver && s.pending != nil && s.phase == "playing" {
		s.sendGuessLocked()
	}
	s.persistLocked()
	return "", ""
}

func (s *Session) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	s.conn = nil
}

// ApplyFeedback — solver mode: the human's bulls/cows for the pending
// guess. Invalid numbers are rejected without touching the candidates.
func (s *Session) ApplyFeedback(fb solver.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != ModeSolver {
		return errors.New("feedback only applies to solver sessions")
	}
	if s.phase != "playing" {
		return errors.New("session is not in playing phase")
	}
	if s.pending == nil {
		return errors.New("no guess awaiting feedback")
	}

	guess := s.pending.Guess
	st, err := s.slv.Apply(fb)
	if errors.Is(err, solver.ErrInvalidFeedback) {
		return fmt.Errorf("bulls and cows must be 0..%d with sum <= %d",
			s.cfg.CodeLength, s.cfg.CodeLength)
	}

	// round numbers come from the history, not the solver's own counter:
	// the counter restarts on snapshot restore, the history does not
	s.history = append(s.history, Turn{
		Round:     len(s.history) + 1,
		Guess:     guess,
		Bulls:     fb.Bulls,
		Cows:      fb.Cows,
		Remaining: s.slv.Remaining(),
	})
	s.pending = nil

	switch st {
	case solver.StateSolved:
		answer, _ := s.slv.Answer()
		s.finishLocked("solved", answer)
	case solver.StateContradiction:
		// feedback history is self-inconsistent; never pretend we solved
		s.finishLocked("contradiction", "")
	default:
		s.proposeLocked()
		s.sendStateLocked()
		if s.pending != nil {
			s.sendGuessLocked()
		}
	}

	s.persistLocked()
	return nil
}

// SubmitGuess — practice mode: score the human's guess against the
// server's secret.
func (s *Session) SubmitGuess(guess string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != ModePractice {
		return errors.New("guesses only apply to practice sessions")
	}
	if s.phase != "playing" {
		return errors.New("session is not in playing phase")
	}
	if !solver.ValidCode(guess, s.cfg.AlphabetSize, s.cfg.CodeLength) {
		return fmt.Errorf("guess must be %d distinct digits", s.cfg.CodeLength)
	}

	fb := solver.Evaluate(s.secret, guess)
	s.remaining = s.remaining.Filter(guess, fb)

	round := len(s.history) + 1
	s.history = append(s.history, Turn{
		Round:     round,
		Guess:     guess,
		Bulls:     fb.Bulls,
		Cows:      fb.Cows,
		Remaining: len(s.remaining),
	})

	switch {
	case fb.Win(s.cfg.CodeLength):
		s.finishLocked("won", s.secret)
	case s.cfg.MaxAttempts > 0 && round >= s.cfg.MaxAttempts:
		s.finishLocked("lost", s.secret)
	default:
		s.sendStateLocked()
	}

	s.persistLocked()
	return nil
}

// proposeLocked asks the ranker for the next guess. The first round ranks
// the full universe and takes noticeable CPU; later rounds are cheap.
func (s *Session) proposeLocked() {
	opt, err := s.slv.NextGuess()
	if err != nil {
		// only reachable on an empty candidate set
		s.finishLocked("contradiction", "")
		return
	}
	s.pending = &opt
}

func (s *Session) finishLocked(outcome, answer string) {
	s.phase = "finished"
	s.outcome = outcome
	s.pending = nil

	s.sendLocked(Envelope{Type: "result", Payload: mustJSON(ResultPayload{
		Outcome: outcome,
		Answer:  answer,
		Rounds:  len(s.history),
	})})
	s.sendStateLocked()

	if s.onFinish != nil && s.ownerID != "" {
		s.onFinish(s.ownerID, outcome, len(s.history))
	}
}

// SendState pushes the current state to the attached connection.
func (s *Session) SendState() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendStateLocked()
}

func (s *Session) SendError(code, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendLocked(Envelope{
		Type:    "error",
		Payload: mustJSON(ErrorPayload{Code: code, Message: message}),
	})
}

func (s *Session) sendStateLocked() {
	s.sendLocked(Envelope{Type: "state", Payload: mustJSON(s.buildStateLocked())})
}

func (s *Session) sendGuessLocked() {
	s.sendLocked(Envelope{Type: "guess", Payload: mustJSON(GuessProposedPayload{
		Round:            len(s.history) + 1,
		Guess:            s.pending.Guess,
		ExpectedGainBits: s.pending.Entropy,
	})})
}

func (s *Session) buildStateLocked() StatePayload {
	st := StatePayload{
		SessionID: s.id,
		Mode:      string(s.mode),
		Phase:     s.phase,
		Round:     len(s.history),
		History:   s.history,
		Outcome:   s.outcome,
	}

	switch s.mode {
	case ModeSolver:
		st.Remaining = s.slv.Remaining()
		st.EntropyBits = s.slv.Uncertainty()
	case ModePractice:
		st.Remaining = len(s.remaining)
		st.EntropyBits = solver.Bits(len(s.remaining))
		if s.phase == "finished" {
			st.RevealedSecret = s.secret
		}
	}
	return st
}

func (s *Session) sendLocked(env Envelope) {
	if s.conn == nil {
		return
	}
	b, _ := json.Marshal(env)
	select {
	case s.conn.send <- b:
	default:
		// MVP: если клиент не успевает читать, просто дропаем
	}
}

func (s *Session) persistLocked() {
	if s.onPersist == nil {
		return
	}
	s.onPersist(s.snapshotLocked())
}

func mustJSON(v any) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}
