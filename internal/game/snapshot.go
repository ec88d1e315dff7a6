package game

import "example.com/bc-solver/internal/solver"

// SessionSnapshot — сериализуемое состояние сессии для Redis.
//
// The candidate set is never persisted raw: it is a deterministic
// function of the history, so restore replays the filters instead.
type SessionSnapshot struct {
	SessionID string `json:"sessionId"`
	Mode      string `json:"mode"`
	Phase     string `json:"phase"`
	Outcome   string `json:"outcome"`

	OwnerID   string `json:"ownerId"`
	OwnerName string `json:"ownerName"`

	// Secret is only set for practice sessions; a restart must not
	// change the number the player is hunting.
	Secret string `json:"secret,omitempty"`

	History []Turn `json:"history"`
}

func (s *Session) snapshotLocked() SessionSnapshot {
	return SessionSnapshot{
		SessionID: s.id,
		Mode:      string(s.mode),
		Phase:     s.phase,
		Outcome:   s.outcome,
		OwnerID:   s.ownerID,
		OwnerName: s.ownerName,
		Secret:    s.secret,
		History:   append([]Turn(nil), s.history...),
	}
}

func (s *Session) restoreLocked(snap SessionSnapshot) {
	s.mode = Mode(snap.Mode)
	s.phase = snap.Phase
	s.outcome = snap.Outcome
	s.ownerID = snap.OwnerID
	s.ownerName = snap.OwnerName
	s.secret = snap.Secret
	s.history = append([]Turn(nil), snap.History...)
	s.pending = nil

	switch s.mode {
	case ModePractice:
		s.slv = nil
		s.remaining = solver.Universe(s.cfg.AlphabetSize, s.cfg.CodeLength)
		for _, turn := range s.history {
			s.remaining = s.remaining.Filter(turn.Guess, solver.Feedback{
				Bulls: turn.Bulls,
				Cows:  turn.Cows,
			})
		}
	default:
		s.mode = ModeSolver
		s.remaining = nil
		s.slv = solver.New(s.cfg.AlphabetSize, s.cfg.CodeLength)
		for _, turn := range s.history {
			// replay narrows without re-ranking every past round
			_, _ = s.slv.Observe(turn.Guess, solver.Feedback{
				Bulls: turn.Bulls,
				Cows:  turn.Cows,
			})
		}
	}
}
