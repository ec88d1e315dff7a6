package game

import "encoding/json"

// Envelope WS envelope: {"type":"...","payload":{...}}
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// входящие

type AuthPayload struct {
	Token string `json:"token"`
}

// FeedbackPayload — solver mode: the human scores the computer's guess.
type FeedbackPayload struct {
	Bulls int `json:"bulls"`
	Cows  int `json:"cows"`
}

// GuessPayload — practice mode: the human guesses the server's secret.
type GuessPayload struct {
	Guess string `json:"guess"`
}

// исходящие

// GuessProposedPayload — solver mode: the engine's next guess.
type GuessProposedPayload struct {
	Round int    `json:"round"`
	Guess string `json:"guess"`
	// ExpectedGainBits is the Shannon entropy of the feedback partition
	// this guess induces over the remaining candidates.
	ExpectedGainBits float64 `json:"expectedGainBits"`
}

// Turn is one completed round in either mode.
type Turn struct {
	Round int    `json:"round"`
	Guess string `json:"guess"`
	Bulls int    `json:"bulls"`
	Cows  int    `json:"cows"`
	// Remaining possible codes after this round's filtering.
	Remaining int `json:"remaining"`
}

type StatePayload struct {
	SessionID string `json:"sessionId"`
	Mode      string `json:"mode"`  // solver|practice
	Phase     string `json:"phase"` // waiting_player|playing|finished
	Round     int    `json:"round"`
	// Remaining possible codes and their uncertainty log2(remaining).
	Remaining   int     `json:"remaining"`
	EntropyBits float64 `json:"entropyBits"`
	History     []Turn  `json:"history"`
	// Outcome: solved|contradiction (solver), won|lost (practice),
	// "" while playing.
	Outcome string `json:"outcome"`
	// RevealedSecret is present only after a practice session finished.
	RevealedSecret string `json:"revealedSecret,omitempty"`
}

type ResultPayload struct {
	Outcome string `json:"outcome"`
	// Answer: the deduced secret (solver solved) or the revealed secret
	// (practice). Empty on contradiction.
	Answer string `json:"answer,omitempty"`
	Rounds int    `json:"rounds"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
