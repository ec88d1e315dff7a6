package game

import (
	"crypto/rand"
	"encoding/json"
	"net/http"

	"example.com/bc-solver/internal/auth"
)

// TokenVerifier checks an access token and returns its claims.
// *auth.Service satisfies it; tests plug in stubs.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type Server struct {
	cfg      Config
	sessions *SessionService
	tokens   TokenVerifier
}

func NewServer(cfg Config, sessions *SessionService, tokens TokenVerifier) *Server {
	return &Server{
		cfg:      cfg.withDefaults(),
		sessions: sessions,
		tokens:   tokens,
	}
}

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/session", s.handleCreateSession)
	mux.HandleFunc("/ws/", s.handleWS)
}

type createSessionRequest struct {
	Mode string `json:"mode"` // solver|practice, default solver
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req createSessionRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req) // empty body => defaults
	}

	mode := ModeSolver
	switch req.Mode {
	case "", string(ModeSolver):
	case string(ModePractice):
		mode = ModePractice
	default:
		http.Error(w, "mode must be solver or practice", http.StatusBadRequest)
		return
	}

	sessionID := randID(10)

	if _, err := s.sessions.Create(r.Context(), sessionID, mode); err != nil {
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"sessionId": sessionID,
		"mode":      string(mode),
	})
}

func randID(n int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, n)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = alphabet[int(b[i])%len(alphabet)]
	}
	return string(b)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
