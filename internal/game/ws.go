package game

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"example.com/bc-solver/internal/auth"
	"example.com/bc-solver/internal/solver"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // MVP
}

type ClientConn struct {
	ws   *websocket.Conn
	send chan []byte

	closeOnce sync.Once
}

func (c *ClientConn) Close() {
	c.closeOnce.Do(func() {
		close(c.send)
		if c.ws != nil {
			_ = c.ws.Close()
		}
	})
}

// sessionIDFromWSPath extracts the id from "/ws/{sessionID}".
// IDs are what randID produces: lowercase alphanumeric, bounded length.
func sessionIDFromWSPath(path string) (string, bool) {
	const prefix = "/ws/"
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}
	id := path[len(prefix):]
	if id == "" || len(id) > 64 {
		return "", false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if c >= 'a' && c <= 'z' || c >= '0' && c <= '9' {
			continue
		}
		return "", false
	}
	return id, true
}

// handleWS — WebSocket вход в сессию: /ws/{sessionID}.
// Auth: either an "Authorization: Bearer ..." header on the upgrade
// request, or a first {"type":"auth"} message after the upgrade.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromWSPath(r.URL.Path)
	if !ok {
		http.Error(w, "bad session path", http.StatusBadRequest)
		return
	}

	// header auth is checked before upgrading so the client gets a
	// proper HTTP status
	var claims *auth.Claims
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		c, err := s.tokens.Verify(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		claims = c
	}

	// получаем сессию (in-memory или из Redis)
	sess, found, err := s.sessions.GetOrLoad(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	cc := &ClientConn{
		ws:   ws,
		send: make(chan []byte, 64),
	}

	// writer loop
	go func() {
		ticker := time.NewTicker(25 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case msg, ok := <-cc.send:
				if !ok {
					return
				}
				_ = ws.WriteMessage(websocket.TextMessage, msg)
			case <-ticker.C:
				_ = ws.WriteMessage(websocket.PingMessage, []byte{})
			}
		}
	}()

	// no header token: the first message must be auth
	if claims == nil {
		claims = awaitAuthMessage(ws, cc, s.tokens)
		if claims == nil {
			cc.Close()
			return
		}
	}

	if errCode, errMsg := sess.Attach(claims.UserID, claims.DisplayName, cc); errCode != "" {
		_ = ws.WriteJSON(Envelope{
			Type:    "error",
			Payload: mustJSON(ErrorPayload{Code: errCode, Message: errMsg}),
		})
		cc.Close()
		return
	}

	// reader loop
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			break
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			sess.SendError("bad_json", "invalid json")
			continue
		}

		switch env.Type {
		case "feedback":
			var p FeedbackPayload
			if err := json.Unmarshal(env.Payload, &p); err != nil {
				sess.SendError("bad_input", "invalid payload")
				continue
			}
			if err := sess.ApplyFeedback(solver.Feedback{Bulls: p.Bulls, Cows: p.Cows}); err != nil {
				sess.SendError("bad_input", err.Error())
			}

		case "guess":
			var p GuessPayload
			if err := json.Unmarshal(env.Payload, &p); err != nil {
				sess.SendError("bad_input", "invalid payload")
				continue
			}
			if err := sess.SubmitGuess(p.Guess); err != nil {
				sess.SendError("bad_input", err.Error())
			}

		case "auth":
			// уже авторизованы

		default:
			sess.SendError("unknown_type", "unknown message type")
		}
	}

	// disconnect
	sess.Detach()
	cc.Close()
}

// awaitAuthMessage reads until a valid auth envelope arrives (or the
// client gives up). Returns nil when the connection should be dropped.
func awaitAuthMessage(ws *websocket.Conn, cc *ClientConn, tokens TokenVerifier) *auth.Claims {
	_ = ws.SetReadDeadline(time.Now().Add(10 * time.Second))
	defer func() { _ = ws.SetReadDeadline(time.Time{}) }()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return nil
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil || env.Type != "auth" {
			_ = ws.WriteJSON(Envelope{
				Type:    "error",
				Payload: mustJSON(ErrorPayload{Code: "unauthorized", Message: "auth message required"}),
			})
			continue
		}

		var p AuthPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			_ = ws.WriteJSON(Envelope{
				Type:    "error",
				Payload: mustJSON(ErrorPayload{Code: "bad_input", Message: "invalid payload"}),
			})
			continue
		}

		claims, err := tokens.Verify(p.Token)
		if err != nil {
			_ = ws.WriteJSON(Envelope{
				Type:    "error",
				Payload: mustJSON(ErrorPayload{Code: "unauthorized", Message: "invalid token"}),
			})
			return nil
		}
		return claims
	}
}
