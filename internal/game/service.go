package game

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// StatsRecorder получает итог сессии для статистики игрока.
// Implemented by the Postgres stats store; nil disables recording.
type StatsRecorder interface {
	RecordResult(ctx context.Context, userID, outcome string, rounds int) error
}

// saveTimeout bounds the background snapshot/stats writes fired from
// session hooks.
const saveTimeout = 5 * time.Second

// SessionService отвечает за:
// - in-memory кэш сессий
// - восстановление сессий из persistent storage (Redis)
// - запись результата в статистику по завершении
type SessionService struct {
	mu sync.Mutex
	in map[string]*Session

	cfg     Config
	persist SessionPersistence
	stats   StatsRecorder
	log     *slog.Logger
}

func NewSessionService(cfg Config, persist SessionPersistence, stats StatsRecorder, log *slog.Logger) *SessionService {
	if log == nil {
		log = slog.Default()
	}
	return &SessionService{
		in:      make(map[string]*Session),
		cfg:     cfg,
		persist: persist,
		stats:   stats,
		log:     log,
	}
}

func (s *SessionService) Create(ctx context.Context, sessionID string, mode Mode) (*Session, error) {
	sess := NewSession(sessionID, mode, s.cfg)
	s.hook(sessionID, sess)

	// первичное сохранение
	sess.mu.Lock()
	snap := sess.snapshotLocked()
	sess.mu.Unlock()
	if err := s.persist.Save(ctx, sessionID, snap); err != nil {
		s.log.Warn("session snapshot save failed", "sessionId", sessionID, "err", err)
	}

	s.mu.Lock()
	s.in[sessionID] = sess
	s.mu.Unlock()

	return sess, nil
}

func (s *SessionService) GetOrLoad(ctx context.Context, sessionID string) (*Session, bool, error) {
	s.mu.Lock()
	sess, ok := s.in[sessionID]
	s.mu.Unlock()
	if ok {
		return sess, true, nil
	}

	snap, found, err := s.persist.Load(ctx, sessionID)
	if err != nil || !found {
		return nil, false, err
	}

	sess = NewSession(sessionID, Mode(snap.Mode), s.cfg)
	sess.mu.Lock()
	sess.restoreLocked(snap)
	sess.mu.Unlock()

	s.hook(sessionID, sess)

	s.mu.Lock()
	s.in[sessionID] = sess
	s.mu.Unlock()

	return sess, true, nil
}

// hook wires persistence and stats into the session. The hooks outlive
// the HTTP request that created the session, so they must not borrow its
// context: each write gets a fresh one with a deadline.
func (s *SessionService) hook(sessionID string, sess *Session) {
	sess.onPersist = func(snap SessionSnapshot) {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := s.persist.Save(ctx, sessionID, snap); err != nil {
			s.log.Warn("session snapshot save failed", "sessionId", sessionID, "err", err)
		}
	}
	if s.stats != nil {
		sess.onFinish = func(ownerID, outcome string, rounds int) {
			ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
			defer cancel()
			if err := s.stats.RecordResult(ctx, ownerID, outcome, rounds); err != nil {
				s.log.Warn("stats record failed", "sessionId", sessionID, "userId", ownerID, "err", err)
			}
		}
	}
}
