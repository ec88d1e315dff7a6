//go:build integration

package game

import (
	"context"
	"os"
	"testing"
	"time"

	"example.com/bc-solver/internal/solver"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, rdb.Ping(ctx).Err(), "redis is not reachable")
	return rdb
}

func TestRedisPersistence_CreateSaveLoad(t *testing.T) {
	ctx := context.Background()
	rdb := newRedisClient(t)

	// Чистим Redis, чтобы тест был детерминированный
	require.NoError(t, rdb.FlushDB(ctx).Err())

	persist := NewRedisSessionStore(rdb, 1*time.Hour)

	cfg := Config{AlphabetSize: 5, CodeLength: 2}
	svc1 := NewSessionService(cfg, persist, nil, nil)

	sessionID := "s_test_1"

	// 1) Создали сессию и сохранили snapshot. Контекст create-запроса
	// умирает сразу после ответа — дальнейшие сохранения не должны
	// от него зависеть.
	reqCtx, cancelReq := context.WithCancel(ctx)
	s, err := svc1.Create(reqCtx, sessionID, ModeSolver)
	require.NoError(t, err)
	cancelReq()

	// 2) В памяти "поиграли": один раунд с честным фидбеком
	code, _ := s.Attach("u1", "Alice", newTestConn())
	require.Empty(t, code)

	secret := "42"
	g := pendingGuess(t, s)
	require.NoError(t, s.ApplyFeedback(solver.Evaluate(secret, g)))

	// 3) Симулируем рестарт: новый SessionService с пустым in-memory
	svc2 := NewSessionService(cfg, persist, nil, nil)
	s2, found, err := svc2.GetOrLoad(ctx, sessionID)
	require.NoError(t, err)
	require.True(t, found)

	// 4) Проверяем, что состояние восстановилось
	s2.mu.Lock()
	defer s2.mu.Unlock()

	require.Equal(t, ModeSolver, s2.mode)
	require.Equal(t, "u1", s2.ownerID)
	require.Len(t, s2.history, 1)
	require.Equal(t, g, s2.history[0].Guess)
	require.Equal(t, s2.history[0].Remaining, s2.slv.Remaining())
}

func TestRedisPersistence_FinishedSessionStaysFinished(t *testing.T) {
	ctx := context.Background()
	rdb := newRedisClient(t)
	require.NoError(t, rdb.FlushDB(ctx).Err())

	persist := NewRedisSessionStore(rdb, 1*time.Hour)
	cfg := Config{MaxAttempts: 20}
	svc := NewSessionService(cfg, persist, nil, nil)

	sessionID := "s_test_2"
	s, err := svc.Create(ctx, sessionID, ModePractice)
	require.NoError(t, err)

	s.Attach("u1", "Alice", newTestConn())

	s.mu.Lock()
	secret := s.secret
	s.mu.Unlock()
	require.NoError(t, s.SubmitGuess(secret)) // instant win

	// Рестарт:
	svc2 := NewSessionService(cfg, persist, nil, nil)
	s2, found, err := svc2.GetOrLoad(ctx, sessionID)
	require.NoError(t, err)
	require.True(t, found)

	s2.mu.Lock()
	defer s2.mu.Unlock()

	require.Equal(t, "finished", s2.phase)
	require.Equal(t, "won", s2.outcome)
	require.Equal(t, secret, s2.secret)
	require.Len(t, s2.history, 1)
}
