package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SolverStats — per-user totals across finished sessions.
// "solved"/"won" count as successes, "contradiction"/"lost" as failures.
type SolverStats struct {
	UserID      string
	Played      int
	Solved      int
	Failed      int
	TotalRounds int
	UpdatedAt   time.Time
}

type StatsStore struct {
	db *pgxpool.Pool
}

func NewStatsStore(db *pgxpool.Pool) *StatsStore {
	return &StatsStore{db: db}
}

func (s *StatsStore) InitForUser(ctx context.Context, userID string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO solver_stats (user_id, played, solved, failed, total_rounds)
		VALUES ($1, 0, 0, 0, 0)
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	return err
}

func (s *StatsStore) Get(ctx context.Context, userID string) (SolverStats, error) {
	var st SolverStats
	err := s.db.QueryRow(ctx, `
		SELECT user_id, played, solved, failed, total_rounds, updated_at
		FROM solver_stats
		WHERE user_id=$1
	`, userID).Scan(&st.UserID, &st.Played, &st.Solved, &st.Failed, &st.TotalRounds, &st.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		// если вдруг статистики нет — это не фатально, считаем нулями
		return SolverStats{UserID: userID}, nil
	}
	if err != nil {
		return SolverStats{}, err
	}
	return st, nil
}

// RecordResult implements game.StatsRecorder.
func (s *StatsStore) RecordResult(ctx context.Context, userID, outcome string, rounds int) error {
	solved := 0
	if outcome == "solved" || outcome == "won" {
		solved = 1
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO solver_stats (user_id, played, solved, failed, total_rounds)
		VALUES ($1, 1, $2, 1 - $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			played = solver_stats.played + 1,
			solved = solver_stats.solved + $2,
			failed = solver_stats.failed + (1 - $2),
			total_rounds = solver_stats.total_rounds + $3,
			updated_at = now()
	`, userID, solved, rounds)
	return err
}
