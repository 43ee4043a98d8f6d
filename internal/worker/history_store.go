package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pitchside/injury-dashboard/internal/models"
)

// PgPool defines the subset of *pgxpool.Pool used by the history store
type PgPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Ping(ctx context.Context) error
}

const historySchema = `
CREATE TABLE IF NOT EXISTS prediction_history (
	cycle_id     UUID PRIMARY KEY,
	session_id   TEXT NOT NULL,
	player_name  TEXT NOT NULL,
	request      JSONB,
	outcome      TEXT NOT NULL,
	probability  DOUBLE PRECISION,
	risk_tier    TEXT,
	message      TEXT,
	settled_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_prediction_history_session ON prediction_history (session_id, settled_at DESC);
`

const insertHistory = `
INSERT INTO prediction_history (
	cycle_id, session_id, player_name, request, outcome, probability, risk_tier, message, settled_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (cycle_id) DO NOTHING`

// PGHistoryStore writes outcomes to PostgreSQL
type PGHistoryStore struct {
	pg PgPool
}

func NewPGHistoryStore(pg PgPool) *PGHistoryStore {
	return &PGHistoryStore{pg: pg}
}

// EnsureSchema creates the history table if missing
func (s *PGHistoryStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pg.Exec(ctx, historySchema); err != nil {
		return fmt.Errorf("failed to create history schema: %w", err)
	}
	return nil
}

// InsertBatch writes entries in one round trip
func (s *PGHistoryStore) InsertBatch(ctx context.Context, entries []models.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}

	b := &pgx.Batch{}
	for _, e := range entries {
		var request []byte
		if e.Request != nil {
			var err error
			if request, err = json.Marshal(e.Request); err != nil {
				return fmt.Errorf("failed to encode request for cycle %s: %w", e.CycleID, err)
			}
		}
		b.Queue(insertHistory,
			e.CycleID,
			e.SessionID,
			e.PlayerName,
			request,
			string(e.Kind),
			nullableProbability(e),
			nullableString(string(e.Tier)),
			nullableString(e.Message),
			e.SettledAt,
		)
	}

	br := s.pg.SendBatch(ctx, b)
	for range entries {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to insert history entry: %w", err)
		}
	}
	return br.Close()
}

// Ping checks the database connection
func (s *PGHistoryStore) Ping(ctx context.Context) error {
	return s.pg.Ping(ctx)
}

func nullableProbability(e models.HistoryEntry) *float64 {
	if e.Kind != models.OutcomeSuccess {
		return nil
	}
	p := e.Probability
	return &p
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
