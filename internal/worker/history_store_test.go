package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/injury-dashboard/internal/models"
)

type MockPgPool struct {
	ExecFunc func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Batches  []*pgx.Batch
	ExecErr  error
}

func (m *MockPgPool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if m.ExecFunc != nil {
		return m.ExecFunc(ctx, sql, args...)
	}
	return pgconn.CommandTag{}, nil
}

func (m *MockPgPool) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	m.Batches = append(m.Batches, b)
	return &MockBatchResults{err: m.ExecErr}
}

func (m *MockPgPool) Ping(ctx context.Context) error { return nil }

type MockBatchResults struct {
	pgx.BatchResults
	err    error
	closed bool
}

func (m *MockBatchResults) Exec() (pgconn.CommandTag, error) { return pgconn.CommandTag{}, m.err }
func (m *MockBatchResults) Close() error {
	m.closed = true
	return nil
}

func TestPGHistoryStore_InsertBatch(t *testing.T) {
	pg := &MockPgPool{}
	store := NewPGHistoryStore(pg)

	entries := []models.HistoryEntry{
		{
			CycleID:     "7d9f0d8e-7c1f-4a36-9d55-1d7f2b5f0e11",
			SessionID:   "s1",
			PlayerName:  "A",
			Request:     &models.PredictionRequest{Age: 30},
			Kind:        models.OutcomeSuccess,
			Probability: 42.5,
			Tier:        models.RiskLow,
			SettledAt:   time.Now(),
		},
		{
			CycleID:    "2b1f7a33-8e0b-4c55-a0f4-55f6d1b0c9aa",
			SessionID:  "s1",
			PlayerName: "B",
			Kind:       models.OutcomeFailure,
			Message:    "invalid numeric input: age",
			SettledAt:  time.Now(),
		},
	}

	require.NoError(t, store.InsertBatch(context.Background(), entries))
	require.Len(t, pg.Batches, 1)

	queued := pg.Batches[0].QueuedQueries
	require.Len(t, queued, 2)

	success := queued[0].Arguments
	assert.JSONEq(t, `{"age":30,"playerRole":"","playerType":"","bmi":0,"matchesLastWeek":0,"matchesLastMonth":0,"ballsFacedLastMatch":0,"acuteWorkload":0,"chronicWorkload":0,"injuriesLast30d":0,"restDays":0,"travelLoad":"","matchFormat":""}`, string(success[3].([]byte)))
	require.NotNil(t, success[5])
	assert.Equal(t, 42.5, *success[5].(*float64))

	failure := queued[1].Arguments
	assert.Nil(t, failure[3].([]byte))
	assert.Nil(t, failure[5].(*float64))
	assert.Nil(t, failure[6].(*string))
	assert.Equal(t, "invalid numeric input: age", *failure[7].(*string))
}

func TestPGHistoryStore_InsertError(t *testing.T) {
	pg := &MockPgPool{ExecErr: errors.New("duplicate")}
	err := NewPGHistoryStore(pg).InsertBatch(context.Background(), []models.HistoryEntry{{CycleID: "x"}})
	assert.Error(t, err)
}

func TestPGHistoryStore_EmptyBatch(t *testing.T) {
	pg := &MockPgPool{}
	require.NoError(t, NewPGHistoryStore(pg).InsertBatch(context.Background(), nil))
	assert.Empty(t, pg.Batches)
}

func TestPGHistoryStore_EnsureSchema(t *testing.T) {
	var gotSQL string
	pg := &MockPgPool{ExecFunc: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
		gotSQL = sql
		return pgconn.CommandTag{}, nil
	}}
	require.NoError(t, NewPGHistoryStore(pg).EnsureSchema(context.Background()))
	assert.Contains(t, gotSQL, "CREATE TABLE IF NOT EXISTS prediction_history")
}
