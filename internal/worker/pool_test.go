package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pitchside/injury-dashboard/internal/models"
)

// MockHistoryStore records every batch it receives
type MockHistoryStore struct {
	mu      sync.Mutex
	batches [][]models.HistoryEntry
	Err     error
}

func (m *MockHistoryStore) InsertBatch(ctx context.Context, entries []models.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches = append(m.batches, entries)
	return m.Err
}

func (m *MockHistoryStore) total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.batches {
		n += len(b)
	}
	return n
}

func TestRecordFull(t *testing.T) {
	// Build the pool without starting workers so the queue stays full
	pool := NewPool(PoolConfig{QueueSize: 1, Logger: zap.NewNop()})

	require.True(t, pool.Record(models.HistoryEntry{CycleID: "1"}))

	start := time.Now()
	enqueued := pool.Record(models.HistoryEntry{CycleID: "2"})
	duration := time.Since(start)

	assert.False(t, enqueued, "Record should return false when queue is full")
	assert.Less(t, duration, 10*time.Millisecond, "Record should return immediately")
	assert.Equal(t, 1, pool.QueueDepth())
}

func TestPool_FlushesOnBatchSize(t *testing.T) {
	store := &MockHistoryStore{}
	pool := NewPool(PoolConfig{
		WorkerCount:   1,
		QueueSize:     100,
		BatchSize:     5,
		FlushInterval: time.Hour,
		Store:         store,
	})
	pool.Start(context.Background())
	defer pool.Stop()

	for i := 0; i < 5; i++ {
		require.True(t, pool.Record(models.HistoryEntry{CycleID: string(rune('a' + i))}))
	}

	require.Eventually(t, func() bool { return store.total() == 5 }, time.Second, 5*time.Millisecond)
}

func TestPool_FlushesOnInterval(t *testing.T) {
	store := &MockHistoryStore{}
	pool := NewPool(PoolConfig{
		WorkerCount:   1,
		BatchSize:     100,
		FlushInterval: 10 * time.Millisecond,
		Store:         store,
	})
	pool.Start(context.Background())
	defer pool.Stop()

	pool.Record(models.HistoryEntry{CycleID: "x"})
	require.Eventually(t, func() bool { return store.total() == 1 }, time.Second, 5*time.Millisecond)
}

func TestPool_StopDrainsQueue(t *testing.T) {
	store := &MockHistoryStore{}
	pool := NewPool(PoolConfig{
		WorkerCount:   3,
		QueueSize:     1000,
		BatchSize:     7,
		FlushInterval: time.Hour,
		Store:         store,
	})
	pool.Start(context.Background())

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				pool.Record(models.HistoryEntry{CycleID: "c"})
			}
		}()
	}
	wg.Wait()
	pool.Stop()

	assert.Equal(t, 200, store.total())
	assert.False(t, pool.Record(models.HistoryEntry{CycleID: "late"}))

	// second Stop is a no-op
	pool.Stop()
}

func TestPool_StoreErrorDoesNotStopWorkers(t *testing.T) {
	store := &MockHistoryStore{Err: errors.New("db down")}
	pool := NewPool(PoolConfig{WorkerCount: 1, BatchSize: 1, Store: store})
	pool.Start(context.Background())

	pool.Record(models.HistoryEntry{CycleID: "a"})
	pool.Record(models.HistoryEntry{CycleID: "b"})
	pool.Stop()

	assert.Equal(t, 2, store.total())
}
