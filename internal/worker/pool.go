// Package worker implements the buffered worker pool that persists settled
// prediction outcomes off the request path:
// - Load shedding when the queue is full, so a submission never waits on storage
// - Batch inserts on size or flush interval
// - Graceful shutdown that drains the queue before returning

package worker

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/pitchside/injury-dashboard/internal/models"
)

// Prometheus metrics
var (
	entriesQueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "injury_history_entries_queued_total",
		Help: "Total number of outcomes queued for persistence",
	})

	entriesWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "injury_history_entries_written_total",
		Help: "Total number of outcomes written to the history store",
	})

	entriesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "injury_history_entries_failed_total",
		Help: "Total number of outcomes that failed to persist",
	})

	entriesShed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "injury_history_entries_load_shed_total",
		Help: "Total number of outcomes dropped because the queue was full",
	})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "injury_history_queue_depth",
		Help: "Current depth of the history queue",
	})

	batchInsertDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "injury_history_batch_insert_duration_seconds",
		Help:    "Duration of history batch inserts",
		Buckets: prometheus.DefBuckets,
	})
)

// HistoryStore persists batches of settled outcomes
type HistoryStore interface {
	InsertBatch(ctx context.Context, entries []models.HistoryEntry) error
}

// PoolConfig configures the worker pool
type PoolConfig struct {
	WorkerCount   int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
	Store         HistoryStore
	Logger        *zap.Logger
}

// Pool batches history entries into the store
type Pool struct {
	config   PoolConfig
	jobQueue chan models.HistoryEntry
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *zap.SugaredLogger

	mu      sync.RWMutex
	stopped bool
}

// NewPool creates a new worker pool
func NewPool(cfg PoolConfig) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Pool{
		config:   cfg,
		jobQueue: make(chan models.HistoryEntry, cfg.QueueSize),
		logger:   cfg.Logger.Sugar(),
	}
}

// Start launches the worker goroutines
func (p *Pool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	go p.reportQueueDepth()

	p.logger.Infow("History pool started",
		"workers", p.config.WorkerCount,
		"queueSize", p.config.QueueSize,
		"batchSize", p.config.BatchSize,
	)
}

// Stop drains the queue, flushes every worker and waits for them to exit
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobQueue)
	p.mu.Unlock()

	p.logger.Info("Stopping history pool...")
	p.wg.Wait()
	if p.cancel != nil {
		p.cancel()
	}
	p.logger.Info("History pool stopped")
}

// Record queues an entry. It never blocks: a full or stopped queue drops the
// entry and returns false.
func (p *Pool) Record(entry models.HistoryEntry) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		entriesShed.Inc()
		return false
	}

	select {
	case p.jobQueue <- entry:
		entriesQueued.Inc()
		return true
	default:
		p.logger.Warnw("History queue full, dropping outcome", "cycle", entry.CycleID)
		entriesShed.Inc()
		return false
	}
}

// QueueDepth returns current queue size
func (p *Pool) QueueDepth() int {
	return len(p.jobQueue)
}

// worker processes entries from the queue in batches
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	batch := make([]models.HistoryEntry, 0, p.config.BatchSize)
	ticker := time.NewTicker(p.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		start := time.Now()
		if err := p.processBatch(batch); err != nil {
			p.logger.Errorw("History batch insert failed",
				"worker", id,
				"batchSize", len(batch),
				"error", err,
			)
			entriesFailed.Add(float64(len(batch)))
		} else {
			p.logger.Debugw("History batch written", "worker", id, "batchSize", len(batch), "duration", time.Since(start))
			entriesWritten.Add(float64(len(batch)))
		}
		batchInsertDuration.Observe(time.Since(start).Seconds())

		batch = batch[:0]
	}

	for {
		select {
		case entry, ok := <-p.jobQueue:
			if !ok {
				flush()
				return
			}
			batch = append(batch, entry)
			if len(batch) >= p.config.BatchSize {
				flush()
			}

		case <-ticker.C:
			flush()
		}
	}
}

func (p *Pool) processBatch(batch []models.HistoryEntry) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	out := make([]models.HistoryEntry, len(batch))
	copy(out, batch)
	return p.config.Store.InsertBatch(ctx, out)
}

func (p *Pool) reportQueueDepth() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			queueDepth.Set(float64(len(p.jobQueue)))
		case <-p.ctx.Done():
			return
		}
	}
}
