package logic

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/pitchside/injury-dashboard/internal/gauge"
	"github.com/pitchside/injury-dashboard/internal/models"
	"github.com/pitchside/injury-dashboard/internal/predictor"
)

var (
	ErrSubmitInFlight  = errors.New("a prediction is already in flight")
	ErrDashboardClosed = errors.New("dashboard closed")
)

// DefaultPredictTimeout bounds a single outbound prediction call
const DefaultPredictTimeout = 15 * time.Second

var (
	submissionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "injury_dashboard_submissions_total",
		Help: "Total number of accepted prediction submissions",
	})

	submissionsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "injury_dashboard_submissions_rejected_total",
		Help: "Submissions rejected because a prediction was already in flight",
	})

	outcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "injury_dashboard_outcomes_total",
		Help: "Settled prediction outcomes by result",
	}, []string{"result"})

	outcomesDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "injury_dashboard_outcomes_discarded_total",
		Help: "Responses that arrived after the dashboard was torn down",
	})
)

// TransitionFunc observes every state change. Called outside the state lock
// but in order; it must not call back into Submit or Reset.
type TransitionFunc func(outcome models.PredictionOutcome)

// OrchestratorConfig configures an Orchestrator
type OrchestratorConfig struct {
	SessionID    string
	Predictor    Predictor
	Session      SessionContext
	Notifier     Notifier
	History      HistoryRecorder
	OnTransition TransitionFunc
	Timeout      time.Duration
	Logger       *zap.Logger
}

// Orchestrator drives one dashboard's submission lifecycle:
// Idle -> Pending -> Success|Failure, with at most one request in flight.
type Orchestrator struct {
	config OrchestratorConfig
	logger *zap.SugaredLogger

	ctx    context.Context
	cancel context.CancelFunc

	// publishMu is taken before mu and held while observers run, so every
	// state change reaches them in the order it was made.
	publishMu sync.Mutex

	mu      sync.Mutex
	outcome models.PredictionOutcome
	closed  bool
}

func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultPredictTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		config:  cfg,
		logger:  cfg.Logger.Sugar().With("session", cfg.SessionID),
		ctx:     ctx,
		cancel:  cancel,
		outcome: models.IdleOutcome(),
	}
}

// Outcome returns the live outcome
func (o *Orchestrator) Outcome() models.PredictionOutcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.outcome
}

// Submit runs one submission cycle and blocks until it settles. While a cycle
// is Pending further calls return ErrSubmitInFlight without touching state.
// Validation, service and transport failures are all reported as a Failure
// outcome with a nil error.
func (o *Orchestrator) Submit(ctx context.Context, record models.PlayerRecord) (models.PredictionOutcome, error) {
	o.publishMu.Lock()
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		o.publishMu.Unlock()
		return models.PredictionOutcome{}, ErrDashboardClosed
	}
	if o.outcome.Kind == models.OutcomePending {
		inFlight := o.outcome.CycleID
		o.mu.Unlock()
		o.publishMu.Unlock()
		submissionsRejected.Inc()
		o.logger.Infow("Submit rejected, prediction in flight", "cycle", inFlight)
		return models.PredictionOutcome{}, ErrSubmitInFlight
	}
	cycleID := uuid.New().String()
	pending := models.PendingOutcome(cycleID, record.DisplayName())
	o.outcome = pending
	o.mu.Unlock()

	submissionsTotal.Inc()
	o.transition(pending)
	o.publishMu.Unlock()

	req, err := NormalizeRecord(record)
	if err != nil {
		o.logger.Infow("Rejected player record before prediction", "cycle", cycleID, "error", err)
		return o.settle(cycleID, record, nil, 0, err)
	}

	var token string
	if o.config.Session != nil {
		if token, err = o.config.Session.BearerToken(ctx); err != nil {
			o.logger.Warnw("Failed to read session token, sending without it", "cycle", cycleID, "error", err)
			token = ""
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()
	stop := context.AfterFunc(o.ctx, cancel)
	defer stop()

	start := time.Now()
	probability, err := o.config.Predictor.Predict(callCtx, token, req)
	o.logger.Infow("Prediction call finished", "cycle", cycleID, "duration", time.Since(start), "error", err)

	return o.settle(cycleID, record, &req, probability, err)
}

// Reset clears a settled or idle outcome back to Idle. It is a no-op while a
// request is in flight and reports whether the reset happened.
func (o *Orchestrator) Reset() bool {
	o.publishMu.Lock()
	defer o.publishMu.Unlock()

	o.mu.Lock()
	if o.closed || o.outcome.Kind == models.OutcomePending {
		o.mu.Unlock()
		return false
	}
	o.outcome = models.IdleOutcome()
	o.mu.Unlock()

	o.transition(models.IdleOutcome())
	return true
}

// Close tears the orchestrator down. An in-flight call is cancelled and its
// result discarded.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()
	o.cancel()
}

func (o *Orchestrator) settle(cycleID string, record models.PlayerRecord, req *models.PredictionRequest, probability float64, err error) (models.PredictionOutcome, error) {
	var outcome models.PredictionOutcome
	result := "success"
	if err != nil {
		result = string(predictor.KindOf(err))
		outcome = models.FailureOutcome(cycleID, record.DisplayName(), predictor.UserMessage(err, predictor.DefaultPredictMessage))
	} else {
		outcome = models.SuccessOutcome(cycleID, record.DisplayName(), probability)
	}

	o.publishMu.Lock()
	defer o.publishMu.Unlock()

	o.mu.Lock()
	if o.closed || o.outcome.CycleID != cycleID {
		o.mu.Unlock()
		outcomesDiscarded.Inc()
		o.logger.Infow("Discarding prediction outcome for closed dashboard", "cycle", cycleID)
		return outcome, ErrDashboardClosed
	}
	o.outcome = outcome
	o.mu.Unlock()

	outcomesTotal.WithLabelValues(result).Inc()
	o.transition(outcome)
	o.notify(outcome)
	o.record(outcome, req)

	return outcome, nil
}

func (o *Orchestrator) transition(outcome models.PredictionOutcome) {
	if o.config.OnTransition != nil {
		o.config.OnTransition(outcome)
	}
}

func (o *Orchestrator) notify(outcome models.PredictionOutcome) {
	if o.config.Notifier == nil {
		return
	}
	toast := models.Toast{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
	}
	if outcome.Kind == models.OutcomeSuccess {
		toast.Title = "Prediction Complete"
		toast.Description = fmt.Sprintf("Injury probability calculated for %s.", outcome.PlayerName)
		toast.Variant = models.ToastDefault
	} else {
		toast.Title = "Prediction failed"
		toast.Description = outcome.Message
		toast.Variant = models.ToastDestructive
	}
	o.config.Notifier.Notify(toast)
}

func (o *Orchestrator) record(outcome models.PredictionOutcome, req *models.PredictionRequest) {
	if o.config.History == nil {
		return
	}
	entry := models.HistoryEntry{
		CycleID:     outcome.CycleID,
		SessionID:   o.config.SessionID,
		PlayerName:  outcome.PlayerName,
		Request:     req,
		Kind:        outcome.Kind,
		Probability: outcome.Probability,
		Message:     outcome.Message,
		SettledAt:   outcome.SettledAt,
	}
	if outcome.Kind == models.OutcomeSuccess {
		entry.Tier = gauge.Classify(outcome.Probability)
	}
	if !o.config.History.Record(entry) {
		o.logger.Warnw("History recorder full, outcome not persisted", "cycle", outcome.CycleID)
	}
}
