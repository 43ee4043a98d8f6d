package logic

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pitchside/injury-dashboard/internal/gauge"
	"github.com/pitchside/injury-dashboard/internal/models"
)

// MaxToasts is how many undismissed toasts a dashboard keeps
const MaxToasts = 5

// EventType names a server-sent event
type EventType string

const (
	EventFrame EventType = "frame"
	EventToast EventType = "toast"
	EventState EventType = "state"
)

// Event is pushed to every subscriber of a dashboard
type Event struct {
	Type EventType
	Data interface{}
}

// DashboardConfig configures a Dashboard
type DashboardConfig struct {
	SessionID      string
	Predictor      Predictor
	Session        SessionContext
	History        HistoryRecorder
	PredictTimeout time.Duration
	TickInterval   time.Duration
	GaugeRadius    float64
	Logger         *zap.Logger
}

// Dashboard is the server-side state of one browser dashboard: the
// submission orchestrator, the risk gauge and the toast feed.
type Dashboard struct {
	orchestrator *Orchestrator
	animator     *gauge.Animator
	logger       *zap.SugaredLogger

	mu          sync.Mutex
	toasts      []models.Toast
	subscribers map[chan Event]struct{}
	closed      bool
}

func NewDashboard(cfg DashboardConfig) *Dashboard {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	d := &Dashboard{
		logger:      cfg.Logger.Sugar().With("session", cfg.SessionID),
		subscribers: make(map[chan Event]struct{}),
	}
	d.animator = gauge.NewAnimator(gauge.AnimatorConfig{
		Interval: cfg.TickInterval,
		Radius:   cfg.GaugeRadius,
		OnFrame:  d.onFrame,
		Logger:   cfg.Logger,
	})
	d.orchestrator = NewOrchestrator(OrchestratorConfig{
		SessionID:    cfg.SessionID,
		Predictor:    cfg.Predictor,
		Session:      cfg.Session,
		Notifier:     d,
		History:      cfg.History,
		OnTransition: d.onTransition,
		Timeout:      cfg.PredictTimeout,
		Logger:       cfg.Logger,
	})
	return d
}

// Submit forwards to the orchestrator
func (d *Dashboard) Submit(ctx context.Context, record models.PlayerRecord) (models.PredictionOutcome, error) {
	return d.orchestrator.Submit(ctx, record)
}

// Reset returns the result panel to its placeholder
func (d *Dashboard) Reset() bool {
	return d.orchestrator.Reset()
}

// Outcome returns the live outcome
func (d *Dashboard) Outcome() models.PredictionOutcome {
	return d.orchestrator.Outcome()
}

// Notify implements Notifier
func (d *Dashboard) Notify(toast models.Toast) {
	d.mu.Lock()
	d.toasts = append(d.toasts, toast)
	if len(d.toasts) > MaxToasts {
		d.toasts = d.toasts[len(d.toasts)-MaxToasts:]
	}
	d.mu.Unlock()

	d.broadcast(Event{Type: EventToast, Data: toast})
}

// DismissToast removes a toast and reports whether it existed
func (d *Dashboard) DismissToast(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, t := range d.toasts {
		if t.ID == id {
			d.toasts = append(d.toasts[:i], d.toasts[i+1:]...)
			return true
		}
	}
	return false
}

// View builds the full render state
func (d *Dashboard) View() models.DashboardState {
	outcome := d.orchestrator.Outcome()
	state := models.DashboardState{
		Loading: outcome.Kind == models.OutcomePending,
		Outcome: outcome,
	}

	if outcome.Kind == models.OutcomeSuccess {
		state.ShowResult = true
		state.Gauge = d.animator.Frame()
		state.BackgroundClass = gauge.Classify(outcome.Probability).BackgroundClass()
	}

	d.mu.Lock()
	state.Toasts = make([]models.Toast, len(d.toasts))
	copy(state.Toasts, d.toasts)
	d.mu.Unlock()

	return state
}

// Subscribe registers a listener for frames, toasts and state changes. The
// returned func must be called to unsubscribe. Slow subscribers miss events
// rather than stall the animation. The channel is closed when the dashboard
// is closed.
func (d *Dashboard) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 64)
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	d.subscribers[ch] = struct{}{}
	d.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.subscribers, ch)
			d.mu.Unlock()
		})
	}
}

// Close stops the animation, discards any in-flight response and closes
// every subscriber channel.
func (d *Dashboard) Close() {
	d.orchestrator.Close()
	d.animator.Stop()

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for ch := range d.subscribers {
			close(ch)
			delete(d.subscribers, ch)
		}
	}
	d.mu.Unlock()
	d.logger.Debugw("Dashboard closed")
}

func (d *Dashboard) onTransition(outcome models.PredictionOutcome) {
	switch outcome.Kind {
	case models.OutcomeSuccess:
		d.animator.Start(outcome.Probability)
	default:
		d.animator.Clear()
	}
	d.broadcast(Event{Type: EventState, Data: d.View()})
}

func (d *Dashboard) onFrame(frame models.GaugeFrame) {
	d.broadcast(Event{Type: EventFrame, Data: frame})
}

func (d *Dashboard) broadcast(ev Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	for ch := range d.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}
