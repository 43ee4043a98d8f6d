package gauge

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pitchside/injury-dashboard/internal/models"
)

// DefaultTickInterval is the cadence of the count-up animation
const DefaultTickInterval = 20 * time.Millisecond

// FrameFunc receives every rendered frame. Called from the animation
// goroutine, never concurrently with itself.
type FrameFunc func(frame models.GaugeFrame)

// AnimatorConfig configures an Animator
type AnimatorConfig struct {
	Interval time.Duration
	Radius   float64
	OnFrame  FrameFunc
	Logger   *zap.Logger
}

// Animator drives Tick on a timer. The loop checks the fixed point before
// scheduling the next tick and exits once Displayed reaches Target.
type Animator struct {
	config AnimatorConfig
	logger *zap.SugaredLogger

	mu      sync.Mutex
	state   State
	visible bool
	stop    chan struct{}
	done    chan struct{}
	stopped bool
}

// NewAnimator creates an idle animator
func NewAnimator(cfg AnimatorConfig) *Animator {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultTickInterval
	}
	if cfg.Radius <= 0 {
		cfg.Radius = RadiusFor(200, 12)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Animator{
		config: cfg,
		logger: cfg.Logger.Sugar(),
	}
}

// Start begins a new cycle for target. Any running loop is halted first and
// the displayed value restarts from zero.
func (a *Animator) Start(target float64) {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return
	}
	a.haltLocked()

	a.state = NewState(target)
	a.visible = true
	frame := Render(a.state, a.config.Radius)

	stop := make(chan struct{})
	done := make(chan struct{})
	a.stop, a.done = stop, done
	a.mu.Unlock()

	a.emit(frame)
	if frame.Done {
		close(done)
		return
	}
	go a.run(stop, done)
}

// Clear halts the loop and hides the gauge.
func (a *Animator) Clear() {
	a.mu.Lock()
	a.haltLocked()
	a.state = State{}
	a.visible = false
	a.mu.Unlock()
}

// Stop tears the animator down. No frames are emitted afterwards.
func (a *Animator) Stop() {
	a.mu.Lock()
	a.haltLocked()
	a.stopped = true
	a.mu.Unlock()
}

// Frame returns the current frame, or nil when no gauge is visible.
func (a *Animator) Frame() *models.GaugeFrame {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.visible {
		return nil
	}
	frame := Render(a.state, a.config.Radius)
	return &frame
}

func (a *Animator) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	timer := time.NewTimer(a.config.Interval)
	defer timer.Stop()

	for {
		select {
		case <-stop:
			return
		case <-timer.C:
		}

		a.mu.Lock()
		select {
		case <-stop:
			a.mu.Unlock()
			return
		default:
		}
		a.state = Tick(a.state)
		frame := Render(a.state, a.config.Radius)
		a.mu.Unlock()

		a.emit(frame)
		if frame.Done {
			a.logger.Debugw("Gauge settled", "target", frame.Target, "tier", frame.Tier)
			return
		}
		timer.Reset(a.config.Interval)
	}
}

// haltLocked stops the running loop and waits for it to exit. Caller holds mu,
// which is released while waiting so the loop can observe stop.
func (a *Animator) haltLocked() {
	for a.stop != nil {
		close(a.stop)
		done := a.done
		a.stop = nil
		a.mu.Unlock()
		<-done
		a.mu.Lock()
	}
}

func (a *Animator) emit(frame models.GaugeFrame) {
	if a.config.OnFrame != nil {
		a.config.OnFrame(frame)
	}
}
