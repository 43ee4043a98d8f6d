// Package gauge turns a settled injury probability into the animated
// circular gauge shown on the dashboard.
package gauge

import (
	"math"

	"github.com/pitchside/injury-dashboard/internal/models"
)

// Tier boundaries. Both are inclusive for Medium.
const (
	MediumThreshold = 50.0
	HighThreshold   = 80.0
)

// State is the animation state of one prediction cycle. Displayed never
// decreases and never passes Target.
type State struct {
	Displayed float64
	Target    float64
}

// NewState starts a cycle at zero.
func NewState(target float64) State {
	return State{Target: clampTarget(target)}
}

// Tick advances Displayed by at most one unit. At the fixed point the state
// is returned unchanged.
func Tick(s State) State {
	if s.Displayed >= s.Target {
		return s
	}
	s.Displayed = math.Min(s.Displayed+1, s.Target)
	return s
}

// Done reports whether the fixed point has been reached.
func (s State) Done() bool {
	return s.Displayed >= s.Target
}

// Classify maps a probability to its tier: <50 Low, 50..80 Medium, >80 High.
func Classify(value float64) models.RiskTier {
	switch {
	case value < MediumThreshold:
		return models.RiskLow
	case value <= HighThreshold:
		return models.RiskMedium
	default:
		return models.RiskHigh
	}
}

// Circumference of a gauge circle with the given radius.
func Circumference(radius float64) float64 {
	return 2 * math.Pi * radius
}

// StrokeOffset is the dash offset that leaves displayed percent of the
// circle drawn.
func StrokeOffset(displayed, radius float64) float64 {
	c := Circumference(radius)
	return c - (displayed/100)*c
}

// RadiusFor derives the circle radius from the rendered size and stroke width.
func RadiusFor(size, strokeWidth float64) float64 {
	return (size - strokeWidth) / 2
}

// Render builds the frame for s. Color and label come from the target so the
// tier is right even while the numeral is still counting up.
func Render(s State, radius float64) models.GaugeFrame {
	tier := Classify(s.Target)
	return models.GaugeFrame{
		Displayed:     s.Displayed,
		Target:        s.Target,
		Tier:          tier,
		Label:         tier.Label(),
		Color:         tier.Color(),
		TextClass:     tier.TextClass(),
		Radius:        radius,
		Circumference: Circumference(radius),
		StrokeOffset:  StrokeOffset(s.Displayed, radius),
		Done:          s.Done(),
	}
}

func clampTarget(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
