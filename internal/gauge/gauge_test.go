package gauge

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pitchside/injury-dashboard/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  models.RiskTier
	}{
		{"zero", 0, models.RiskLow},
		{"just below medium", 49, models.RiskLow},
		{"fractional below medium", 49.9, models.RiskLow},
		{"medium lower bound", 50, models.RiskMedium},
		{"mid medium", 65.5, models.RiskMedium},
		{"medium upper bound", 80, models.RiskMedium},
		{"just above medium", 80.1, models.RiskHigh},
		{"high", 81, models.RiskHigh},
		{"max", 100, models.RiskHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.value))
		})
	}
}

func TestClassify_Ranges(t *testing.T) {
	for p := 0.0; p < 50; p += 0.5 {
		assert.Equal(t, models.RiskLow, Classify(p), "p=%v", p)
	}
	for p := 50.0; p <= 80; p += 0.5 {
		assert.Equal(t, models.RiskMedium, Classify(p), "p=%v", p)
	}
	for p := 80.5; p <= 100; p += 0.5 {
		assert.Equal(t, models.RiskHigh, Classify(p), "p=%v", p)
	}
}

func TestTick_ReachesTargetInExactlyTargetTicks(t *testing.T) {
	for _, target := range []float64{0, 1, 35, 50, 80, 100} {
		s := NewState(target)
		ticks := 0
		prev := s.Displayed
		for !s.Done() {
			s = Tick(s)
			ticks++
			assert.GreaterOrEqual(t, s.Displayed, prev)
			assert.LessOrEqual(t, s.Displayed-prev, 1.0)
			prev = s.Displayed
		}
		assert.Equal(t, int(target), ticks, "target=%v", target)
		assert.Equal(t, target, s.Displayed)
	}
}

func TestTick_FractionalTarget(t *testing.T) {
	s := NewState(35.4)
	for i := 0; i < 35; i++ {
		s = Tick(s)
	}
	assert.Equal(t, 35.0, s.Displayed)
	assert.False(t, s.Done())

	s = Tick(s)
	assert.Equal(t, 35.4, s.Displayed)
	assert.True(t, s.Done())
}

func TestTick_FixedPointIsStable(t *testing.T) {
	s := State{Displayed: 42, Target: 42}
	for i := 0; i < 10; i++ {
		next := Tick(s)
		assert.Equal(t, s, next)
		s = next
	}
}

func TestStrokeOffset(t *testing.T) {
	for _, r := range []float64{1, 50, 94, 250.5} {
		c := 2 * math.Pi * r
		assert.InDelta(t, c, StrokeOffset(0, r), 1e-9)
		assert.InDelta(t, 0, StrokeOffset(100, r), 1e-9)
		assert.InDelta(t, c/2, StrokeOffset(50, r), 1e-9)
	}
}

func TestRender_UsesTargetForTier(t *testing.T) {
	frame := Render(State{Displayed: 10, Target: 90}, RadiusFor(200, 12))

	assert.Equal(t, models.RiskHigh, frame.Tier)
	assert.Equal(t, "High Risk", frame.Label)
	assert.Equal(t, "hsl(0, 72%, 51%)", frame.Color)
	assert.Equal(t, 10.0, frame.Displayed)
	assert.Equal(t, 94.0, frame.Radius)
	assert.False(t, frame.Done)
}

func TestNewState_ClampsTarget(t *testing.T) {
	assert.Equal(t, 0.0, NewState(-3).Target)
	assert.Equal(t, 100.0, NewState(140).Target)
	assert.Equal(t, 0.0, NewState(math.NaN()).Target)
}
