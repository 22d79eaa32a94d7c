package effect

import (
	"math"
	"sync"
	"time"

	"github.com/fogleman/ease"
)

// FPS returns the time delta in seconds for a given number of frames per second. This value can be passed to
// Pulse.Update by hosts that redraw at a fixed rate.
//
// Example:
//
//	pulse.Update(FPS(60))
func FPS(n int) float64 {
	if n <= 0 {
		return 0
	}
	return (time.Second / time.Duration(n)).Seconds()
}

// Pulse is a flash that jumps to a peak on Trigger and eases back to zero over Duration seconds. It is shared between
// the beat callbacks that trigger it and the render loop that reads it.
type Pulse struct {
	// The easing function shaping the decay
	EasingFunc ease.Function

	// Decay time in seconds
	Duration float64

	// Animation speed multiplier
	Speed float64

	mu      sync.Mutex
	elapsed float64
	peak    float64
}

// NewPulse creates an idle Pulse that decays over duration seconds.
func NewPulse(easingFunc ease.Function, duration float64) *Pulse {
	return &Pulse{
		EasingFunc: easingFunc,
		Duration:   duration,
		Speed:      1.0,
	}
}

// Trigger restarts the decay from peak.
func (p *Pulse) Trigger(peak float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.peak = math.Max(0, math.Min(1, peak))
	p.elapsed = 0
}

// Update advances the pulse by deltaTime seconds and returns the new value.
func (p *Pulse) Update(deltaTime float64) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.elapsed += deltaTime * p.Speed
	return p.valueLocked()
}

// Value returns the current value without advancing.
func (p *Pulse) Value() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.valueLocked()
}

// Active reports whether the pulse has not decayed to zero yet.
func (p *Pulse) Active() bool {
	return p.Value() > 0
}

func (p *Pulse) valueLocked() float64 {
	if p.peak == 0 || p.Duration <= 0 || p.elapsed >= p.Duration {
		return 0
	}
	progress := p.EasingFunc(p.elapsed / p.Duration)
	// bound because some easing functions overshoot
	return math.Max(0, math.Min(p.peak, p.peak*(1-progress)))
}

// Swing maps a phase in beats to a pendulum position in [-1, 1]: it reaches one side on every even beat and the
// other on every odd one, easing through the middle.
func Swing(phase float64) float64 {
	_, frac := math.Modf(phase / 2)
	if frac < 0 {
		frac++
	}
	// triangle wave 0 -> 1 -> 0 over two beats
	tri := 1 - math.Abs(2*frac-1)
	return 2*ease.InOutSine(tri) - 1
}
