package main

import (
	"math"
	"sync"

	"github.com/fogleman/ease"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/robmorgan/metronome/effect"
	"github.com/robmorgan/metronome/sink"
)

var (
	defaultAccentColor = colorful.Color{R: 1}
	defaultBeatColor   = colorful.Color{B: 1}
	dimColor           = colorful.Color{R: 0.22, G: 0.22, B: 0.25}
)

// beatLight is the on-screen counterpart of the DMX flash. The scheduler calls OnBeat from a timer goroutine when a
// beat sounds; the view reads it on every frame.
type beatLight struct {
	pulse       *effect.Pulse
	accentColor colorful.Color
	beatColor   colorful.Color

	mu     sync.Mutex
	seen   bool
	beat   float64
	accent bool
	at     float64
}

func newBeatLight(accentHex, hex string) *beatLight {
	return &beatLight{
		pulse:       effect.NewPulse(ease.OutQuad, 0.18),
		accentColor: sink.ParseColor(accentHex, defaultAccentColor),
		beatColor:   sink.ParseColor(hex, defaultBeatColor),
	}
}

func (b *beatLight) OnBeat(beat float64, accent bool, at float64) error {
	b.mu.Lock()
	b.seen, b.beat, b.accent, b.at = true, beat, accent, at
	b.mu.Unlock()

	peak := 0.7
	if accent {
		peak = 1
	}
	b.pulse.Trigger(peak)
	return nil
}

// last returns the most recent beat that has sounded.
func (b *beatLight) last() (beat float64, accent bool, at float64, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.beat, b.accent, b.at, b.seen
}

func (b *beatLight) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seen = false
}

// beatInBar is the zero based index of the last beat within a bar of n beats.
func (b *beatLight) beatInBar(n int) (int, bool) {
	beat, _, _, ok := b.last()
	if !ok || n < 1 {
		return 0, false
	}
	idx := int(math.Floor(beat)) % n
	return idx, true
}

// color is the flash color blended towards the dim background as the pulse decays.
func (b *beatLight) color() colorful.Color {
	_, accent, _, _ := b.last()
	c := b.beatColor
	if accent {
		c = b.accentColor
	}
	return dimColor.BlendLab(c, b.pulse.Value()).Clamped()
}
