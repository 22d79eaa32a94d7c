package sink

import (
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/pkg/errors"
	"github.com/robmorgan/metronome/rhythm"
)

const (
	attackTime = 5 * time.Millisecond

	// decayFloor is the level the envelope reaches at the end of the transient.
	decayFloor = 0.0008
)

// InitSpeaker opens the default audio device. The buffer bounds the output latency; the look-ahead window must be
// comfortably larger.
func InitSpeaker(sampleRate int, buffer time.Duration) (beep.SampleRate, error) {
	sr := beep.SampleRate(sampleRate)
	if err := speaker.Init(sr, sr.N(buffer)); err != nil {
		return sr, errors.Wrap(err, "initializing speaker")
	}
	return sr, nil
}

// SpeakerPlay hands a streamer to the speaker mixer.
func SpeakerPlay(s beep.Streamer) {
	speaker.Play(s)
}

// BeepSink synthesizes every transient and queues it on the speaker, padded with silence so it starts at its
// scheduled time.
type BeepSink struct {
	rate beep.SampleRate
	now  func() float64
	play func(beep.Streamer)

	mu      sync.Mutex
	enabled bool
}

// NewBeepSink creates an audio sink. now reads the scheduler clock in seconds; play is usually SpeakerPlay.
func NewBeepSink(rate beep.SampleRate, now func() float64, play func(beep.Streamer)) *BeepSink {
	return &BeepSink{
		rate:    rate,
		now:     now,
		play:    play,
		enabled: true,
	}
}

// SetEnabled mutes or unmutes the sink without touching the scheduler.
func (b *BeepSink) SetEnabled(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enabled = enabled
}

func (b *BeepSink) RenderTransient(t rhythm.Transient, at float64) error {
	b.mu.Lock()
	enabled := b.enabled
	b.mu.Unlock()
	if !enabled || t.Volume <= 0 {
		return nil
	}

	delay := at - b.now()
	if delay < 0 {
		delay = 0
	}
	pad := b.rate.N(time.Duration(delay * float64(time.Second)))
	b.play(beep.Seq(beep.Silence(pad), Synth(b.rate, t)))
	return nil
}

// Synth renders a transient: an oscillator shaped by a short linear attack and an exponential decay, panned with
// an equal-power law.
func Synth(rate beep.SampleRate, t rhythm.Transient) beep.Streamer {
	total := rate.N(t.Duration)
	attack := rate.N(attackTime)
	freq := t.Frequency * math.Pow(2, t.DetuneCents/1200)
	left, right := panGains(t.Pan)

	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		if pos >= total {
			return 0, false
		}
		for i := range samples {
			if pos >= total {
				return i, true
			}
			phase := freq * float64(pos) / float64(rate)
			v := oscillate(t.Waveform, phase) * envelope(pos, attack, total, t.Volume)
			samples[i][0] = v * left
			samples[i][1] = v * right
			pos++
		}
		return len(samples), true
	})
}

func oscillate(w rhythm.Waveform, phase float64) float64 {
	_, p := math.Modf(phase)
	switch w {
	case rhythm.Square:
		if p < 0.5 {
			return 1
		}
		return -1
	case rhythm.Triangle:
		return 4*math.Abs(p-0.5) - 1
	case rhythm.Sawtooth:
		return 2*p - 1
	default:
		return math.Sin(2 * math.Pi * p)
	}
}

// envelope is the gain at sample pos of a transient total samples long.
func envelope(pos, attack, total int, volume float64) float64 {
	if volume <= 0 || pos < 0 || pos >= total {
		return 0
	}
	if pos < attack {
		return volume * float64(pos) / float64(attack)
	}
	if volume <= decayFloor || total <= attack {
		return volume
	}
	progress := float64(pos-attack) / float64(total-attack)
	return volume * math.Pow(decayFloor/volume, progress)
}

// panGains maps pan in [-1, 1] to left and right gains with constant power.
func panGains(pan float64) (float64, float64) {
	pan = math.Max(-1, math.Min(1, pan))
	angle := (pan + 1) * math.Pi / 4
	return math.Cos(angle), math.Sin(angle)
}
