package rhythm

import (
	"math/rand"
	"strings"
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Waveform is the oscillator shape of a click.
type Waveform int

const (
	Sine Waveform = iota
	Square
	Triangle
	Sawtooth
)

func (w Waveform) String() string {
	switch w {
	case Square:
		return "square"
	case Triangle:
		return "triangle"
	case Sawtooth:
		return "sawtooth"
	default:
		return "sine"
	}
}

// Transient is a single short click handed to an AudioSink.
type Transient struct {
	Accent      bool
	Frequency   float64
	Duration    time.Duration
	Waveform    Waveform
	Pan         float64 // -1 (left) to 1 (right)
	DetuneCents float64
	Volume      float64 // 0 to 1
}

// Sound names a click timbre.
type Sound string

const (
	SoundClassic Sound = "classic"
	SoundWood    Sound = "wood"
	SoundDigital Sound = "digital"
	SoundRimshot Sound = "rimshot"
	SoundClave   Sound = "clave"
	SoundHihat   Sound = "hihat"
	SoundShaker  Sound = "shaker"
	SoundStick   Sound = "stick"
	SoundTick    Sound = "tick"
	SoundSnap    Sound = "snap"
)

// Voice describes how a Sound is rendered for accented and normal beats.
type Voice struct {
	AccentFrequency float64
	Frequency       float64
	Duration        time.Duration
	Waveform        Waveform
}

const (
	unaccentedPan    = 0.12
	maxDetuneCents   = 3.0
	defaultVoiceName = SoundClassic
)

var voices = map[Sound]Voice{
	SoundClassic: {1200, 900, 45 * time.Millisecond, Square},
	SoundWood:    {550, 350, 60 * time.Millisecond, Triangle},
	SoundDigital: {1400, 950, 40 * time.Millisecond, Square},
	SoundRimshot: {420, 280, 35 * time.Millisecond, Sawtooth},
	SoundClave:   {800, 600, 70 * time.Millisecond, Triangle},
	SoundHihat:   {9000, 8000, 20 * time.Millisecond, Square},
	SoundShaker:  {6000, 5000, 50 * time.Millisecond, Triangle},
	SoundStick:   {1000, 700, 50 * time.Millisecond, Square},
	SoundTick:    {1800, 1300, 30 * time.Millisecond, Square},
	SoundSnap:    {2200, 1600, 45 * time.Millisecond, Square},
}

// ParseSound resolves a sound by name, falling back to classic.
func ParseSound(name string) Sound {
	s := Sound(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := voices[s]; ok {
		return s
	}
	return defaultVoiceName
}

// Sounds lists every available sound in alphabetical order.
func Sounds() []Sound {
	out := maps.Keys(voices)
	slices.Sort(out)
	return out
}

// Voice returns the voice for the sound.
func (s Sound) Voice() Voice {
	if v, ok := voices[s]; ok {
		return v
	}
	return voices[defaultVoiceName]
}

// Transient renders the voice for one beat. Unaccented clicks get a small random stereo offset and detune so long
// sessions don't sound mechanical; accents stay centred.
func (v Voice) Transient(accent bool, volume float64, rng *rand.Rand) Transient {
	t := Transient{
		Accent:    accent,
		Frequency: v.Frequency,
		Duration:  v.Duration,
		Waveform:  v.Waveform,
		Volume:    volume,
	}
	if accent {
		t.Frequency = v.AccentFrequency
		return t
	}

	t.Pan = unaccentedPan
	if rng.Float64() < 0.5 {
		t.Pan = -unaccentedPan
	}
	t.DetuneCents = rng.Float64()*2*maxDetuneCents - maxDetuneCents
	return t
}
