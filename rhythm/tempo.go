package rhythm

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	MinTempo     = 40
	MaxTempo     = 500
	DefaultTempo = 120

	DefaultVolume = 0.7
)

// Subdivision is the note value that is clicked for each beat.
type Subdivision int

const (
	Quarter Subdivision = iota
	Eighth
	Triplet
	Sixteenth
)

var subdivisionNames = map[Subdivision]string{
	Quarter:   "quarter",
	Eighth:    "eighth",
	Triplet:   "triplet",
	Sixteenth: "sixteenth",
}

func (s Subdivision) String() string {
	if name, ok := subdivisionNames[s]; ok {
		return name
	}
	return subdivisionNames[Quarter]
}

// Step is the distance between two consecutive clicks.
func (s Subdivision) Step() Beat {
	switch s {
	case Eighth:
		return TicksPerBeat / 2
	case Triplet:
		return TicksPerBeat / 3
	case Sixteenth:
		return TicksPerBeat / 4
	default:
		return TicksPerBeat
	}
}

// Next cycles through the subdivisions in order of density.
func (s Subdivision) Next() Subdivision {
	return (s + 1) % (Sixteenth + 1)
}

// ParseSubdivision resolves a subdivision by name. Unknown names report false.
func ParseSubdivision(name string) (Subdivision, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range subdivisionNames {
		if n == name {
			return s, true
		}
	}
	return Quarter, false
}

// AccentMode decides which beats of a measure are emphasised when the accent pattern is regenerated.
type AccentMode int

const (
	AccentSingle AccentMode = iota
	AccentDouble
	AccentTriple
)

func (m AccentMode) String() string {
	switch m {
	case AccentDouble:
		return "double"
	case AccentTriple:
		return "triple"
	default:
		return "single"
	}
}

// Next cycles single -> double -> triple -> single.
func (m AccentMode) Next() AccentMode {
	return (m + 1) % (AccentTriple + 1)
}

// ParseAccentMode resolves an accent mode by name.
func ParseAccentMode(name string) (AccentMode, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "single":
		return AccentSingle, true
	case "double":
		return AccentDouble, true
	case "triple":
		return AccentTriple, true
	}
	return AccentSingle, false
}

// NewAccentPattern builds a fresh pattern of the given length for the mode.
func NewAccentPattern(beats int, mode AccentMode) []bool {
	if beats < 1 {
		beats = 1
	}
	pattern := make([]bool, beats)
	pattern[0] = true
	switch mode {
	case AccentDouble:
		pattern[beats/2] = true
	case AccentTriple:
		pattern[beats/3] = true
		pattern[2*beats/3] = true
	}
	return pattern
}

// TimeSignature is the number of beats per measure and the note value that gets one beat.
type TimeSignature struct {
	Beats     int
	NoteValue int
}

// DefaultTimeSignature is common time.
var DefaultTimeSignature = TimeSignature{Beats: 4, NoteValue: 4}

func (ts TimeSignature) String() string {
	return fmt.Sprintf("%d/%d", ts.Beats, ts.NoteValue)
}

// ParseTimeSignature parses signatures of the form "7/8".
func ParseTimeSignature(input string) (TimeSignature, error) {
	parts := strings.Split(strings.TrimSpace(input), "/")
	if len(parts) != 2 {
		return TimeSignature{}, fmt.Errorf("invalid time signature format: %q", input)
	}

	beats, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	noteValue, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return TimeSignature{}, fmt.Errorf("invalid number in time signature: %q", input)
	}
	if beats < 1 || noteValue < 1 {
		return TimeSignature{}, fmt.Errorf("time signature must be positive: %q", input)
	}

	return TimeSignature{Beats: beats, NoteValue: noteValue}, nil
}

// TempoState holds everything that shapes the click stream. Setters never fail: out of range input is clamped or
// replaced by a default.
type TempoState struct {
	bpm           int
	subdivision   Subdivision
	signature     TimeSignature
	accentMode    AccentMode
	accentPattern []bool
	sound         Sound
	volume        float64
}

// NewTempoState creates a TempoState at 120 bpm in 4/4 with quarter notes and a single accent.
func NewTempoState() *TempoState {
	t := &TempoState{
		bpm:         DefaultTempo,
		subdivision: Quarter,
		signature:   DefaultTimeSignature,
		accentMode:  AccentSingle,
		sound:       SoundClassic,
		volume:      DefaultVolume,
	}
	t.regenerateAccents()
	return t
}

// ClampTempo bounds a tempo to [MinTempo, MaxTempo].
func ClampTempo(bpm int) int {
	if bpm < MinTempo {
		return MinTempo
	}
	if bpm > MaxTempo {
		return MaxTempo
	}
	return bpm
}

// SetTempo clamps and stores the tempo, returning the value actually applied.
func (t *TempoState) SetTempo(bpm int) int {
	t.bpm = ClampTempo(bpm)
	return t.bpm
}

func (t *TempoState) BPM() int {
	return t.bpm
}

// SecondsPerBeat is the length of one quarter-note beat at the current tempo.
func (t *TempoState) SecondsPerBeat() float64 {
	return 60.0 / float64(t.bpm)
}

// SetTimeSignature changes the number of beats per measure and regenerates the accent pattern. Values below one are
// raised to one.
func (t *TempoState) SetTimeSignature(beats int) {
	if beats < 1 {
		beats = 1
	}
	t.signature.Beats = beats
	t.regenerateAccents()
}

// SetSignature applies a full time signature.
func (t *TempoState) SetSignature(ts TimeSignature) {
	if ts.NoteValue < 1 {
		ts.NoteValue = DefaultTimeSignature.NoteValue
	}
	t.signature.NoteValue = ts.NoteValue
	t.SetTimeSignature(ts.Beats)
}

func (t *TempoState) Signature() TimeSignature {
	return t.signature
}

func (t *TempoState) BeatsPerMeasure() int {
	return t.signature.Beats
}

// SetAccentMode changes the mode and regenerates the pattern, discarding manual toggles.
func (t *TempoState) SetAccentMode(mode AccentMode) {
	if mode < AccentSingle || mode > AccentTriple {
		mode = AccentSingle
	}
	t.accentMode = mode
	t.regenerateAccents()
}

func (t *TempoState) AccentMode() AccentMode {
	return t.accentMode
}

// ToggleAccent flips the accent of one beat of the measure and returns the new value. Indexes outside the measure
// are ignored.
func (t *TempoState) ToggleAccent(index int) bool {
	if index < 0 || index >= len(t.accentPattern) {
		return false
	}
	t.accentPattern[index] = !t.accentPattern[index]
	return t.accentPattern[index]
}

// SetAccentPattern replaces the pattern wholesale. Patterns whose length does not match the measure are rejected.
func (t *TempoState) SetAccentPattern(pattern []bool) bool {
	if len(pattern) != t.signature.Beats {
		return false
	}
	t.accentPattern = append([]bool(nil), pattern...)
	return true
}

// AccentPattern returns a copy of the current pattern.
func (t *TempoState) AccentPattern() []bool {
	return append([]bool(nil), t.accentPattern...)
}

// IsAccent reports whether the beat containing the position is accented.
func (t *TempoState) IsAccent(pos Beat) bool {
	n := int64(len(t.accentPattern))
	idx := pos.Whole() % n
	if idx < 0 {
		idx += n
	}
	return t.accentPattern[idx]
}

func (t *TempoState) SetSubdivision(s Subdivision) {
	if _, ok := subdivisionNames[s]; !ok {
		s = Quarter
	}
	t.subdivision = s
}

func (t *TempoState) Subdivision() Subdivision {
	return t.subdivision
}

func (t *TempoState) SetSound(s Sound) {
	t.sound = ParseSound(string(s))
}

func (t *TempoState) Sound() Sound {
	return t.sound
}

// SetVolume clamps the volume to [0, 1].
func (t *TempoState) SetVolume(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	t.volume = v
}

func (t *TempoState) Volume() float64 {
	return t.volume
}

func (t *TempoState) regenerateAccents() {
	t.accentPattern = NewAccentPattern(t.signature.Beats, t.accentMode)
}
