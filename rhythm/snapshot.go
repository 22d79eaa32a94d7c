package rhythm

import "fmt"

// Snapshot is an interface for probing details about the timeline established by a metronome.
type Snapshot interface {
	// IsRunning reports whether the metronome was playing when the snapshot was taken.
	IsRunning() bool

	// GetInstant gets the point in time, in scheduler seconds, with respect to which the snapshot is computed.
	GetInstant() float64

	// GetTempo gets the metronome's tempo.
	GetTempo() int

	// GetSubdivision gets the note value clicked per beat.
	GetSubdivision() Subdivision

	// GetBeatsPerBar gets the metronome's bar length in beats.
	GetBeatsPerBar() int

	// GetAccentPattern gets a copy of the accent pattern.
	GetAccentPattern() []bool

	// GetBeatInterval gets the metronome's beat length in milliseconds.
	GetBeatInterval() float64

	// GetBarInterval gets the metronome's bar length in milliseconds.
	GetBarInterval() float64

	// GetBeat gets the 1-based number of the last computed beat, or 0 before the first one.
	GetBeat() int64

	// GetBar gets the 1-based number of the bar containing the last computed beat.
	GetBar() int64

	// GetBeatWithinBar returns the 1-based beat number relative to the start of the bar.
	GetBeatWithinBar() int

	// IsDownBeat checks whether the last computed beat was the first beat in its bar.
	IsDownBeat() bool

	// GetMarker returns the position of the last computed beat as "bar.beat".
	GetMarker() string
}

type metronomeSnapshot struct {
	running     bool
	instant     float64
	tempo       int
	subdivision Subdivision
	beatsPerBar int
	accents     []bool
	started     bool
	position    Beat
}

func (s *metronomeSnapshot) IsRunning() bool {
	return s.running
}

func (s *metronomeSnapshot) GetInstant() float64 {
	return s.instant
}

func (s *metronomeSnapshot) GetTempo() int {
	return s.tempo
}

func (s *metronomeSnapshot) GetSubdivision() Subdivision {
	return s.subdivision
}

func (s *metronomeSnapshot) GetBeatsPerBar() int {
	return s.beatsPerBar
}

func (s *metronomeSnapshot) GetAccentPattern() []bool {
	return append([]bool(nil), s.accents...)
}

func (s *metronomeSnapshot) GetBeatInterval() float64 {
	return beatsToMilliseconds(1, s.tempo)
}

func (s *metronomeSnapshot) GetBarInterval() float64 {
	return beatsToMilliseconds(s.beatsPerBar, s.tempo)
}

func (s *metronomeSnapshot) GetBeat() int64 {
	if !s.started {
		return 0
	}
	return s.position.Whole() + 1
}

func (s *metronomeSnapshot) GetBar() int64 {
	if !s.started {
		return 0
	}
	return s.position.Whole()/int64(s.beatsPerBar) + 1
}

func (s *metronomeSnapshot) GetBeatWithinBar() int {
	if !s.started {
		return 0
	}
	return int(s.position.Whole()%int64(s.beatsPerBar)) + 1
}

func (s *metronomeSnapshot) IsDownBeat() bool {
	return s.GetBeatWithinBar() == 1
}

func (s *metronomeSnapshot) GetMarker() string {
	return fmt.Sprintf("%d.%d", s.GetBar(), s.GetBeatWithinBar())
}

// beatsToMilliseconds calculates milliseconds for given beats and tempo
func beatsToMilliseconds(beats int, tempo int) float64 {
	return (60000.0 / float64(tempo)) * float64(beats)
}
