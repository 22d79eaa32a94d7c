package sink

import (
	"errors"

	"github.com/robmorgan/metronome/rhythm"
)

// MultiAudio hands every transient to each sink in turn. A failing sink does not stop the others.
type MultiAudio []rhythm.AudioSink

func (m MultiAudio) RenderTransient(t rhythm.Transient, at float64) error {
	var errs []error
	for _, s := range m {
		if err := s.RenderTransient(t, at); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// MultiVisual is MultiAudio for visual sinks.
type MultiVisual []rhythm.VisualSink

func (m MultiVisual) OnBeat(beat float64, accent bool, at float64) error {
	var errs []error
	for _, s := range m {
		if err := s.OnBeat(beat, accent, at); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
