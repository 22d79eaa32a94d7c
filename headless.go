package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gosuri/uilive"
	"github.com/pkg/errors"
	"github.com/robmorgan/metronome/practice"
	"github.com/robmorgan/metronome/rhythm"
	"k8s.io/utils/clock"
)

// runHeadless plays the metronome without a UI, driving the scheduler from a ticker and keeping a single live
// status line on out until ctx is done.
func runHeadless(ctx context.Context, clk clock.WithTicker, m *rhythm.Metronome, timer *practice.Timer, fps int, out io.Writer) error {
	if fps <= 0 {
		fps = 60
	}

	w := uilive.New()
	w.Out = out

	m.Start()
	timer.Start()
	defer m.Stop()

	ticker := clk.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	var shown string
	for {
		select {
		case <-ctx.Done():
			timer.Pause()
			fmt.Fprintln(w, statusLine(m.GetSnapshot(), timer))
			return errors.Wrap(w.Flush(), "writing status")
		case <-ticker.C():
			m.Tick()

			line := statusLine(m.GetSnapshot(), timer)
			if line == shown {
				continue
			}
			shown = line
			fmt.Fprintln(w, line)
			if err := w.Flush(); err != nil {
				return errors.Wrap(err, "writing status")
			}
		}
	}
}

func statusLine(snap rhythm.Snapshot, timer *practice.Timer) string {
	return fmt.Sprintf("%-7s %3d BPM  %d beats  %-9s  %s",
		snap.GetMarker(), snap.GetTempo(), snap.GetBeatsPerBar(), snap.GetSubdivision(), timer)
}
