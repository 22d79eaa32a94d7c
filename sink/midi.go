package sink

import (
	"math"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/robmorgan/metronome/logger"
	"github.com/robmorgan/metronome/rhythm"
	"github.com/sirupsen/logrus"
	gomidi "gitlab.com/gomidi/midi/v2"
	"k8s.io/utils/clock"
)

// DefaultGate is how long a click note is held.
const DefaultGate = 30 * time.Millisecond

// MIDISender writes one message to an output port.
type MIDISender func(msg gomidi.Message) error

// OpenMIDIPort opens the first output port whose name contains name, or the first port at all when name is empty.
// A MIDI driver must be registered by the caller.
func OpenMIDIPort(name string) (MIDISender, string, error) {
	for _, port := range gomidi.GetOutPorts() {
		if name != "" && !strings.Contains(strings.ToLower(port.String()), strings.ToLower(name)) {
			continue
		}
		send, err := gomidi.SendTo(port)
		if err != nil {
			return nil, "", errors.Wrapf(err, "opening MIDI port %q", port.String())
		}
		return send, port.String(), nil
	}
	return nil, "", errors.Errorf("no MIDI output port matching %q", name)
}

// MIDIConfig picks the notes a MIDISink plays. Channel is zero based, so 9 is the General MIDI drum channel.
type MIDIConfig struct {
	Channel    uint8
	AccentNote uint8
	Note       uint8
	Gate       time.Duration
}

// MIDISink plays every transient as a note on a MIDI output, e.g. to drive a drum machine. Note-on and note-off are
// both queued on the clock when the transient is handed over.
type MIDISink struct {
	clock clock.WithDelayedExecution
	now   func() float64
	send  MIDISender
	cfg   MIDIConfig
}

func NewMIDISink(clk clock.WithDelayedExecution, now func() float64, send MIDISender, cfg MIDIConfig) *MIDISink {
	if cfg.Gate <= 0 {
		cfg.Gate = DefaultGate
	}
	return &MIDISink{
		clock: clk,
		now:   now,
		send:  send,
		cfg:   cfg,
	}
}

func (m *MIDISink) RenderTransient(t rhythm.Transient, at float64) error {
	velocity := uint8(math.Round(math.Max(0, math.Min(1, t.Volume)) * 127))
	if velocity == 0 {
		return nil
	}

	note := m.cfg.Note
	if t.Accent {
		note = m.cfg.AccentNote
	}

	delay := time.Duration((at - m.now()) * float64(time.Second))
	if delay < 0 {
		delay = 0
	}

	m.clock.AfterFunc(delay, func() {
		m.deliver(gomidi.NoteOn(m.cfg.Channel, note, velocity))
	})
	m.clock.AfterFunc(delay+m.cfg.Gate, func() {
		m.deliver(gomidi.NoteOff(m.cfg.Channel, note))
	})
	return nil
}

func (m *MIDISink) deliver(msg gomidi.Message) {
	if err := m.send(msg); err != nil {
		logger.GetProjectLogger().WithFields(logrus.Fields{"sink": "midi", "msg": msg.String()}).
			WithError(err).Warn("MIDI send failed")
	}
}
