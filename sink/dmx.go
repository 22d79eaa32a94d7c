package sink

import (
	"context"
	"sync"
	"time"

	"github.com/fogleman/ease"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"github.com/robmorgan/metronome/effect"
	"github.com/robmorgan/metronome/logger"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

// ChannelsPerUniverse is the size of a DMX512 universe.
const ChannelsPerUniverse = 512

// DMXState holds the DMX512 values for each channel
type DMXState struct {
	universes map[int][]byte
	lock      sync.Mutex
}

type dmxOperation struct {
	universe, channel, value int
}

func NewDMXState() *DMXState {
	return &DMXState{universes: make(map[int][]byte)}
}

// GetValue returns the value of a 1-based channel.
func (s *DMXState) GetValue(universe, channel int) int {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.universes[universe] == nil || channel < 1 || channel > ChannelsPerUniverse {
		return 0
	}
	return int(s.universes[universe][channel-1])
}

func (s *DMXState) set(ops ...dmxOperation) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	for _, op := range ops {
		if op.channel < 1 || op.channel > ChannelsPerUniverse {
			return errors.Errorf("dmx channel (%d) not in range, op=%v", op.channel, op)
		}

		s.initializeUniverse(op.universe)
		s.universes[op.universe][op.channel-1] = byte(op.value)
	}

	return nil
}

func (s *DMXState) initializeUniverse(universe int) {
	if s.universes[universe] == nil {
		s.universes[universe] = make([]byte, ChannelsPerUniverse)
	}
}

// frames copies every universe so they can be sent without holding the lock.
func (s *DMXState) frames() map[int][]byte {
	s.lock.Lock()
	defer s.lock.Unlock()
	out := make(map[int][]byte, len(s.universes))
	for k, v := range s.universes {
		out[k] = append([]byte(nil), v...)
	}
	return out
}

// OLAClient is the interface for communicating with OLA
type OLAClient interface {
	SendDmx(universe int, values []byte) (status bool, err error)
	Close()
}

// DMXConfig addresses a single RGB fixture that flashes on every beat.
type DMXConfig struct {
	Universe    int
	Channel     int // first of three consecutive channels: red, green, blue
	AccentColor colorful.Color
	Color       colorful.Color
	Decay       time.Duration
}

// DMXSink flashes a light on every beat. OnBeat only triggers the flash; SendDMXWorker renders the decay and
// streams frames to OLA.
type DMXSink struct {
	cfg   DMXConfig
	state *DMXState
	pulse *effect.Pulse

	mu    sync.Mutex
	color colorful.Color
}

// ParseColor parses a hex color, falling back when the value is empty or malformed.
func ParseColor(hex string, fallback colorful.Color) colorful.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return fallback
	}
	return c
}

func NewDMXSink(cfg DMXConfig) *DMXSink {
	if cfg.Universe < 1 {
		cfg.Universe = 1
	}
	if cfg.Channel < 1 || cfg.Channel > ChannelsPerUniverse-2 {
		cfg.Channel = 1
	}
	if cfg.Decay <= 0 {
		cfg.Decay = 150 * time.Millisecond
	}
	return &DMXSink{
		cfg:   cfg,
		state: NewDMXState(),
		pulse: effect.NewPulse(ease.OutCubic, cfg.Decay.Seconds()),
		color: cfg.Color,
	}
}

func (d *DMXSink) OnBeat(beat float64, accent bool, at float64) error {
	d.mu.Lock()
	d.color = d.cfg.Color
	if accent {
		d.color = d.cfg.AccentColor
	}
	d.mu.Unlock()

	d.pulse.Trigger(1)
	return nil
}

// State exposes the rendered channel values.
func (d *DMXSink) State() *DMXState {
	return d.state
}

// render advances the flash by delta seconds and writes the fixture's channels.
func (d *DMXSink) render(delta float64) error {
	level := d.pulse.Update(delta)

	d.mu.Lock()
	c := colorful.Color{R: d.color.R * level, G: d.color.G * level, B: d.color.B * level}
	d.mu.Unlock()

	r, g, b := c.RGB255()
	return d.state.set(
		dmxOperation{d.cfg.Universe, d.cfg.Channel, int(r)},
		dmxOperation{d.cfg.Universe, d.cfg.Channel + 1, int(g)},
		dmxOperation{d.cfg.Universe, d.cfg.Channel + 2, int(b)},
	)
}

// SendDMXWorker renders the sink and sends OLA the current state across all universes every tick until ctx is done.
func SendDMXWorker(ctx context.Context, clk clock.Clock, client OLAClient, tick time.Duration, sink *DMXSink, wg *sync.WaitGroup) error {
	defer wg.Done()
	defer client.Close()

	log := logger.GetProjectLogger().WithFields(logrus.Fields{"sink": "dmx", "universe": sink.cfg.Universe})
	t := clk.NewTimer(tick)
	defer t.Stop()
	log.Debug("DMX worker started")

	for {
		select {
		case <-ctx.Done():
			log.Debug("DMX worker shutdown")
			return ctx.Err()
		case <-t.C():
			if err := sink.render(tick.Seconds()); err != nil {
				return errors.Wrap(err, "rendering DMX frame")
			}
			for universe, values := range sink.state.frames() {
				if _, err := client.SendDmx(universe, values); err != nil {
					log.WithError(err).Warn("OLA send failed")
				}
			}
			t.Reset(tick)
		}
	}
}
