package main

import (
	"context"
	"sync"

	"github.com/nickysemenza/gola"
	"github.com/robmorgan/metronome/config"
	"github.com/robmorgan/metronome/logger"
	"github.com/robmorgan/metronome/sink"
	"github.com/sirupsen/logrus"
	gomidi "gitlab.com/gomidi/midi/v2"
	"k8s.io/utils/clock"
)

// outputs are the sinks enabled by the config. An output that fails to open is logged and left out so the
// metronome still runs with whatever is available.
type outputs struct {
	audio   sink.MultiAudio
	visual  sink.MultiVisual
	closers []func()
}

func (o *outputs) close() {
	for i := len(o.closers) - 1; i >= 0; i-- {
		o.closers[i]()
	}
}

func buildOutputs(ctx context.Context, wg *sync.WaitGroup, cfg config.Config, clk clock.WithDelayedExecution, now func() float64) *outputs {
	log := logger.GetProjectLogger()
	out := &outputs{}

	if cfg.Audio.Enabled {
		rate, err := sink.InitSpeaker(cfg.Audio.SampleRate, cfg.Audio.BufferSize)
		if err != nil {
			log.WithError(err).Warn("Audio output disabled")
		} else {
			out.audio = append(out.audio, sink.NewBeepSink(rate, now, sink.SpeakerPlay))
			log.WithFields(logrus.Fields{"sample_rate": cfg.Audio.SampleRate}).Info("Audio output ready")
		}
	}

	if cfg.MIDI.Port != "" {
		send, name, err := sink.OpenMIDIPort(cfg.MIDI.Port)
		if err != nil {
			log.WithError(err).Warn("MIDI output disabled")
		} else {
			out.audio = append(out.audio, sink.NewMIDISink(clk, now, send, sink.MIDIConfig{
				Channel:    cfg.MIDI.Channel,
				AccentNote: cfg.MIDI.AccentNote,
				Note:       cfg.MIDI.Note,
			}))
			out.closers = append(out.closers, gomidi.CloseDriver)
			log.WithFields(logrus.Fields{"port": name, "channel": cfg.MIDI.Channel}).Info("MIDI output ready")
		}
	}

	if cfg.OSC.Host != "" {
		out.visual = append(out.visual, sink.NewOSCSink(cfg.OSC.Host, cfg.OSC.Port, cfg.OSC.Address))
		log.WithFields(logrus.Fields{"host": cfg.OSC.Host, "port": cfg.OSC.Port}).Info("OSC output ready")
	}

	if cfg.DMX.OLAAddr != "" {
		client, err := gola.New(cfg.DMX.OLAAddr)
		if err != nil {
			log.WithError(err).Warn("could not connect to OLA, DMX output disabled")
		} else {
			dmx := sink.NewDMXSink(sink.DMXConfig{
				Universe:    cfg.DMX.Universe,
				Channel:     cfg.DMX.Channel,
				AccentColor: sink.ParseColor(cfg.DMX.AccentColor, defaultAccentColor),
				Color:       sink.ParseColor(cfg.DMX.Color, defaultBeatColor),
				Decay:       cfg.DMX.Decay,
			})
			out.visual = append(out.visual, dmx)

			wg.Add(1)
			go func() {
				if err := sink.SendDMXWorker(ctx, clk, client, cfg.DMX.Refresh, dmx, wg); err != nil && ctx.Err() == nil {
					log.WithError(err).Error("DMX worker stopped")
				}
			}()
			log.WithFields(logrus.Fields{"ola": cfg.DMX.OLAAddr, "universe": cfg.DMX.Universe}).Info("DMX output ready")
		}
	}

	return out
}
