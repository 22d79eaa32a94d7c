package sink

import (
	"github.com/robmorgan/metronome/rhythm"
	"github.com/sirupsen/logrus"
)

// LogSink writes every click and beat to a logger. It is the only output of a headless run without audio.
type LogSink struct {
	log   *logrus.Entry
	level logrus.Level
}

func NewLogSink(log *logrus.Entry, level logrus.Level) *LogSink {
	return &LogSink{log: log.WithField("sink", "log"), level: level}
}

func (l *LogSink) RenderTransient(t rhythm.Transient, at float64) error {
	l.log.WithFields(logrus.Fields{
		"at":        at,
		"accent":    t.Accent,
		"frequency": t.Frequency,
		"pan":       t.Pan,
		"volume":    t.Volume,
	}).Log(l.level, "Click")
	return nil
}

func (l *LogSink) OnBeat(beat float64, accent bool, at float64) error {
	l.log.WithFields(logrus.Fields{"beat": beat, "accent": accent, "at": at}).Log(l.level, "Beat")
	return nil
}
