package rhythm

import (
	"github.com/robmorgan/metronome/logger"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

// Metronome ties the tempo model, the look-ahead scheduler and tap tempo together behind the operations a host
// binds to its controls.
type Metronome struct {
	tempo     *TempoState
	scheduler *Scheduler
	taps      *TapEstimator
	poly      Polyrhythm
}

// NewMetronome creates a stopped Metronome with default values
func NewMetronome(clk clock.WithDelayedExecution, audio AudioSink, visual VisualSink, opts Options) *Metronome {
	tempo := NewTempoState()
	return &Metronome{
		tempo:     tempo,
		scheduler: NewScheduler(clk, tempo, audio, visual, opts),
		taps:      NewTapEstimator(),
		poly:      NewPolyrhythm(DefaultPolyLeft, DefaultPolyRight),
	}
}

func (m *Metronome) Start() {
	m.scheduler.Start()
}

func (m *Metronome) Stop() {
	m.scheduler.Stop()
}

// Toggle starts a stopped metronome and stops a running one.
func (m *Metronome) Toggle() bool {
	if m.scheduler.Running() {
		m.Stop()
	} else {
		m.Start()
	}
	return m.scheduler.Running()
}

func (m *Metronome) IsRunning() bool {
	return m.scheduler.Running()
}

// Tick is called by the host driver; see Scheduler.Tick.
func (m *Metronome) Tick() []Event {
	return m.scheduler.Tick()
}

// Now reads the scheduler clock in seconds.
func (m *Metronome) Now() float64 {
	return m.scheduler.Now()
}

func (m *Metronome) GetTempo() int {
	return m.tempo.BPM()
}

// SetTempo sets a new tempo for the Metronome and returns the clamped value. Events already handed to the sinks keep
// their time; the new tempo applies from the next tick.
func (m *Metronome) SetTempo(bpm int) int {
	return m.tempo.SetTempo(bpm)
}

// AdjustTempo nudges the tempo by delta bpm.
func (m *Metronome) AdjustTempo(delta int) int {
	return m.SetTempo(m.tempo.BPM() + delta)
}

// GetBeatInterval returns the number of milliseconds a beat lasts.
func (m *Metronome) GetBeatInterval() float64 {
	return beatsToMilliseconds(1, m.tempo.BPM())
}

func (m *Metronome) SetTimeSignature(beats int) {
	m.tempo.SetTimeSignature(beats)
}

func (m *Metronome) SetSignature(ts TimeSignature) {
	m.tempo.SetSignature(ts)
}

func (m *Metronome) GetSignature() TimeSignature {
	return m.tempo.Signature()
}

func (m *Metronome) SetAccentMode(mode AccentMode) {
	m.tempo.SetAccentMode(mode)
}

func (m *Metronome) GetAccentMode() AccentMode {
	return m.tempo.AccentMode()
}

// ToggleAccent flips one beat of the accent pattern until the next mode or signature change.
func (m *Metronome) ToggleAccent(index int) bool {
	return m.tempo.ToggleAccent(index)
}

func (m *Metronome) SetSubdivision(s Subdivision) {
	m.tempo.SetSubdivision(s)
}

func (m *Metronome) GetSubdivision() Subdivision {
	return m.tempo.Subdivision()
}

func (m *Metronome) SetSound(s Sound) {
	m.tempo.SetSound(s)
}

func (m *Metronome) GetSound() Sound {
	return m.tempo.Sound()
}

func (m *Metronome) SetVolume(v float64) {
	m.tempo.SetVolume(v)
}

func (m *Metronome) GetVolume() float64 {
	return m.tempo.Volume()
}

// TapTempo feeds a tap at nowMs to the estimator and applies the estimate when it is in range.
func (m *Metronome) TapTempo(nowMs float64) (int, bool) {
	bpm, ok := m.taps.Tap(nowMs)
	if !ok {
		return 0, false
	}

	logger.GetProjectLogger().WithFields(logrus.Fields{"bpm": bpm}).Debug("Tap tempo")
	return m.SetTempo(bpm), true
}

// Tap is TapTempo at the current clock reading.
func (m *Metronome) Tap() (int, bool) {
	return m.TapTempo(m.Now() * 1000)
}

// ExpireTaps drops a stale tap history; hosts call it from their driver loop.
func (m *Metronome) ExpireTaps() {
	m.taps.Expire(m.Now() * 1000)
}

// ComputePolyrhythm recomputes the polyrhythm cycle and keeps it for GetPolyrhythm.
func (m *Metronome) ComputePolyrhythm(left, right int) Polyrhythm {
	m.poly = NewPolyrhythm(left, right)
	return m.poly
}

func (m *Metronome) GetPolyrhythm() Polyrhythm {
	return m.poly
}

// GetPreset serializes the tempo state for an external store.
func (m *Metronome) GetPreset() Preset {
	return m.tempo.Preset()
}

func (m *Metronome) ApplyPreset(p Preset) {
	m.tempo.ApplyPreset(p)
	logger.GetProjectLogger().WithFields(logrus.Fields{"bpm": m.tempo.BPM(), "timesig": m.tempo.Signature().String()}).
		Info("Preset applied")
}

// GetSnapshot captures the current state of the metronome.
func (m *Metronome) GetSnapshot() Snapshot {
	snap := &metronomeSnapshot{
		running:     m.scheduler.Running(),
		instant:     m.scheduler.Now(),
		tempo:       m.tempo.BPM(),
		subdivision: m.tempo.Subdivision(),
		beatsPerBar: m.tempo.BeatsPerMeasure(),
		accents:     m.tempo.AccentPattern(),
	}
	if ev, ok := m.scheduler.LastEvent(); ok {
		snap.started = true
		snap.position = ev.Beat
	}
	return snap
}
