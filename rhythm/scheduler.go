package rhythm

import (
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/robmorgan/metronome/logger"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

// Options tune the look-ahead scheduler.
type Options struct {
	// LookAhead is how far past "now" events are computed and handed to the audio sink.
	LookAhead time.Duration

	// StartOffset keeps the first click of a session out of the past.
	StartOffset time.Duration

	// CatchUpLimit is how late the cursor may fall behind the clock before it is re-anchored instead of replaying
	// the backlog, e.g. after the host stopped calling Tick for a while.
	CatchUpLimit time.Duration

	// Rand drives the pan and detune variation of unaccented clicks. Nil seeds one from the wall clock.
	Rand *rand.Rand
}

// DefaultOptions returns a 25ms look-ahead, a 100ms start offset and a one second catch-up limit.
func DefaultOptions() Options {
	return Options{
		LookAhead:    25 * time.Millisecond,
		StartOffset:  100 * time.Millisecond,
		CatchUpLimit: time.Second,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.LookAhead <= 0 {
		o.LookAhead = d.LookAhead
	}
	if o.StartOffset <= 0 {
		o.StartOffset = d.StartOffset
	}
	if o.CatchUpLimit <= 0 {
		o.CatchUpLimit = d.CatchUpLimit
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return o
}

// Event is one computed click.
type Event struct {
	// Time is the absolute time of the click in seconds on the scheduler clock.
	Time   float64
	Beat   Beat
	Accent bool
}

// BeatIndex is the fractional beat position of the event.
func (e Event) BeatIndex() float64 {
	return e.Beat.Float()
}

// Cursor is the scheduler's position in the click stream. Event times are derived from an anchor rather than summed
// step by step, so they don't drift no matter how long the session runs. The anchor moves whenever the tempo changes.
type Cursor struct {
	NextEventTime float64
	Position      Beat

	anchorTime     float64
	anchorPosition Beat
	anchorBPM      int
}

// NewCursor creates a cursor whose first event is at the given time and beat zero.
func NewCursor(at float64) Cursor {
	return Cursor{NextEventTime: at, anchorTime: at}
}

// Rebase moves the next event to a new time without touching the beat position.
func (c Cursor) Rebase(at float64) Cursor {
	c.NextEventTime = at
	c.anchorTime = at
	c.anchorPosition = c.Position
	return c
}

// Advance computes every event due before now+lookAhead and returns them with the moved cursor. It has no side
// effects: state is only read, and the receiver is left untouched.
func (c Cursor) Advance(now, lookAhead float64, state *TempoState) ([]Event, Cursor) {
	if c.anchorBPM != state.BPM() {
		c.anchorTime = c.NextEventTime
		c.anchorPosition = c.Position
		c.anchorBPM = state.BPM()
	}

	step := state.Subdivision().Step()
	var events []Event
	for c.NextEventTime < now+lookAhead {
		events = append(events, Event{
			Time:   c.NextEventTime,
			Beat:   c.Position,
			Accent: state.IsAccent(c.Position),
		})
		c.Position += step
		c.NextEventTime = c.timeOf(c.Position)
	}
	return events, c
}

func (c Cursor) timeOf(pos Beat) float64 {
	return c.anchorTime + float64(pos-c.anchorPosition)/TicksPerBeat*60/float64(c.anchorBPM)
}

// Scheduler turns the tempo state into a stream of absolutely timed clicks. A host calls Tick periodically (display
// refresh, a ticker, ...); jitter in that cadence doesn't matter as long as it stays under the look-ahead window.
//
// All methods except the deferred visual callbacks run on the caller's goroutine; Tick, Start and Stop must not be
// called concurrently.
type Scheduler struct {
	clock  clock.WithDelayedExecution
	origin time.Time
	tempo  *TempoState
	audio  AudioSink
	visual VisualSink
	opts   Options

	cursor  Cursor
	last    *Event
	running atomic.Bool
	session atomic.Uint64
}

// NewScheduler creates a stopped scheduler. Nil sinks are replaced by no-ops.
func NewScheduler(clk clock.WithDelayedExecution, tempo *TempoState, audio AudioSink, visual VisualSink, opts Options) *Scheduler {
	if audio == nil {
		audio = nopSink{}
	}
	if visual == nil {
		visual = nopSink{}
	}

	return &Scheduler{
		clock:  clk,
		origin: clk.Now(),
		tempo:  tempo,
		audio:  audio,
		visual: visual,
		opts:   opts.withDefaults(),
	}
}

// Now reads the clock in seconds since the scheduler was created.
func (s *Scheduler) Now() float64 {
	return s.clock.Since(s.origin).Seconds()
}

// Start begins a new session from beat zero. Calling it while running restarts the session.
func (s *Scheduler) Start() {
	now := s.Now()
	s.session.Add(1)
	s.cursor = NewCursor(now + s.opts.StartOffset.Seconds())
	s.last = nil
	s.running.Store(true)

	logger.GetProjectLogger().WithFields(logrus.Fields{"bpm": s.tempo.BPM(), "first_at": s.cursor.NextEventTime}).
		Info("Metronome started")
}

// Stop ends the session. Clicks already handed to the audio sink still sound; pending visual callbacks are dropped.
func (s *Scheduler) Stop() {
	if !s.running.Swap(false) {
		return
	}
	logger.GetProjectLogger().WithFields(logrus.Fields{"beat": s.cursor.Position.Float()}).Info("Metronome stopped")
}

func (s *Scheduler) Running() bool {
	return s.running.Load()
}

// Cursor returns a copy of the current cursor.
func (s *Scheduler) Cursor() Cursor {
	return s.cursor
}

// LastEvent returns the most recently computed event, if any.
func (s *Scheduler) LastEvent() (Event, bool) {
	if s.last == nil {
		return Event{}, false
	}
	return *s.last, true
}

// Tick reads the clock and dispatches every event that is due.
func (s *Scheduler) Tick() []Event {
	return s.TickAt(s.Now())
}

// TickAt dispatches every event due before now plus the look-ahead window. It returns the dispatched events in
// time order, or nil when stopped.
func (s *Scheduler) TickAt(now float64) []Event {
	if !s.Running() {
		return nil
	}

	if s.cursor.NextEventTime < now-s.opts.CatchUpLimit.Seconds() {
		logger.GetProjectLogger().WithFields(logrus.Fields{"late_by": now - s.cursor.NextEventTime}).
			Warn("Scheduler fell behind, re-anchoring")
		s.cursor = s.cursor.Rebase(now + s.opts.StartOffset.Seconds())
	}

	events, cursor := s.cursor.Advance(now, s.opts.LookAhead.Seconds(), s.tempo)
	s.cursor = cursor

	for _, ev := range events {
		s.dispatch(ev, now)
		last := ev
		s.last = &last
	}
	return events
}

func (s *Scheduler) dispatch(ev Event, now float64) {
	log := logger.GetProjectLogger().WithFields(logrus.Fields{"beat": ev.BeatIndex(), "at": ev.Time, "accent": ev.Accent})
	log.Debug("Dispatching beat")

	t := s.tempo.Sound().Voice().Transient(ev.Accent, s.tempo.Volume(), s.opts.Rand)
	if err := s.audio.RenderTransient(t, ev.Time); err != nil {
		log.WithError(err).Warn("Audio sink failed")
	}

	delay := time.Duration((ev.Time - now) * float64(time.Second))
	if delay < 0 {
		delay = 0
	}
	session := s.session.Load()
	beat, accent, at := ev.BeatIndex(), ev.Accent, ev.Time
	s.clock.AfterFunc(delay, func() {
		if !s.running.Load() || s.session.Load() != session {
			return
		}
		if err := s.visual.OnBeat(beat, accent, at); err != nil {
			log.WithError(err).Warn("Visual sink failed")
		}
	})
}
