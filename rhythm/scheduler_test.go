package rhythm

import (
	"errors"
	"math"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
)

type recordedClick struct {
	transient Transient
	at        float64
}

type recordedBeat struct {
	beat   float64
	accent bool
	at     float64
}

// recorder is both sinks at once and is safe for the scheduler's timer goroutines.
type recorder struct {
	mu       sync.Mutex
	clicks   []recordedClick
	beats    []recordedBeat
	audioErr error
}

func (r *recorder) RenderTransient(t Transient, at float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clicks = append(r.clicks, recordedClick{t, at})
	return r.audioErr
}

func (r *recorder) OnBeat(beat float64, accent bool, at float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.beats = append(r.beats, recordedBeat{beat, accent, at})
	return nil
}

func (r *recorder) beatCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.beats)
}

func (r *recorder) clickTimes() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]float64, 0, len(r.clicks))
	for _, c := range r.clicks {
		out = append(out, c.at)
	}
	return out
}

func newTestScheduler(t *testing.T) (*Scheduler, *TempoState, *recorder, *testingclock.FakeClock) {
	t.Helper()

	clk := testingclock.NewFakeClock(time.Unix(1000, 0))
	tempo := NewTempoState()
	rec := &recorder{}
	opts := DefaultOptions()
	opts.Rand = rand.New(rand.NewSource(1))
	return NewScheduler(clk, tempo, rec, rec, opts), tempo, rec, clk
}

// drive steps the fake clock in increments of dt until it has advanced by total, ticking after every step.
func drive(s *Scheduler, clk *testingclock.FakeClock, dt, total time.Duration) []Event {
	var events []Event
	for elapsed := time.Duration(0); elapsed < total; elapsed += dt {
		clk.Step(dt)
		events = append(events, s.Tick()...)
	}
	return events
}

// sweep ticks at now = from, from+dt, ... up to and including to without touching the clock.
func sweep(s *Scheduler, from, to, dt float64) []Event {
	var events []Event
	n := int(math.Round((to - from) / dt))
	for i := 0; i <= n; i++ {
		events = append(events, s.TickAt(from+float64(i)*dt)...)
	}
	return events
}

func TestSchedulerEmitsTwentyBeatsInTenSeconds(t *testing.T) {
	t.Parallel()

	s, _, rec, clk := newTestScheduler(t)
	s.Start()

	events := drive(s, clk, time.Second/60, 10*time.Second)

	require.Len(t, events, 20)
	assert.InDelta(t, 0.1, events[0].Time, 1e-9)
	for i := 1; i < len(events); i++ {
		assert.InDelta(t, 0.5, events[i].Time-events[i-1].Time, 1e-6)
	}
	assert.Len(t, rec.clickTimes(), 20)
}

func TestSchedulerSubdivisionSpacing(t *testing.T) {
	t.Parallel()

	cases := []struct {
		sub      Subdivision
		fraction float64
	}{
		{Quarter, 1},
		{Eighth, 0.5},
		{Triplet, 1.0 / 3},
		{Sixteenth, 0.25},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.sub.String(), func(t *testing.T) {
			t.Parallel()

			for _, bpm := range []int{40, 97, 120, 333, 500} {
				s, tempo, _, _ := newTestScheduler(t)
				tempo.SetTempo(bpm)
				tempo.SetSubdivision(tc.sub)
				s.Start()

				events := sweep(s, 0, 30, 0.1)
				require.NotEmpty(t, events)
				want := 60.0 / float64(bpm) * tc.fraction
				for i := 1; i < len(events); i++ {
					require.InDelta(t, want, events[i].Time-events[i-1].Time, 1e-9)
				}
			}
		})
	}
}

func TestSchedulerTripletsDoNotDrift(t *testing.T) {
	t.Parallel()

	s, tempo, _, _ := newTestScheduler(t)
	tempo.SetSubdivision(Triplet)
	s.Start()

	// one hour at 120 bpm
	events := sweep(s, 0, 3600, 0.5)
	last := events[len(events)-1]

	assert.Equal(t, 0, len(events)%3)
	assert.True(t, events[len(events)-3].Beat.IsWhole())
	assert.Equal(t, Beats(int64(len(events)/3-1)), events[len(events)-3].Beat)
	assert.InDelta(t, 0.1+last.BeatIndex()*0.5, last.Time, 1e-9)
}

func TestSchedulerEventsStrictlyIncreaseUnderJitter(t *testing.T) {
	t.Parallel()

	s, tempo, rec, clk := newTestScheduler(t)
	tempo.SetTempo(500)
	tempo.SetSubdivision(Sixteenth)
	s.Start()

	jitter := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		clk.Step(time.Duration(1+jitter.Intn(24)) * time.Millisecond)
		s.Tick()
	}

	times := rec.clickTimes()
	require.NotEmpty(t, times)
	for i := 1; i < len(times); i++ {
		require.Greater(t, times[i], times[i-1])
	}
}

func TestSchedulerAccentsFollowPattern(t *testing.T) {
	t.Parallel()

	s, tempo, _, _ := newTestScheduler(t)
	tempo.SetTimeSignature(3)
	tempo.SetSubdivision(Eighth)
	s.Start()

	events := sweep(s, 0, 4, 0.1)
	require.NotEmpty(t, events)
	for _, ev := range events {
		assert.Equal(t, int(math.Floor(ev.BeatIndex()))%3 == 0, ev.Accent, "beat %v", ev.BeatIndex())
	}
}

func TestSchedulerTempoChangeAppliesToLaterEvents(t *testing.T) {
	t.Parallel()

	s, tempo, _, _ := newTestScheduler(t)
	s.Start()

	first := s.TickAt(1.0)
	require.Len(t, first, 2) // 0.1 and 0.6; 1.1 is outside the window
	assert.InDelta(t, 1.1, s.Cursor().NextEventTime, 1e-9)

	tempo.SetTempo(60)
	second := sweep(s, 1.1, 3.2, 0.1)

	require.NotEmpty(t, second)
	assert.InDelta(t, 1.1, second[0].Time, 1e-9)
	for i := 1; i < len(second); i++ {
		assert.InDelta(t, 1.0, second[i].Time-second[i-1].Time, 1e-9)
	}
}

func TestSchedulerStopThenStartResetsCursor(t *testing.T) {
	t.Parallel()

	s, _, _, clk := newTestScheduler(t)
	s.Start()
	drive(s, clk, 10*time.Millisecond, 3*time.Second)
	require.NotZero(t, s.Cursor().Position)

	s.Stop()
	assert.False(t, s.Running())
	assert.Nil(t, s.Tick())

	clk.Step(5 * time.Second)
	s.Start()

	now := s.Now()
	assert.Equal(t, Beat(0), s.Cursor().Position)
	assert.Greater(t, s.Cursor().NextEventTime, now)
	assert.InDelta(t, now+0.1, s.Cursor().NextEventTime, 1e-9)
}

func TestSchedulerStartWhileRunningRestarts(t *testing.T) {
	t.Parallel()

	s, _, _, clk := newTestScheduler(t)
	s.Start()
	drive(s, clk, 10*time.Millisecond, 2*time.Second)

	s.Start()
	assert.True(t, s.Running())
	assert.Equal(t, Beat(0), s.Cursor().Position)
}

func TestSchedulerStopIsIdempotent(t *testing.T) {
	t.Parallel()

	s, _, _, _ := newTestScheduler(t)
	s.Stop()
	s.Stop()
	assert.False(t, s.Running())
}

func TestSchedulerReanchorsAfterLongStall(t *testing.T) {
	t.Parallel()

	s, _, rec, clk := newTestScheduler(t)
	s.Start()
	drive(s, clk, 10*time.Millisecond, time.Second)
	before := len(rec.clickTimes())

	// the host stops driving for a minute
	clk.Step(time.Minute)
	events := s.Tick()

	assert.Empty(t, events)
	assert.Len(t, rec.clickTimes(), before)
	assert.InDelta(t, s.Now()+0.1, s.Cursor().NextEventTime, 1e-9)
}

func TestSchedulerKeepsTimeWhenAudioSinkFails(t *testing.T) {
	t.Parallel()

	s, _, rec, clk := newTestScheduler(t)
	rec.audioErr = errors.New("device unplugged")
	s.Start()

	events := drive(s, clk, time.Second/60, 5*time.Second)
	require.Len(t, events, 10)
	assert.InDelta(t, 4.6, events[9].Time, 1e-9)
}

func TestSchedulerDefersVisualsUntilDue(t *testing.T) {
	t.Parallel()

	s, _, rec, clk := newTestScheduler(t)
	s.Start()

	clk.Step(90 * time.Millisecond)
	events := s.Tick()
	require.Len(t, events, 1)
	assert.Len(t, rec.clickTimes(), 1)
	assert.Equal(t, 0, rec.beatCount())

	clk.Step(10 * time.Millisecond)
	require.Eventually(t, func() bool { return rec.beatCount() == 1 }, time.Second, time.Millisecond)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, recordedBeat{beat: 0, accent: true, at: events[0].Time}, rec.beats[0])
}

func TestSchedulerDropsVisualsAfterStop(t *testing.T) {
	t.Parallel()

	s, _, rec, clk := newTestScheduler(t)
	s.Start()

	clk.Step(90 * time.Millisecond)
	require.Len(t, s.Tick(), 1)

	s.Stop()
	clk.Step(time.Second)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, rec.beatCount())
}

func TestSchedulerDropsVisualsFromPreviousSession(t *testing.T) {
	t.Parallel()

	s, _, rec, clk := newTestScheduler(t)
	s.Start()

	clk.Step(90 * time.Millisecond)
	require.Len(t, s.Tick(), 1)

	s.Stop()
	s.Start()
	clk.Step(15 * time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, rec.beatCount())
}

func TestCursorAdvanceLeavesReceiverUntouched(t *testing.T) {
	t.Parallel()

	c := NewCursor(0.1)
	events, next := c.Advance(2, 0.025, NewTempoState())

	assert.Len(t, events, 4)
	assert.Equal(t, NewCursor(0.1), c)
	assert.Equal(t, Beats(4), next.Position)
	assert.InDelta(t, 2.1, next.NextEventTime, 1e-9)
}
