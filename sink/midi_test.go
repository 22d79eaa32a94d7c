package sink

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/robmorgan/metronome/rhythm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
	testingclock "k8s.io/utils/clock/testing"
)

type midiRecorder struct {
	mu   sync.Mutex
	msgs []gomidi.Message
	err  error
}

func (r *midiRecorder) send(msg gomidi.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	return r.err
}

func (r *midiRecorder) messages() []gomidi.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]gomidi.Message(nil), r.msgs...)
}

// waitFor blocks until n messages have been sent and returns them.
func (r *midiRecorder) waitFor(t *testing.T, n int) []gomidi.Message {
	t.Helper()
	require.Eventually(t, func() bool { return len(r.messages()) >= n }, time.Second, time.Millisecond)
	return r.messages()
}

func newTestMIDISink(rec *midiRecorder) (*MIDISink, *testingclock.FakeClock) {
	clk := testingclock.NewFakeClock(time.Unix(0, 0))
	start := clk.Now()
	now := func() float64 { return clk.Since(start).Seconds() }
	return NewMIDISink(clk, now, rec.send, MIDIConfig{Channel: 9, AccentNote: 76, Note: 77}), clk
}

func TestMIDISinkSchedulesNoteOnAndOff(t *testing.T) {
	t.Parallel()

	rec := &midiRecorder{}
	sink, clk := newTestMIDISink(rec)

	assert.NoError(t, sink.RenderTransient(rhythm.Transient{Accent: true, Volume: 0.7}, 0.1))
	assert.Empty(t, rec.messages())

	clk.Step(100 * time.Millisecond)
	assert.Equal(t, []gomidi.Message{gomidi.NoteOn(9, 76, 89)}, rec.waitFor(t, 1))

	clk.Step(DefaultGate)
	assert.Equal(t, []gomidi.Message{gomidi.NoteOn(9, 76, 89), gomidi.NoteOff(9, 76)}, rec.waitFor(t, 2))
}

func TestMIDISinkUsesNormalNoteForUnaccentedClicks(t *testing.T) {
	t.Parallel()

	rec := &midiRecorder{}
	sink, clk := newTestMIDISink(rec)

	assert.NoError(t, sink.RenderTransient(rhythm.Transient{Volume: 1}, 0))
	clk.Step(0)
	assert.Equal(t, []gomidi.Message{gomidi.NoteOn(9, 77, 127)}, rec.waitFor(t, 1))
}

func TestMIDISinkSkipsSilentClicks(t *testing.T) {
	t.Parallel()

	rec := &midiRecorder{}
	sink, clk := newTestMIDISink(rec)

	assert.NoError(t, sink.RenderTransient(rhythm.Transient{Accent: true}, 0))
	clk.Step(time.Second)
	assert.Empty(t, rec.messages())
}

func TestMIDISinkSurvivesSendErrors(t *testing.T) {
	t.Parallel()

	rec := &midiRecorder{err: errors.New("port closed")}
	sink, clk := newTestMIDISink(rec)

	assert.NoError(t, sink.RenderTransient(rhythm.Transient{Volume: 0.5}, 0))
	clk.Step(time.Second)
	assert.Len(t, rec.waitFor(t, 2), 2)
}
