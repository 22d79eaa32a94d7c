package rhythm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tapAll(e *TapEstimator, taps ...float64) (int, bool) {
	var (
		bpm int
		ok  bool
	)
	for _, ms := range taps {
		bpm, ok = e.Tap(ms)
	}
	return bpm, ok
}

func TestTapTempoSteadyTaps(t *testing.T) {
	t.Parallel()

	bpm, ok := tapAll(NewTapEstimator(), 0, 500, 1000, 1500)
	require.True(t, ok)
	assert.Equal(t, 120, bpm)
}

func TestTapTempoIgnoresOutlier(t *testing.T) {
	t.Parallel()

	bpm, ok := tapAll(NewTapEstimator(), 0, 500, 505, 1000)
	require.True(t, ok)
	assert.InDelta(t, 120, bpm, 2)
}

func TestTapTempoNeedsTwoTaps(t *testing.T) {
	t.Parallel()

	_, ok := NewTapEstimator().Tap(100)
	assert.False(t, ok)
}

func TestTapTempoKeepsLastFiveTaps(t *testing.T) {
	t.Parallel()

	e := NewTapEstimator()
	// the slow taps fall out of the window
	tapAll(e, 0, 1500, 3000)
	bpm, ok := tapAll(e, 3300, 3600, 3900, 4200)

	assert.Equal(t, TapHistory, e.Len())
	require.True(t, ok)
	assert.Equal(t, 200, bpm)
}

func TestTapTempoEvenCountUsesMiddlePair(t *testing.T) {
	t.Parallel()

	median, ok := MedianInterval([]float64{0, 400, 1000, 1500, 2100})
	require.True(t, ok)
	// deltas 400, 600, 500, 600 -> 500, 600
	assert.Equal(t, 550.0, median)
}

func TestTapTempoDiscardsOutOfRange(t *testing.T) {
	t.Parallel()

	_, ok := tapAll(NewTapEstimator(), 0, 100)
	assert.False(t, ok, "600 bpm is above the maximum")

	_, ok = tapAll(NewTapEstimator(), 0, 1999)
	assert.False(t, ok, "30 bpm is below the minimum")
}

func TestTapTempoDiscardsDuplicateTimestamps(t *testing.T) {
	t.Parallel()

	_, ok := tapAll(NewTapEstimator(), 250, 250)
	assert.False(t, ok)
}

func TestTapTempoForgetsAfterInactivity(t *testing.T) {
	t.Parallel()

	e := NewTapEstimator()
	tapAll(e, 0, 500, 1000)

	_, ok := e.Tap(3000)
	assert.False(t, ok, "a tap after two seconds starts a new sequence")
	assert.Equal(t, 1, e.Len())

	bpm, ok := e.Tap(3600)
	require.True(t, ok)
	assert.Equal(t, 100, bpm)
}

func TestTapTempoExpire(t *testing.T) {
	t.Parallel()

	e := NewTapEstimator()
	tapAll(e, 0, 500)

	assert.False(t, e.Expire(2400))
	assert.Equal(t, 2, e.Len())
	assert.True(t, e.Expire(2500))
	assert.Equal(t, 0, e.Len())
}

func TestTapTempoClockGoingBackwardsStartsOver(t *testing.T) {
	t.Parallel()

	e := NewTapEstimator()
	tapAll(e, 1000, 1500)
	_, ok := e.Tap(200)
	assert.False(t, ok)
	assert.Equal(t, 1, e.Len())
}
