package rhythm

import (
	"math"

	"golang.org/x/exp/slices"
)

const (
	// TapHistory is how many taps feed the estimate.
	TapHistory = 5

	// TapTimeout is the inactivity, in milliseconds, after which the tap history is forgotten.
	TapTimeout = 2000.0
)

// TapEstimator derives a tempo from the timing of user taps.
type TapEstimator struct {
	taps []float64
}

func NewTapEstimator() *TapEstimator {
	return &TapEstimator{taps: make([]float64, 0, TapHistory)}
}

// Tap records a tap at nowMs (a monotonic millisecond timestamp) and returns the estimated tempo. The boolean is
// false when there are not enough taps yet or the estimate falls outside [MinTempo, MaxTempo]; such estimates are
// dropped silently.
func (e *TapEstimator) Tap(nowMs float64) (int, bool) {
	if e.Expired(nowMs) || (len(e.taps) > 0 && nowMs < e.taps[len(e.taps)-1]) {
		e.Reset()
	}

	if len(e.taps) == TapHistory {
		copy(e.taps, e.taps[1:])
		e.taps = e.taps[:TapHistory-1]
	}
	e.taps = append(e.taps, nowMs)

	median, ok := MedianInterval(e.taps)
	if !ok || median <= 0 {
		return 0, false
	}

	bpm := int(math.Round(60000 / median))
	if bpm < MinTempo || bpm > MaxTempo {
		return 0, false
	}
	return bpm, true
}

// Expired reports whether the inactivity timeout has passed since the last tap.
func (e *TapEstimator) Expired(nowMs float64) bool {
	return len(e.taps) > 0 && nowMs-e.taps[len(e.taps)-1] >= TapTimeout
}

// Expire clears the history if the inactivity timeout has passed. Hosts with a periodic driver may call it so the
// history is dropped on time even when no further tap arrives.
func (e *TapEstimator) Expire(nowMs float64) bool {
	if !e.Expired(nowMs) {
		return false
	}
	e.Reset()
	return true
}

func (e *TapEstimator) Reset() {
	e.taps = e.taps[:0]
}

// Len is the number of taps currently remembered.
func (e *TapEstimator) Len() int {
	return len(e.taps)
}

// MedianInterval returns the median of the gaps between consecutive timestamps. It needs at least two timestamps.
func MedianInterval(taps []float64) (float64, bool) {
	if len(taps) < 2 {
		return 0, false
	}

	deltas := make([]float64, 0, len(taps)-1)
	for i := 1; i < len(taps); i++ {
		deltas = append(deltas, taps[i]-taps[i-1])
	}
	slices.Sort(deltas)

	mid := len(deltas) / 2
	if len(deltas)%2 == 0 {
		return (deltas[mid-1] + deltas[mid]) / 2, true
	}
	return deltas[mid], true
}
