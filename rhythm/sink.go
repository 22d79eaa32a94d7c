package rhythm

// AudioSink renders a click at an absolute time on the scheduler clock. Calls are fire-and-forget: once issued they
// cannot be revoked, and the sink alone is responsible for rendering precision.
type AudioSink interface {
	RenderTransient(t Transient, at float64) error
}

// VisualSink is told about a beat shortly before it sounds. The scheduler defers the call until the beat is due,
// so implementations are called from a timer goroutine and must be safe for concurrent use.
type VisualSink interface {
	OnBeat(beat float64, accent bool, at float64) error
}

// AudioSinkFunc adapts a function to an AudioSink.
type AudioSinkFunc func(t Transient, at float64) error

func (f AudioSinkFunc) RenderTransient(t Transient, at float64) error {
	return f(t, at)
}

// VisualSinkFunc adapts a function to a VisualSink.
type VisualSinkFunc func(beat float64, accent bool, at float64) error

func (f VisualSinkFunc) OnBeat(beat float64, accent bool, at float64) error {
	return f(beat, accent, at)
}

type nopSink struct{}

func (nopSink) RenderTransient(Transient, float64) error { return nil }
func (nopSink) OnBeat(float64, bool, float64) error      { return nil }
