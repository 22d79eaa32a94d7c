package rhythm

// TicksPerBeat is the least common multiple of every subdivision denominator (1, 2, 3 and 4). Beat positions are
// counted in ticks so that stepping by a triplet never accumulates rounding error.
const TicksPerBeat = 12

// Beat is a position measured in ticks from the start of playback.
type Beat int64

// Beats converts a whole number of beats into a Beat.
func Beats(n int64) Beat {
	return Beat(n * TicksPerBeat)
}

// Float returns the position in beats, e.g. 1.5 for the "and" of the second beat.
func (b Beat) Float() float64 {
	return float64(b) / TicksPerBeat
}

// Whole returns the number of complete beats, i.e. floor(b.Float()).
func (b Beat) Whole() int64 {
	if b < 0 {
		return (int64(b) - TicksPerBeat + 1) / TicksPerBeat
	}
	return int64(b) / TicksPerBeat
}

// IsWhole reports whether the position falls exactly on a beat.
func (b Beat) IsWhole() bool {
	return b%TicksPerBeat == 0
}
