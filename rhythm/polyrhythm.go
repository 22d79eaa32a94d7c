package rhythm

import (
	"strconv"
	"strings"
)

const (
	DefaultPolyLeft  = 3
	DefaultPolyRight = 4
)

// Hit marks which side of a polyrhythm sounds at one step of the cycle.
type Hit struct {
	Left  bool
	Right bool
}

// Polyrhythm overlays two even pulses on a shared cycle of lcm(Left, Right) steps.
type Polyrhythm struct {
	Left  int
	Right int
	Hits  []Hit
}

// NewPolyrhythm computes the full cycle. Non-positive counts fall back to 3 against 4.
func NewPolyrhythm(left, right int) Polyrhythm {
	left = sanitizePolyCount(left, DefaultPolyLeft)
	right = sanitizePolyCount(right, DefaultPolyRight)

	length := lcm(left, right)
	leftEvery := length / left
	rightEvery := length / right

	hits := make([]Hit, length)
	for i := range hits {
		hits[i] = Hit{
			Left:  i%leftEvery == 0,
			Right: i%rightEvery == 0,
		}
	}
	return Polyrhythm{Left: left, Right: right, Hits: hits}
}

// ParsePolyrhythm is NewPolyrhythm for raw user input; anything that is not an integer takes the default.
func ParsePolyrhythm(left, right string) Polyrhythm {
	return NewPolyrhythm(atoiOr(left, DefaultPolyLeft), atoiOr(right, DefaultPolyRight))
}

// Len is the number of steps in one cycle.
func (p Polyrhythm) Len() int {
	return len(p.Hits)
}

// Positions of the left and right hits within the cycle.
func (p Polyrhythm) LeftHits() []int {
	return p.positions(func(h Hit) bool { return h.Left })
}

func (p Polyrhythm) RightHits() []int {
	return p.positions(func(h Hit) bool { return h.Right })
}

func (p Polyrhythm) positions(match func(Hit) bool) []int {
	var out []int
	for i, h := range p.Hits {
		if match(h) {
			out = append(out, i)
		}
	}
	return out
}

func sanitizePolyCount(n, fallback int) int {
	if n <= 0 {
		return fallback
	}
	return n
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return n
}

func gcd(a, b int) int {
	if b == 0 {
		return a
	}
	return gcd(b, a%b)
}

func lcm(a, b int) int {
	return a / gcd(a, b) * b
}
