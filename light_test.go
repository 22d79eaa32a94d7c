package main

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeatLightLast(t *testing.T) {
	t.Parallel()

	light := newBeatLight("", "")
	_, _, _, ok := light.last()
	assert.False(t, ok)

	require.NoError(t, light.OnBeat(5, true, 2.5))
	beat, accent, at, ok := light.last()
	require.True(t, ok)
	assert.Equal(t, 5.0, beat)
	assert.True(t, accent)
	assert.Equal(t, 2.5, at)

	light.reset()
	_, _, _, ok = light.last()
	assert.False(t, ok)
}

func TestBeatLightBeatInBar(t *testing.T) {
	t.Parallel()

	light := newBeatLight("", "")
	_, ok := light.beatInBar(4)
	assert.False(t, ok)

	require.NoError(t, light.OnBeat(6.5, false, 0))
	idx, ok := light.beatInBar(4)
	require.True(t, ok)
	assert.Equal(t, 2, idx)

	_, ok = light.beatInBar(0)
	assert.False(t, ok)
}

func TestBeatLightColor(t *testing.T) {
	t.Parallel()

	light := newBeatLight("#00ff00", "")
	assert.True(t, light.color().AlmostEqualRgb(dimColor))

	require.NoError(t, light.OnBeat(0, true, 0))
	assert.True(t, light.color().AlmostEqualRgb(colorful.Color{G: 1}))

	light.pulse.Update(1)
	assert.True(t, light.color().AlmostEqualRgb(dimColor))

	require.NoError(t, light.OnBeat(1, false, 0.5))
	lit := light.color()
	assert.Greater(t, lit.B, dimColor.B)
	assert.InDelta(t, 0.7, light.pulse.Value(), 1e-9)
}
