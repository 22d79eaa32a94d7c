package main

import (
	"flag"
	"io"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/robmorgan/metronome/config"
	"github.com/robmorgan/metronome/preset"
	"github.com/robmorgan/metronome/rhythm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
)

func newTestFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("metronome", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func newTestMetronome(t *testing.T, visual rhythm.VisualSink) (*rhythm.Metronome, *testingclock.FakeClock) {
	t.Helper()

	clk := testingclock.NewFakeClock(time.Unix(1000, 0))
	opts := rhythm.DefaultOptions()
	opts.Rand = rand.New(rand.NewSource(1))
	return rhythm.NewMetronome(clk, nil, visual, opts), clk
}

func newTestStore(t *testing.T) *preset.Store {
	t.Helper()
	return preset.NewStore(filepath.Join(t.TempDir(), "presets.json"), config.FactoryPresets())
}

func TestParseFlags(t *testing.T) {
	t.Parallel()

	opts, err := parseFlags(newTestFlagSet(), []string{"-bpm", "96", "-timesig", "7/8", "-subdivision", "triplet", "-sound", "clave", "-headless"})
	require.NoError(t, err)
	assert.Equal(t, 96, opts.bpm)
	assert.Equal(t, "7/8", opts.timesig)
	assert.Equal(t, "triplet", opts.subdivision)
	assert.Equal(t, "clave", opts.sound)
	assert.True(t, opts.headless)
	assert.Equal(t, "config.yaml", filepath.Base(opts.configPath))
}

func TestParseFlagsRejectsBadValues(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{
		{"-bpm", "20"},
		{"-bpm", "900"},
		{"-timesig", "4-4"},
		{"-subdivision", "dotted"},
		{"-sound", "cowbell"},
		{"-nope"},
	} {
		_, err := parseFlags(newTestFlagSet(), args)
		assert.Error(t, err, "%v", args)
	}
}

func TestOptionsApplyFlagsOverPreset(t *testing.T) {
	t.Parallel()

	m, _ := newTestMetronome(t, nil)
	opts := options{preset: "waltz", bpm: 100, subdivision: "eighth"}
	require.NoError(t, opts.apply(m, newTestStore(t)))

	assert.Equal(t, 100, m.GetTempo())
	assert.Equal(t, rhythm.Eighth, m.GetSubdivision())
	assert.Equal(t, 3, m.GetSignature().Beats)
	assert.Equal(t, rhythm.SoundWood, m.GetSound())
}

func TestOptionsApplyUnknownPreset(t *testing.T) {
	t.Parallel()

	m, _ := newTestMetronome(t, nil)
	err := options{preset: "polka"}.apply(m, newTestStore(t))
	assert.ErrorIs(t, err, preset.ErrNotFound)
}

func TestOptionsApplyTimeSignature(t *testing.T) {
	t.Parallel()

	m, _ := newTestMetronome(t, nil)
	require.NoError(t, options{timesig: "5/8", sound: "hihat"}.apply(m, newTestStore(t)))
	assert.Equal(t, rhythm.TimeSignature{Beats: 5, NoteValue: 8}, m.GetSignature())
	assert.Equal(t, rhythm.SoundHihat, m.GetSound())
}
