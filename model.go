package main

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/robmorgan/metronome/practice"
	"github.com/robmorgan/metronome/preset"
	"github.com/robmorgan/metronome/rhythm"
)

// polyrhythms cycled through with the "o" key.
var polyrhythms = [][2]int{{3, 4}, {3, 2}, {5, 4}, {4, 3}, {7, 4}, {5, 3}}

type model struct {
	metronome *rhythm.Metronome
	timer     *practice.Timer
	presets   *preset.Store
	light     *beatLight
	pendulum  progress.Model
	fps       int

	status      string
	presetIndex int
	polyIndex   int
	quitting    bool
}

func newModel(m *rhythm.Metronome, timer *practice.Timer, presets *preset.Store, light *beatLight, fps int) model {
	if fps <= 0 {
		fps = 60
	}

	return model{
		metronome: m,
		timer:     timer,
		presets:   presets,
		light:     light,
		fps:       fps,
		pendulum: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(41),
			progress.WithoutPercentage(),
		),
		presetIndex: -1,
		status:      "Press space to start",
	}
}

func (m model) Init() tea.Cmd {
	return tickCmd(m.fps)
}

type tickMsg time.Time

func tickCmd(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
