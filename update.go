package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robmorgan/metronome/effect"
	"github.com/robmorgan/metronome/rhythm"
	"golang.org/x/exp/slices"
)

// lastPreset is the name the "w" key saves under.
const lastPreset = "last"

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	case tickMsg:
		m.metronome.Tick()
		m.metronome.ExpireTaps()
		m.light.pulse.Update(effect.FPS(m.fps))
		return m, tickCmd(m.fps)
	default:
		return m, nil
	}
}

func (m model) handleKey(key string) (tea.Model, tea.Cmd) {
	met := m.metronome

	switch key {
	case " ":
		if met.Toggle() {
			m.status = "Playing"
		} else {
			m.light.reset()
			m.status = "Stopped"
		}
	case "up", "k":
		met.AdjustTempo(1)
	case "down", "j":
		met.AdjustTempo(-1)
	case "right", "l":
		met.AdjustTempo(5)
	case "left", "h":
		met.AdjustTempo(-5)
	case "t":
		if bpm, ok := met.Tap(); ok {
			m.status = fmt.Sprintf("Tapped %d BPM", bpm)
		} else {
			m.status = "Keep tapping..."
		}
	case "s":
		met.SetSubdivision(met.GetSubdivision().Next())
	case "a":
		met.SetAccentMode(met.GetAccentMode().Next())
		m.status = fmt.Sprintf("Accent: %s", met.GetAccentMode())
	case "[":
		met.SetTimeSignature(met.GetSignature().Beats - 1)
	case "]":
		met.SetTimeSignature(met.GetSignature().Beats + 1)
	case "v":
		m.nextSound()
	case "+", "=":
		met.SetVolume(met.GetVolume() + 0.1)
	case "-", "_":
		met.SetVolume(met.GetVolume() - 0.1)
	case "o":
		m.polyIndex = (m.polyIndex + 1) % len(polyrhythms)
		p := polyrhythms[m.polyIndex]
		met.ComputePolyrhythm(p[0], p[1])
	case "p":
		m.timer.Toggle()
	case "r":
		m.timer.Reset()
	case "w":
		if err := m.presets.Save(lastPreset, met.GetPreset()); err != nil {
			m.status = fmt.Sprintf("Could not save preset: %v", err)
		} else {
			m.status = fmt.Sprintf("Saved preset %q", lastPreset)
		}
	case "n":
		m.nextPreset()
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		met.ToggleAccent(int(key[0] - '1'))
	case "q", "esc", "ctrl+c":
		met.Stop()
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *model) nextSound() {
	sounds := rhythm.Sounds()
	i := slices.Index(sounds, m.metronome.GetSound())
	next := sounds[(i+1)%len(sounds)]
	m.metronome.SetSound(next)
	m.status = fmt.Sprintf("Sound: %s", next)
}

func (m *model) nextPreset() {
	names, err := m.presets.List()
	if err != nil {
		m.status = fmt.Sprintf("Could not list presets: %v", err)
		return
	}
	if len(names) == 0 {
		m.status = "No presets"
		return
	}

	m.presetIndex = (m.presetIndex + 1) % len(names)
	name := names[m.presetIndex]
	p, err := m.presets.Load(name)
	if err != nil {
		m.status = fmt.Sprintf("Could not load preset: %v", err)
		return
	}
	m.metronome.ApplyPreset(p)
	m.status = fmt.Sprintf("Preset: %s", name)
}
