package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/robmorgan/metronome/effect"
	"github.com/robmorgan/metronome/rhythm"
)

var (
	tempoStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0)
	appStyle    = lipgloss.NewStyle().Margin(1, 2, 0, 2)
)

func (m model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.metronome.GetSnapshot()
	var s strings.Builder

	fmt.Fprintf(&s, "%s %s   %s   %s   %s   %s\n\n",
		tempoStyle.Render(fmt.Sprintf("%3d", snap.GetTempo())),
		labelStyle.Render("BPM"),
		m.metronome.GetSignature(),
		snap.GetSubdivision(),
		m.metronome.GetSound(),
		labelStyle.Render(fmt.Sprintf("vol %d%%", int(math.Round(m.metronome.GetVolume()*100)))),
	)

	s.WriteString(m.beatDots(snap))
	s.WriteString("\n\n")
	s.WriteString(m.pendulum.ViewAs(m.pendulumPosition(snap)))
	s.WriteString("\n\n")

	poly := m.metronome.GetPolyrhythm()
	fmt.Fprintf(&s, "%s %s\n", labelStyle.Render(fmt.Sprintf("poly %d:%d", poly.Left, poly.Right)), polyLine(poly))
	fmt.Fprintf(&s, "%s %s\n\n", labelStyle.Render("practice"), m.timer)
	s.WriteString(statusStyle.Render(m.status))

	s.WriteString(helpStyle.Render(
		"space start/stop • ↑/↓ ±1 • ←/→ ±5 • t tap • s subdivision • a accents • 1-9 toggle accent\n" +
			"[/] beats • v sound • +/- volume • o polyrhythm • p/r practice timer • w save • n next preset • q quit",
	))
	return appStyle.Render(s.String())
}

// beatDots draws one dot per beat of the bar. Accented beats are diamonds and the beat that just sounded lights up.
func (m model) beatDots(snap rhythm.Snapshot) string {
	accents := snap.GetAccentPattern()
	current, ok := m.light.beatInBar(len(accents))
	if !snap.IsRunning() {
		ok = false
	}

	lit := lipgloss.NewStyle().Foreground(lipgloss.Color(m.light.color().Hex()))
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color(dimColor.Hex()))

	dots := make([]string, len(accents))
	for i, accent := range accents {
		glyph := "●"
		if accent {
			glyph = "◆"
		}
		if ok && i == current {
			dots[i] = lit.Render(glyph)
		} else {
			dots[i] = dim.Render(glyph)
		}
	}
	return strings.Join(dots, " ")
}

// pendulumPosition swings the bar from one end to the other once per beat.
func (m model) pendulumPosition(snap rhythm.Snapshot) float64 {
	beat, _, at, ok := m.light.last()
	if !ok || !snap.IsRunning() {
		return 0.5
	}
	phase := beat + (m.metronome.Now()-at)/(snap.GetBeatInterval()/1000)
	return (effect.Swing(phase) + 1) / 2
}

func polyLine(p rhythm.Polyrhythm) string {
	var b strings.Builder
	for _, h := range p.Hits {
		switch {
		case h.Left && h.Right:
			b.WriteString("X")
		case h.Left:
			b.WriteString("L")
		case h.Right:
			b.WriteString("R")
		default:
			b.WriteString("·")
		}
	}
	return b.String()
}
