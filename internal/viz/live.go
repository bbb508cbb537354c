// Package viz renders a running simulation in the terminal.
package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/kmadler/mdthr/internal/sim"
)

const (
	historyCapacity = 600
	frameRate       = 30
)

type TickMsg time.Time

// Model drives the simulator from bubbletea ticks and renders a thermo
// panel with an energy history graph.
type Model struct {
	sim           *sim.Simulator
	totalSteps    int
	stepsPerFrame int
	paused        bool
	done          bool
	energyHistory []float64
	width         int
}

func NewModel(s *sim.Simulator, totalSteps, stepsPerFrame int) Model {
	s.Setup()
	return Model{
		sim:           s,
		totalSteps:    totalSteps,
		stepsPerFrame: stepsPerFrame,
		energyHistory: make([]float64, 0, historyCapacity),
		width:         80,
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case TickMsg:
		if !m.paused && !m.done {
			for i := 0; i < m.stepsPerFrame && !m.done; i++ {
				m.sim.Step()
				if m.sim.Sample().Step >= m.totalSteps {
					m.done = true
				}
			}
			smp := m.sim.Sample()
			m.energyHistory = append(m.energyHistory, smp.PotEnergy+smp.KinEnergy)
			if len(m.energyHistory) > historyCapacity {
				m.energyHistory = m.energyHistory[1:]
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) View() string {
	smp := m.sim.Sample()
	sys := m.sim.System()

	var b strings.Builder
	b.WriteString(headerStyle.Render("mdthr live") + "\n")

	status := "running"
	if m.done {
		status = "done"
	} else if m.paused {
		status = "paused"
	}

	rows := []struct {
		label string
		value string
	}{
		{"status", status},
		{"step", fmt.Sprintf("%d / %d", smp.Step, m.totalSteps)},
		{"atoms", fmt.Sprintf("%d local, %d ghost", sys.Nlocal, sys.Nghost)},
		{"pot energy", fmt.Sprintf("%.6f", smp.PotEnergy)},
		{"kin energy", fmt.Sprintf("%.6f", smp.KinEnergy)},
		{"temperature", fmt.Sprintf("%.4f", smp.Temp)},
		{"pressure", fmt.Sprintf("%.4f", smp.Press)},
	}
	for _, row := range rows {
		b.WriteString(labelStyle.Render(row.label) + valueStyle.Render(row.value) + "\n")
	}

	if len(m.energyHistory) > 1 {
		width := m.width - 12
		if width > 70 {
			width = 70
		}
		graph := asciigraph.Plot(m.energyHistory,
			asciigraph.Height(10),
			asciigraph.Width(width),
			asciigraph.Caption("total energy"),
		)
		b.WriteString(graphStyle.Render(graph) + "\n")
	}

	b.WriteString(helpStyle.Render("space pause · q quit"))
	return b.String()
}
