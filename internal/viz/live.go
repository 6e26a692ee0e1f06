package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/okuno/orbitsim/internal/body"
	"github.com/okuno/orbitsim/internal/metrics"
	"github.com/okuno/orbitsim/internal/sim"
)

const (
	canvasWidth     = 80
	canvasHeight    = 28
	historyCapacity = 600
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).Width(40)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type tickMsg time.Time

// Model drives the live view: it owns the simulation and advances it
// on every animation tick.
type Model struct {
	sim     *sim.Simulation
	simCfg  sim.Config
	initial []body.Body
	title   string

	canvas       *Canvas
	viewRadius   float64 // meters from center to canvas edge
	stepsPerTick int
	running      bool
	showHelp     bool

	energyHist []float64
}

// NewModel wraps a freshly constructed simulation. The initial body
// state is kept for reset.
func NewModel(s *sim.Simulation, cfg sim.Config, title string) Model {
	return Model{
		sim:          s,
		simCfg:       cfg,
		initial:      body.Clone(s.Bodies()),
		title:        title,
		canvas:       NewCanvas(canvasWidth, canvasHeight),
		viewRadius:   fitRadius(s.Bodies()),
		stepsPerTick: 1,
		running:      true,
		energyHist:   make([]float64, 0, historyCapacity),
	}
}

// fitRadius picks a view radius that keeps every body on screen with a
// little margin.
func fitRadius(bodies []body.Body) float64 {
	max := 0.0
	for i := range bodies {
		if r := bodies[i].Position.Norm(); r > max {
			max = r
		}
	}
	if max == 0 {
		return 1
	}
	return max * 1.2
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.sim.Close()
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "+", "=":
			m.viewRadius /= 1.25
		case "-", "_":
			m.viewRadius *= 1.25
		case "up", "k":
			if m.stepsPerTick < 64 {
				m.stepsPerTick *= 2
			}
		case "down", "j":
			if m.stepsPerTick > 1 {
				m.stepsPerTick /= 2
			}
		case "?":
			m.showHelp = !m.showHelp
		}
		return m, nil

	case tickMsg:
		if m.running {
			for i := 0; i < m.stepsPerTick; i++ {
				m.sim.Step()
			}
			m.energyHist = append(m.energyHist, metrics.TotalEnergy(m.sim.Bodies()))
			if len(m.energyHist) > historyCapacity {
				m.energyHist = m.energyHist[1:]
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) reset() {
	old := m.sim
	s, err := sim.NewWithBodies(m.simCfg, body.Clone(m.initial))
	if err != nil {
		return
	}
	old.Close()
	m.sim = s
	m.energyHist = m.energyHist[:0]
	m.viewRadius = fitRadius(m.initial)
}

// draw projects body positions onto the canvas. The orbital plane is
// XZ with Y up, so the top-down view maps X across and Z down.
func (m *Model) draw() {
	m.canvas.Clear()
	cw, ch := m.canvas.Width*2, m.canvas.Height*4
	// Terminal cells are about twice as tall as wide; squash Z so
	// circular orbits look circular.
	scaleX := float64(cw) / (2 * m.viewRadius)
	scaleZ := float64(ch) / (2 * m.viewRadius)

	bodies := m.sim.Bodies()
	for i := range bodies {
		b := &bodies[i]
		x := cw/2 + int(b.Position.X*scaleX)
		y := ch/2 + int(b.Position.Z*scaleZ)
		if b.Name != "" {
			m.canvas.Blot(x, y, 1, b.Color)
		} else {
			m.canvas.Set(x, y, b.Color)
		}
	}
}

func (m Model) View() string {
	m.draw()

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n")
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(status + "\n\n")

	if len(m.energyHist) > 1 {
		chart := asciigraph.Plot(m.energyHist,
			asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") +
		valueStyle.Render(fmt.Sprintf("%.1f days", m.sim.ElapsedDays())) + "\n")
	s.WriteString(labelStyle.Render("Bodies") +
		valueStyle.Render(fmt.Sprintf("%d", m.sim.BodyCount())) + "\n")
	s.WriteString(labelStyle.Render("Theta") +
		valueStyle.Render(fmt.Sprintf("%.2f", m.sim.Theta())) + "\n")
	s.WriteString(labelStyle.Render("Speed") +
		valueStyle.Render(fmt.Sprintf("%d steps/frame", m.stepsPerTick)) + "\n")
	s.WriteString(labelStyle.Render("View") +
		valueStyle.Render(fmt.Sprintf("%.2e m", m.viewRadius)) + "\n")

	s.WriteString(helpStyle.Render(
		"─────────────────────\nSP:Pause R:Reset Q:Quit\n+/-:Zoom ↑↓:Speed ?:Help"))

	main := lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.canvas.String()),
		statsStyle.Render(s.String()))

	if m.showHelp {
		return helpScreen + "\n\n" + main
	}
	return main
}

const helpScreen = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Reset to initial state   ║
║  Q        - Quit                     ║
║  + / -    - Zoom in / out            ║
║  Up/Down  - Double/halve sim speed   ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`
