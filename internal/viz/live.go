package viz

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/metrics"
	"github.com/san-kum/ropesim/internal/vec"
	"github.com/san-kum/ropesim/internal/verlet"
)

const (
	canvasWidth     = 64
	canvasHeight    = 32
	canvasOffsetX   = 2
	canvasOffsetY   = 1
	historyCapacity = 300
	frameRate       = 60
)

type TickMsg time.Time

// Model hosts one simulation inside a Bubble Tea program. Bubble Tea
// delivers messages one at a time, so input handlers that add points never
// overlap a step.
type Model struct {
	sim           *verlet.Simulation
	initial       verlet.Snapshot
	name          string
	dt            float64
	world         config.WorldConfig
	canvas        *Canvas
	rng           *rand.Rand
	strainHistory []float64
	theme         int
	styles        styles
	showHelp      bool
}

// NewModel wraps s. The world rectangle from cfg is stretched over the
// canvas with y pointing up.
func NewModel(cfg *config.Config, s *verlet.Simulation) Model {
	return Model{
		sim:           s,
		initial:       s.Snapshot(),
		name:          cfg.Name,
		dt:            cfg.Dt,
		world:         cfg.World,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		rng:           rand.New(rand.NewSource(cfg.Seed)),
		strainHistory: make([]float64, 0, historyCapacity),
		styles:        newStyles(themes[0]),
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.sim.TogglePause()
		case "n":
			if m.sim.Paused() {
				m.sim.SetPaused(false)
				m.step()
				m.sim.SetPaused(true)
			}
		case "d":
			m.drop()
		case "r":
			m.reset()
		case "t":
			m.theme = (m.theme + 1) % len(themes)
			m.styles = newStyles(themes[m.theme])
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if p, ok := m.cellToWorld(msg.X, msg.Y); ok {
				m.sim.AddPoint(p, false)
			}
		}
	case TickMsg:
		m.step()
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	if m.sim.Paused() {
		return
	}
	m.sim.Step(m.dt)

	peak, _ := metrics.Strain(m.sim)
	m.strainHistory = append(m.strainHistory, peak)
	if len(m.strainHistory) > historyCapacity {
		m.strainHistory = m.strainHistory[1:]
	}
}

// drop adds a free point somewhere along the top tenth of the world.
func (m *Model) drop() {
	w, h := m.world.Width, m.world.Height
	p := vec.V(0.1*w, 0.9*h).Lerp(vec.V(0.9*w, 0.9*h), m.rng.Float64())
	m.sim.AddPoint(p.Add(vec.V(0, 0.05*h*m.rng.Float64())), false)
}

func (m *Model) reset() {
	m.sim.Restore(m.initial)
	m.strainHistory = m.strainHistory[:0]
}

// worldToPixel maps world coordinates to canvas sub-pixels.
func (m Model) worldToPixel(p vec.Vec2) (int, int) {
	x := p.X / m.world.Width * float64(m.canvas.PixelWidth())
	y := (1 - p.Y/m.world.Height) * float64(m.canvas.PixelHeight())
	return int(math.Floor(x)), int(math.Floor(y))
}

// cellToWorld maps a terminal cell to the world position at its centre.
func (m Model) cellToWorld(col, row int) (vec.Vec2, bool) {
	cx, cy := col-canvasOffsetX, row-canvasOffsetY
	if cx < 0 || cy < 0 || cx >= m.canvas.Width || cy >= m.canvas.Height {
		return vec.Vec2{}, false
	}
	x := (float64(cx) + 0.5) / float64(m.canvas.Width) * m.world.Width
	y := (1 - (float64(cy)+0.5)/float64(m.canvas.Height)) * m.world.Height
	return vec.V(x, y), true
}

func (m Model) draw() {
	m.canvas.Clear()

	for i := range m.sim.StickCount() {
		a, b := m.sim.Endpoints(i)
		x0, y0 := m.worldToPixel(a)
		x1, y1 := m.worldToPixel(b)
		m.canvas.DrawLine(x0, y0, x1, y1)
	}

	for _, p := range m.sim.Points() {
		x, y := m.worldToPixel(p.Position)
		r := 0
		if p.Locked {
			r = 1
		}
		m.canvas.DrawDot(x, y, r)
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	st := m.styles

	status := st.running.Render("RUNNING")
	if m.sim.Paused() {
		status = st.paused.Render("PAUSED")
	}

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.name)) + "\n")
	s.WriteString(status + "\n\n")

	peak, mean := metrics.Strain(m.sim)
	rows := [][2]string{
		{"time", fmt.Sprintf("%.2fs", m.sim.Time())},
		{"steps", fmt.Sprintf("%d", m.sim.Steps())},
		{"points", fmt.Sprintf("%d", m.sim.Len())},
		{"sticks", fmt.Sprintf("%d", m.sim.StickCount())},
		{"iterations", fmt.Sprintf("%d", m.sim.Iterations())},
		{"max strain", fmt.Sprintf("%.2e", peak)},
		{"mean strain", fmt.Sprintf("%.2e", mean)},
	}
	for _, r := range rows {
		s.WriteString(st.label.Render(r[0]) + st.value.Render(r[1]) + "\n")
	}

	if len(m.strainHistory) > 1 {
		chart := asciigraph.Plot(m.strainHistory, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("max strain"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	if m.showHelp {
		s.WriteString(st.help.Render("space pause  click/d drop\nn step  r reset  t theme\n? help  q quit") + "\n")
	} else {
		s.WriteString(st.help.Render("? help  q quit") + "\n")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, st.canvas.Render(m.canvas.String()), st.stats.Render(s.String()))
}

// Run opens the terminal host with mouse support and blocks until quit.
func Run(cfg *config.Config, s *verlet.Simulation) error {
	p := tea.NewProgram(NewModel(cfg, s), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
