package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/scene"
	"github.com/san-kum/ropesim/internal/vec"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	s, err := scene.FromConfig(cfg)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return NewModel(cfg, s)
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTickStepsSimulation(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, TickMsg(time.Now()))

	if m.sim.Steps() != 1 {
		t.Errorf("expected 1 step, got %d", m.sim.Steps())
	}
	if len(m.strainHistory) != 1 {
		t.Errorf("expected 1 strain sample, got %d", len(m.strainHistory))
	}
}

func TestSpaceTogglesPause(t *testing.T) {
	m := newTestModel(t)

	m = update(t, m, key(" "))
	if !m.sim.Paused() {
		t.Fatal("expected paused after space")
	}

	before := m.sim.Points()
	m = update(t, m, TickMsg(time.Now()))
	after := m.sim.Points()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("point %d moved while paused", i)
		}
	}

	m = update(t, m, key("n"))
	if m.sim.Steps() != 1 || !m.sim.Paused() {
		t.Errorf("single step: steps=%d paused=%v", m.sim.Steps(), m.sim.Paused())
	}

	m = update(t, m, key(" "))
	if m.sim.Paused() {
		t.Error("expected running after second space")
	}
}

func TestClickAddsPoint(t *testing.T) {
	m := newTestModel(t)
	n := m.sim.Len()

	click := tea.MouseMsg{X: canvasOffsetX, Y: canvasOffsetY, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	m = update(t, m, click)

	if m.sim.Len() != n+1 {
		t.Fatalf("expected %d points, got %d", n+1, m.sim.Len())
	}
	p, _ := m.sim.Point(6)
	if p.Locked {
		t.Error("clicked points should be free")
	}
	wantX := 0.5 / canvasWidth * config.DefaultWorldWidth
	wantY := (1 - 0.5/canvasHeight) * config.DefaultWorldHeight
	if !p.Position.ApproxEqual(vec.V(wantX, wantY), 1e-9) {
		t.Errorf("expected point at (%f, %f), got %v", wantX, wantY, p.Position)
	}

	outside := tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	m = update(t, m, outside)
	release := tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}
	m = update(t, m, release)
	if m.sim.Len() != n+1 {
		t.Errorf("clicks outside the canvas or releases must not add points, got %d", m.sim.Len())
	}
}

func TestDropAndReset(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, key("d"))
	if m.sim.Len() != 7 {
		t.Fatalf("expected 7 points after drop, got %d", m.sim.Len())
	}
	p, _ := m.sim.Point(6)
	if p.Position.Y < 0.9*config.DefaultWorldHeight {
		t.Errorf("drop should land near the top, got %v", p.Position)
	}
	if p.Position.X < 0.1*config.DefaultWorldWidth || p.Position.X > 0.9*config.DefaultWorldWidth {
		t.Errorf("drop should land between the margins, got %v", p.Position)
	}

	m = update(t, m, TickMsg(time.Now()))
	m = update(t, m, key("r"))
	if m.sim.Len() != 6 || m.sim.Steps() != 0 || len(m.strainHistory) != 0 {
		t.Errorf("reset incomplete: points=%d steps=%d", m.sim.Len(), m.sim.Steps())
	}
}

func TestWorldToPixel(t *testing.T) {
	m := newTestModel(t)

	x, y := m.worldToPixel(vec.V(0, config.DefaultWorldHeight))
	if x != 0 || y != 0 {
		t.Errorf("top-left should map to (0,0), got (%d,%d)", x, y)
	}

	x, y = m.worldToPixel(vec.V(config.DefaultWorldWidth/2, 0))
	if x != canvasWidth || y != canvasHeight*4 {
		t.Errorf("bottom-centre mapped to (%d,%d)", x, y)
	}
}

func TestViewAndQuit(t *testing.T) {
	m := newTestModel(t)
	for range 3 {
		m = update(t, m, TickMsg(time.Now()))
	}

	view := m.View()
	if !strings.Contains(view, "CLASSIC") || !strings.Contains(view, "RUNNING") {
		t.Error("view is missing header or status")
	}
	if !strings.ContainsRune(view, rune(brailleBlank)) {
		t.Error("view is missing the canvas")
	}

	m = update(t, m, key("t"))
	if m.theme != 1 {
		t.Errorf("expected theme 1, got %d", m.theme)
	}

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
