package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/metrics"
	"github.com/san-kum/ropesim/internal/verlet"
)

const (
	windowWidth  = 800
	windowHeight = 800
	pointRadius  = 5
	maxTelemetry = 200
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColPoint   = rl.NewColor(230, 230, 240, 255)
	ColLocked  = rl.NewColor(255, 68, 68, 255)
	ColStick   = rl.NewColor(180, 180, 180, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
)

type App struct {
	Sim       *verlet.Simulation
	Initial   verlet.Snapshot
	Name      string
	Dt        float64
	View      Viewport
	Telemetry []float64
}

func NewApp(cfg *config.Config, s *verlet.Simulation) *App {
	return &App{
		Sim:     s,
		Initial: s.Snapshot(),
		Name:    cfg.Name,
		Dt:      cfg.Dt,
		View: Viewport{
			WorldWidth:   cfg.World.Width,
			WorldHeight:  cfg.World.Height,
			ScreenWidth:  windowWidth,
			ScreenHeight: windowHeight,
		},
		Telemetry: make([]float64, 0, maxTelemetry),
	}
}

// Run opens an 800x800 window and blocks until it is closed.
func Run(cfg *config.Config, s *verlet.Simulation) {
	rl.InitWindow(windowWidth, windowHeight, "ropesim")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
	defer rl.CloseWindow()

	app := NewApp(cfg, s)
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if a.Update() {
			return
		}
		a.Draw()
	}
}

// Update applies input and advances one frame. It reports whether the
// user asked to quit.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		return true
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Sim.TogglePause()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.Sim.Restore(a.Initial)
		a.Telemetry = a.Telemetry[:0]
	}
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		m := rl.GetMousePosition()
		a.Sim.AddPoint(a.View.ToWorld(m.X, m.Y), false)
	}

	if a.Sim.Paused() {
		return false
	}
	a.Sim.Step(a.Dt)

	peak, _ := metrics.Strain(a.Sim)
	a.Telemetry = append(a.Telemetry, peak)
	if len(a.Telemetry) > maxTelemetry {
		a.Telemetry = a.Telemetry[1:]
	}
	return false
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.drawRope()
	a.drawHUD()

	rl.EndDrawing()
}

func (a *App) drawRope() {
	for i := range a.Sim.StickCount() {
		p, q := a.Sim.Endpoints(i)
		x0, y0 := a.View.ToScreen(p)
		x1, y1 := a.View.ToScreen(q)
		rl.DrawLineV(rl.NewVector2(x0, y0), rl.NewVector2(x1, y1), ColStick)
	}

	for _, p := range a.Sim.Points() {
		x, y := a.View.ToScreen(p.Position)
		col := ColPoint
		if p.Locked {
			col = ColLocked
		}
		rl.DrawCircleV(rl.NewVector2(x, y), pointRadius, col)
	}
}

func (a *App) drawHUD() {
	rl.DrawText("ropesim", 20, 20, 20, ColPoint)
	rl.DrawText(fmt.Sprintf(":: %s", a.Name), 110, 24, 14, ColText)

	status := "RUNNING"
	col := ColPoint
	if a.Sim.Paused() {
		status = "PAUSED"
		col = ColTextDim
	}
	rl.DrawText(status, windowWidth-100, 20, 14, col)

	rl.DrawText(fmt.Sprintf("t=%.2fs  points=%d  sticks=%d", a.Sim.Time(), a.Sim.Len(), a.Sim.StickCount()), 20, 50, 14, ColText)
	rl.DrawText("[CLICK] DROP  [SPACE] PAUSE  [R] RESET  [Q] QUIT", 20, windowHeight-30, 12, ColTextDim)
	rl.DrawText(fmt.Sprintf("%d FPS", rl.GetFPS()), windowWidth-70, windowHeight-30, 12, ColTextDim)

	a.drawTelemetry()
}

func (a *App) drawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := 20, windowHeight-110
	width, height := 300, 60

	maxVal := a.Telemetry[0]
	for _, v := range a.Telemetry {
		maxVal = max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + float32(i)/float32(len(a.Telemetry))*float32(width)
		py := float32(rectY+height) - float32(val/maxVal)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColStick)
	rl.DrawText(fmt.Sprintf("strain %.2e", a.Telemetry[len(a.Telemetry)-1]), int32(rectX+width+10), int32(rectY+height-10), 12, ColText)
}
