package gui

import "github.com/san-kum/ropesim/internal/vec"

// Viewport maps the world rectangle onto a window of the same aspect.
// World y points up, screen y points down.
type Viewport struct {
	WorldWidth, WorldHeight   float64
	ScreenWidth, ScreenHeight float64
}

func (v Viewport) ToScreen(p vec.Vec2) (float32, float32) {
	x := p.X / v.WorldWidth * v.ScreenWidth
	y := (1 - p.Y/v.WorldHeight) * v.ScreenHeight
	return float32(x), float32(y)
}

func (v Viewport) ToWorld(x, y float32) vec.Vec2 {
	return vec.V(
		float64(x)/v.ScreenWidth*v.WorldWidth,
		(1-float64(y)/v.ScreenHeight)*v.WorldHeight,
	)
}
