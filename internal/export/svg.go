package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/ropesim/internal/sim"
	"github.com/san-kum/ropesim/internal/vec"
)

// Bounds is the world rectangle mapped onto the SVG viewport.
type Bounds struct {
	Min, Max vec.Vec2
}

// FitBounds returns the bounding box of all points in frames, padded by
// 10% on each side.
func FitBounds(frames ...sim.Frame) Bounds {
	first := true
	var b Bounds
	for _, f := range frames {
		for _, p := range f.Points {
			if first {
				b = Bounds{Min: p, Max: p}
				first = false
				continue
			}
			b.Min = vec.V(min(b.Min.X, p.X), min(b.Min.Y, p.Y))
			b.Max = vec.V(max(b.Max.X, p.X), max(b.Max.Y, p.Y))
		}
	}

	rangeX := b.Max.X - b.Min.X
	rangeY := b.Max.Y - b.Min.Y
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	b.Min = b.Min.Sub(vec.V(rangeX*0.1, rangeY*0.1))
	b.Max = b.Max.Add(vec.V(rangeX*0.1, rangeY*0.1))
	return b
}

// project maps a y-up world point into y-down SVG coordinates.
func (b Bounds) project(p vec.Vec2, width, height int) (float64, float64) {
	x := (p.X - b.Min.X) / (b.Max.X - b.Min.X) * float64(width)
	y := float64(height) - (p.Y-b.Min.Y)/(b.Max.Y-b.Min.Y)*float64(height)
	return x, y
}

func header(sb *strings.Builder, width, height int) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))
}

// FrameToSVG draws the sticks as lines and the points as circles. Locked
// points are drawn in the accent color.
func FrameToSVG(frame sim.Frame, sticks [][2]int, b Bounds, width, height int) string {
	var sb strings.Builder
	header(&sb, width, height)

	sb.WriteString(`<g stroke="#e6e6f0" stroke-width="1.5">` + "\n")
	for _, st := range sticks {
		if st[0] >= len(frame.Points) || st[1] >= len(frame.Points) {
			continue
		}
		x1, y1 := b.project(frame.Points[st[0]], width, height)
		x2, y2 := b.project(frame.Points[st[1]], width, height)
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", x1, y1, x2, y2))
	}
	sb.WriteString("</g>\n")

	sb.WriteString(`<g fill="#e6e6f0">` + "\n")
	for i, p := range frame.Points {
		cx, cy := b.project(p, width, height)
		fill := ""
		if i < len(frame.Locked) && frame.Locked[i] {
			fill = ` fill="#ff4444"`
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="5"%s/>`+"\n", cx, cy, fill))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectoryToSVG traces the path of a single point across frames.
func TrajectoryToSVG(frames []sim.Frame, point int, width, height int, strokeColor string) string {
	path := make([]vec.Vec2, 0, len(frames))
	for _, f := range frames {
		if point < len(f.Points) {
			path = append(path, f.Points[point])
		}
	}
	if len(path) < 2 {
		return ""
	}

	b := FitBounds(sim.Frame{Points: path})

	var sb strings.Builder
	header(&sb, width, height)
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))

	for i, p := range path {
		x, y := b.project(p, width, height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
