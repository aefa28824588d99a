package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/ropesim/internal/sim"
	"github.com/san-kum/ropesim/internal/vec"
)

type FrameData struct {
	Step   int        `json:"step"`
	Time   float64    `json:"time"`
	Points []vec.Vec2 `json:"points"`
	Locked []bool     `json:"locked"`
}

type ExportData struct {
	Scene      string             `json:"scene"`
	Dt         float64            `json:"dt"`
	Iterations int                `json:"iterations"`
	Steps      int                `json:"steps"`
	Sticks     [][2]int           `json:"sticks"`
	Frames     []FrameData        `json:"frames"`
	Metrics    map[string]float64 `json:"metrics"`
}

func NewExportData(scene string, dt float64, iterations int, frames []sim.Frame, sticks [][2]int, metrics map[string]float64) ExportData {
	data := ExportData{
		Scene:      scene,
		Dt:         dt,
		Iterations: iterations,
		Steps:      len(frames),
		Sticks:     sticks,
		Frames:     make([]FrameData, len(frames)),
		Metrics:    metrics,
	}
	for i, f := range frames {
		data.Frames[i] = FrameData{Step: f.Step, Time: f.Time, Points: f.Points, Locked: f.Locked}
	}
	return data
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
