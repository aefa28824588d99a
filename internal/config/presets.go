package config

import (
	"sort"

	"github.com/san-kum/ropesim/internal/vec"
)

func preset(name string, scene SceneConfig, spawns ...SpawnConfig) *Config {
	cfg := DefaultConfig()
	cfg.Name = name
	cfg.Scene = scene
	cfg.Spawns = spawns
	return cfg
}

func length(l float64) *float64 { return &l }

var Presets = map[string]*Config{
	"classic": DefaultConfig(),
	"rope": preset("rope", SceneConfig{
		Kind: SceneRope, Anchor: vec.V(400, 700), Segments: 12, Spacing: 25,
	}),
	"bridge": preset("bridge", SceneConfig{
		Kind: SceneRope, Anchor: vec.V(150, 500), Segments: 11, Spacing: 50, PinEnd: true,
	}),
	"cloth": preset("cloth", SceneConfig{
		Kind: SceneCloth, Anchor: vec.V(200, 700), Cols: 13, Rows: 10, Spacing: 35, PinStride: 4,
	}),
	"curtain": preset("curtain", SceneConfig{
		Kind: SceneCloth, Anchor: vec.V(100, 750), Cols: 25, Rows: 8, Spacing: 25, PinStride: 1,
	}),
	"pendulum": preset("pendulum", SceneConfig{
		Kind: SceneCustom,
		Points: []PointConfig{
			{X: 400, Y: 600, Locked: true},
			{X: 550, Y: 600},
			{X: 650, Y: 600},
		},
		Sticks: []StickConfig{{A: 0, B: 1}, {A: 1, B: 2, Length: length(80)}},
	}),
	"rain": preset("rain", SceneConfig{
		Kind: SceneRope, Anchor: vec.V(200, 600), Segments: 9, Spacing: 50, PinEnd: true,
	},
		SpawnConfig{Step: 60, X: 300, Y: 750},
		SpawnConfig{Step: 120, X: 400, Y: 750},
		SpawnConfig{Step: 180, X: 500, Y: 750},
	),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
