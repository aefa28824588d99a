package config

import (
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/ropesim/internal/vec"
	"github.com/san-kum/ropesim/internal/verlet"
)

const (
	DefaultDt          = 1.0 / 60
	DefaultDuration    = 10.0
	DefaultWorldWidth  = 800.0
	DefaultWorldHeight = 800.0
	DefaultSpacing     = 50.0
	DefaultSegments    = 6

	SceneRope   = "rope"
	SceneCloth  = "cloth"
	SceneCustom = "custom"
)

type Config struct {
	Name          string        `yaml:"name"`
	Dt            float64       `yaml:"dt"`
	Duration      float64       `yaml:"duration"`
	Iterations    int           `yaml:"iterations"`
	Gravity       vec.Vec2      `yaml:"gravity"`
	Seed          int64         `yaml:"seed"`
	ValidateState bool          `yaml:"validate_state"`
	World         WorldConfig   `yaml:"world"`
	Scene         SceneConfig   `yaml:"scene"`
	Spawns        []SpawnConfig `yaml:"spawns"`
}

// WorldConfig is the visible area in simulation units, origin bottom-left.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type SceneConfig struct {
	Kind     string   `yaml:"kind"`
	Anchor   vec.Vec2 `yaml:"anchor"`
	Segments int      `yaml:"segments"`
	Spacing  float64  `yaml:"spacing"`
	// Rope: pin the first point, and the last one too when PinEnd is set.
	PinEnd bool `yaml:"pin_end"`
	// Cloth: grid size and the stride between pinned top-row points.
	Cols      int `yaml:"cols"`
	Rows      int `yaml:"rows"`
	PinStride int `yaml:"pin_stride"`

	Points []PointConfig `yaml:"points"`
	Sticks []StickConfig `yaml:"sticks"`
}

type PointConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Locked bool    `yaml:"locked"`
}

// StickConfig joins two points by index. A nil Length means the initial
// distance between them.
type StickConfig struct {
	A      int      `yaml:"a"`
	B      int      `yaml:"b"`
	Length *float64 `yaml:"length,omitempty"`
}

// SpawnConfig drops a new point into a running simulation before the given
// step.
type SpawnConfig struct {
	Step   int     `yaml:"step"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Locked bool    `yaml:"locked"`
}

// ClassicPoints is the demo chain: five free points along y=400 hanging
// from a pinned point at x=400.
func ClassicPoints() []PointConfig {
	return []PointConfig{
		{X: 100, Y: 400},
		{X: 150, Y: 400},
		{X: 200, Y: 400},
		{X: 250, Y: 400},
		{X: 350, Y: 400},
		{X: 400, Y: 400, Locked: true},
	}
}

func chainSticks(n int) []StickConfig {
	sticks := make([]StickConfig, 0, n-1)
	for i := 0; i+1 < n; i++ {
		sticks = append(sticks, StickConfig{A: i, B: i + 1})
	}
	return sticks
}

func DefaultConfig() *Config {
	points := ClassicPoints()
	return &Config{
		Name:          "classic",
		Dt:            DefaultDt,
		Duration:      DefaultDuration,
		Iterations:    verlet.DefaultIterations,
		Gravity:       vec.V(0, verlet.DefaultGravityY),
		ValidateState: true,
		World:         WorldConfig{Width: DefaultWorldWidth, Height: DefaultWorldHeight},
		Scene: SceneConfig{
			Kind:   SceneCustom,
			Points: points,
			Sticks: chainSticks(len(points)),
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	// A file that describes its own scene replaces the classic one rather
	// than merging into it.
	cfg.Scene = SceneConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Scene.Kind == "" && len(cfg.Scene.Points) == 0 {
		cfg.Scene = DefaultConfig().Scene
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the run parameters. Scene geometry is checked when the
// scene is built.
func (c *Config) Validate() error {
	if strings.ContainsAny(c.Name, `/\`) || strings.Contains(c.Name, "..") {
		return fmt.Errorf("name must not contain path separators or '..', got %q", c.Name)
	}
	if math.IsNaN(c.Dt) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("dt must be finite, got %v", c.Dt)
	}
	if c.Duration < 0 {
		return fmt.Errorf("duration must not be negative, got %f", c.Duration)
	}
	if c.Iterations < 0 {
		return fmt.Errorf("iterations must not be negative, got %d", c.Iterations)
	}
	if !c.Gravity.IsValid() {
		return fmt.Errorf("gravity must be finite, got %v", c.Gravity)
	}
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("world size must be positive, got %.1fx%.1f", c.World.Width, c.World.Height)
	}
	switch c.Scene.Kind {
	case SceneRope, SceneCloth, SceneCustom:
	case "":
		return fmt.Errorf("scene kind is required")
	default:
		return fmt.Errorf("unknown scene kind: %s", c.Scene.Kind)
	}
	for i, sp := range c.Spawns {
		if sp.Step < 0 {
			return fmt.Errorf("spawn %d: step must not be negative, got %d", i, sp.Step)
		}
	}
	return nil
}

// Steps is the number of fixed steps needed to cover Duration.
func (c *Config) Steps() int {
	if c.Dt <= 0 {
		return 0
	}
	return int(math.Round(c.Duration / c.Dt))
}

func (c *Config) SimConfig() verlet.Config {
	return verlet.Config{Gravity: c.Gravity, Iterations: c.Iterations}
}

// WithIterations returns a copy that relaxes n times per step.
func (c *Config) WithIterations(n int) (*Config, error) {
	if n <= 0 {
		return nil, fmt.Errorf("iterations must be positive, got %d", n)
	}
	out := c.Clone()
	out.Iterations = n
	return out, nil
}

// Clone returns a deep copy so presets can be handed out safely.
func (c *Config) Clone() *Config {
	out := *c
	out.Scene.Points = append([]PointConfig(nil), c.Scene.Points...)
	out.Scene.Sticks = make([]StickConfig, len(c.Scene.Sticks))
	for i, st := range c.Scene.Sticks {
		out.Scene.Sticks[i] = st
		if st.Length != nil {
			l := *st.Length
			out.Scene.Sticks[i].Length = &l
		}
	}
	out.Spawns = append([]SpawnConfig(nil), c.Spawns...)
	return &out
}
