package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/sim"
	"github.com/san-kum/ropesim/internal/vec"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
	sticksFile   = "sticks.csv"
	configFile   = "config.yaml"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Scene      string             `json:"scene"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Iterations int                `json:"iterations"`
	Gravity    vec.Vec2           `json:"gravity"`
	Steps      int                `json:"steps"`
	Points     int                `json:"points"`
	Sticks     int                `json:"sticks"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes a run directory holding the metadata, the configuration that
// produced it, the stick list and every captured frame.
func (s *Store) Save(cfg *config.Config, result *sim.Result) (string, error) {
	now := time.Now()
	cfg = cfg.Clone()
	cfg.Name = runName(cfg.Name)
	runID := fmt.Sprintf("%s_%d", cfg.Name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	points := 0
	if last, ok := result.Last(); ok {
		points = len(last.Points)
	}

	meta := RunMetadata{
		ID:         runID,
		Scene:      cfg.Name,
		Timestamp:  now,
		Seed:       cfg.Seed,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Iterations: cfg.Iterations,
		Gravity:    cfg.Gravity,
		Steps:      result.StepsTaken,
		Points:     points,
		Sticks:     len(result.Sticks),
		Metrics:    result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, configFile), cfg); err != nil {
		return "", err
	}
	if err := writeSticks(filepath.Join(runDir, sticksFile), result.Sticks); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), result.Frames); err != nil {
		return "", err
	}

	return runID, nil
}

// runName reduces a scene name to characters that are safe in a single
// directory name, so every run lands directly under the base directory.
func runName(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
	clean = strings.Trim(clean, "_")
	if clean == "" {
		return "run"
	}
	return clean
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSticks(path string, sticks [][2]int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"a", "b"}); err != nil {
		return err
	}
	for _, st := range sticks {
		if err := w.Write([]string{strconv.Itoa(st[0]), strconv.Itoa(st[1])}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// writeFrames stores one row per frame: step, time, then x,y,locked per
// point. Rows grow when points are added during the run.
func writeFrames(path string, frames []sim.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if len(frames) == 0 {
		w.Flush()
		return w.Error()
	}

	maxPoints := 0
	for _, fr := range frames {
		maxPoints = max(maxPoints, len(fr.Points))
	}
	header := []string{"step", "time"}
	for i := 0; i < maxPoints; i++ {
		header = append(header, fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i), fmt.Sprintf("l%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, fr := range frames {
		row := []string{strconv.Itoa(fr.Step), strconv.FormatFloat(fr.Time, 'f', 6, 64)}
		for i, p := range fr.Points {
			locked := "0"
			if i < len(fr.Locked) && fr.Locked[i] {
				locked = "1"
			}
			row = append(row,
				strconv.FormatFloat(p.X, 'f', 6, 64),
				strconv.FormatFloat(p.Y, 'f', 6, 64),
				locked,
			)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, configFile))
}

func (s *Store) LoadSticks(runID string) ([][2]int, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, sticksFile))
	if err != nil {
		return nil, err
	}

	sticks := make([][2]int, 0, len(records))
	for i, rec := range records {
		if i == 0 || len(rec) < 2 {
			continue
		}
		a, errA := strconv.Atoi(rec[0])
		b, errB := strconv.Atoi(rec[1])
		if errA != nil || errB != nil {
			return nil, fmt.Errorf("run %s: bad stick row %d", runID, i)
		}
		sticks = append(sticks, [2]int{a, b})
	}
	return sticks, nil
}

func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []sim.Frame{}, nil
	}

	frames := make([]sim.Frame, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		rec := records[i]
		if len(rec) < 2 {
			continue
		}

		step, err := strconv.Atoi(rec[0])
		if err != nil {
			continue
		}
		t, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			continue
		}

		fr := sim.Frame{Step: step, Time: t}
		for j := 2; j+2 < len(rec); j += 3 {
			x, errX := strconv.ParseFloat(rec[j], 64)
			y, errY := strconv.ParseFloat(rec[j+1], 64)
			if errX != nil || errY != nil {
				break
			}
			fr.Points = append(fr.Points, vec.V(x, y))
			fr.Locked = append(fr.Locked, rec[j+2] == "1")
		}
		frames = append(frames, fr)
	}

	return frames, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}
