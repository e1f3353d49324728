package physics2d

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hollow-engine/physics2d/body"
	"gopkg.in/yaml.v2"
)

// Config holds every tunable recognized by the engine: a plain struct with
// a default-filling constructor rather than functional options.
type Config struct {
	Gravity               float64 `yaml:"gravity"`
	StepsPerSecond        int     `yaml:"stepsPerSecond"`
	VelocityIterations    int     `yaml:"velocityIterations"`
	SleepLinearThreshold  float64 `yaml:"sleepLinearThreshold"`
	SleepAngularThreshold float64 `yaml:"sleepAngularThreshold"`
	SleepTimeThreshold    float64 `yaml:"sleepTimeThreshold"`

	// Workers is the number of goroutines the solver shards per-island
	// velocity iterations across (see solveBuckets in pipeline.go). 1 runs the
	// solver on the calling goroutine only.
	Workers int `yaml:"workers"`

	// QuadTreeBounds is the broad-phase's fixed world extent. The quadtree
	// needs a root AABB; a zero-value AABB would reject every insert.
	QuadTreeBounds body.AABB `yaml:"-"`
}

// DefaultConfig returns the engine's stock tuning, with a 20000x20000
// quadtree root centered on the origin.
func DefaultConfig() Config {
	return Config{
		Gravity:               981,
		StepsPerSecond:        500,
		VelocityIterations:    5,
		SleepLinearThreshold:  0.15,
		SleepAngularThreshold: 0.15,
		SleepTimeThreshold:    0.5,
		Workers:               1,
		QuadTreeBounds: body.AABB{
			Min: mgl64.Vec2{-10000, -10000},
			Max: mgl64.Vec2{10000, 10000},
		},
	}
}

// FixedTimeStep is 1/StepsPerSecond, the quantum each engine step advances by.
func (c Config) FixedTimeStep() float64 {
	return 1.0 / float64(c.StepsPerSecond)
}

// LoadConfigYAML reads a YAML-encoded Config from path, starting from
// DefaultConfig so an omitted field keeps its default rather than zeroing out.
func LoadConfigYAML(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("physics2d: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("physics2d: parse config: %w", err)
	}
	return cfg, nil
}

// SaveConfigYAML writes cfg to path as YAML, e.g. to persist a tuning preset.
func SaveConfigYAML(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("physics2d: encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("physics2d: write config: %w", err)
	}
	return nil
}
