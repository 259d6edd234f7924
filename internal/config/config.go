package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/edmd/internal/collision"
	"github.com/san-kum/edmd/internal/sim"
)

const (
	DefaultL         = 0.1
	DefaultN         = 100
	DefaultRadius    = 0.001
	DefaultMass      = 1.0
	DefaultSpeed     = 1.0
	DefaultObstacleR = 0.005
	DefaultBinDt     = 0.1
	DefaultMaxSteps  = 50000
	DefaultWallClock = 60 * time.Second
	DefaultSaveEvery = 1
	DefaultHistory   = 3
	DefaultScenario  = "random"
	DefaultTieBreak  = "lowest-id"
	MovableObstacleM = 3.0
)

var ErrInvalid = errors.New("config: invalid configuration")

type Config struct {
	Scenario  string         `yaml:"scenario"`
	Seed      int64          `yaml:"seed"`
	Box       BoxConfig      `yaml:"box"`
	Particles ParticleConfig `yaml:"particles"`
	Obstacle  ObstacleConfig `yaml:"obstacle"`
	Engine    EngineConfig   `yaml:"engine"`
	Run       RunConfig      `yaml:"run"`
	Output    OutputConfig   `yaml:"output"`
}

type BoxConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type ParticleConfig struct {
	Count  int     `yaml:"count"`
	Radius float64 `yaml:"radius"`
	Mass   float64 `yaml:"mass"`
	Speed  float64 `yaml:"speed"`
}

// ObstacleConfig describes the central obstacle. Mass 0 means static.
type ObstacleConfig struct {
	Enabled bool    `yaml:"enabled"`
	Radius  float64 `yaml:"radius"`
	Mass    float64 `yaml:"mass"`
}

type EngineConfig struct {
	Epsilon  float64 `yaml:"epsilon"`
	BinDt    float64 `yaml:"bin_dt"`
	TieBreak string  `yaml:"tie_break"`
	History  int     `yaml:"history"`
	Workers  int     `yaml:"workers"`
}

type RunConfig struct {
	MaxSteps  int           `yaml:"max_steps"`
	WallClock time.Duration `yaml:"wall_clock"`
	MaxTime   float64       `yaml:"max_time"`
}

type OutputConfig struct {
	SaveEvery  int  `yaml:"save_every"`
	Trajectory bool `yaml:"trajectory"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario: DefaultScenario,
		Seed:     1,
		Box:      BoxConfig{Width: DefaultL, Height: DefaultL},
		Particles: ParticleConfig{
			Count:  DefaultN,
			Radius: DefaultRadius,
			Mass:   DefaultMass,
			Speed:  DefaultSpeed,
		},
		Obstacle: ObstacleConfig{
			Enabled: true,
			Radius:  DefaultObstacleR,
		},
		Engine: EngineConfig{
			Epsilon:  collision.DefaultEpsilon,
			BinDt:    DefaultBinDt,
			TieBreak: DefaultTieBreak,
			History:  DefaultHistory,
			Workers:  1,
		},
		Run: RunConfig{
			MaxSteps:  DefaultMaxSteps,
			WallClock: DefaultWallClock,
		},
		Output: OutputConfig{
			SaveEvery:  DefaultSaveEvery,
			Trajectory: true,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
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

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...)
}

// Validate checks the file-level fields. Engine fields are checked again by
// sim.Config.Validate when the simulator is built.
func (c *Config) Validate() error {
	if !(c.Box.Width > 0) || !(c.Box.Height > 0) {
		return invalid("box must have positive dimensions, got %vx%v", c.Box.Width, c.Box.Height)
	}
	if c.Particles.Count < 0 {
		return invalid("particle count must be non-negative, got %d", c.Particles.Count)
	}
	if !(c.Particles.Radius > 0) || !(c.Particles.Mass > 0) {
		return invalid("particle radius and mass must be positive")
	}
	if c.Particles.Speed < 0 {
		return invalid("particle speed must be non-negative, got %v", c.Particles.Speed)
	}
	if c.Obstacle.Enabled && !(c.Obstacle.Radius > 0) {
		return invalid("obstacle radius must be positive, got %v", c.Obstacle.Radius)
	}
	if c.Obstacle.Mass < 0 {
		return invalid("obstacle mass must be non-negative, got %v", c.Obstacle.Mass)
	}
	if c.Output.SaveEvery < 1 {
		return invalid("save_every must be at least 1, got %d", c.Output.SaveEvery)
	}
	if _, err := c.EngineConfig(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// StaticObstacle reports whether the obstacle is fixed in place.
func (c *Config) StaticObstacle() bool {
	return c.Obstacle.Mass == 0
}

// EngineConfig maps the file onto the event-loop configuration. A movable
// obstacle is tracked so its momentum transfer is still accumulated.
func (c *Config) EngineConfig() (sim.Config, error) {
	tb, err := sim.ParseTieBreak(c.Engine.TieBreak)
	if err != nil {
		return sim.Config{}, err
	}
	ec := sim.Config{
		Epsilon:      c.Engine.Epsilon,
		BinDt:        c.Engine.BinDt,
		TieBreak:     tb,
		MaxSteps:     c.Run.MaxSteps,
		MaxWallClock: c.Run.WallClock,
		MaxTime:      c.Run.MaxTime,
		History:      c.Engine.History,
		Workers:      c.Engine.Workers,
	}
	if c.Obstacle.Enabled && !c.StaticObstacle() {
		ec.TrackBodies = []int{0}
	}
	if err := ec.Validate(); err != nil {
		return sim.Config{}, err
	}
	return ec, nil
}
