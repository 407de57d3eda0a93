package config

import (
	"math"
	"os"

	"github.com/akmonengine/impulse/geom"
	"github.com/akmonengine/impulse/solver"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	DefaultGravity  = 9.80665
	DefaultTimestep = 1.0 / 60.0
	DefaultWorkers  = 1
	DefaultLogLevel = "info"
)

type Config struct {
	Gravity  GravityConfig `yaml:"gravity"`
	Solver   solver.Config `yaml:"solver"`
	Timestep float64       `yaml:"timestep"`
	// Workers bounds the goroutines running the narrow phase
	Workers  int    `yaml:"workers"`
	LogLevel string `yaml:"log_level"`
}

type GravityConfig struct {
	Acceleration float64    `yaml:"acceleration"`
	Direction    [3]float64 `yaml:"direction"`
}

func DefaultConfig() *Config {
	return &Config{
		Gravity: GravityConfig{
			Acceleration: DefaultGravity,
			Direction:    [3]float64{0, 0, -1},
		},
		Solver:   solver.DefaultConfig(),
		Timestep: DefaultTimestep,
		Workers:  DefaultWorkers,
		LogLevel: DefaultLogLevel,
	}
}

// GravityVector is the gravity acceleration in world space
func (c *Config) GravityVector() mgl64.Vec3 {
	direction := mgl64.Vec3(c.Gravity.Direction)
	return geom.Direction(direction).Mul(c.Gravity.Acceleration)
}

// Validate rejects values the engine cannot run with
func (c *Config) Validate() error {
	if c.Solver.Iterations <= 0 {
		return errors.Errorf("solver iterations must be positive, got %d", c.Solver.Iterations)
	}
	if !(c.Solver.Tolerance > 0) {
		return errors.Errorf("solver tolerance must be positive, got %g", c.Solver.Tolerance)
	}
	if !(c.Solver.Stiffness > 0) || math.IsInf(c.Solver.Stiffness, 0) {
		return errors.Errorf("solver stiffness must be positive and finite, got %g", c.Solver.Stiffness)
	}
	if !(c.Solver.Relaxation > 0) || math.IsInf(c.Solver.Relaxation, 0) {
		return errors.Errorf("solver relaxation must be positive and finite, got %g", c.Solver.Relaxation)
	}
	if !(c.Timestep > 0) {
		return errors.Errorf("timestep must be positive, got %g", c.Timestep)
	}
	if c.Workers <= 0 {
		return errors.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.Gravity.Acceleration < 0 || math.IsNaN(c.Gravity.Acceleration) || math.IsInf(c.Gravity.Acceleration, 0) {
		return errors.Errorf("gravity acceleration must be finite and not negative, got %g", c.Gravity.Acceleration)
	}
	if c.Gravity.Acceleration > 0 && mgl64.Vec3(c.Gravity.Direction).Len() < geom.Epsilon {
		return errors.New("gravity direction must not be zero")
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	return nil
}

// Load reads a YAML file on top of the defaults and validates the result
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config %s", path)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to encode config")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write config %s", path)
	}
	return nil
}
