// Package config loads training configuration for the chalk trainer.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Train holds the knobs for a training run.
type Train struct {
	// LR is the gradient descent learning rate.
	LR float64 `yaml:"lr"`

	// Steps is the total number of training iterations.
	Steps int `yaml:"steps"`

	// LogEvery logs the loss every N steps during the initial narrated
	// phase of training.
	LogEvery int `yaml:"log_every"`

	// LoggedSteps is how many iterations are logged before training
	// continues silently to Steps.
	LoggedSteps int `yaml:"logged_steps"`

	// Seed drives the data generator and weight initialization so runs
	// are reproducible.
	Seed int64 `yaml:"seed"`

	// Backend selects the execution backend: "cpu" or "webgpu".
	Backend string `yaml:"backend"`
}

// DefaultTrain returns the configuration the train lesson uses when no
// file is given: 150 steps with the first 15 logged.
func DefaultTrain() Train {
	return Train{
		LR:          0.3,
		Steps:       150,
		LogEvery:    1,
		LoggedSteps: 15,
		Seed:        42,
		Backend:     "cpu",
	}
}

// LoadTrain reads a YAML training configuration. Fields absent from the
// file keep their defaults; unknown fields are rejected.
func LoadTrain(path string) (Train, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Train{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := DefaultTrain()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Train{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Train{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the configuration describes a runnable training
// loop.
func (c Train) Validate() error {
	if c.LR <= 0 {
		return fmt.Errorf("lr must be positive, got %v", c.LR)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", c.Steps)
	}
	if c.LogEvery <= 0 {
		return fmt.Errorf("log_every must be positive, got %d", c.LogEvery)
	}
	if c.LoggedSteps < 0 || c.LoggedSteps > c.Steps {
		return fmt.Errorf("logged_steps must be in [0, steps], got %d", c.LoggedSteps)
	}
	switch c.Backend {
	case "cpu", "webgpu":
	default:
		return fmt.Errorf("backend must be cpu or webgpu, got %q", c.Backend)
	}
	return nil
}
