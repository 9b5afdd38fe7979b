// Package config loads the optional YAML configuration shared by the CLI
// and the HTTP server.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alexiusacademia/gomoscap/internal/logging"
	"github.com/alexiusacademia/gomoscap/internal/numeric"
	"github.com/alexiusacademia/gomoscap/internal/sweep"
)

// Config is the complete configuration
type Config struct {
	Solver SolverConfig `yaml:"solver"`
	Sweep  SweepConfig  `yaml:"sweep"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

// SolverConfig controls the bias solver
type SolverConfig struct {
	Tolerance     float64 `yaml:"tolerance"` // V
	MaxIterations int     `yaml:"max_iterations"`
}

// SweepConfig controls sweep generation
type SweepConfig struct {
	Workers        int `yaml:"workers"`
	ProfileSamples int `yaml:"profile_samples"`
}

// ServerConfig controls the HTTP API
type ServerConfig struct {
	Address            string `yaml:"address"`
	ReadTimeoutSeconds int    `yaml:"read_timeout_seconds"`
}

// LogConfig controls structured logging
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn or error
	Format string `yaml:"format"` // text or json
}

// LoadError reports a configuration file that could not be used
type LoadError struct {
	File    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.File != "" {
		msg = e.File + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error { return e.Cause }

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Solver: SolverConfig{Tolerance: numeric.DefaultTolerance, MaxIterations: numeric.DefaultMaxIterations},
		Sweep:  SweepConfig{Workers: 4, ProfileSamples: sweep.DefaultSamples},
		Server: ServerConfig{Address: ":8080", ReadTimeoutSeconds: 30},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads a YAML file over the defaults. An empty path yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &LoadError{File: path, Message: "failed to read file", Cause: err}
	}
	c, err := Parse(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.File = path
		}
		return Config{}, err
	}
	return c, nil
}

// Parse decodes YAML over the defaults and validates the result
func Parse(data []byte) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, &LoadError{Message: "failed to parse YAML", Cause: err}
	}
	if err := c.Validate(); err != nil {
		return Config{}, &LoadError{Message: "invalid configuration", Cause: err}
	}
	return c, nil
}

// Validate rejects settings the solver or server cannot run with
func (c Config) Validate() error {
	switch {
	case c.Solver.Tolerance <= 0:
		return fmt.Errorf("solver.tolerance must be positive")
	case c.Solver.MaxIterations <= 0:
		return fmt.Errorf("solver.max_iterations must be positive")
	case c.Sweep.Workers <= 0:
		return fmt.Errorf("sweep.workers must be positive")
	case c.Sweep.ProfileSamples < 2:
		return fmt.Errorf("sweep.profile_samples must be at least 2")
	case c.Server.Address == "":
		return fmt.Errorf("server.address is required")
	case c.Server.ReadTimeoutSeconds <= 0:
		return fmt.Errorf("server.read_timeout_seconds must be positive")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return err
	}
	return nil
}

// Options returns the root finder settings
func (c SolverConfig) Options() numeric.Options {
	return numeric.Options{Tolerance: c.Tolerance, MaxIterations: c.MaxIterations}
}

// ReadTimeout returns the server read timeout
func (c ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}
