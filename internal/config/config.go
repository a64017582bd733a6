// Package config loads the derivation pipeline configuration from YAML,
// applies environment overrides and maps the result onto the engine types.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"dppu/internal/action"
	"dppu/internal/engine"
	"dppu/internal/oracle"
	"dppu/internal/torsion"
)

// Config holds all dppu configuration.
type Config struct {
	// Run selects what to derive.
	Run RunConfig `yaml:"run"`

	// Oracle tunes the zero-proof and witness search.
	Oracle OracleConfig `yaml:"oracle"`

	// Stability bounds the radial stability analysis.
	Stability StabilityConfig `yaml:"stability"`

	// Checkpoint controls per-step state persistence.
	Checkpoint CheckpointConfig `yaml:"checkpoint"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// RunConfig selects topology, torsion content and the numeric benchmark
// point.
type RunConfig struct {
	Topology string `yaml:"topology"` // S3xS1, T3xS1, Nil3xS1
	Mode     string `yaml:"mode"`     // axial, vector_trace, mixed
	Variant  string `yaml:"variant"`  // full, tt, ree

	// Params overrides the benchmark values used for the stability step.
	Params map[string]float64 `yaml:"params"`
}

// OracleConfig tunes the numeric zero oracle.
type OracleConfig struct {
	NumPoints int   `yaml:"num_points"`
	Precision int   `yaml:"precision"`
	Seed      int64 `yaml:"seed"`
}

// StabilityConfig bounds the radial potential search.
type StabilityConfig struct {
	RMin              float64 `yaml:"r_min"`
	RMax              float64 `yaml:"r_max"`
	BoundaryThreshold float64 `yaml:"boundary_threshold"`
}

// CheckpointConfig controls the SQLite checkpoint store.
type CheckpointConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Run: RunConfig{
			Topology: "S3xS1",
			Mode:     "mixed",
			Variant:  "full",
		},
		Oracle: OracleConfig{
			NumPoints: 10,
			Precision: 50,
		},
		Stability: StabilityConfig{
			RMin:              0.01,
			RMax:              1e6,
			BoundaryThreshold: 0.02,
		},
		Checkpoint: CheckpointConfig{
			Enabled: true,
			Path:    "data/checkpoints.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("DPPU_CHECKPOINT_DB"); path != "" {
		c.Checkpoint.Path = path
	}
	if v := os.Getenv("DPPU_CHECKPOINTS"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Checkpoint.Enabled = enabled
		}
	}
	if level := os.Getenv("DPPU_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if topo := os.Getenv("DPPU_TOPOLOGY"); topo != "" {
		c.Run.Topology = topo
	}
}

// PipelineConfig maps the loaded configuration onto an engine.Config,
// validating the enum-valued fields.
func (c *Config) PipelineConfig() (engine.Config, error) {
	mode, err := torsion.ParseMode(c.Run.Mode)
	if err != nil {
		return engine.Config{}, err
	}
	variant, err := torsion.ParseVariant(c.Run.Variant)
	if err != nil {
		return engine.Config{}, err
	}
	return engine.Config{
		Topology: c.Run.Topology,
		Mode:     mode,
		Variant:  variant,
		Oracle: oracle.Config{
			NumPoints: c.Oracle.NumPoints,
			Precision: c.Oracle.Precision,
			Seed:      c.Oracle.Seed,
		},
		Stability: action.StabilityConfig{
			RMin:              c.Stability.RMin,
			RMax:              c.Stability.RMax,
			BoundaryThreshold: c.Stability.BoundaryThreshold,
		},
		ParamValues: c.Run.Params,
	}, nil
}

// OpenStore opens the configured checkpoint store; disabled checkpointing
// yields the no-op store.
func (c *Config) OpenStore() (engine.CheckpointStore, error) {
	if !c.Checkpoint.Enabled {
		return engine.DisabledStore{}, nil
	}
	if dir := filepath.Dir(c.Checkpoint.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create checkpoint directory: %w", err)
		}
	}
	return engine.OpenSQLiteStore(c.Checkpoint.Path)
}
