// Package utils holds the configuration surface shared by the CLI and
// the serve mode.
package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/heliacal/returncast/internal/types"
	"github.com/heliacal/returncast/pkg/astronomy/chart"
	"github.com/heliacal/returncast/pkg/astronomy/solver"
	"github.com/heliacal/returncast/pkg/cache"
	"github.com/heliacal/returncast/pkg/server"
)

// Config is the full application configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Server  server.Config `yaml:"server" mapstructure:"server"`
	Solver  SolverConfig  `yaml:"solver" mapstructure:"solver"`
	Chart   ChartConfig   `yaml:"chart" mapstructure:"chart"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // console or json
}

// SolverConfig overrides the iteration bounds. Zero values fall back to
// the solver defaults.
type SolverConfig struct {
	MaxIterations int     `yaml:"max_iterations" mapstructure:"max_iterations"`
	MaxStepDays   float64 `yaml:"max_step_days" mapstructure:"max_step_days"`
	NudgeDays     float64 `yaml:"nudge_days" mapstructure:"nudge_days"`
}

// ChartConfig selects the charted bodies and the geometry policy.
type ChartConfig struct {
	HouseSystem  string   `yaml:"house_system" mapstructure:"house_system"`
	Bodies       []string `yaml:"bodies" mapstructure:"bodies"`
	MinorAspects bool     `yaml:"minor_aspects" mapstructure:"minor_aspects"`
}

// CacheConfig selects the oracle cache backend.
type CacheConfig struct {
	Backend string            `yaml:"backend" mapstructure:"backend"` // none, memory, redis
	TTL     time.Duration     `yaml:"ttl" mapstructure:"ttl"`
	Redis   cache.RedisConfig `yaml:"redis" mapstructure:"redis"`
}

const configDirName = ".returncast"

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	bodies := make([]string, len(types.DefaultBodies))
	for i, b := range types.DefaultBodies {
		bodies[i] = string(b)
	}

	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Server: server.DefaultConfig(),
		Solver: SolverConfig{},
		Chart: ChartConfig{
			HouseSystem: string(chart.SystemPlacidus),
			Bodies:      bodies,
		},
		Cache: CacheConfig{
			Backend: "memory",
			TTL:     time.Hour,
			Redis: cache.RedisConfig{
				Addr: "localhost:6379",
			},
		},
	}
}

// LoadConfig loads configuration from file or creates the default.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	homeDir, _ := os.UserHomeDir()
	viper.AddConfigPath(filepath.Join(homeDir, configDirName))
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")

	viper.SetEnvPrefix("RETURNCAST")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createDefaultConfig()
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := DefaultConfig()
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// SaveConfig saves configuration to the home config file.
func SaveConfig(config *Config) error {
	homeDir, _ := os.UserHomeDir()
	configDir := filepath.Join(homeDir, configDirName)
	configFile := filepath.Join(configDir, "config.yaml")

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// createDefaultConfig creates and saves a default configuration.
func createDefaultConfig() (*Config, error) {
	config := DefaultConfig()

	if err := SaveConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	switch config.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("invalid log format: %s", config.Logging.Format)
	}

	switch chart.HouseSystem(config.Chart.HouseSystem) {
	case chart.SystemPlacidus, chart.SystemEqual, "":
	default:
		return fmt.Errorf("invalid house system: %s", config.Chart.HouseSystem)
	}

	if len(config.Chart.Bodies) == 0 {
		return fmt.Errorf("at least one body must be configured")
	}
	for _, name := range config.Chart.Bodies {
		if _, ok := solver.DefaultProfiles[types.Body(name)]; !ok {
			return fmt.Errorf("unknown body: %s", name)
		}
	}

	switch config.Cache.Backend {
	case "none", "memory", "redis":
	default:
		return fmt.Errorf("invalid cache backend: %s", config.Cache.Backend)
	}
	if config.Cache.Backend == "redis" && config.Cache.Redis.Addr == "" {
		return fmt.Errorf("redis cache requires an address")
	}

	if config.Solver.MaxIterations < 0 || config.Solver.MaxStepDays < 0 || config.Solver.NudgeDays < 0 {
		return fmt.Errorf("solver overrides must be non-negative")
	}

	return nil
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, configDirName, "config.yaml"), nil
}

// SolverOptions maps the config overrides onto the solver defaults.
func (c *Config) SolverOptions() solver.Options {
	opts := solver.DefaultOptions()
	if c.Solver.MaxIterations > 0 {
		opts.MaxIterations = c.Solver.MaxIterations
	}
	if c.Solver.MaxStepDays > 0 {
		opts.MaxStepDays = c.Solver.MaxStepDays
	}
	if c.Solver.NudgeDays > 0 {
		opts.NudgeDays = c.Solver.NudgeDays
	}
	return opts
}

// Bodies returns the configured body set.
func (c *Config) Bodies() []types.Body {
	bodies := make([]types.Body, len(c.Chart.Bodies))
	for i, name := range c.Chart.Bodies {
		bodies[i] = types.Body(name)
	}
	return bodies
}

// HouseSystem returns the configured house division.
func (c *Config) HouseSystem() chart.HouseSystem {
	if c.Chart.HouseSystem == "" {
		return chart.SystemPlacidus
	}
	return chart.HouseSystem(c.Chart.HouseSystem)
}

// AspectTable returns the configured aspect orb table.
func (c *Config) AspectTable() []chart.AspectDef {
	defs := append([]chart.AspectDef{}, chart.MajorAspects...)
	if c.Chart.MinorAspects {
		defs = append(defs, chart.MinorAspects...)
	}
	return defs
}
