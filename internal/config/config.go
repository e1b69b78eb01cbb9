// Package config handles configuration loading for nafsd.
// It supports XDG config paths and environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for nafsd.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Anthropic    AnthropicConfig    `mapstructure:"anthropic"`
	Orchestrator OrchestratorConfig `mapstructure:"orchestrator"`
	Data         DataConfig         `mapstructure:"data"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Addr is the listen address for the HTTP API.
	Addr string `mapstructure:"addr"`
}

// AnthropicConfig holds text-generation provider settings.
type AnthropicConfig struct {
	// APIKey is the Anthropic API key; ${VAR} references are expanded.
	APIKey string `mapstructure:"api_key"`
	// Model is the model name passed to the Messages API.
	Model string `mapstructure:"model"`
	// UseBedrock routes calls through AWS Bedrock instead of the direct API.
	UseBedrock bool `mapstructure:"use_bedrock"`
	// AWSRegion is the Bedrock region.
	AWSRegion string `mapstructure:"aws_region"`
	// AWSProfile is the optional AWS shared-config profile.
	AWSProfile string `mapstructure:"aws_profile"`
}

// OrchestratorConfig holds dispatch and manager timing settings.
type OrchestratorConfig struct {
	// DispatchInterval is the cadence of the dispatch loop.
	DispatchInterval time.Duration `mapstructure:"dispatch_interval"`
	// ManagerPollInterval is how often a manager re-reads its subtasks.
	ManagerPollInterval time.Duration `mapstructure:"manager_poll_interval"`
	// ManagerWaitCeiling bounds how long a manager waits for subtasks.
	ManagerWaitCeiling time.Duration `mapstructure:"manager_wait_ceiling"`
}

// DataConfig holds storage paths.
type DataConfig struct {
	// Dir is the directory for the snapshot database and logs.
	Dir string `mapstructure:"dir"`
	// RosterPath is an optional YAML file of agents to register at startup.
	RosterPath string `mapstructure:"roster_path"`
}

// Load loads configuration from the XDG config path and environment.
// Precedence (highest to lowest):
// 1. Environment variables (NAFS_*, ANTHROPIC_API_KEY)
// 2. User config (~/.config/nafs/config.yaml)
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("NAFS")

	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("server.addr", "NAFS_ADDR")
	v.BindEnv("data.dir", "NAFS_DATA_DIR")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific file (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")

	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "")
	v.SetDefault("anthropic.use_bedrock", false)

	v.SetDefault("orchestrator.dispatch_interval", "1s")
	v.SetDefault("orchestrator.manager_poll_interval", "2s")
	v.SetDefault("orchestrator.manager_wait_ceiling", "300s")

	v.SetDefault("data.dir", defaultDataDir())
	v.SetDefault("data.roster_path", "")
}

// userConfigDir returns the XDG config directory for nafs.
func userConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "nafs")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "nafs")
	}
	return filepath.Join(home, ".config", "nafs")
}

// defaultDataDir returns the XDG data directory for nafs.
func defaultDataDir() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "nafs")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".nafs")
	}
	return filepath.Join(home, ".local", "share", "nafs")
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Orchestrator: OrchestratorConfig{
			DispatchInterval:    time.Second,
			ManagerPollInterval: 2 * time.Second,
			ManagerWaitCeiling:  300 * time.Second,
		},
		Data: DataConfig{
			Dir: defaultDataDir(),
		},
	}
}
