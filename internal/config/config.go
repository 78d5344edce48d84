// Package config provides configuration management for the robot viewer
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Window  WindowConfig  `mapstructure:"window"`
	Link    LinkConfig    `mapstructure:"link"`
	Remote  RemoteConfig  `mapstructure:"remote"`
	Robot   RobotConfig   `mapstructure:"robot"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// WindowConfig configures the render window
type WindowConfig struct {
	Title  string `mapstructure:"title"`
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	VSync  bool   `mapstructure:"vsync"`
	MSAA   int    `mapstructure:"msaa"`
	FPS    int    `mapstructure:"fps"` // tick/render rate cap
}

// LinkConfig configures the serial peripheral link
type LinkConfig struct {
	Port        string        `mapstructure:"port"` // empty: auto-discover
	BaudRate    int           `mapstructure:"baud_rate"`
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
}

// RemoteConfig configures the optional WebSocket command server
type RemoteConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// RobotConfig exposes the motion tuning knobs that are worth overriding.
// Zero values fall back to the built-in defaults.
type RobotConfig struct {
	StepSize  float32 `mapstructure:"step_size"`
	JumpPeak  float32 `mapstructure:"jump_peak"`
	JumpTicks int     `mapstructure:"jump_ticks"`
	BobHeight float32 `mapstructure:"bob_height"`
}

// LoggingConfig configures log output
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "NEXUS Robot Control",
			Width:  1000,
			Height: 800,
			VSync:  true,
			MSAA:   4,
			FPS:    60,
		},
		Link: LinkConfig{
			Port:        "",
			BaudRate:    38400,
			ReadTimeout: 100 * time.Millisecond,
		},
		Remote: RemoteConfig{
			Enabled: false,
			Addr:    "127.0.0.1:7777",
		},
		Robot: RobotConfig{
			StepSize:  0.5,
			JumpPeak:  1.5,
			JumpTicks: 30,
			BobHeight: 0.12,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
		},
	}
}

// Load reads configuration from file and environment
func Load() (*Config, error) {
	cfg := DefaultConfig()

	configDir, err := GetConfigDir()
	if err != nil {
		return cfg, err
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return cfg, err
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("NEXUS")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, err
		}
		// Config file not found, use defaults and create one
		if err := Save(cfg); err != nil {
			return cfg, err
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Save writes the configuration to file
func Save(cfg *Config) error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	viper.Set("window", cfg.Window)
	viper.Set("link", cfg.Link)
	viper.Set("remote", cfg.Remote)
	viper.Set("robot", cfg.Robot)
	viper.Set("logging", cfg.Logging)

	configPath := filepath.Join(configDir, "config.yaml")
	return viper.WriteConfigAs(configPath)
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".nexus"), nil
}
