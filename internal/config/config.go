package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultInterval = 2 * time.Second
	DefaultTheme    = "cyberpunk"
	DefaultDataDir  = ".loopviz"
	DefaultLogLevel = "info"
)

// Themes lists the palette names the renderer knows.
var Themes = []string{"cyberpunk", "retro", "minimal", "ocean", "sunset"}

type Config struct {
	Interval      time.Duration `yaml:"interval"`
	Theme         string        `yaml:"theme"`
	Scenario      string        `yaml:"scenario"`
	Autostart     bool          `yaml:"autostart"`
	DataDir       string        `yaml:"data_dir"`
	ScenariosFile string        `yaml:"scenarios_file,omitempty"`
	Log           LogConfig     `yaml:"log"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Interval: DefaultInterval,
		Theme:    DefaultTheme,
		Scenario: "0",
		DataDir:  DefaultDataDir,
		Log: LogConfig{
			Level: DefaultLogLevel,
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
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
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

// Validate rejects settings playback cannot run with.
func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", c.Interval)
	}
	if !KnownTheme(c.Theme) {
		return fmt.Errorf("unknown theme %q", c.Theme)
	}
	return nil
}

func KnownTheme(name string) bool {
	for _, t := range Themes {
		if t == name {
			return true
		}
	}
	return false
}
