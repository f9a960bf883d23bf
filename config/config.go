// config.go

// Copyright (C) 2018  Steve Merrony

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package config holds the settings of the tellosh shell, stored as YAML.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Environment variables which override the file.
const (
	EnvAddress  = "TELLO_ADDRESS"
	EnvLogLevel = "TELLO_LOG_LEVEL"
)

// Config holds the application configuration.
type Config struct {
	Drone    DroneConfig    `yaml:"drone"`
	Timeouts TimeoutsConfig `yaml:"timeouts"`
	Media    MediaConfig    `yaml:"media"`
	Journal  JournalConfig  `yaml:"journal"`
	Log      LogConfig      `yaml:"log"`
	Shell    ShellConfig    `yaml:"shell"`
}

// DroneConfig holds the network addresses of the drone and the local ports.
type DroneConfig struct {
	Address       string `yaml:"address"`
	CommandPort   int    `yaml:"command_port"`
	LocalPort     int    `yaml:"local_port"`
	TelemetryPort int    `yaml:"telemetry_port"`
	FilePort      int    `yaml:"file_port"`
}

// TimeoutsConfig holds the receive windows.
type TimeoutsConfig struct {
	Command   Duration `yaml:"command"`
	Telemetry Duration `yaml:"telemetry"`
}

// MediaConfig holds where downloaded pictures go.
type MediaConfig struct {
	DownloadPath string `yaml:"download_path"`
}

// JournalConfig holds the flight journal settings.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // logrus level name
	JSON  bool   `yaml:"json"`
}

// ShellConfig holds settings of the interactive shell.
type ShellConfig struct {
	HistorySize  int                 `yaml:"history_size"`
	DefaultDelay Duration            `yaml:"default_delay"`
	Delays       map[string]Duration `yaml:"delays"` // settle time after a verb
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Drone: DroneConfig{
			Address:       "192.168.10.1",
			CommandPort:   8889,
			LocalPort:     8890,
			TelemetryPort: 8891,
			FilePort:      8888,
		},
		Timeouts: TimeoutsConfig{
			Command:   Duration(5 * time.Second),
			Telemetry: Duration(time.Second),
		},
		Media: MediaConfig{
			DownloadPath: "./tello_media",
		},
		Journal: JournalConfig{
			Enabled: true,
			Path:    "./data/journal.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Shell: ShellConfig{
			HistorySize:  20,
			DefaultDelay: Duration(500 * time.Millisecond),
			Delays: map[string]Duration{
				"takeoff":    Duration(5 * time.Second),
				"land":       Duration(5 * time.Second),
				"forward":    Duration(3 * time.Second),
				"back":       Duration(3 * time.Second),
				"left":       Duration(3 * time.Second),
				"right":      Duration(3 * time.Second),
				"up":         Duration(3 * time.Second),
				"down":       Duration(3 * time.Second),
				"rotate_cw":  Duration(2 * time.Second),
				"rotate_ccw": Duration(2 * time.Second),
			},
		},
	}
}

// Load loads the configuration from the given path.
// If the file does not exist, it is created with default values.
// Environment overrides are applied last and never saved.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read config file")
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse config file")
		}
	} else if os.IsNotExist(err) {
		if err := Save(path, cfg); err != nil {
			return nil, errors.Wrap(err, "failed to save config file")
		}
	} else {
		return nil, errors.Wrap(err, "failed to stat config file")
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) applyEnv() {
	if addr := strings.TrimSpace(os.Getenv(EnvAddress)); addr != "" {
		cfg.Drone.Address = addr
	}
	if lvl := strings.TrimSpace(os.Getenv(EnvLogLevel)); lvl != "" {
		cfg.Log.Level = lvl
	}
}

// Validate rejects settings the client could not run with.
func (cfg *Config) Validate() error {
	if cfg.Drone.Address == "" {
		return errors.New("drone.address must be set")
	}
	for name, p := range map[string]int{
		"drone.command_port":   cfg.Drone.CommandPort,
		"drone.local_port":     cfg.Drone.LocalPort,
		"drone.telemetry_port": cfg.Drone.TelemetryPort,
		"drone.file_port":      cfg.Drone.FilePort,
	} {
		if p < 0 || p > 65535 {
			return errors.Errorf("%s %d is not a valid port", name, p)
		}
	}
	if cfg.Drone.CommandPort == 0 {
		return errors.New("drone.command_port must be set")
	}
	if cfg.Timeouts.Command <= 0 {
		return errors.New("timeouts.command must be positive")
	}
	if cfg.Timeouts.Telemetry <= 0 {
		return errors.New("timeouts.telemetry must be positive")
	}
	if cfg.Shell.DefaultDelay < 0 {
		return errors.New("shell.default_delay must not be negative")
	}
	for verb, d := range cfg.Shell.Delays {
		if d < 0 {
			return errors.Errorf("shell.delays.%s must not be negative", verb)
		}
	}
	if cfg.Journal.Enabled && cfg.Journal.Path == "" {
		return errors.New("journal.path must be set when the journal is enabled")
	}
	return nil
}

// Save writes the configuration to the path, creating its directory.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	header := []byte(`# tellosh configuration
# Durations use Go syntax, eg. 500ms, 5s, 1m30s
# TELLO_ADDRESS and TELLO_LOG_LEVEL override drone.address and log.level

`)
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}
	return nil
}

// Delay returns the settle time after verb, falling back to the default.
func (s ShellConfig) Delay(verb string) time.Duration {
	if d, ok := s.Delays[verb]; ok {
		return time.Duration(d)
	}
	return time.Duration(s.DefaultDelay)
}
