// Package config handles reading and writing the interview client's
// config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level structure for config.yaml.
type Config struct {
	Version int           `yaml:"version"`
	Server  ServerConfig  `yaml:"server"`
	Session SessionConfig `yaml:"session"`
	Audio   AudioConfig   `yaml:"audio"`
}

// ServerConfig points at the remote interview service.
type ServerConfig struct {
	BaseURL    string `yaml:"base_url"`
	ChannelURL string `yaml:"channel_url"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// SessionConfig controls the interview flow.
type SessionConfig struct {
	Questions      int    `yaml:"questions"`
	SubmissionPath string `yaml:"submission_path"`
}

// AudioConfig selects the device backend.
type AudioConfig struct {
	Backend string `yaml:"backend"` // "miniaudio" | "portaudio" | "none"
}

const configDir = ".surveycode"
const configFile = "config.yaml"

// ReadConfig reads <dir>/.surveycode/config.yaml. A missing file yields
// the defaults rather than an error; malformed YAML is an error.
func ReadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, configDir, configFile)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// WriteConfig writes cfg to <dir>/.surveycode/config.yaml, creating the
// directory if needed.
func WriteConfig(dir string, cfg *Config) error {
	dirPath := filepath.Join(dir, configDir)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	path := filepath.Join(dirPath, configFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// DefaultConfig returns a Config populated with sensible defaults. The
// server URLs can also come from SURVEYCODE_SERVER_URL and
// SURVEYCODE_CHANNEL_URL.
func DefaultConfig() *Config {
	baseURL := "http://localhost:5000"
	if v, ok := os.LookupEnv("SURVEYCODE_SERVER_URL"); ok {
		baseURL = v
	}
	channelURL := "ws://localhost:5000/events"
	if v, ok := os.LookupEnv("SURVEYCODE_CHANNEL_URL"); ok {
		channelURL = v
	}

	return &Config{
		Version: 1,
		Server: ServerConfig{
			BaseURL:    baseURL,
			ChannelURL: channelURL,
			TimeoutSec: 30,
		},
		Session: SessionConfig{
			Questions:      5,
			SubmissionPath: filepath.Join(configDir, "last_submission.json"),
		},
		Audio: AudioConfig{
			Backend: "miniaudio",
		},
	}
}
