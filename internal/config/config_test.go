package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigYAMLRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Server.BaseURL = "http://interview.example:8080"
	cfg.Session.Questions = 3
	cfg.Audio.Backend = "portaudio"

	if err := WriteConfig(tmpDir, cfg); err != nil {
		t.Fatalf("WriteConfig failed: %v", err)
	}

	loaded, err := ReadConfig(tmpDir)
	if err != nil {
		t.Fatalf("ReadConfig failed: %v", err)
	}

	if loaded.Server.BaseURL != "http://interview.example:8080" {
		t.Errorf("Server.BaseURL: got %q, want %q", loaded.Server.BaseURL, "http://interview.example:8080")
	}
	if loaded.Session.Questions != 3 {
		t.Errorf("Session.Questions: got %d, want 3", loaded.Session.Questions)
	}
	if loaded.Audio.Backend != "portaudio" {
		t.Errorf("Audio.Backend: got %q, want %q", loaded.Audio.Backend, "portaudio")
	}
}

func TestMissingConfigYieldsDefaults(t *testing.T) {
	cfg, err := ReadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("ReadConfig failed on missing file: %v", err)
	}
	if cfg.Session.Questions != 5 {
		t.Errorf("default Session.Questions: got %d, want 5", cfg.Session.Questions)
	}
	if cfg.Audio.Backend != "miniaudio" {
		t.Errorf("default Audio.Backend: got %q, want %q", cfg.Audio.Backend, "miniaudio")
	}
}

func TestPartialConfigKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	partial := `version: 1
server:
  base_url: "http://interview.example"
`
	configPath := filepath.Join(tmpDir, ".surveycode")
	if err := os.MkdirAll(configPath, 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configPath, "config.yaml"), []byte(partial), 0644); err != nil {
		t.Fatalf("failed to write partial config: %v", err)
	}

	cfg, err := ReadConfig(tmpDir)
	if err != nil {
		t.Fatalf("ReadConfig failed on partial config: %v", err)
	}
	if cfg.Server.BaseURL != "http://interview.example" {
		t.Errorf("Server.BaseURL: got %q, want %q", cfg.Server.BaseURL, "http://interview.example")
	}
	if cfg.Session.Questions != 5 {
		t.Errorf("Session.Questions should keep its default, got %d", cfg.Session.Questions)
	}
}
