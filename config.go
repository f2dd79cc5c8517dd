// config.go
package main

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultConfigDir = ".nightshift"

//go:embed config/settings.yaml
var defaultSettings string

// BackendSettings configures one generation backend role.
type BackendSettings struct {
	Model    string `yaml:"model"`
	Endpoint string `yaml:"endpoint,omitempty"`
}

// Settings is the YAML run configuration. Credentials are deliberately not
// part of it; they come from flags or the environment.
type Settings struct {
	Backends struct {
		Primary        BackendSettings `yaml:"primary"`
		Secondary      BackendSettings `yaml:"secondary"`
		TimeoutSeconds int             `yaml:"timeout_seconds"`
	} `yaml:"backends"`
	Paths struct {
		Inbox    string `yaml:"inbox"`
		DataDir  string `yaml:"data_dir"`
		NewsDump string `yaml:"news_dump"`
		ArtDir   string `yaml:"art_dir"`
	} `yaml:"paths"`
	Bucket            string `yaml:"bucket"`
	Concurrency       int    `yaml:"concurrency"`
	RunTimeoutMinutes int    `yaml:"run_timeout_minutes"`
}

// BackendTimeout is the per-call ceiling for a single backend request.
func (s *Settings) BackendTimeout() time.Duration {
	if s.Backends.TimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(s.Backends.TimeoutSeconds) * time.Second
}

// RunTimeout bounds the whole press run so one stuck call can never hang
// the pipeline past its deadline.
func (s *Settings) RunTimeout() time.Duration {
	if s.RunTimeoutMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(s.RunTimeoutMinutes) * time.Minute
}

// GetConfigPath returns the path of a file in the config directory.
func GetConfigPath(filename string) string {
	return filepath.Join(defaultConfigDir, filename)
}

// LoadSettings reads the settings file, falling back to the embedded
// defaults when the file does not exist. An explicitly provided path must
// exist.
func LoadSettings(path string) (*Settings, error) {
	required := path != ""
	if path == "" {
		path = GetConfigPath("settings.yaml")
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !required {
		data = []byte(defaultSettings)
	} else if err != nil {
		return nil, fmt.Errorf("reading settings file %s: %w", path, err)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parsing settings YAML: %w", err)
	}
	return &settings, nil
}

// ensureConfigExists writes the default settings file on first run so
// operators have something to edit.
func ensureConfigExists() error {
	if err := os.MkdirAll(defaultConfigDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	settingsPath := GetConfigPath("settings.yaml")
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		if err := os.WriteFile(settingsPath, []byte(defaultSettings), 0644); err != nil {
			return fmt.Errorf("writing default settings: %w", err)
		}
	}
	return nil
}
