// Package config holds the settings of a planning session. Settings come
// from defaults, an optional YAML file, then command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables honoured after .env is loaded.
const (
	EnvConfigPath = "STREAM_EDITOR_CONFIG"
	EnvFfmpeg     = "FFMPEG_BIN"
	EnvMpv        = "MPV_BIN"
)

// Settings is everything a preview or final run needs.
type Settings struct {
	Video     string `yaml:"video"`
	Log       string `yaml:"log"`
	Companion string `yaml:"companion,omitempty"`
	Intro     string `yaml:"intro,omitempty"`
	Outro     string `yaml:"outro,omitempty"`
	OutputDir string `yaml:"output_dir,omitempty"`
	Output    string `yaml:"output,omitempty"`

	// FirstKill is the hh:mm:ss clock time of the first logged kill in the main video.
	FirstKill string `yaml:"first_kill"`
	// CompanionFirstKill is the same moment in the companion video.
	CompanionFirstKill string `yaml:"companion_first_kill,omitempty"`

	Distance        float64  `yaml:"distance"`
	Before          int      `yaml:"before"`
	After           int      `yaml:"after"`
	VisibleToCaster bool     `yaml:"visible_to_caster"`
	Players         []string `yaml:"players,omitempty"`
	Exclude         []string `yaml:"exclude,omitempty"`

	Encoder Encoder `yaml:"encoder"`
}

// Encoder holds the ffmpeg quality knobs.
type Encoder struct {
	Preset string `yaml:"preset"`
	CRF    int    `yaml:"crf"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// Defaults returns the settings used when nothing else is given.
func Defaults() Settings {
	return Settings{
		Distance:        50,
		Before:          5,
		After:           3,
		VisibleToCaster: true,
		Encoder: Encoder{
			Preset: "ultrafast",
			CRF:    23,
			Width:  1920,
			Height: 1080,
		},
	}
}

// DualStream reports whether a companion video was configured.
func (s Settings) DualStream() bool {
	return s.Companion != ""
}

// Load reads a YAML settings file over the defaults. An empty path returns the defaults.
func Load(path string) (Settings, error) {
	s := Defaults()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return s, nil
}

// Marshal renders settings as YAML.
func Marshal(s Settings) ([]byte, error) {
	return yaml.Marshal(s)
}

// Write saves settings as YAML.
func Write(s Settings, path string) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadEnv loads a .env file from the working directory if there is one.
// Variables already set in the environment win.
func LoadEnv() error {
	err := godotenv.Load()
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// ConfigPath returns the settings file named by STREAM_EDITOR_CONFIG, if any.
func ConfigPath() string {
	return os.Getenv(EnvConfigPath)
}

// Binary returns the executable for name, honouring its override variable.
func Binary(envVar, name string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return name
}
