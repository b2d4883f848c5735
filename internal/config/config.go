// Package config loads and saves the player's settings file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/samber/lo"
)

const (
	DirName      = ".arbor"
	FileName     = "config.json"
	DefaultTheme = "default"
)

// Config is everything that survives a restart. Environment variables
// override the file.
type Config struct {
	LibraryRoot string   `json:"libraryRootPath" env:"ARBOR_LIBRARY"`
	LastPlayed  string   `json:"lastPlayedTrackPath" env:"ARBOR_LAST_PLAYED"`
	Volume      float64  `json:"volume" env:"ARBOR_VOLUME"`
	Repeat      bool     `json:"repeat" env:"ARBOR_REPEAT"`
	Theme       string   `json:"theme" env:"ARBOR_THEME"`
	Extensions  []string `json:"extensions,omitempty"`
}

// Dir returns ~/.arbor.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// DefaultPath returns ~/.arbor/config.json.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Defaults returns the configuration used when nothing is on disk.
func Defaults() Config {
	root := "Music"
	if home, err := os.UserHomeDir(); err == nil {
		root = filepath.Join(home, "Music")
	}
	return Config{
		LibraryRoot: root,
		Volume:      0.8,
		Theme:       DefaultTheme,
		Extensions:  []string{".mp3", ".flac", ".wav", ".ogg"},
	}
}

// Load reads path over the defaults and applies environment overrides. A
// missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Defaults()

	_, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Defaults(), fmt.Errorf("read environment: %w", err)
		}
	case err != nil:
		return cfg, fmt.Errorf("stat %s: %w", path, err)
	default:
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Defaults(), fmt.Errorf("read %s: %w", path, err)
		}
	}

	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	d := Defaults()
	c.Volume = lo.Clamp(c.Volume, 0, 1)
	if c.LibraryRoot == "" {
		c.LibraryRoot = d.LibraryRoot
	}
	if c.Theme == "" {
		c.Theme = d.Theme
	}
	c.Extensions = lo.Compact(c.Extensions)
	if len(c.Extensions) == 0 {
		c.Extensions = d.Extensions
	}
}

// Save writes cfg to path as indented JSON, creating the directory.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
