package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatal(err)
	}
	d := Defaults()
	if cfg.Volume != d.Volume || cfg.Theme != d.Theme || cfg.LibraryRoot != d.LibraryRoot {
		t.Errorf("got %+v, want defaults %+v", cfg, d)
	}
	if len(cfg.Extensions) != 4 {
		t.Errorf("extensions = %v", cfg.Extensions)
	}
}

func TestLoad_FileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{
  "libraryRootPath": "/srv/music",
  "lastPlayedTrackPath": "/srv/music/a/b.mp3",
  "volume": 1.7,
  "repeat": true
}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LibraryRoot != "/srv/music" || cfg.LastPlayed != "/srv/music/a/b.mp3" {
		t.Errorf("paths not read: %+v", cfg)
	}
	if cfg.Volume != 1 {
		t.Errorf("volume = %v, want clamped to 1", cfg.Volume)
	}
	if !cfg.Repeat || cfg.Theme != DefaultTheme {
		t.Errorf("unexpected %+v", cfg)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"libraryRootPath": "/srv/music", "theme": "dark"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ARBOR_LIBRARY", "/mnt/usb")
	t.Setenv("ARBOR_VOLUME", "0.25")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LibraryRoot != "/mnt/usb" || cfg.Volume != 0.25 || cfg.Theme != "dark" {
		t.Errorf("unexpected %+v", cfg)
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected an error for malformed json")
	}
}

func TestSave_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := Defaults()
	cfg.LastPlayed = "/music/song.mp3"
	cfg.Volume = 0.5

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.LastPlayed != cfg.LastPlayed || got.Volume != 0.5 {
		t.Errorf("saved config not read back: %+v", got)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}
}
