// Package config loads tool defaults from an ini file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/ini.v1"
)

// DefaultPath is read when no -config flag is given.
const DefaultPath = "sl2tools.ini"

// Config holds defaults that command-line flags may override.
type Config struct {
	Input        string
	Output       string
	SlotsDir     string
	DecryptedDir string

	Backup         bool
	VerifyChecksum bool
	Editor         string // "tui" or "plain"
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Backup: true,
		Editor: "tui",
	}
}

// Load reads path. A missing file yields Default unless required is set.
func Load(path string, required bool) (Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) && !required {
		return cfg, nil
	}

	f, err := ini.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}

	paths := f.Section("paths")
	cfg.Input = paths.Key("input").MustString(cfg.Input)
	cfg.Output = paths.Key("output").MustString(cfg.Output)
	cfg.SlotsDir = paths.Key("slots_dir").MustString(cfg.SlotsDir)
	cfg.DecryptedDir = paths.Key("decrypted_dir").MustString(cfg.DecryptedDir)

	edit := f.Section("edit")
	cfg.Backup = edit.Key("backup").MustBool(cfg.Backup)
	cfg.VerifyChecksum = edit.Key("verify_checksum").MustBool(cfg.VerifyChecksum)
	cfg.Editor = strings.ToLower(edit.Key("editor").MustString(cfg.Editor))

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	switch c.Editor {
	case "tui", "plain":
		return nil
	}
	return fmt.Errorf("editor must be 'tui' or 'plain', got %q", c.Editor)
}
