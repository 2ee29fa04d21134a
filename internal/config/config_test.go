package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("MissingFile", func(t *testing.T) {
		cfg, err := Load(filepath.Join(dir, "absent.ini"), false)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if cfg != Default() {
			t.Errorf("got %+v, want defaults", cfg)
		}
	})

	t.Run("MissingRequired", func(t *testing.T) {
		if _, err := Load(filepath.Join(dir, "absent.ini"), true); err == nil {
			t.Error("expected error for missing required config")
		}
	})

	t.Run("Values", func(t *testing.T) {
		path := filepath.Join(dir, "sl2tools.ini")
		content := `
[paths]
input = DRAKS0005.sl2
output = edited.sl2
slots_dir = slots

[edit]
backup = false
verify_checksum = true
editor = Plain
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load(path, true)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		want := Config{
			Input:          "DRAKS0005.sl2",
			Output:         "edited.sl2",
			SlotsDir:       "slots",
			Backup:         false,
			VerifyChecksum: true,
			Editor:         "plain",
		}
		if cfg != want {
			t.Errorf("got %+v, want %+v", cfg, want)
		}
	})

	t.Run("BadEditor", func(t *testing.T) {
		path := filepath.Join(dir, "bad.ini")
		os.WriteFile(path, []byte("[edit]\neditor = vim\n"), 0644)
		if _, err := Load(path, true); err == nil {
			t.Error("expected error for unknown editor")
		}
	})
}
