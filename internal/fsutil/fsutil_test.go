package fsutil

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goopsie/sl2tools/pkg/saveerr"
)

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.sl2")

	t.Run("Create", func(t *testing.T) {
		if err := WriteFile(path, []byte("first")); err != nil {
			t.Fatalf("write: %v", err)
		}
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "first" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		if err := WriteFile(path, []byte("second")); err != nil {
			t.Fatalf("write: %v", err)
		}
		got, _ := os.ReadFile(path)
		if string(got) != "second" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("NoLeftovers", func(t *testing.T) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 {
			t.Errorf("expected only the output file, found %d entries", len(entries))
		}
	})

	t.Run("NewFileMode", func(t *testing.T) {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if got := info.Mode().Perm(); got != 0644 {
			t.Errorf("mode = %v, want 0644", got)
		}
	})

	t.Run("KeepsMode", func(t *testing.T) {
		if err := os.Chmod(path, 0640); err != nil {
			t.Fatal(err)
		}
		if err := WriteFile(path, []byte("third")); err != nil {
			t.Fatalf("write: %v", err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if got := info.Mode().Perm(); got != 0640 {
			t.Errorf("mode = %v, want 0640 kept", got)
		}
	})

	t.Run("MissingDir", func(t *testing.T) {
		err := WriteFile(filepath.Join(dir, "nope", "out.sl2"), []byte("x"))
		if !errors.Is(err, saveerr.ErrIO) {
			t.Errorf("expected io error, got %v", err)
		}
	})
}

func TestWriteDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "slots")
	files := map[string][]byte{
		"a": []byte("alpha"),
		"b": bytes.Repeat([]byte{1}, 32),
	}

	if err := WriteDir(dir, files); err != nil {
		t.Fatalf("write dir: %v", err)
	}

	for name, want := range files {
		got, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("%s: content mismatch", name)
		}
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("staging directory left behind: %d entries in root", len(entries))
	}

	t.Run("ExistingDir", func(t *testing.T) {
		if err := WriteDir(dir, map[string][]byte{"c": []byte("gamma")}); err != nil {
			t.Fatalf("write dir: %v", err)
		}
		names, _ := os.ReadDir(dir)
		if len(names) != 3 {
			t.Errorf("got %d files, want 3", len(names))
		}
	})

	t.Run("FailureLeavesNoDir", func(t *testing.T) {
		target := filepath.Join(root, "failed")
		err := WriteDir(target, map[string][]byte{
			"ok":        []byte("x"),
			"missing/x": []byte("y"),
		})
		if !errors.Is(err, saveerr.ErrIO) {
			t.Fatalf("expected io error, got %v", err)
		}
		if _, err := os.Stat(target); !os.IsNotExist(err) {
			t.Errorf("output directory created by a failed write: %v", err)
		}
		entries, _ := os.ReadDir(root)
		if len(entries) != 1 {
			t.Errorf("leftovers in root: %d entries", len(entries))
		}
	})

	t.Run("ParentIsFile", func(t *testing.T) {
		file := filepath.Join(root, "plain")
		os.WriteFile(file, nil, 0644)
		defer os.Remove(file)
		if err := WriteDir(filepath.Join(file, "sub"), map[string][]byte{"a": nil}); !errors.Is(err, saveerr.ErrIO) {
			t.Errorf("expected io error, got %v", err)
		}
	})
}

func TestIsDirEmpty(t *testing.T) {
	dir := t.TempDir()

	empty, err := IsDirEmpty(dir)
	if err != nil || !empty {
		t.Errorf("fresh dir: empty=%v err=%v", empty, err)
	}

	empty, err = IsDirEmpty(filepath.Join(dir, "missing"))
	if err != nil || !empty {
		t.Errorf("missing dir: empty=%v err=%v", empty, err)
	}

	os.WriteFile(filepath.Join(dir, "f"), nil, 0644)
	empty, err = IsDirEmpty(dir)
	if err != nil || empty {
		t.Errorf("populated dir: empty=%v err=%v", empty, err)
	}
}
