// Package fsutil writes output files so that a failed run leaves nothing behind.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/goopsie/sl2tools/pkg/saveerr"
)

// WriteFile writes data to path through a temporary file in the same
// directory and renames it into place. On error the destination is untouched.
// An existing file keeps its permission bits; a new file gets 0644.
func WriteFile(path string, data []byte) error {
	mode := fs.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %w", saveerr.ErrIO, err)
	}
	name := tmp.Name()

	if err := writeAndSync(tmp, data, mode); err != nil {
		os.Remove(name)
		return fmt.Errorf("%w: write %s: %w", saveerr.ErrIO, path, err)
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return fmt.Errorf("%w: rename %s: %w", saveerr.ErrIO, path, err)
	}
	return nil
}

func writeAndSync(f *os.File, data []byte, mode fs.FileMode) error {
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Chmod(mode); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteDir writes every file into dir. All files are staged in a temporary
// sibling directory first and only moved into place once every write
// succeeded. dir is created only then, so a failed write leaves no trace.
func WriteDir(dir string, files map[string][]byte) error {
	dir = filepath.Clean(dir)
	parent := filepath.Dir(dir)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return fmt.Errorf("%w: create parent directory: %w", saveerr.ErrIO, err)
	}

	stage, err := os.MkdirTemp(parent, ".stage-*")
	if err != nil {
		return fmt.Errorf("%w: create staging directory: %w", saveerr.ErrIO, err)
	}
	defer os.RemoveAll(stage)

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := os.WriteFile(filepath.Join(stage, name), files[name], 0644); err != nil {
			return fmt.Errorf("%w: stage %s: %w", saveerr.ErrIO, name, err)
		}
	}

	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		if err := os.Chmod(stage, 0755); err != nil {
			return fmt.Errorf("%w: %w", saveerr.ErrIO, err)
		}
		if err := os.Rename(stage, dir); err != nil {
			return fmt.Errorf("%w: move %s into place: %w", saveerr.ErrIO, dir, err)
		}
		return nil
	}

	for _, name := range names {
		if err := os.Rename(filepath.Join(stage, name), filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("%w: move %s into place: %w", saveerr.ErrIO, name, err)
		}
	}
	return nil
}

// IsDirEmpty reports whether path is an empty directory. A missing
// directory counts as empty.
func IsDirEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %w", saveerr.ErrIO, err)
	}
	return len(entries) == 0, nil
}
