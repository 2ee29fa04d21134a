package memsave

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goopsie/sl2tools/internal/fsutil"
	"github.com/goopsie/sl2tools/pkg/saveerr"
)

// SlotFileName returns the artifact name of slot i.
func SlotFileName(i int) string {
	return fmt.Sprintf("USER_DATA%03d", i)
}

// ReadSlots loads every slot artifact of the layout from dir.
// A missing artifact is reported as *MissingSlotError.
func (l Layout) ReadSlots(dir string) ([][]byte, error) {
	slots := make([][]byte, l.Count)
	for i := range l.Count {
		data, err := os.ReadFile(filepath.Join(dir, SlotFileName(i)))
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingSlotError{Index: i}
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read slot %d: %w", saveerr.ErrIO, i, err)
		}
		slots[i] = data
	}
	return slots, nil
}

// WriteSlots writes one artifact per slot into dir. Either every artifact
// is written or none is.
func (l Layout) WriteSlots(dir string, slots [][]byte) error {
	if len(slots) != l.Count {
		return fmt.Errorf("%w: got %d slots, layout holds %d", ErrSlotSize, len(slots), l.Count)
	}

	files := make(map[string][]byte, len(slots))
	for i, data := range slots {
		files[SlotFileName(i)] = data
	}
	return fsutil.WriteDir(dir, files)
}

// UnpackFile decrypts the save at path and writes its slots into dir.
func (l Layout) UnpackFile(path, dir string) error {
	save, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read save: %w", saveerr.ErrIO, err)
	}

	slots, err := l.Unpack(save)
	if err != nil {
		return fmt.Errorf("unpack %s: %w", path, err)
	}
	return l.WriteSlots(dir, slots)
}
