// Package memsave splits and joins the monolithic save layout.
//
// A monolithic save is a fixed-size file holding a fixed number of slots at a
// fixed stride. Each slot is IV ‖ ciphertext with no length prefix, padding or
// checksum. It shares only the cipher with the BND4 container codec.
package memsave

import (
	"fmt"

	"github.com/goopsie/sl2tools/pkg/crypt"
	"github.com/goopsie/sl2tools/pkg/saveerr"
)

// Layout describes where the slots of a monolithic save live.
type Layout struct {
	Base      int // Offset of the first slot
	Stride    int // Distance between slot starts
	Count     int // Number of slots
	CipherLen int // Ciphertext bytes per slot, block aligned
	Total     int // Exact file size
}

// Standard is the layout of the monolithic save file.
var Standard = Layout{
	Base:      0x40,
	Stride:    0x60030,
	Count:     11,
	CipherLen: 0x60020,
	Total:     0x420250,
}

var (
	// ErrSize is returned when a save is not exactly Layout.Total bytes.
	ErrSize = fmt.Errorf("%w: wrong save size", saveerr.ErrFormat)

	// ErrSlotSize is returned when a slot plaintext is not Layout.CipherLen bytes.
	ErrSlotSize = fmt.Errorf("%w: wrong slot size", saveerr.ErrFormat)

	// ErrLayout is returned for a layout whose slots do not fit.
	ErrLayout = fmt.Errorf("%w: invalid layout", saveerr.ErrFormat)
)

// MissingSlotError reports a slot artifact that is absent.
type MissingSlotError struct {
	Index int
}

func (e *MissingSlotError) Error() string {
	return fmt.Sprintf("slot %d is missing", e.Index)
}

func (e *MissingSlotError) Unwrap() error {
	return saveerr.ErrFormat
}

// Validate checks that every slot fits inside the file.
func (l Layout) Validate() error {
	if l.Count <= 0 || l.CipherLen <= 0 || l.CipherLen%crypt.BlockSize != 0 {
		return fmt.Errorf("%w: %+v", ErrLayout, l)
	}
	if l.Stride < crypt.IVSize+l.CipherLen {
		return fmt.Errorf("%w: stride %d smaller than slot", ErrLayout, l.Stride)
	}
	if l.slotOffset(l.Count-1)+crypt.IVSize+l.CipherLen > l.Total {
		return fmt.Errorf("%w: slots overrun total size %d", ErrLayout, l.Total)
	}
	return nil
}

func (l Layout) slotOffset(i int) int {
	return l.Base + l.Stride*i
}

// Unpack decrypts every slot of save. Each result is CipherLen bytes.
func (l Layout) Unpack(save []byte) ([][]byte, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if len(save) != l.Total {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrSize, l.Total, len(save))
	}

	out := make([][]byte, l.Count)
	for i := range l.Count {
		pos := l.slotOffset(i)
		iv := save[pos : pos+crypt.IVSize]
		ciphertext := save[pos+crypt.IVSize : pos+crypt.IVSize+l.CipherLen]

		plaintext, err := crypt.DecryptCBC(iv, ciphertext)
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", i, err)
		}
		out[i] = plaintext
	}

	return out, nil
}

// Pack encrypts every slot under a zero IV into a new zero-filled save.
// All Count slots are required.
func (l Layout) Pack(slots [][]byte) ([]byte, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	if len(slots) > l.Count {
		return nil, fmt.Errorf("%w: got %d slots, layout holds %d", ErrSlotSize, len(slots), l.Count)
	}
	for i := range l.Count {
		if i >= len(slots) || slots[i] == nil {
			return nil, &MissingSlotError{Index: i}
		}
		if len(slots[i]) != l.CipherLen {
			return nil, fmt.Errorf("%w: slot %d has %d bytes, want %d", ErrSlotSize, i, len(slots[i]), l.CipherLen)
		}
	}

	var iv [crypt.IVSize]byte
	save := make([]byte, l.Total)
	for i := range l.Count {
		ciphertext, err := crypt.EncryptCBC(iv[:], slots[i])
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", i, err)
		}

		pos := l.slotOffset(i)
		copy(save[pos:], iv[:])
		copy(save[pos+crypt.IVSize:], ciphertext)
	}

	return save, nil
}
