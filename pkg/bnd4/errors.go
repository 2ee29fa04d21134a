package bnd4

import (
	"fmt"

	"github.com/goopsie/sl2tools/pkg/saveerr"
)

var (
	// ErrBadMagic is returned when the container does not start with "BND4".
	ErrBadMagic = fmt.Errorf("%w: not a BND4 container", saveerr.ErrFormat)

	// ErrTruncated is returned when the buffer ends before a declared structure.
	ErrTruncated = fmt.Errorf("%w: truncated data", saveerr.ErrFormat)

	// ErrNoEntry is returned for an entry index outside the table.
	ErrNoEntry = fmt.Errorf("%w: no such entry", saveerr.ErrFormat)

	// ErrChecksum is returned by Sealed.Verify on a digest mismatch.
	ErrChecksum = fmt.Errorf("%w: checksum mismatch", saveerr.ErrCrypto)
)

// EntryMagicError reports an entry header whose fixed prefix is wrong.
type EntryMagicError struct {
	Index int
	Got   [8]byte
}

func (e *EntryMagicError) Error() string {
	return fmt.Sprintf("entry header %d: bad magic % x", e.Index, e.Got)
}

func (e *EntryMagicError) Unwrap() error {
	return saveerr.ErrFormat
}

// EntryBoundsError reports an entry whose data does not fit the buffer.
type EntryBoundsError struct {
	Index      int
	Size       uint32
	DataOffset uint32
	BufLen     int
}

func (e *EntryBoundsError) Error() string {
	return fmt.Sprintf("entry %d: data [%d, +%d) outside buffer of %d bytes", e.Index, e.DataOffset, e.Size, e.BufLen)
}

func (e *EntryBoundsError) Unwrap() error {
	return saveerr.ErrFormat
}

// SizeMismatchError reports re-sealed data that would not fit the entry exactly.
// Splicing it would shift or overwrite the following entries.
type SizeMismatchError struct {
	Index int
	Want  int
	Got   int
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("entry %d: sealed size %d does not match entry size %d", e.Index, e.Got, e.Want)
}

func (e *SizeMismatchError) Unwrap() error {
	return saveerr.ErrFormat
}
