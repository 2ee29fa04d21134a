// Package bnd4 provides types and functions for working with BND4 save containers.
//
// A container holds an ordered table of entries. Each entry's data is stored as
// checksum ‖ IV ‖ ciphertext, and decrypts to a length-prefixed payload.
package bnd4

import (
	"encoding/binary"
	"fmt"

	"github.com/goopsie/sl2tools/pkg/wstr"
)

// Magic bytes identifying a BND4 container.
var Magic = [4]byte{'B', 'N', 'D', '4'}

// EntryMagic is the fixed prefix of every entry header.
var EntryMagic = [8]byte{0x50, 0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0xff}

const (
	// HeaderSize is the size of the container header preceding the entry table.
	HeaderSize = 64

	// EntryHeaderSize is the fixed stride of the entry table.
	EntryHeaderSize = 32

	// NameSize is the size of an entry name field (12 UTF-16 code units).
	NameSize = 24

	countOffset = 12
)

// Entry describes one entry of the container table.
type Entry struct {
	Index        int
	Size         uint32 // Bytes at DataOffset: checksum, IV and ciphertext
	DataOffset   uint32
	NameOffset   uint32
	FooterLength uint32
	Name         string
}

// End returns the offset one past the entry's data.
func (e *Entry) End() int {
	return int(e.DataOffset) + int(e.Size)
}

// decodeEntryHeader parses the header at table position i.
// Does not check the data bounds - see validate.
func decodeEntryHeader(buf []byte, i int) (Entry, error) {
	pos := HeaderSize + EntryHeaderSize*i
	if pos+EntryHeaderSize > len(buf) {
		return Entry{}, fmt.Errorf("%w: entry header %d at %d", ErrTruncated, i, pos)
	}
	h := buf[pos : pos+EntryHeaderSize]

	if [8]byte(h[0:8]) != EntryMagic {
		return Entry{}, &EntryMagicError{Index: i, Got: [8]byte(h[0:8])}
	}

	return Entry{
		Index:        i,
		Size:         binary.LittleEndian.Uint32(h[8:12]),
		DataOffset:   binary.LittleEndian.Uint32(h[16:20]),
		NameOffset:   binary.LittleEndian.Uint32(h[20:24]),
		FooterLength: binary.LittleEndian.Uint32(h[24:28]),
	}, nil
}

// encodeEntryHeader writes e into the table slot for e.Index.
// The buffer must hold the full table.
func encodeEntryHeader(buf []byte, e *Entry) {
	h := buf[HeaderSize+EntryHeaderSize*e.Index:]
	copy(h[0:8], EntryMagic[:])
	binary.LittleEndian.PutUint32(h[8:12], e.Size)
	binary.LittleEndian.PutUint32(h[16:20], e.DataOffset)
	binary.LittleEndian.PutUint32(h[20:24], e.NameOffset)
	binary.LittleEndian.PutUint32(h[24:28], e.FooterLength)
}

func (e *Entry) validate(bufLen int) error {
	if e.Size < sealedOverhead || e.End() > bufLen {
		return &EntryBoundsError{Index: e.Index, Size: e.Size, DataOffset: e.DataOffset, BufLen: bufLen}
	}
	if int(e.NameOffset)+NameSize > bufLen {
		return fmt.Errorf("%w: entry %d name at %d", ErrTruncated, e.Index, e.NameOffset)
	}
	return nil
}

func (e *Entry) readName(buf []byte) error {
	name, err := wstr.Decode(buf[e.NameOffset : int(e.NameOffset)+NameSize])
	if err != nil {
		return fmt.Errorf("entry %d name: %w", e.Index, err)
	}
	e.Name = name
	return nil
}
