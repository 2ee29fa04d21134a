// Package archive stores zstd-compressed snapshots of save files.
//
// A snapshot is a fixed header followed by a single zstd frame. The header
// records the original length and its MD5 digest so a restore can prove it
// reproduced the exact bytes that were backed up.
package archive

import (
	"encoding/binary"
	"fmt"

	"github.com/goopsie/sl2tools/pkg/saveerr"
)

// Magic bytes identifying a save snapshot.
var Magic = [4]byte{'S', 'L', '2', 'Z'}

// HeaderSize is the fixed binary size of a snapshot header.
const HeaderSize = 40 // 4 + 4 + 8 + 8 + 16 bytes

// ErrHeader is returned for a malformed snapshot header.
var ErrHeader = fmt.Errorf("%w: invalid snapshot header", saveerr.ErrFormat)

// Header represents the header of a snapshot file.
type Header struct {
	Magic            [4]byte
	HeaderLength     uint32   // Always HeaderSize
	Length           uint64   // Original size
	CompressedLength uint64   // Size of the zstd frame
	Digest           [16]byte // MD5 of the original bytes
}

// Validate checks the header for validity.
func (h *Header) Validate() error {
	if h.Magic != Magic {
		return fmt.Errorf("%w: magic %x, expected %x", ErrHeader, h.Magic, Magic)
	}
	if h.HeaderLength != HeaderSize {
		return fmt.Errorf("%w: header length %d, expected %d", ErrHeader, h.HeaderLength, HeaderSize)
	}
	if h.Length == 0 {
		return fmt.Errorf("%w: original size is zero", ErrHeader)
	}
	if h.CompressedLength == 0 {
		return fmt.Errorf("%w: compressed size is zero", ErrHeader)
	}
	return nil
}

// MarshalBinary encodes the header to binary format.
func (h *Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize)
	h.EncodeTo(buf)
	return buf, nil
}

// EncodeTo writes the header to the given buffer.
// The buffer must be at least HeaderSize bytes.
func (h *Header) EncodeTo(buf []byte) {
	copy(buf[0:4], h.Magic[:])
	binary.LittleEndian.PutUint32(buf[4:8], h.HeaderLength)
	binary.LittleEndian.PutUint64(buf[8:16], h.Length)
	binary.LittleEndian.PutUint64(buf[16:24], h.CompressedLength)
	copy(buf[24:40], h.Digest[:])
}

// UnmarshalBinary decodes and validates the header.
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("%w: need %d bytes, got %d", ErrHeader, HeaderSize, len(data))
	}
	h.DecodeFrom(data)
	return h.Validate()
}

// DecodeFrom reads the header from the given buffer.
// Does not validate - use UnmarshalBinary for validation.
func (h *Header) DecodeFrom(data []byte) {
	copy(h.Magic[:], data[0:4])
	h.HeaderLength = binary.LittleEndian.Uint32(data[4:8])
	h.Length = binary.LittleEndian.Uint64(data[8:16])
	h.CompressedLength = binary.LittleEndian.Uint64(data[16:24])
	copy(h.Digest[:], data[24:40])
}
