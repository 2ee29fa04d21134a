package archive

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/DataDog/zstd"

	"github.com/goopsie/sl2tools/pkg/crypt"
	"github.com/goopsie/sl2tools/pkg/saveerr"
)

// ErrDigest is returned when restored bytes do not match the recorded digest.
var ErrDigest = fmt.Errorf("%w: snapshot digest mismatch", saveerr.ErrFormat)

// Reader wraps an io.Reader to provide decompression of snapshot data.
type Reader struct {
	header    *Header
	zReader   io.ReadCloser
	headerBuf [HeaderSize]byte
}

// NewReader reads and validates the header, then returns a reader for the
// decompressed content.
func NewReader(r io.Reader) (*Reader, error) {
	reader := &Reader{
		header: &Header{},
	}

	if _, err := io.ReadFull(r, reader.headerBuf[:]); err != nil {
		return nil, fmt.Errorf("%w: read header: %w", ErrHeader, err)
	}

	if err := reader.header.UnmarshalBinary(reader.headerBuf[:]); err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}

	reader.zReader = zstd.NewReader(io.LimitReader(r, int64(reader.header.CompressedLength)))
	return reader, nil
}

// Header returns the snapshot header.
func (r *Reader) Header() *Header {
	return r.header
}

// Read reads decompressed data into p.
func (r *Reader) Read(p []byte) (n int, err error) {
	return r.zReader.Read(p)
}

// Close closes the reader.
func (r *Reader) Close() error {
	return r.zReader.Close()
}

// ReadAll reads the whole snapshot and checks it against the recorded
// length and digest.
func ReadAll(r io.Reader) ([]byte, error) {
	reader, err := NewReader(r)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	// The recorded length is only compared, never allocated up front.
	want := reader.header.Length
	data, err := io.ReadAll(io.LimitReader(reader, int64(min(want, math.MaxInt64-1))+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read content: %w", saveerr.ErrFormat, err)
	}
	if uint64(len(data)) != want {
		return nil, fmt.Errorf("%w: content is %d bytes, header records %d", ErrHeader, len(data), want)
	}

	if sum := crypt.Checksum(data); sum != reader.header.Digest {
		return nil, fmt.Errorf("%w: got %x, want %x", ErrDigest, sum, reader.header.Digest)
	}
	return data, nil
}

// Decode restores the original bytes from an in-memory snapshot.
func Decode(snapshot []byte) ([]byte, error) {
	return ReadAll(bytes.NewReader(snapshot))
}

// ReadFile restores the original bytes from a snapshot file.
func ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open snapshot: %w", saveerr.ErrIO, err)
	}
	defer f.Close()

	data, err := ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	return data, nil
}
