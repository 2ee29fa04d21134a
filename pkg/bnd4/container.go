package bnd4

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/goopsie/sl2tools/pkg/saveerr"
)

// Container is a parsed BND4 container backed by a single owned buffer.
// A Container is never modified in place; Replace returns a new one.
type Container struct {
	raw     []byte
	entries []Entry
}

// Decode parses a container. The buffer is owned by the returned Container
// and must not be modified by the caller afterwards.
//
// Parsing stops at the first entry header whose magic does not match;
// entries past it are never read.
func Decode(buf []byte) (*Container, error) {
	if len(buf) < HeaderSize {
		return nil, fmt.Errorf("%w: container header needs %d bytes, got %d", ErrTruncated, HeaderSize, len(buf))
	}
	if [4]byte(buf[0:4]) != Magic {
		return nil, fmt.Errorf("%w: got %q", ErrBadMagic, buf[0:4])
	}

	count := int(binary.LittleEndian.Uint32(buf[countOffset : countOffset+4]))
	if HeaderSize+EntryHeaderSize*count > len(buf) {
		return nil, fmt.Errorf("%w: %d entry headers do not fit in %d bytes", ErrTruncated, count, len(buf))
	}

	c := &Container{
		raw:     buf,
		entries: make([]Entry, 0, count),
	}

	for i := range count {
		e, err := decodeEntryHeader(buf, i)
		if err != nil {
			return nil, err
		}
		if err := e.validate(len(buf)); err != nil {
			return nil, err
		}
		if err := e.readName(buf); err != nil {
			return nil, fmt.Errorf("%w: %w", saveerr.ErrFormat, err)
		}
		c.entries = append(c.entries, e)
	}

	return c, nil
}

// ReadFile reads and parses a container from a file.
func ReadFile(path string) (*Container, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read container: %w", saveerr.ErrIO, err)
	}

	c, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parse container %s: %w", path, err)
	}
	return c, nil
}

// Len returns the number of entries.
func (c *Container) Len() int {
	return len(c.entries)
}

// Entries returns the entry table in declaration order.
func (c *Container) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Entry returns the entry at index i.
func (c *Container) Entry(i int) (Entry, error) {
	if i < 0 || i >= len(c.entries) {
		return Entry{}, fmt.Errorf("%w: index %d of %d", ErrNoEntry, i, len(c.entries))
	}
	return c.entries[i], nil
}

// Bytes returns the container's buffer. The caller must not modify it.
func (c *Container) Bytes() []byte {
	return c.raw
}

// Sealed returns the encrypted data of entry i. The returned ciphertext
// aliases the container buffer.
func (c *Container) Sealed(i int) (Sealed, error) {
	e, err := c.Entry(i)
	if err != nil {
		return Sealed{}, err
	}

	data := c.raw[e.DataOffset:e.End()]
	s := Sealed{Ciphertext: data[sealedOverhead:]}
	copy(s.Checksum[:], data[0:16])
	copy(s.IV[:], data[16:32])
	return s, nil
}

// Open decrypts entry i and returns its payload.
func (c *Container) Open(i int) ([]byte, error) {
	s, err := c.Sealed(i)
	if err != nil {
		return nil, err
	}

	payload, err := Open(s)
	if err != nil {
		return nil, fmt.Errorf("entry %d: %w", i, err)
	}
	return payload, nil
}

// Reseal encrypts payload under entry i's original IV and returns a new
// container with the result spliced in.
func (c *Container) Reseal(i int, payload []byte) (*Container, error) {
	old, err := c.Sealed(i)
	if err != nil {
		return nil, err
	}

	s, err := Seal(payload, old.IV)
	if err != nil {
		return nil, fmt.Errorf("entry %d: %w", i, err)
	}
	return c.Replace(i, s)
}

// Replace returns a new container whose entry i holds s. The sealed data
// must be exactly the entry size; the buffer is never grown.
func (c *Container) Replace(i int, s Sealed) (*Container, error) {
	e, err := c.Entry(i)
	if err != nil {
		return nil, err
	}
	if s.Len() != int(e.Size) {
		return nil, &SizeMismatchError{Index: i, Want: int(e.Size), Got: s.Len()}
	}

	raw := make([]byte, len(c.raw))
	copy(raw, c.raw)
	s.encodeTo(raw[e.DataOffset:e.End()])

	return &Container{
		raw:     raw,
		entries: append([]Entry(nil), c.entries...),
	}, nil
}
