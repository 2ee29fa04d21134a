package bnd4

import (
	"encoding/binary"
	"fmt"

	"github.com/goopsie/sl2tools/pkg/crypt"
	"github.com/goopsie/sl2tools/pkg/wstr"
)

// Builder assembles a container from plain payloads.
// Names are packed after the entry table, data follows the names.
type Builder struct {
	entries []builderEntry
}

type builderEntry struct {
	name    string
	payload []byte
	iv      [crypt.IVSize]byte
}

// NewBuilder creates an empty container builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends an entry. The payload is sealed under iv when Build runs.
func (b *Builder) Add(name string, payload []byte, iv [crypt.IVSize]byte) *Builder {
	b.entries = append(b.entries, builderEntry{name: name, payload: payload, iv: iv})
	return b
}

// Build seals every entry and returns the encoded container.
func (b *Builder) Build() ([]byte, error) {
	count := len(b.entries)
	namesStart := HeaderSize + EntryHeaderSize*count
	dataStart := alignBlock(namesStart + NameSize*count)

	sealed := make([]Sealed, count)
	total := dataStart
	for i, be := range b.entries {
		s, err := Seal(be.payload, be.iv)
		if err != nil {
			return nil, fmt.Errorf("seal entry %d: %w", i, err)
		}
		sealed[i] = s
		total += s.Len()
	}

	buf := make([]byte, total)
	copy(buf[0:4], Magic[:])
	binary.LittleEndian.PutUint32(buf[countOffset:countOffset+4], uint32(count))

	offset := dataStart
	for i, be := range b.entries {
		e := Entry{
			Index:      i,
			Size:       uint32(sealed[i].Len()),
			DataOffset: uint32(offset),
			NameOffset: uint32(namesStart + NameSize*i),
		}
		encodeEntryHeader(buf, &e)

		if err := wstr.Encode(buf[e.NameOffset:int(e.NameOffset)+NameSize], be.name); err != nil {
			return nil, fmt.Errorf("entry %d name: %w", i, err)
		}
		sealed[i].encodeTo(buf[e.DataOffset:e.End()])
		offset = e.End()
	}

	return buf, nil
}

func alignBlock(n int) int {
	return (n + crypt.BlockSize - 1) / crypt.BlockSize * crypt.BlockSize
}
