// Package slots reads the slot directory stored in a reserved container entry.
package slots

import (
	"fmt"
	"sort"

	"github.com/goopsie/sl2tools/pkg/bnd4"
	"github.com/goopsie/sl2tools/pkg/saveerr"
	"github.com/goopsie/sl2tools/pkg/wstr"
)

const (
	// DirectoryIndex is the container entry holding the slot directory.
	DirectoryIndex = 10

	// Count is the number of character slots.
	Count = 10

	bitmapOffset = 176
	namesOffset  = 192
	nameStride   = 400
	nameSize     = 26
)

var (
	// ErrShortPayload is returned when the directory payload ends before a field.
	ErrShortPayload = fmt.Errorf("%w: directory payload too short", saveerr.ErrFormat)

	// ErrNoDirectory is returned when the container has no directory entry.
	ErrNoDirectory = fmt.Errorf("%w: container has no slot directory", saveerr.ErrFormat)
)

// Occupancy maps occupied slot indices to character names.
// Unoccupied slots have no key.
type Occupancy map[int]string

// Indices returns the occupied slot indices in ascending order.
func (o Occupancy) Indices() []int {
	out := make([]int, 0, len(o))
	for i := range o {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Parse reads the occupancy bitmap and name table from a directory payload.
func Parse(payload []byte) (Occupancy, error) {
	if len(payload) < bitmapOffset+Count {
		return nil, fmt.Errorf("%w: bitmap needs %d bytes, got %d", ErrShortPayload, bitmapOffset+Count, len(payload))
	}

	occ := Occupancy{}
	for i, flag := range payload[bitmapOffset : bitmapOffset+Count] {
		if flag == 0 {
			continue
		}

		pos := namesOffset + nameStride*i
		if pos+nameSize > len(payload) {
			return nil, fmt.Errorf("%w: slot %d name at %d", ErrShortPayload, i, pos)
		}
		name, err := wstr.Decode(payload[pos : pos+nameSize])
		if err != nil {
			return nil, fmt.Errorf("%w: slot %d name: %w", saveerr.ErrFormat, i, err)
		}
		occ[i] = name
	}

	return occ, nil
}

// Load decrypts the directory entry of c and parses it.
func Load(c *bnd4.Container) (Occupancy, error) {
	if c.Len() <= DirectoryIndex {
		return nil, fmt.Errorf("%w: %d entries", ErrNoDirectory, c.Len())
	}

	payload, err := c.Open(DirectoryIndex)
	if err != nil {
		return nil, fmt.Errorf("open directory: %w", err)
	}
	return Parse(payload)
}
