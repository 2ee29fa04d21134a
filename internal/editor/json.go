package editor

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/goopsie/sl2tools/pkg/character"
	"github.com/goopsie/sl2tools/pkg/saveerr"
)

// JSON applies a document written by Export. Keys missing from the
// document keep their current values; unknown keys are rejected.
type JSON struct {
	Data []byte
}

// FromJSON returns an editor applying data to every slot it is asked about.
func FromJSON(data []byte) JSON {
	return JSON{Data: data}
}

func (j JSON) Edit(slot int, current character.Stats) (character.Stats, error) {
	next := current
	dec := json.NewDecoder(bytes.NewReader(j.Data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&next); err != nil {
		return current, fmt.Errorf("%w: slot %d: decode json: %w", saveerr.ErrFormat, slot, err)
	}
	return next, nil
}

// Export renders a record as indented JSON.
func Export(s character.Stats) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return append(data, '\n'), nil
}
