// Package character maps character fields onto a decrypted slot payload.
//
// The record is a sparse overlay: a single offset table drives both Decode
// and Encode, and every byte not covered by a field is carried through
// Encode untouched.
package character

import (
	"encoding/binary"
	"fmt"

	"github.com/goopsie/sl2tools/pkg/saveerr"
	"github.com/goopsie/sl2tools/pkg/wstr"
)

const (
	// NameUnits is the capacity of the name field in UTF-16 code units.
	NameUnits = 14

	// NameSize is the byte size of the name field.
	NameSize = NameUnits * 2

	// DeathsOffset is the absolute offset of the death counter, far past
	// the main block.
	DeathsOffset = 127448
)

// ErrShortPayload is returned when a payload ends before a field.
var ErrShortPayload = fmt.Errorf("%w: payload too short for character record", saveerr.ErrFormat)

// Stats holds the named fields of a character record.
type Stats struct {
	HealthCurrent uint32 `json:"health_current"`
	HealthMax1    uint32 `json:"health_max1"`
	HealthMax2    uint32 `json:"health_max2"`
	Stamina2      uint32 `json:"stamina2"`
	Stamina3      uint64 `json:"stamina3"`

	Vitality     uint64 `json:"vitality"`
	Attunement   uint64 `json:"attunement"`
	Endurance    uint64 `json:"endurance"`
	Strength     uint64 `json:"strength"`
	Dexterity    uint64 `json:"dexterity"`
	Intelligence uint64 `json:"intelligence"`
	Faith        uint64 `json:"faith"`
	Humanity     uint64 `json:"humanity"`
	Resistance   uint64 `json:"resistance"`

	Level       uint32    `json:"level"`
	Souls       uint32    `json:"souls"`
	EarnedSouls uint64    `json:"earned_souls"`
	SoulState   SoulState `json:"soul_state"`
	Name        string    `json:"name"`

	IsMale         bool  `json:"is_male"`
	CharacterClass uint8 `json:"character_class"`
	BodyType       uint8 `json:"body_type"`
	StartingGift   uint8 `json:"starting_gift"`

	PoisonResistance    uint8 `json:"poison_resistance"`
	BleedingResistance  uint8 `json:"bleeding_resistance"`
	PoisonResistance2   uint8 `json:"poison_resistance2"`
	DamnationResistance uint8 `json:"damnation_resistance"`

	Face      uint8 `json:"face"`
	Hair      uint8 `json:"hair"`
	HairColor uint8 `json:"hair_color"`

	Deaths uint32 `json:"deaths"`
}

// field binds a Stats member to an absolute payload offset.
// The member's Go type selects the wire width.
type field struct {
	name   string
	offset int
	ref    func(s *Stats) any
}

// fields is anchored at stamina2 = 164 with the later fields laid out
// contiguously from there. Some tools read this block 16 bytes earlier
// (stamina2 at 148); edits made with one layout against saves written by
// the other shift every field from stamina2 to hair_color. Bytes 128..164
// are never written.
var fields = []field{
	{"health_current", 116, func(s *Stats) any { return &s.HealthCurrent }},
	{"health_max1", 120, func(s *Stats) any { return &s.HealthMax1 }},
	{"health_max2", 124, func(s *Stats) any { return &s.HealthMax2 }},
	{"stamina2", 164, func(s *Stats) any { return &s.Stamina2 }},
	{"stamina3", 168, func(s *Stats) any { return &s.Stamina3 }},
	{"vitality", 176, func(s *Stats) any { return &s.Vitality }},
	{"attunement", 184, func(s *Stats) any { return &s.Attunement }},
	{"endurance", 192, func(s *Stats) any { return &s.Endurance }},
	{"strength", 200, func(s *Stats) any { return &s.Strength }},
	{"dexterity", 208, func(s *Stats) any { return &s.Dexterity }},
	{"intelligence", 216, func(s *Stats) any { return &s.Intelligence }},
	{"faith", 224, func(s *Stats) any { return &s.Faith }},
	{"humanity", 240, func(s *Stats) any { return &s.Humanity }},
	{"resistance", 248, func(s *Stats) any { return &s.Resistance }},
	{"level", 256, func(s *Stats) any { return &s.Level }},
	{"souls", 260, func(s *Stats) any { return &s.Souls }},
	{"earned_souls", 264, func(s *Stats) any { return &s.EarnedSouls }},
	{"soul_state", 276, func(s *Stats) any { return &s.SoulState }},
	{"name", 280, func(s *Stats) any { return &s.Name }},
	{"is_male", 317, func(s *Stats) any { return &s.IsMale }},
	{"character_class", 318, func(s *Stats) any { return &s.CharacterClass }},
	{"body_type", 319, func(s *Stats) any { return &s.BodyType }},
	{"starting_gift", 320, func(s *Stats) any { return &s.StartingGift }},
	{"poison_resistance", 384, func(s *Stats) any { return &s.PoisonResistance }},
	{"bleeding_resistance", 385, func(s *Stats) any { return &s.BleedingResistance }},
	{"poison_resistance2", 386, func(s *Stats) any { return &s.PoisonResistance2 }},
	{"damnation_resistance", 387, func(s *Stats) any { return &s.DamnationResistance }},
	{"face", 388, func(s *Stats) any { return &s.Face }},
	{"hair", 389, func(s *Stats) any { return &s.Hair }},
	{"hair_color", 390, func(s *Stats) any { return &s.HairColor }},
	{"deaths", DeathsOffset, func(s *Stats) any { return &s.Deaths }},
}

func (f field) width() int {
	switch f.ref(new(Stats)).(type) {
	case *uint8, *bool:
		return 1
	case *uint32, *SoulState:
		return 4
	case *uint64:
		return 8
	case *string:
		return NameSize
	}
	panic("character: unsupported field type for " + f.name)
}

func (f field) end() int {
	return f.offset + f.width()
}

// MinPayloadLen is the smallest payload holding every field.
var MinPayloadLen = func() int {
	n := 0
	for _, f := range fields {
		n = max(n, f.end())
	}
	return n
}()

func checkLen(payload []byte) error {
	if len(payload) < MinPayloadLen {
		return fmt.Errorf("%w: need %d bytes, got %d", ErrShortPayload, MinPayloadLen, len(payload))
	}
	return nil
}

// Decode reads the character record from a decrypted slot payload.
func Decode(payload []byte) (Stats, error) {
	var s Stats
	if err := checkLen(payload); err != nil {
		return s, err
	}

	for _, f := range fields {
		b := payload[f.offset:f.end()]
		switch p := f.ref(&s).(type) {
		case *uint8:
			*p = b[0]
		case *bool:
			*p = b[0] == 1
		case *uint32:
			*p = binary.LittleEndian.Uint32(b)
		case *SoulState:
			*p = SoulState(binary.LittleEndian.Uint32(b))
		case *uint64:
			*p = binary.LittleEndian.Uint64(b)
		case *string:
			name, err := wstr.Decode(b)
			if err != nil {
				return s, fmt.Errorf("%w: field %s: %w", saveerr.ErrFormat, f.name, err)
			}
			*p = name
		}
	}

	return s, nil
}

// Encode returns a copy of payload with the record fields overwritten by s.
// Bytes outside the fields are copied unchanged. Names longer than
// NameUnits code units are truncated.
func Encode(payload []byte, s Stats) ([]byte, error) {
	if err := checkLen(payload); err != nil {
		return nil, err
	}

	out := make([]byte, len(payload))
	copy(out, payload)

	for _, f := range fields {
		b := out[f.offset:f.end()]
		switch p := f.ref(&s).(type) {
		case *uint8:
			b[0] = *p
		case *bool:
			b[0] = 0
			if *p {
				b[0] = 1
			}
		case *uint32:
			binary.LittleEndian.PutUint32(b, *p)
		case *SoulState:
			binary.LittleEndian.PutUint32(b, uint32(*p))
		case *uint64:
			binary.LittleEndian.PutUint64(b, *p)
		case *string:
			if err := wstr.Encode(b, *p); err != nil {
				return nil, fmt.Errorf("%w: field %s: %w", saveerr.ErrFormat, f.name, err)
			}
		}
	}

	return out, nil
}
