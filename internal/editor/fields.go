// Package editor supplies edited character records to the codec.
//
// Every editor receives a fully populated record and returns a fully
// populated record; the codec never sees partial updates.
package editor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goopsie/sl2tools/pkg/character"
)

// ErrAborted is returned when the user cancels an edit.
var ErrAborted = errors.New("edit aborted")

// Editor produces the new record for a slot from its current record.
type Editor interface {
	Edit(slot int, current character.Stats) (character.Stats, error)
}

// Field is one editable value, rendered and parsed as text.
type Field struct {
	Label string
	Get   func(s *character.Stats) string
	Set   func(s *character.Stats, v string) error
}

// Fields lists what the interactive editors offer, in prompt order.
var Fields = []Field{
	{"Character Name", func(s *character.Stats) string { return s.Name }, setName},
	uint32Field("Level", func(s *character.Stats) *uint32 { return &s.Level }),
	uint32Field("Souls", func(s *character.Stats) *uint32 { return &s.Souls }),
	uint64Field("Strength", func(s *character.Stats) *uint64 { return &s.Strength }),
	uint64Field("Dexterity", func(s *character.Stats) *uint64 { return &s.Dexterity }),
	uint64Field("Intelligence", func(s *character.Stats) *uint64 { return &s.Intelligence }),
	uint64Field("Faith", func(s *character.Stats) *uint64 { return &s.Faith }),
	uint64Field("Vitality", func(s *character.Stats) *uint64 { return &s.Vitality }),
	uint64Field("Endurance", func(s *character.Stats) *uint64 { return &s.Endurance }),
	uint64Field("Humanity", func(s *character.Stats) *uint64 { return &s.Humanity }),
	{"Max Health", func(s *character.Stats) string { return strconv.FormatUint(uint64(s.HealthMax1), 10) }, setMaxHealth},
	{"Character Class (0-11)", func(s *character.Stats) string { return strconv.Itoa(int(s.CharacterClass)) }, setClass},
	{"Male (y/n)", getMale, setMale},
	{"Soul State (human/hollow/unknown)", getSoulState, setSoulState},
}

func uint32Field(label string, ref func(s *character.Stats) *uint32) Field {
	return Field{
		Label: label,
		Get:   func(s *character.Stats) string { return strconv.FormatUint(uint64(*ref(s)), 10) },
		Set: func(s *character.Stats, v string) error {
			n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 32)
			if err != nil {
				return fmt.Errorf("%s: %w", label, err)
			}
			*ref(s) = uint32(n)
			return nil
		},
	}
}

func uint64Field(label string, ref func(s *character.Stats) *uint64) Field {
	return Field{
		Label: label,
		Get:   func(s *character.Stats) string { return strconv.FormatUint(*ref(s), 10) },
		Set: func(s *character.Stats, v string) error {
			n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
			if err != nil {
				return fmt.Errorf("%s: %w", label, err)
			}
			*ref(s) = n
			return nil
		},
	}
}

func setName(s *character.Stats, v string) error {
	s.Name = v
	return nil
}

func setMaxHealth(s *character.Stats, v string) error {
	n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 32)
	if err != nil {
		return fmt.Errorf("Max Health: %w", err)
	}
	s.SetMaxHealth(uint32(n))
	return nil
}

func setClass(s *character.Stats, v string) error {
	n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 8)
	if err != nil {
		return fmt.Errorf("Character Class: %w", err)
	}
	s.CharacterClass = uint8(n)
	return nil
}

func getMale(s *character.Stats) string {
	if s.IsMale {
		return "y"
	}
	return "n"
}

func setMale(s *character.Stats, v string) error {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "y", "yes", "true", "1":
		s.IsMale = true
	case "n", "no", "false", "0":
		s.IsMale = false
	default:
		return fmt.Errorf("Male: expected y or n, got %q", v)
	}
	return nil
}

func getSoulState(s *character.Stats) string {
	return strings.ToLower(s.SoulState.Kind().String())
}

// setSoulState keeps the raw value when the kind is unchanged, so an
// unrecognised state is not rewritten just by passing through the editor.
func setSoulState(s *character.Stats, v string) error {
	kind, err := character.ParseSoulKind(v)
	if err != nil {
		return err
	}
	if kind != s.SoulState.Kind() {
		s.SoulState = character.SoulStateOf(kind)
	}
	return nil
}

// Apply sets every field from values, which must be in Fields order.
// An empty value keeps the current one.
func Apply(current character.Stats, values []string) (character.Stats, error) {
	if len(values) != len(Fields) {
		return current, fmt.Errorf("got %d values for %d fields", len(values), len(Fields))
	}

	next := current
	for i, f := range Fields {
		if values[i] == "" {
			continue
		}
		if values[i] == f.Get(&current) {
			continue
		}
		if err := f.Set(&next, values[i]); err != nil {
			return current, err
		}
	}
	return next, nil
}
