package character

import (
	"fmt"
	"strings"
)

// SoulState is the raw soul state value stored in a character record.
// The raw value is kept so that states the editor does not know about
// survive a decode/encode cycle unchanged.
type SoulState uint32

const (
	Human  SoulState = 0
	Hollow SoulState = 8

	// unknownState is written when an editor asks for SoulUnknown.
	unknownState SoulState = 4
)

// SoulKind is the interpreted soul state.
type SoulKind int

const (
	SoulUnknown SoulKind = iota
	SoulHuman
	SoulHollow
)

// Kind interprets the raw value: 0 is human, 8 is hollow, anything else unknown.
func (s SoulState) Kind() SoulKind {
	switch s {
	case Human:
		return SoulHuman
	case Hollow:
		return SoulHollow
	default:
		return SoulUnknown
	}
}

func (s SoulState) String() string {
	if k := s.Kind(); k != SoulUnknown {
		return k.String()
	}
	return fmt.Sprintf("Unknown(%d)", uint32(s))
}

func (k SoulKind) String() string {
	switch k {
	case SoulHuman:
		return "Human"
	case SoulHollow:
		return "Hollow"
	default:
		return "Unknown"
	}
}

// SoulStateOf returns the raw value written for a kind.
func SoulStateOf(k SoulKind) SoulState {
	switch k {
	case SoulHuman:
		return Human
	case SoulHollow:
		return Hollow
	default:
		return unknownState
	}
}

// ParseSoulKind parses "human", "hollow" or "unknown", case-insensitively.
func ParseSoulKind(s string) (SoulKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "human":
		return SoulHuman, nil
	case "hollow":
		return SoulHollow, nil
	case "unknown":
		return SoulUnknown, nil
	}
	return SoulUnknown, fmt.Errorf("unknown soul state %q (use human|hollow|unknown)", s)
}
