package character

import (
	"bytes"
	"encoding/binary"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/goopsie/sl2tools/pkg/saveerr"
)

// noisePayload fills every byte so that gaps are distinguishable from zeroes.
func noisePayload(n int) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = byte(i*31+7) | 0x80
	}
	return p
}

func sampleStats() Stats {
	return Stats{
		HealthCurrent:       1111,
		HealthMax1:          1112,
		HealthMax2:          1113,
		Stamina2:            95,
		Stamina3:            1 << 40,
		Vitality:            30,
		Attunement:          11,
		Endurance:           40,
		Strength:            27,
		Dexterity:           45,
		Intelligence:        9,
		Faith:               8,
		Humanity:            99,
		Resistance:          12,
		Level:               120,
		Souls:               4_000_000,
		EarnedSouls:         1 << 33,
		SoulState:           Hollow,
		Name:                "Solaire",
		IsMale:              true,
		CharacterClass:      3,
		BodyType:            2,
		StartingGift:        5,
		PoisonResistance:    10,
		BleedingResistance:  11,
		PoisonResistance2:   12,
		DamnationResistance: 13,
		Face:                21,
		Hair:                22,
		HairColor:           23,
		Deaths:              654321,
	}
}

func TestFieldTable(t *testing.T) {
	sorted := append([]field(nil), fields...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].offset < sorted[j].offset })

	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].end() > sorted[i].offset {
			t.Errorf("%s [%d,%d) overlaps %s at %d",
				sorted[i-1].name, sorted[i-1].offset, sorted[i-1].end(), sorted[i].name, sorted[i].offset)
		}
	}

	if MinPayloadLen != DeathsOffset+4 {
		t.Errorf("MinPayloadLen: got %d, want %d", MinPayloadLen, DeathsOffset+4)
	}
}

func TestRoundTrip(t *testing.T) {
	payload := noisePayload(MinPayloadLen + 256)
	want := sampleStats()

	encoded, err := Encode(payload, want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(encoded) != len(payload) {
		t.Fatalf("length changed: %d -> %d", len(payload), len(encoded))
	}

	got, err := Decode(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != want {
		t.Errorf("mismatch:\n got %+v\nwant %+v", got, want)
	}

	t.Run("GapsPreserved", func(t *testing.T) {
		covered := make([]bool, len(payload))
		for _, f := range fields {
			for i := f.offset; i < f.end(); i++ {
				covered[i] = true
			}
		}
		for i := range payload {
			if !covered[i] && encoded[i] != payload[i] {
				t.Fatalf("gap byte %d changed: %#x -> %#x", i, payload[i], encoded[i])
			}
		}
	})

	t.Run("InputUntouched", func(t *testing.T) {
		if string(payload) != string(noisePayload(len(payload))) {
			t.Error("Encode modified its input")
		}
	})

	t.Run("DecodeEncodeIsIdentity", func(t *testing.T) {
		// Valid record bytes re-encode to themselves.
		s, err := Decode(encoded)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		again, err := Encode(encoded, s)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if string(again) != string(encoded) {
			t.Error("decode/encode changed bytes")
		}
	})
}

func TestOffsets(t *testing.T) {
	encoded, err := Encode(make([]byte, MinPayloadLen), sampleStats())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	le := binary.LittleEndian
	checks := []struct {
		name string
		got  uint64
		want uint64
	}{
		{"health_current@116", uint64(le.Uint32(encoded[116:])), 1111},
		{"stamina2@164", uint64(le.Uint32(encoded[164:])), 95},
		{"vitality@176", le.Uint64(encoded[176:]), 30},
		{"faith@224", le.Uint64(encoded[224:]), 8},
		{"humanity@240", le.Uint64(encoded[240:]), 99},
		{"level@256", uint64(le.Uint32(encoded[256:])), 120},
		{"soul_state@276", uint64(le.Uint32(encoded[276:])), 8},
		{"name@280", uint64(le.Uint16(encoded[280:])), 'S'},
		{"is_male@317", uint64(encoded[317]), 1},
		{"starting_gift@320", uint64(encoded[320]), 5},
		{"poison_resistance@384", uint64(encoded[384]), 10},
		{"hair_color@390", uint64(encoded[390]), 23},
		{"deaths@127448", uint64(le.Uint32(encoded[DeathsOffset:])), 654321},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %d, want %d", c.name, c.got, c.want)
		}
	}
}

func TestBlockBeforeStaminaUntouched(t *testing.T) {
	payload := make([]byte, MinPayloadLen)
	for i := range payload {
		payload[i] = byte(i) | 0x80
	}

	encoded, err := Encode(payload, sampleStats())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(encoded[128:164], payload[128:164]) {
		t.Errorf("bytes 128..164 rewritten: %x", encoded[128:164])
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"FiveChars", "Oscar", "Oscar"},
		{"FourteenChars", "Abcdefghijklmn", "Abcdefghijklmn"},
		{"FifteenCharsTruncate", "Abcdefghijklmno", "Abcdefghijklmn"},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sampleStats()
			s.Name = tt.in

			encoded, err := Encode(noisePayload(MinPayloadLen), s)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			got, err := Decode(encoded)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Name != tt.want {
				t.Errorf("got %q, want %q", got.Name, tt.want)
			}

			field := encoded[280 : 280+NameSize]
			used := len(tt.want) * 2
			for i := used; i < NameSize; i++ {
				if field[i] != 0 {
					t.Fatalf("byte %d after name not zero-padded", i)
				}
			}
			if len(tt.want) == NameUnits && field[NameSize-2] == 0 {
				t.Error("full-width name has a terminator")
			}
		})
	}

	t.Run("StopsAtFirstZero", func(t *testing.T) {
		payload := noisePayload(MinPayloadLen)
		copy(payload[280:], []byte{'A', 0, 'b', 0, 0, 0, 'z', 0})
		got, err := Decode(payload)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.Name != "Ab" {
			t.Errorf("got %q, want %q", got.Name, "Ab")
		}
	})
}

func TestSoulState(t *testing.T) {
	decodeRaw := func(raw uint32) Stats {
		t.Helper()
		payload := make([]byte, MinPayloadLen)
		binary.LittleEndian.PutUint32(payload[276:], raw)
		s, err := Decode(payload)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		return s
	}

	tests := []struct {
		raw  uint32
		want SoulKind
	}{
		{0, SoulHuman},
		{8, SoulHollow},
		{3, SoulUnknown},
		{4, SoulUnknown},
	}
	for _, tt := range tests {
		if got := decodeRaw(tt.raw).SoulState.Kind(); got != tt.want {
			t.Errorf("raw %d: got %v, want %v", tt.raw, got, tt.want)
		}
	}

	t.Run("EncodeKnown", func(t *testing.T) {
		for kind, raw := range map[SoulKind]uint32{SoulHuman: 0, SoulHollow: 8} {
			s := sampleStats()
			s.SoulState = SoulStateOf(kind)
			encoded, err := Encode(noisePayload(MinPayloadLen), s)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if got := binary.LittleEndian.Uint32(encoded[276:]); got != raw {
				t.Errorf("%v: wrote %d, want %d", kind, got, raw)
			}
		}
	})

	t.Run("UnknownKeepsRaw", func(t *testing.T) {
		s := decodeRaw(3)
		encoded, err := Encode(make([]byte, MinPayloadLen), s)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if got := binary.LittleEndian.Uint32(encoded[276:]); got != 3 {
			t.Errorf("raw unknown state: wrote %d, want 3", got)
		}
		if SoulStateOf(SoulUnknown).Kind() != SoulUnknown {
			t.Error("representative unknown value decodes as a known state")
		}
	})

	t.Run("String", func(t *testing.T) {
		if got := SoulState(3).String(); got != "Unknown(3)" {
			t.Errorf("got %q", got)
		}
		if got := Hollow.String(); got != "Hollow" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("Parse", func(t *testing.T) {
		k, err := ParseSoulKind(" Hollow ")
		if err != nil || k != SoulHollow {
			t.Errorf("got %v, %v", k, err)
		}
		if _, err := ParseSoulKind("undead"); err == nil || !strings.Contains(err.Error(), "undead") {
			t.Errorf("expected parse error, got %v", err)
		}
	})
}

func TestShortPayload(t *testing.T) {
	short := make([]byte, MinPayloadLen-1)

	if _, err := Decode(short); !errors.Is(err, ErrShortPayload) {
		t.Errorf("decode: expected ErrShortPayload, got %v", err)
	}
	if _, err := Encode(short, sampleStats()); !errors.Is(err, saveerr.ErrFormat) {
		t.Errorf("encode: expected format error, got %v", err)
	}
}

func TestIsMaleByte(t *testing.T) {
	payload := make([]byte, MinPayloadLen)
	payload[317] = 2
	s, err := Decode(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.IsMale {
		t.Error("only 1 decodes as male")
	}

	s.IsMale = false
	encoded, err := Encode(payload, s)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if encoded[317] != 0 {
		t.Errorf("female encodes as %d", encoded[317])
	}
}

func TestDefaults(t *testing.T) {
	s := Defaults()
	if s.Level != 1 || s.SoulState != Human || !s.IsMale {
		t.Errorf("unexpected defaults: %+v", s)
	}

	s.SetMaxHealth(750)
	if s.HealthCurrent != 750 || s.HealthMax1 != 750 || s.HealthMax2 != 750 {
		t.Errorf("SetMaxHealth: %+v", s)
	}
}
