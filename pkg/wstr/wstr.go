// Package wstr reads and writes fixed-width UTF-16LE string fields.
package wstr

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// Decode decodes a UTF-16LE field, stopping at the first zero code unit
// or at the end of the field. A trailing odd byte is ignored.
func Decode(field []byte) (string, error) {
	n := len(field) &^ 1
	for i := 0; i < n; i += 2 {
		if field[i] == 0 && field[i+1] == 0 {
			n = i
			break
		}
	}

	out, err := utf16le.NewDecoder().Bytes(field[:n])
	if err != nil {
		return "", fmt.Errorf("decode utf-16: %w", err)
	}
	return string(out), nil
}

// Encode writes s into dst as UTF-16LE. Input longer than len(dst)/2 code
// units is truncated; the remainder of dst is zeroed.
func Encode(dst []byte, s string) error {
	encoded, err := utf16le.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return fmt.Errorf("encode utf-16: %w", err)
	}

	n := copy(dst[:len(dst)&^1], encoded)
	clear(dst[n:])
	return nil
}

// Units returns the number of UTF-16 code units in s.
func Units(s string) int {
	encoded, err := utf16le.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return 0
	}
	return len(encoded) / 2
}
