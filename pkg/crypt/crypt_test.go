package crypt

import (
	"bytes"
	"crypto/md5"
	"errors"
	"testing"

	"github.com/goopsie/sl2tools/pkg/saveerr"
)

func TestCBC(t *testing.T) {
	iv := bytes.Repeat([]byte{0x42}, IVSize)
	plaintext := bytes.Repeat([]byte("sixteen byte blk"), 4)

	t.Run("RoundTrip", func(t *testing.T) {
		ct, err := EncryptCBC(iv, plaintext)
		if err != nil {
			t.Fatalf("encrypt: %v", err)
		}
		if bytes.Equal(ct, plaintext) {
			t.Fatal("ciphertext equals plaintext")
		}

		pt, err := DecryptCBC(iv, ct)
		if err != nil {
			t.Fatalf("decrypt: %v", err)
		}
		if !bytes.Equal(pt, plaintext) {
			t.Errorf("round trip mismatch: got %x, want %x", pt, plaintext)
		}
	})

	t.Run("Unaligned", func(t *testing.T) {
		if _, err := EncryptCBC(iv, plaintext[:17]); !errors.Is(err, ErrBlockAlign) {
			t.Errorf("expected ErrBlockAlign, got %v", err)
		}
		if _, err := DecryptCBC(iv, plaintext[:17]); !errors.Is(err, saveerr.ErrCrypto) {
			t.Errorf("expected crypto error, got %v", err)
		}
	})

	t.Run("BadIV", func(t *testing.T) {
		if _, err := EncryptCBC(iv[:8], plaintext); !errors.Is(err, ErrIVSize) {
			t.Errorf("expected ErrIVSize, got %v", err)
		}
	})
}

func TestPadding(t *testing.T) {
	tests := []struct {
		in      int
		wantLen int
	}{
		{0, 16},
		{1, 16},
		{15, 16},
		{16, 32},
		{20, 32},
	}

	for _, tt := range tests {
		padded := Pad(make([]byte, tt.in))
		if len(padded) != tt.wantLen {
			t.Errorf("Pad(%d): got len %d, want %d", tt.in, len(padded), tt.wantLen)
		}
		unpadded, err := Unpad(padded)
		if err != nil {
			t.Errorf("Unpad(%d): %v", tt.in, err)
			continue
		}
		if len(unpadded) != tt.in {
			t.Errorf("Unpad(%d): got len %d", tt.in, len(unpadded))
		}
	}

	t.Run("Malformed", func(t *testing.T) {
		bad := [][]byte{
			{},
			make([]byte, 16),                            // pad byte 0
			append(make([]byte, 15), 17),                // pad byte > block
			append(bytes.Repeat([]byte{3}, 14), 2, 3),   // inconsistent run
			append(make([]byte, 12), 0x04, 0x04, 0x04), // unaligned
		}
		for i, b := range bad {
			if _, err := Unpad(b); !errors.Is(err, ErrPadding) {
				t.Errorf("case %d: expected ErrPadding, got %v", i, err)
			}
		}
	})
}

func TestChecksum(t *testing.T) {
	a, b := []byte("hello "), []byte("world")
	got := Checksum(a, b)
	want := md5.Sum([]byte("hello world"))
	if got != want {
		t.Errorf("checksum mismatch: got %x, want %x", got, want)
	}
}

