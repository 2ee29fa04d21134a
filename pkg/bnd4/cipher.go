package bnd4

import (
	"encoding/binary"
	"fmt"

	"github.com/goopsie/sl2tools/pkg/crypt"
)

// sealedOverhead is the checksum and IV preceding an entry's ciphertext.
const sealedOverhead = crypt.ChecksumSize + crypt.IVSize

// lengthPrefixSize is the little-endian payload length at the start of the plaintext.
const lengthPrefixSize = 4

// Sealed is the on-disk form of an entry: checksum ‖ IV ‖ ciphertext.
type Sealed struct {
	Checksum   [crypt.ChecksumSize]byte
	IV         [crypt.IVSize]byte
	Ciphertext []byte
}

// Len returns the number of bytes the sealed entry occupies on disk.
func (s Sealed) Len() int {
	return sealedOverhead + len(s.Ciphertext)
}

// Digest computes the checksum the game expects: MD5 over IV ‖ ciphertext.
func (s Sealed) Digest() [crypt.ChecksumSize]byte {
	return crypt.Checksum(s.IV[:], s.Ciphertext)
}

// Verify compares the stored checksum with the digest of the data.
// Open never calls it.
func (s Sealed) Verify() error {
	if got := s.Digest(); got != s.Checksum {
		return fmt.Errorf("%w: stored %x, computed %x", ErrChecksum, s.Checksum, got)
	}
	return nil
}

// MarshalBinary encodes the sealed entry as it appears on disk.
func (s Sealed) MarshalBinary() ([]byte, error) {
	buf := make([]byte, s.Len())
	s.encodeTo(buf)
	return buf, nil
}

// encodeTo writes the sealed entry. The buffer must be exactly s.Len() bytes.
func (s Sealed) encodeTo(buf []byte) {
	copy(buf[0:16], s.Checksum[:])
	copy(buf[16:32], s.IV[:])
	copy(buf[sealedOverhead:], s.Ciphertext)
}

// Open decrypts a sealed entry and returns its payload.
// The checksum is not verified.
func Open(s Sealed) ([]byte, error) {
	plaintext, err := crypt.DecryptCBC(s.IV[:], s.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}

	plaintext, err = crypt.Unpad(plaintext)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}

	if len(plaintext) < lengthPrefixSize {
		return nil, fmt.Errorf("%w: plaintext of %d bytes has no length prefix", ErrTruncated, len(plaintext))
	}
	length := int(binary.LittleEndian.Uint32(plaintext[0:lengthPrefixSize]))
	if length > len(plaintext)-lengthPrefixSize {
		return nil, fmt.Errorf("%w: payload length %d exceeds plaintext of %d bytes", ErrTruncated, length, len(plaintext))
	}

	payload := make([]byte, length)
	copy(payload, plaintext[lengthPrefixSize:lengthPrefixSize+length])
	return payload, nil
}

// Seal encrypts payload under iv.
//
// The plaintext is the length-prefixed payload followed by a pre-pad that
// brings it to a block boundary (nothing if it is already aligned), then
// standard PKCS#7 padding on top. The ciphertext length is therefore always
// the aligned prefixed length plus one block.
func Seal(payload []byte, iv [crypt.IVSize]byte) (Sealed, error) {
	prefixed := lengthPrefixSize + len(payload)
	pad := crypt.BlockSize - prefixed%crypt.BlockSize
	if pad == crypt.BlockSize {
		pad = 0
	}

	plaintext := make([]byte, prefixed+pad)
	binary.LittleEndian.PutUint32(plaintext[0:lengthPrefixSize], uint32(len(payload)))
	copy(plaintext[lengthPrefixSize:], payload)
	for i := prefixed; i < len(plaintext); i++ {
		plaintext[i] = byte(pad)
	}

	ciphertext, err := crypt.EncryptCBC(iv[:], crypt.Pad(plaintext))
	if err != nil {
		return Sealed{}, fmt.Errorf("encrypt: %w", err)
	}

	s := Sealed{IV: iv, Ciphertext: ciphertext}
	s.Checksum = s.Digest()
	return s, nil
}

// SealedLen returns the on-disk size Seal produces for a payload of n bytes.
func SealedLen(n int) int {
	return sealedOverhead + alignBlock(lengthPrefixSize+n) + crypt.BlockSize
}
