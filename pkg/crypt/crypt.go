// Package crypt provides the block cipher primitive shared by the save codecs.
//
// Both the BND4 container and the monolithic save layout encrypt with
// AES-128-CBC under the same fixed key. They differ only in padding and framing,
// which is left to the callers.
package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"fmt"

	"github.com/goopsie/sl2tools/pkg/saveerr"
)

const (
	// BlockSize is the AES block size.
	BlockSize = aes.BlockSize

	// IVSize is the size of a CBC initialisation vector.
	IVSize = aes.BlockSize

	// ChecksumSize is the size of an MD5 digest.
	ChecksumSize = md5.Size
)

// key is a format constant of the save files.
var key = [16]byte{
	0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef,
	0xfe, 0xdc, 0xba, 0x98, 0x76, 0x54, 0x32, 0x10,
}

var (
	// ErrPadding is returned when PKCS#7 padding is malformed.
	ErrPadding = fmt.Errorf("%w: invalid padding", saveerr.ErrCrypto)

	// ErrBlockAlign is returned when a buffer is not a multiple of the block size.
	ErrBlockAlign = fmt.Errorf("%w: data not block aligned", saveerr.ErrCrypto)

	// ErrIVSize is returned when an IV is not exactly one block long.
	ErrIVSize = fmt.Errorf("%w: iv must be %d bytes", saveerr.ErrCrypto, IVSize)
)

func newBlock() cipher.Block {
	k := key
	block, err := aes.NewCipher(k[:])
	if err != nil {
		// 16 bytes is always a valid AES key length.
		panic(err)
	}
	return block
}

// EncryptCBC encrypts block-aligned plaintext with no padding.
// The result is a fresh slice.
func EncryptCBC(iv, plaintext []byte) ([]byte, error) {
	if len(iv) != IVSize {
		return nil, ErrIVSize
	}
	if len(plaintext)%BlockSize != 0 {
		return nil, ErrBlockAlign
	}

	out := make([]byte, len(plaintext))
	cipher.NewCBCEncrypter(newBlock(), iv).CryptBlocks(out, plaintext)
	return out, nil
}

// DecryptCBC decrypts block-aligned ciphertext with no padding removal.
// The result is a fresh slice.
func DecryptCBC(iv, ciphertext []byte) ([]byte, error) {
	if len(iv) != IVSize {
		return nil, ErrIVSize
	}
	if len(ciphertext)%BlockSize != 0 {
		return nil, ErrBlockAlign
	}

	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(newBlock(), iv).CryptBlocks(out, ciphertext)
	return out, nil
}

// Pad appends standard PKCS#7 padding. A block-aligned input gains a full
// block of padding.
func Pad(data []byte) []byte {
	n := BlockSize - len(data)%BlockSize
	out := make([]byte, len(data)+n)
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out
}

// Unpad strips standard PKCS#7 padding, returning a subslice of data.
func Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 || len(data)%BlockSize != 0 {
		return nil, ErrPadding
	}
	n := int(data[len(data)-1])
	if n == 0 || n > BlockSize {
		return nil, ErrPadding
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrPadding
		}
	}
	return data[:len(data)-n], nil
}

// Checksum returns the MD5 digest of data.
func Checksum(data ...[]byte) [ChecksumSize]byte {
	h := md5.New()
	for _, d := range data {
		h.Write(d)
	}
	var sum [ChecksumSize]byte
	copy(sum[:], h.Sum(nil))
	return sum
}
