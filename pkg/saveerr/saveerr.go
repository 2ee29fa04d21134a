// Package saveerr defines the error kinds shared by the save codecs.
//
// Every failure returned by the codec packages wraps exactly one of the kinds
// below, so callers can classify an error with errors.Is without knowing which
// package produced it.
package saveerr

import "errors"

var (
	// ErrFormat marks malformed input: bad magic, truncated buffers,
	// entry header mismatches and missing artifacts.
	ErrFormat = errors.New("format error")

	// ErrCrypto marks cipher failures: invalid padding, bad key or IV
	// lengths and checksum mismatches.
	ErrCrypto = errors.New("crypto error")

	// ErrIO marks filesystem failures.
	ErrIO = errors.New("io error")
)

// Kind returns the kind wrapped by err, or nil if err carries none.
func Kind(err error) error {
	for _, kind := range []error{ErrFormat, ErrCrypto, ErrIO} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
