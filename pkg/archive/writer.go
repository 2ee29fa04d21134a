package archive

import (
	"fmt"

	"github.com/DataDog/zstd"

	"github.com/goopsie/sl2tools/internal/fsutil"
	"github.com/goopsie/sl2tools/pkg/crypt"
)

// DefaultCompressionLevel is the default compression level for snapshots.
// Save files are mostly zero padding, so high levels buy little.
const DefaultCompressionLevel = zstd.BestSpeed

type writerConfig struct {
	level int
}

// WriterOption configures snapshot encoding.
type WriterOption func(*writerConfig)

// WithCompressionLevel sets the zstd compression level.
func WithCompressionLevel(level int) WriterOption {
	return func(c *writerConfig) {
		c.level = level
	}
}

// Encode compresses data into a snapshot.
func Encode(data []byte, opts ...WriterOption) ([]byte, error) {
	cfg := &writerConfig{level: DefaultCompressionLevel}
	for _, opt := range opts {
		opt(cfg)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: nothing to snapshot", ErrHeader)
	}

	compressed, err := zstd.CompressLevel(nil, data, cfg.level)
	if err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}

	header := &Header{
		Magic:            Magic,
		HeaderLength:     HeaderSize,
		Length:           uint64(len(data)),
		CompressedLength: uint64(len(compressed)),
		Digest:           crypt.Checksum(data),
	}

	out := make([]byte, HeaderSize+len(compressed))
	header.EncodeTo(out)
	copy(out[HeaderSize:], compressed)
	return out, nil
}

// WriteFile snapshots data into path. The file is replaced atomically.
func WriteFile(path string, data []byte, opts ...WriterOption) error {
	snapshot, err := Encode(data, opts...)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return fsutil.WriteFile(path, snapshot)
}
