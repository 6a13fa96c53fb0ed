package archive

import (
	"bytes"
	"fmt"

	"github.com/DataDog/zstd"
)

// DefaultCompressionLevel is the zstd level used by Pack.
const DefaultCompressionLevel = zstd.BestSpeed

type options struct {
	level int
}

// Option configures Pack.
type Option func(*options)

// WithCompressionLevel sets the zstd compression level.
func WithCompressionLevel(level int) Option {
	return func(o *options) {
		o.level = level
	}
}

// IsPacked reports whether data starts with an archive header magic.
func IsPacked(data []byte) bool {
	return len(data) >= len(Magic) && bytes.Equal(data[:len(Magic)], Magic[:])
}

// Pack compresses data into a new archive.
func Pack(data []byte, opts ...Option) ([]byte, error) {
	o := options{level: DefaultCompressionLevel}
	for _, opt := range opts {
		opt(&o)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("pack: empty input")
	}

	compressed, err := zstd.CompressLevel(nil, data, o.level)
	if err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}

	h := NewHeader(uint64(len(data)), uint64(len(compressed)))
	out := make([]byte, HeaderSize+len(compressed))
	h.EncodeTo(out)
	copy(out[HeaderSize:], compressed)
	return out, nil
}

// Unpack returns the container bytes held by an archive.
func Unpack(data []byte) ([]byte, error) {
	var h Header
	if err := h.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	frame, err := h.Frame(data)
	if err != nil {
		return nil, err
	}

	out, err := zstd.Decompress(make([]byte, h.ContainerSize), frame)
	if err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}
	if uint64(len(out)) != h.ContainerSize {
		return nil, fmt.Errorf("incomplete read: expected %d, got %d", h.ContainerSize, len(out))
	}
	return out, nil
}
