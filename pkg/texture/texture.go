// Package texture holds the in-memory texture model shared by the container
// codecs.
//
// A Set is an ordered mip chain: level 0 is the base image and each following
// level halves both dimensions, clamped at 1. Every level owns its buffer.
package texture

import (
	"fmt"

	"github.com/goopsie/texconv/pkg/format"
	"github.com/goopsie/texconv/pkg/mip"
)

// Texture is one mip level.
type Texture struct {
	Format         format.Format
	Width          uint32
	Height         uint32
	WidthInBlocks  uint32
	HeightInBlocks uint32
	Data           []byte
}

// New allocates a zeroed level of the given format and size.
func New(f format.Format, width, height uint32) (Texture, error) {
	d, ok := format.Lookup(f)
	if !ok {
		return Texture{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
	size := mip.LevelByteSize(width, height, d.Geometry())
	bw, bh := mip.BlockGrid(width, height, d.BlockWidth, d.BlockHeight)
	return Texture{
		Format:         f,
		Width:          width,
		Height:         height,
		WidthInBlocks:  bw,
		HeightInBlocks: bh,
		Data:           make([]byte, size),
	}, nil
}

// FromBytes builds a level around a copy of data. The length must match the
// level size exactly.
func FromBytes(f format.Format, width, height uint32, data []byte) (Texture, error) {
	t, err := New(f, width, height)
	if err != nil {
		return Texture{}, err
	}
	if len(data) != len(t.Data) {
		return Texture{}, &MismatchError{
			Err:      ErrSizeMismatch,
			What:     "level size",
			Expected: uint64(len(t.Data)),
			Actual:   uint64(len(data)),
		}
	}
	copy(t.Data, data)
	return t, nil
}

// Descriptor returns the catalog entry for the level's format.
func (t Texture) Descriptor() (format.Descriptor, bool) {
	return format.Lookup(t.Format)
}

// ExpectedSize returns the buffer size implied by the format and dimensions.
func (t Texture) ExpectedSize() (uint64, error) {
	d, ok := format.Lookup(t.Format)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, t.Format)
	}
	return mip.LevelByteSize(t.Width, t.Height, d.Geometry()), nil
}

// Validate checks the block grid and buffer length of a single level.
func (t Texture) Validate() error {
	want, err := t.ExpectedSize()
	if err != nil {
		return err
	}
	d := format.MustLookup(t.Format)
	bw, bh := mip.BlockGrid(t.Width, t.Height, d.BlockWidth, d.BlockHeight)
	if t.WidthInBlocks != bw || t.HeightInBlocks != bh {
		return fmt.Errorf("%w: block grid %dx%d, want %dx%d",
			ErrSizeMismatch, t.WidthInBlocks, t.HeightInBlocks, bw, bh)
	}
	if uint64(len(t.Data)) != want {
		return &MismatchError{Err: ErrSizeMismatch, What: "level size", Expected: want, Actual: uint64(len(t.Data))}
	}
	return nil
}

// Set is a mip chain.
type Set struct {
	Levels []Texture
}

// Base returns level 0. The set must not be empty.
func (s *Set) Base() Texture {
	return s.Levels[0]
}

// Format returns the format of level 0, or format.Unknown for an empty set.
func (s *Set) Format() format.Format {
	if s == nil || len(s.Levels) == 0 {
		return format.Unknown
	}
	return s.Levels[0].Format
}

// Validate checks that the set is non-empty, that every level has the base
// format, follows the halving rule and has a buffer of the right size.
func (s *Set) Validate() error {
	if s == nil || len(s.Levels) == 0 {
		return fmt.Errorf("%w: empty texture set", ErrLevelCountMismatch)
	}
	base := s.Levels[0]
	for i, lvl := range s.Levels {
		if lvl.Format != base.Format {
			return fmt.Errorf("%w: level %d is %s, base is %s", ErrUnsupportedFormat, i, lvl.Format, base.Format)
		}
		w, h := mip.LevelDimensions(base.Width, base.Height, i)
		if lvl.Width != w || lvl.Height != h {
			return fmt.Errorf("%w: level %d is %dx%d, want %dx%d", ErrSizeMismatch, i, lvl.Width, lvl.Height, w, h)
		}
		if err := lvl.Validate(); err != nil {
			return fmt.Errorf("level %d: %w", i, err)
		}
	}
	return nil
}

// String returns a short human-readable summary.
func (s *Set) String() string {
	if s == nil || len(s.Levels) == 0 {
		return "empty"
	}
	b := s.Levels[0]
	var total int
	for _, lvl := range s.Levels {
		total += len(lvl.Data)
	}
	return fmt.Sprintf("%s %dx%d, %d levels, %d bytes", b.Format, b.Width, b.Height, len(s.Levels), total)
}
