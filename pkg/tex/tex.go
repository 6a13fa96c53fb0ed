// Package tex reads and writes TEX texture files.
//
// A TEX file is a 12-byte header followed by a full BC1 or BC3 mip chain
// stored smallest level first.
package tex

import (
	"fmt"

	"github.com/goopsie/texconv/pkg/format"
	"github.com/goopsie/texconv/pkg/mip"
	"github.com/goopsie/texconv/pkg/texture"
)

type loadOptions struct {
	expectedLevels int
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

// WithExpectedLevels makes Load fail unless the header implies exactly n
// levels.
func WithExpectedLevels(n int) LoadOption {
	return func(o *loadOptions) {
		o.expectedLevels = n
	}
}

// LevelCount returns the number of levels a header implies.
func (h *Header) LevelCount() int {
	return mip.TEXLevelCount(uint32(h.Width), uint32(h.Height), h.HasMipmaps)
}

// Load parses a TEX file, keeping at most maxLevels mip levels. Levels are
// read backwards from the end of the file so that capping keeps the largest.
func Load(data []byte, maxLevels int, opts ...LoadOption) (*texture.Set, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	var h Header
	if err := h.UnmarshalBinary(data); err != nil {
		return nil, err
	}

	d, ok := format.LookupTEX(h.Format)
	if !ok {
		return nil, fmt.Errorf("%w: TEX format code %d", texture.ErrUnsupportedFormat, h.Format)
	}
	if h.Width == 0 || h.Height == 0 {
		return nil, fmt.Errorf("%w: zero dimensions %dx%d", texture.ErrUnsupportedFormat, h.Width, h.Height)
	}

	count := h.LevelCount()
	if o.expectedLevels > 0 && o.expectedLevels != count {
		return nil, &texture.MismatchError{
			Err:      texture.ErrLevelCountMismatch,
			What:     "mip levels",
			Expected: uint64(o.expectedLevels),
			Actual:   uint64(count),
		}
	}
	n := mip.ResolveLevelCount(count, maxLevels)

	set := &texture.Set{Levels: make([]texture.Texture, n)}
	end := uint64(len(data))
	for i := 0; i < n; i++ {
		w, ht := mip.LevelDimensions(uint32(h.Width), uint32(h.Height), i)
		size := mip.LevelByteSize(w, ht, d.Geometry())
		if end < HeaderSize+size {
			return nil, fmt.Errorf("%w: level %d needs %d bytes before offset %d", texture.ErrTruncatedFile, i, size, end)
		}
		start := end - size

		lvl, err := texture.FromBytes(d.Format, w, ht, data[start:end])
		if err != nil {
			return nil, fmt.Errorf("level %d: %w", i, err)
		}
		set.Levels[i] = lvl
		end = start
	}

	return set, nil
}

// Save serializes set as a TEX file. The set must hold the complete chain
// for its base dimensions. The reserved header bytes are always written as
// 1 and 0; values read from another file are not kept.
func Save(set *texture.Set) ([]byte, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}
	base := set.Base()
	d := format.MustLookup(base.Format)
	if !d.Supports(format.TEX) {
		return nil, fmt.Errorf("%w: %s in TEX", texture.ErrUnsupportedContainerFormat, base.Format)
	}
	if base.Width > 0xFFFF || base.Height > 0xFFFF {
		return nil, fmt.Errorf("%w: %dx%d does not fit a TEX header", texture.ErrUnsupportedFormat, base.Width, base.Height)
	}

	n := len(set.Levels)
	h := Header{
		Magic:      Magic,
		Width:      uint16(base.Width),
		Height:     uint16(base.Height),
		Reserved1:  1,
		Format:     d.TEXCode,
		HasMipmaps: n > 1,
	}
	if want := h.LevelCount(); want != n {
		return nil, &texture.MismatchError{
			Err:      texture.ErrLevelCountMismatch,
			What:     "mip levels",
			Expected: uint64(want),
			Actual:   uint64(n),
		}
	}

	size := HeaderSize
	for _, lvl := range set.Levels {
		size += len(lvl.Data)
	}
	buf := make([]byte, size)
	h.EncodeTo(buf)
	offset := HeaderSize
	for i := n - 1; i >= 0; i-- {
		offset += copy(buf[offset:], set.Levels[i].Data)
	}

	return buf, nil
}
