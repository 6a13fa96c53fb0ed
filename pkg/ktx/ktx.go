// Package ktx reads and writes KTX 1.1 texture files.
//
// Only single-face, non-array 2D textures are handled. Key/value metadata is
// skipped on load and not written on save.
package ktx

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/goopsie/texconv/pkg/format"
	"github.com/goopsie/texconv/pkg/mip"
	"github.com/goopsie/texconv/pkg/texture"
)

func padding(size uint64) uint64 {
	return (4 - size%4) % 4
}

// Load parses a KTX file, keeping at most maxLevels mip levels.
func Load(data []byte, maxLevels int) (*texture.Set, error) {
	if len(data) < len(Magic) || !bytes.Equal(data[:len(Magic)], Magic[:]) {
		return nil, texture.ErrBadMagic
	}
	offset := uint64(len(Magic))

	var h Header
	if err := h.UnmarshalBinary(data[offset:]); err != nil {
		return nil, err
	}
	offset += HeaderSize

	d, ok := format.LookupKTX(h.GLInternalFormat, h.GLFormat, h.GLType)
	if !ok {
		return nil, fmt.Errorf("%w: glInternalFormat 0x%04X, glFormat 0x%04X, glType 0x%04X",
			texture.ErrUnsupportedFormat, h.GLInternalFormat, h.GLFormat, h.GLType)
	}

	total := uint64(len(data))
	if total-offset < uint64(h.BytesOfKeyValueData) {
		return nil, fmt.Errorf("%w: key/value data needs %d bytes, %d left",
			texture.ErrTruncatedFile, h.BytesOfKeyValueData, total-offset)
	}
	offset += uint64(h.BytesOfKeyValueData)

	// A mip count of 0 asks the loader to generate mips; there is one level on disk.
	n := mip.ResolveLevelCount(int(h.NumberOfMipmapLevels), maxLevels)

	set := &texture.Set{Levels: make([]texture.Texture, 0, n)}
	for i := 0; i < n; i++ {
		if total-offset < 4 {
			return nil, fmt.Errorf("%w: level %d size word missing", texture.ErrTruncatedFile, i)
		}
		declared := uint64(binary.LittleEndian.Uint32(data[offset:]))
		offset += 4

		w, ht := mip.LevelDimensions(h.PixelWidth, h.PixelHeight, i)
		size := mip.LevelByteSize(w, ht, d.Geometry())
		if declared != size {
			return nil, fmt.Errorf("level %d: %w", i, &texture.MismatchError{
				Err:      texture.ErrSizeMismatch,
				What:     "image size",
				Expected: size,
				Actual:   declared,
			})
		}
		if total-offset < size {
			return nil, fmt.Errorf("%w: level %d needs %d bytes, %d left", texture.ErrTruncatedFile, i, size, total-offset)
		}

		lvl, err := texture.FromBytes(d.Format, w, ht, data[offset:offset+size])
		if err != nil {
			return nil, fmt.Errorf("level %d: %w", i, err)
		}
		set.Levels = append(set.Levels, lvl)
		offset += size

		// Padding after the last level may be missing.
		offset = min(offset+padding(size), total)
	}

	return set, nil
}

// NewHeader builds the header for a chain of n levels with the given base.
func NewHeader(base texture.Texture, d format.Descriptor, n int) Header {
	h := Header{
		GLType:               d.KTX.GLType,
		GLTypeSize:           1,
		GLFormat:             d.KTX.GLFormat,
		GLInternalFormat:     d.KTX.GLInternalFormat,
		GLBaseInternalFormat: d.KTX.GLBaseInternalFormat,
		PixelWidth:           base.Width,
		PixelHeight:          base.Height,
		NumberOfFaces:        1,
		NumberOfMipmapLevels: uint32(n),
	}
	if !d.Compressed {
		h.GLTypeSize = d.ComponentSize
	}
	return h
}

// Save serializes set as a KTX file.
func Save(set *texture.Set) ([]byte, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}
	base := set.Base()
	d := format.MustLookup(base.Format)
	if !d.Supports(format.KTX) {
		return nil, fmt.Errorf("%w: %s in KTX", texture.ErrUnsupportedContainerFormat, base.Format)
	}

	h := NewHeader(base, d, len(set.Levels))

	size := uint64(len(Magic) + HeaderSize)
	for _, lvl := range set.Levels {
		n := uint64(len(lvl.Data))
		size += 4 + n + padding(n)
	}

	buf := make([]byte, size)
	copy(buf, Magic[:])
	offset := uint64(len(Magic))
	h.EncodeTo(buf[offset:])
	offset += HeaderSize
	for _, lvl := range set.Levels {
		n := uint64(len(lvl.Data))
		binary.LittleEndian.PutUint32(buf[offset:], uint32(n))
		offset += 4
		offset += uint64(copy(buf[offset:], lvl.Data))
		offset += padding(n) // buf is zeroed
	}

	return buf, nil
}
