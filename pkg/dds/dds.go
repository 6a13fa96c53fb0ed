// Package dds reads and writes DirectDraw Surface files.
package dds

import (
	"bytes"
	"fmt"

	"github.com/goopsie/texconv/pkg/format"
	"github.com/goopsie/texconv/pkg/mip"
	"github.com/goopsie/texconv/pkg/texture"
)

// Load parses a DDS file, keeping at most maxLevels mip levels.
func Load(data []byte, maxLevels int) (*texture.Set, error) {
	if len(data) < len(Magic) || !bytes.Equal(data[:4], Magic[:]) {
		return nil, texture.ErrBadMagic
	}
	offset := len(Magic)

	var h Header
	if err := h.UnmarshalBinary(data[offset:]); err != nil {
		return nil, err
	}
	offset += HeaderSize

	var dx10 DX10Header
	if h.HasDX10() {
		if err := dx10.UnmarshalBinary(data[offset:]); err != nil {
			return nil, err
		}
		offset += DX10HeaderSize
	}

	d, ok := format.LookupDDS(format.DDSKey{
		Flags:       h.PixelFormat.Flags,
		FourCC:      h.PixelFormat.FourCC,
		DXGIFormat:  dx10.DXGIFormat,
		RGBBitCount: h.PixelFormat.RGBBitCount,
		RMask:       h.PixelFormat.RMask,
		GMask:       h.PixelFormat.GMask,
		BMask:       h.PixelFormat.BMask,
		AMask:       h.PixelFormat.AMask,
	})
	if !ok {
		return nil, fmt.Errorf("%w: fourcc %q, DXGI format %d, %d-bit masks %08x/%08x/%08x/%08x",
			texture.ErrUnsupportedFormat, h.PixelFormat.FourCC[:], dx10.DXGIFormat, h.PixelFormat.RGBBitCount,
			h.PixelFormat.RMask, h.PixelFormat.GMask, h.PixelFormat.BMask, h.PixelFormat.AMask)
	}
	if h.Width == 0 || h.Height == 0 {
		return nil, fmt.Errorf("%w: zero dimensions %dx%d", texture.ErrUnsupportedFormat, h.Width, h.Height)
	}

	declared := 1
	if h.Flags&HeaderFlagsMipMapCount != 0 {
		declared = int(h.MipMapCount)
	}
	n := mip.ResolveLevelCount(declared, maxLevels)

	set := &texture.Set{Levels: make([]texture.Texture, 0, n)}
	for i := 0; i < n; i++ {
		w, ht := mip.LevelDimensions(h.Width, h.Height, i)
		size := mip.LevelByteSize(w, ht, d.Geometry())
		if remaining := uint64(len(data) - offset); remaining < size {
			return nil, fmt.Errorf("%w: level %d needs %d bytes, %d left", texture.ErrTruncatedFile, i, size, remaining)
		}
		lvl, err := texture.FromBytes(d.Format, w, ht, data[offset:offset+int(size)])
		if err != nil {
			return nil, fmt.Errorf("level %d: %w", i, err)
		}
		set.Levels = append(set.Levels, lvl)
		offset += int(size)
	}

	return set, nil
}

// NewHeader builds the header (and the DX10 extension when the format needs
// one) for a chain of n levels with the given base level.
func NewHeader(base texture.Texture, d format.Descriptor, n int) (Header, *DX10Header) {
	h := Header{
		Size:        HeaderSize,
		Flags:       HeaderFlagsTexture,
		Height:      base.Height,
		Width:       base.Width,
		MipMapCount: uint32(n),
		PixelFormat: PixelFormat{Size: PixelFormatSize},
		Caps:        SurfaceFlagsTexture,
	}

	if n > 1 {
		h.Flags |= HeaderFlagsMipMapCount
		h.Caps |= SurfaceFlagsMipmap
	}

	if d.Compressed {
		h.Flags |= HeaderFlagsLinearSize
		h.PitchOrLinearSize = base.WidthInBlocks * base.HeightInBlocks * d.BytesPerBlock
	} else {
		h.Flags |= HeaderFlagsPitch
		h.PitchOrLinearSize = base.Width * d.PixelSize()

		h.PixelFormat.Flags |= PixelFormatRGB
		h.PixelFormat.RGBBitCount = d.Components * d.ComponentSize * 8
		h.PixelFormat.RMask = d.DDS.RMask
		h.PixelFormat.GMask = d.DDS.GMask
		h.PixelFormat.BMask = d.DDS.BMask
		h.PixelFormat.AMask = d.DDS.AMask
		if d.HasAlpha {
			h.PixelFormat.Flags |= PixelFormatAlphaPixels
		}
	}

	if d.DDS.FourCC != "" {
		h.PixelFormat.Flags |= PixelFormatFourCC
		h.PixelFormat.FourCC = format.FourCC(d.DDS.FourCC)
	}

	if !h.HasDX10() {
		return h, nil
	}
	return h, &DX10Header{
		DXGIFormat:        d.DDS.DXGIFormat,
		ResourceDimension: ResourceDimensionTexture2D,
		ArraySize:         1,
	}
}

// Save serializes set as a DDS file.
func Save(set *texture.Set) ([]byte, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}
	base := set.Base()
	d := format.MustLookup(base.Format)
	if !d.Supports(format.DDS) {
		return nil, fmt.Errorf("%w: %s in DDS", texture.ErrUnsupportedContainerFormat, base.Format)
	}

	h, dx10 := NewHeader(base, d, len(set.Levels))

	size := len(Magic) + HeaderSize
	if dx10 != nil {
		size += DX10HeaderSize
	}
	for _, lvl := range set.Levels {
		size += len(lvl.Data)
	}

	buf := make([]byte, size)
	copy(buf, Magic[:])
	offset := len(Magic)
	h.EncodeTo(buf[offset:])
	offset += HeaderSize
	if dx10 != nil {
		dx10.EncodeTo(buf[offset:])
		offset += DX10HeaderSize
	}
	for _, lvl := range set.Levels {
		offset += copy(buf[offset:], lvl.Data)
	}

	return buf, nil
}
