package dds

import (
	"encoding/binary"
	"fmt"

	"github.com/goopsie/texconv/pkg/texture"
)

// Magic is the four bytes every DDS file starts with.
var Magic = [4]byte{'D', 'D', 'S', ' '}

// DDS header constants
const (
	HeaderSize      = 124
	PixelFormatSize = 32
	DX10HeaderSize  = 20

	HeaderFlagsCaps        = 0x1
	HeaderFlagsHeight      = 0x2
	HeaderFlagsWidth       = 0x4
	HeaderFlagsPitch       = 0x8
	HeaderFlagsPixelFormat = 0x1000
	HeaderFlagsMipMapCount = 0x20000
	HeaderFlagsLinearSize  = 0x80000
	HeaderFlagsTexture     = HeaderFlagsCaps | HeaderFlagsHeight | HeaderFlagsWidth | HeaderFlagsPixelFormat

	PixelFormatAlphaPixels = 0x1
	PixelFormatFourCC      = 0x4
	PixelFormatRGB         = 0x40

	SurfaceFlagsTexture = 0x1000
	SurfaceFlagsMipmap  = 0x400008 // DDSCAPS_MIPMAP | DDSCAPS_COMPLEX

	ResourceDimensionTexture2D = 3
)

// PixelFormat is the 32-byte DDS_PIXELFORMAT block.
type PixelFormat struct {
	Size        uint32
	Flags       uint32
	FourCC      [4]byte
	RGBBitCount uint32
	RMask       uint32
	GMask       uint32
	BMask       uint32
	AMask       uint32
}

// Header is the 124-byte DDS_HEADER that follows the magic.
type Header struct {
	Size              uint32      // +0
	Flags             uint32      // +4
	Height            uint32      // +8
	Width             uint32      // +12
	PitchOrLinearSize uint32      // +16
	Depth             uint32      // +20
	MipMapCount       uint32      // +24
	Reserved1         [11]uint32  // +28
	PixelFormat       PixelFormat // +72
	Caps              uint32      // +104
	Caps2             uint32      // +108
	Caps3             uint32      // +112
	Caps4             uint32      // +116
	Reserved2         uint32      // +120
}

// MarshalBinary encodes the header.
func (h *Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize)
	h.EncodeTo(buf)
	return buf, nil
}

// EncodeTo writes the header to buf, which must hold HeaderSize bytes.
func (h *Header) EncodeTo(buf []byte) {
	le := binary.LittleEndian
	le.PutUint32(buf[0:4], h.Size)
	le.PutUint32(buf[4:8], h.Flags)
	le.PutUint32(buf[8:12], h.Height)
	le.PutUint32(buf[12:16], h.Width)
	le.PutUint32(buf[16:20], h.PitchOrLinearSize)
	le.PutUint32(buf[20:24], h.Depth)
	le.PutUint32(buf[24:28], h.MipMapCount)
	for i, v := range h.Reserved1 {
		le.PutUint32(buf[28+4*i:], v)
	}

	pf := buf[72:104]
	le.PutUint32(pf[0:4], h.PixelFormat.Size)
	le.PutUint32(pf[4:8], h.PixelFormat.Flags)
	copy(pf[8:12], h.PixelFormat.FourCC[:])
	le.PutUint32(pf[12:16], h.PixelFormat.RGBBitCount)
	le.PutUint32(pf[16:20], h.PixelFormat.RMask)
	le.PutUint32(pf[20:24], h.PixelFormat.GMask)
	le.PutUint32(pf[24:28], h.PixelFormat.BMask)
	le.PutUint32(pf[28:32], h.PixelFormat.AMask)

	le.PutUint32(buf[104:108], h.Caps)
	le.PutUint32(buf[108:112], h.Caps2)
	le.PutUint32(buf[112:116], h.Caps3)
	le.PutUint32(buf[116:120], h.Caps4)
	le.PutUint32(buf[120:124], h.Reserved2)
}

// UnmarshalBinary decodes the header from data.
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("%w: header needs %d bytes, got %d", texture.ErrTruncatedFile, HeaderSize, len(data))
	}
	h.DecodeFrom(data)
	return nil
}

// DecodeFrom reads the header from buf without checking its length.
func (h *Header) DecodeFrom(buf []byte) {
	le := binary.LittleEndian
	h.Size = le.Uint32(buf[0:4])
	h.Flags = le.Uint32(buf[4:8])
	h.Height = le.Uint32(buf[8:12])
	h.Width = le.Uint32(buf[12:16])
	h.PitchOrLinearSize = le.Uint32(buf[16:20])
	h.Depth = le.Uint32(buf[20:24])
	h.MipMapCount = le.Uint32(buf[24:28])
	for i := range h.Reserved1 {
		h.Reserved1[i] = le.Uint32(buf[28+4*i:])
	}

	pf := buf[72:104]
	h.PixelFormat.Size = le.Uint32(pf[0:4])
	h.PixelFormat.Flags = le.Uint32(pf[4:8])
	copy(h.PixelFormat.FourCC[:], pf[8:12])
	h.PixelFormat.RGBBitCount = le.Uint32(pf[12:16])
	h.PixelFormat.RMask = le.Uint32(pf[16:20])
	h.PixelFormat.GMask = le.Uint32(pf[20:24])
	h.PixelFormat.BMask = le.Uint32(pf[24:28])
	h.PixelFormat.AMask = le.Uint32(pf[28:32])

	h.Caps = le.Uint32(buf[104:108])
	h.Caps2 = le.Uint32(buf[108:112])
	h.Caps3 = le.Uint32(buf[112:116])
	h.Caps4 = le.Uint32(buf[116:120])
	h.Reserved2 = le.Uint32(buf[120:124])
}

// HasDX10 reports whether a DX10 extension header follows.
func (h *Header) HasDX10() bool {
	return h.PixelFormat.FourCC == [4]byte{'D', 'X', '1', '0'}
}

// DX10Header is the 20-byte DDS_HEADER_DXT10 extension.
type DX10Header struct {
	DXGIFormat        uint32
	ResourceDimension uint32
	MiscFlag          uint32
	ArraySize         uint32
	MiscFlags2        uint32
}

// MarshalBinary encodes the extension header.
func (h *DX10Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, DX10HeaderSize)
	h.EncodeTo(buf)
	return buf, nil
}

// EncodeTo writes the extension header to buf.
func (h *DX10Header) EncodeTo(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], h.DXGIFormat)
	binary.LittleEndian.PutUint32(buf[4:8], h.ResourceDimension)
	binary.LittleEndian.PutUint32(buf[8:12], h.MiscFlag)
	binary.LittleEndian.PutUint32(buf[12:16], h.ArraySize)
	binary.LittleEndian.PutUint32(buf[16:20], h.MiscFlags2)
}

// UnmarshalBinary decodes the extension header and rejects anything but a
// 2D texture.
func (h *DX10Header) UnmarshalBinary(data []byte) error {
	if len(data) < DX10HeaderSize {
		return fmt.Errorf("%w: DX10 header needs %d bytes, got %d", texture.ErrTruncatedFile, DX10HeaderSize, len(data))
	}
	h.DecodeFrom(data)
	return h.Validate()
}

// DecodeFrom reads the extension header from buf.
func (h *DX10Header) DecodeFrom(buf []byte) {
	h.DXGIFormat = binary.LittleEndian.Uint32(buf[0:4])
	h.ResourceDimension = binary.LittleEndian.Uint32(buf[4:8])
	h.MiscFlag = binary.LittleEndian.Uint32(buf[8:12])
	h.ArraySize = binary.LittleEndian.Uint32(buf[12:16])
	h.MiscFlags2 = binary.LittleEndian.Uint32(buf[16:20])
}

// Validate checks that the header describes a 2D texture.
func (h *DX10Header) Validate() error {
	if h.ResourceDimension != ResourceDimensionTexture2D {
		return fmt.Errorf("%w: resource dimension %d, only 2D textures are supported",
			texture.ErrUnsupportedFormat, h.ResourceDimension)
	}
	return nil
}
