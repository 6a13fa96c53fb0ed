package ktx

import (
	"encoding/binary"
	"fmt"

	"github.com/goopsie/texconv/pkg/texture"
)

// Magic is the 12-byte KTX 1.1 identifier followed by the little-endian
// endianness marker.
var Magic = [16]byte{
	0xAB, 0x4B, 0x54, 0x58, 0x20, 0x31, 0x31, 0xBB, 0x0D, 0x0A, 0x1A, 0x0A,
	0x01, 0x02, 0x03, 0x04,
}

// HeaderSize is the size of the header that follows Magic.
const HeaderSize = 48 // 12 x uint32

// Header is the fixed KTX header.
type Header struct {
	GLType                uint32
	GLTypeSize            uint32
	GLFormat              uint32
	GLInternalFormat      uint32
	GLBaseInternalFormat  uint32
	PixelWidth            uint32
	PixelHeight           uint32
	PixelDepth            uint32
	NumberOfArrayElements uint32
	NumberOfFaces         uint32
	NumberOfMipmapLevels  uint32
	BytesOfKeyValueData   uint32
}

// Validate rejects cube maps, arrays and volume textures.
func (h *Header) Validate() error {
	if h.NumberOfFaces != 1 {
		return fmt.Errorf("%w: %d faces, only 2D textures are supported", texture.ErrUnsupportedFormat, h.NumberOfFaces)
	}
	if h.NumberOfArrayElements > 0 {
		return fmt.Errorf("%w: array of %d elements", texture.ErrUnsupportedFormat, h.NumberOfArrayElements)
	}
	if h.PixelDepth > 1 {
		return fmt.Errorf("%w: depth %d", texture.ErrUnsupportedFormat, h.PixelDepth)
	}
	if h.PixelWidth == 0 || h.PixelHeight == 0 {
		return fmt.Errorf("%w: zero dimensions %dx%d", texture.ErrUnsupportedFormat, h.PixelWidth, h.PixelHeight)
	}
	return nil
}

// MarshalBinary encodes the header.
func (h *Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize)
	h.EncodeTo(buf)
	return buf, nil
}

// EncodeTo writes the header to buf, which must hold HeaderSize bytes.
func (h *Header) EncodeTo(buf []byte) {
	for i, v := range h.fields() {
		binary.LittleEndian.PutUint32(buf[4*i:], *v)
	}
}

// UnmarshalBinary decodes and validates the header.
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("%w: header needs %d bytes, got %d", texture.ErrTruncatedFile, HeaderSize, len(data))
	}
	h.DecodeFrom(data)
	return h.Validate()
}

// DecodeFrom reads the header from buf without validating it.
func (h *Header) DecodeFrom(buf []byte) {
	for i, v := range h.fields() {
		*v = binary.LittleEndian.Uint32(buf[4*i:])
	}
}

// fields lists the header words in file order.
func (h *Header) fields() [12]*uint32 {
	return [12]*uint32{
		&h.GLType,
		&h.GLTypeSize,
		&h.GLFormat,
		&h.GLInternalFormat,
		&h.GLBaseInternalFormat,
		&h.PixelWidth,
		&h.PixelHeight,
		&h.PixelDepth,
		&h.NumberOfArrayElements,
		&h.NumberOfFaces,
		&h.NumberOfMipmapLevels,
		&h.BytesOfKeyValueData,
	}
}
