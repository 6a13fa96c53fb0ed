package tex

import (
	"encoding/binary"
	"fmt"

	"github.com/goopsie/texconv/pkg/texture"
)

// Magic identifies a TEX file.
var Magic = [4]byte{'T', 'E', 'X', 0}

// HeaderSize is the size of the TEX header, magic included.
const HeaderSize = 12

// Header is the TEX file header.
type Header struct {
	Magic      [4]byte
	Width      uint16
	Height     uint16
	Reserved1  uint8 // Always 1 in files we write
	Format     uint8
	Reserved2  uint8
	HasMipmaps bool
}

// Validate checks the magic.
func (h *Header) Validate() error {
	if h.Magic != Magic {
		return fmt.Errorf("%w: expected %x, got %x", texture.ErrBadMagic, Magic, h.Magic)
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
	copy(buf[0:4], h.Magic[:])
	binary.LittleEndian.PutUint16(buf[4:6], h.Width)
	binary.LittleEndian.PutUint16(buf[6:8], h.Height)
	buf[8] = h.Reserved1
	buf[9] = h.Format
	buf[10] = h.Reserved2
	buf[11] = 0
	if h.HasMipmaps {
		buf[11] = 1
	}
}

// UnmarshalBinary decodes the header and checks the magic.
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		if len(data) < len(Magic) || [4]byte(data[:4]) != Magic {
			return texture.ErrBadMagic
		}
		return fmt.Errorf("%w: header needs %d bytes, got %d", texture.ErrTruncatedFile, HeaderSize, len(data))
	}
	h.DecodeFrom(data)
	return h.Validate()
}

// DecodeFrom reads the header from buf without validating it.
func (h *Header) DecodeFrom(buf []byte) {
	copy(h.Magic[:], buf[0:4])
	h.Width = binary.LittleEndian.Uint16(buf[4:6])
	h.Height = binary.LittleEndian.Uint16(buf[6:8])
	h.Reserved1 = buf[8]
	h.Format = buf[9]
	h.Reserved2 = buf[10]
	h.HasMipmaps = buf[11] != 0
}
