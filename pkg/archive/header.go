// Package archive wraps a texture container in a single zstd frame so
// DDS, KTX and TEX files can be stored and shipped as *.zst.
//
// A packed file starts with a 24-byte header recording the size of the
// container and of the frame, followed by the frame itself.
package archive

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Magic starts every packed container.
var Magic = [4]byte{'Z', 'S', 'T', 'D'}

// HeaderSize is magic, header length, container size and frame size.
const HeaderSize = 24

// headerLength counts the header bytes after the length word itself.
const headerLength = HeaderSize - 8

// maxContainerSize caps the container size a header may declare, since
// Unpack allocates it up front.
const maxContainerSize = 1 << 32

// ErrInvalidHeader reports a packed file whose header is unusable.
var ErrInvalidHeader = errors.New("invalid archive header")

// Header precedes the zstd frame of a packed container.
type Header struct {
	Magic         [4]byte
	HeaderLength  uint32
	ContainerSize uint64 // DDS, KTX or TEX bytes after unpacking
	FrameSize     uint64
}

// NewHeader describes a container of containerSize bytes packed into a
// frameSize-byte frame.
func NewHeader(containerSize, frameSize uint64) *Header {
	return &Header{
		Magic:         Magic,
		HeaderLength:  headerLength,
		ContainerSize: containerSize,
		FrameSize:     frameSize,
	}
}

func (h *Header) Validate() error {
	switch {
	case h.Magic != Magic:
		return fmt.Errorf("%w: magic %x", ErrInvalidHeader, h.Magic)
	case h.HeaderLength != headerLength:
		return fmt.Errorf("%w: header length %d", ErrInvalidHeader, h.HeaderLength)
	case h.ContainerSize == 0 || h.FrameSize == 0:
		return fmt.Errorf("%w: empty container", ErrInvalidHeader)
	case h.ContainerSize > maxContainerSize:
		return fmt.Errorf("%w: container size %d too large", ErrInvalidHeader, h.ContainerSize)
	}
	return nil
}

// Frame returns the zstd frame that follows the header in data, checking
// that it has exactly FrameSize bytes.
func (h *Header) Frame(data []byte) ([]byte, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: no frame", ErrInvalidHeader)
	}
	frame := data[HeaderSize:]
	if uint64(len(frame)) != h.FrameSize {
		return nil, fmt.Errorf("%w: frame size %d, %d bytes present", ErrInvalidHeader, h.FrameSize, len(frame))
	}
	return frame, nil
}

func (h *Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize)
	h.EncodeTo(buf)
	return buf, nil
}

// EncodeTo writes the header into the first HeaderSize bytes of buf.
func (h *Header) EncodeTo(buf []byte) {
	copy(buf[0:4], h.Magic[:])
	binary.LittleEndian.PutUint32(buf[4:8], h.HeaderLength)
	binary.LittleEndian.PutUint64(buf[8:16], h.ContainerSize)
	binary.LittleEndian.PutUint64(buf[16:24], h.FrameSize)
}

// UnmarshalBinary decodes the header at the start of a packed file and
// validates it.
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("%w: %d bytes, need %d", ErrInvalidHeader, len(data), HeaderSize)
	}
	h.DecodeFrom(data)
	return h.Validate()
}

func (h *Header) DecodeFrom(buf []byte) {
	copy(h.Magic[:], buf[0:4])
	h.HeaderLength = binary.LittleEndian.Uint32(buf[4:8])
	h.ContainerSize = binary.LittleEndian.Uint64(buf[8:16])
	h.FrameSize = binary.LittleEndian.Uint64(buf[16:24])
}
