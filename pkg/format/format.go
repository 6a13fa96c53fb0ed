// Package format is the texture format catalog.
//
// Every canonical format has one Descriptor that carries its geometry and its
// encoding in each container (DDS four-character code, DXGI id and bit masks;
// KTX OpenGL enums; TEX format code), plus the containers it may be written
// to. Lookups go both ways and report whether a match was found.
package format

import "fmt"

// Format is a canonical texture format identifier.
type Format uint32

const (
	Unknown Format = iota

	// Block-compressed formats.
	BC1
	BC2
	BC3
	BC4
	BC5
	BC6H
	BC7
	ETC1
	ETC2
	ETC2Punchthrough
	ETC2EAC

	// Uncompressed pixel layouts.
	R8
	RG8
	RGB8
	RGBA8
	BGR8
	BGRA8
	RGBX8
	BGRX8
	R16
	RG16
	RGB16
	RGBA16
	FloatR16
	FloatRG16
	FloatRGB16
	FloatRGBX16
	FloatRGBA16
	FloatR32
	FloatRG32
	FloatRGB32
	FloatRGBA32

	numFormats
)

// All returns every known format in enumeration order.
func All() []Format {
	out := make([]Format, 0, numFormats-1)
	for f := Unknown + 1; f < numFormats; f++ {
		out = append(out, f)
	}
	return out
}

// String returns the format name.
func (f Format) String() string {
	if d, ok := Lookup(f); ok {
		return d.Name
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint32(f))
}

// Container identifies an on-disk texture container.
type Container int

const (
	ContainerNone Container = iota
	DDS
	KTX
	TEX
)

func (c Container) String() string {
	switch c {
	case DDS:
		return "DDS"
	case KTX:
		return "KTX"
	case TEX:
		return "TEX"
	default:
		return "none"
	}
}

// Ext returns the usual file extension for the container.
func (c Container) Ext() string {
	switch c {
	case DDS:
		return ".dds"
	case KTX:
		return ".ktx"
	case TEX:
		return ".tex"
	default:
		return ""
	}
}

// ParseContainer maps a name such as "dds" or ".ktx" to a Container.
func ParseContainer(s string) (Container, bool) {
	switch s {
	case "dds", ".dds", "DDS":
		return DDS, true
	case "ktx", ".ktx", "KTX":
		return KTX, true
	case "tex", ".tex", "TEX":
		return TEX, true
	}
	return ContainerNone, false
}
