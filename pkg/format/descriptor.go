package format

import (
	"strings"

	"github.com/goopsie/texconv/pkg/mip"
)

// DXGI_FORMAT values used by the DDS DX10 extension header.
const (
	DXGIFormatUnknown           = 0
	DXGIFormatR32G32B32A32Float = 2
	DXGIFormatR32G32B32Float    = 6
	DXGIFormatR16G16B16A16Float = 10
	DXGIFormatR16G16B16A16Unorm = 11
	DXGIFormatR32G32Float       = 16
	DXGIFormatR8G8B8A8Unorm     = 28
	DXGIFormatR16G16Float       = 34
	DXGIFormatR16G16Unorm       = 35
	DXGIFormatR32Float          = 41
	DXGIFormatR8G8Unorm         = 49
	DXGIFormatR16Float          = 54
	DXGIFormatR16Unorm          = 56
	DXGIFormatR8Unorm           = 61
	DXGIFormatBC1Unorm          = 71
	DXGIFormatBC2Unorm          = 74
	DXGIFormatBC3Unorm          = 77
	DXGIFormatBC4Unorm          = 80
	DXGIFormatBC5Unorm          = 83
	DXGIFormatB8G8R8A8Unorm     = 87
	DXGIFormatB8G8R8X8Unorm     = 88
	DXGIFormatBC6HUF16          = 95
	DXGIFormatBC7Unorm          = 98
)

// OpenGL enums used in KTX headers.
const (
	GLUnsignedByte  = 0x1401
	GLUnsignedShort = 0x1403
	GLFloat         = 0x1406
	GLHalfFloat     = 0x140B

	GLRed  = 0x1903
	GLRGB  = 0x1907
	GLRGBA = 0x1908
	GLRG   = 0x8227
	GLBGR  = 0x80E0
	GLBGRA = 0x80E1

	GLR8      = 0x8229
	GLRG8     = 0x822B
	GLRGB8    = 0x8051
	GLRGBA8   = 0x8058
	GLR16     = 0x822A
	GLRG16    = 0x822C
	GLRGB16   = 0x8054
	GLRGBA16  = 0x805B
	GLR16F    = 0x822D
	GLRG16F   = 0x822F
	GLRGB16F  = 0x881B
	GLRGBA16F = 0x881A
	GLR32F    = 0x822E
	GLRG32F   = 0x8230
	GLRGB32F  = 0x8815
	GLRGBA32F = 0x8814

	GLCompressedRGBS3TCDXT1  = 0x83F0
	GLCompressedRGBAS3TCDXT5 = 0x83F3
	GLCompressedRedRGTC1     = 0x8DBB
	GLCompressedRGRGTC2      = 0x8DBD
	GLCompressedRGBBPTCFloat = 0x8E8F
	GLCompressedRGBABPTC     = 0x8E8C
	GLETC1RGB8               = 0x8D64
	GLCompressedRGB8ETC2     = 0x9274
	GLCompressedRGB8A1ETC2   = 0x9276
	GLCompressedRGBA8ETC2EAC = 0x9278
)

// TEX format codes.
const (
	TEXFormatDXT1 = 10
	TEXFormatDXT5 = 12
)

// DDSEncoding describes how a format appears in a DDS pixel-format block.
type DDSEncoding struct {
	FourCC      string   // "" for mask-described formats, "DX10" for extended header formats
	Aliases     []string // Alternative four-character codes accepted on load
	DXGIFormat  uint32   // DX10 format id, 0 if none
	RGBBitCount uint32
	RMask       uint32
	GMask       uint32
	BMask       uint32
	AMask       uint32
}

// KTXEncoding is the OpenGL type/format triple of a KTX header.
type KTXEncoding struct {
	GLType               uint32
	GLFormat             uint32
	GLInternalFormat     uint32
	GLBaseInternalFormat uint32
}

// Descriptor is the catalog entry for one format.
type Descriptor struct {
	Format Format
	Name   string

	Compressed    bool
	BlockWidth    uint32
	BlockHeight   uint32
	BytesPerBlock uint32 // Pixel size for uncompressed formats

	Components    uint32 // Uncompressed only, padding channels included
	ComponentSize uint32 // Bytes per component, uncompressed only
	Float         bool
	Channels      string // Memory order of components, e.g. "BGRA"; X is padding
	HasAlpha      bool

	// PixelFormat is the uncompressed layout the format decodes to.
	// Uncompressed formats map to themselves.
	PixelFormat Format

	DDS     DDSEncoding
	KTX     KTXEncoding
	TEXCode uint8

	DDSSupport bool
	KTXSupport bool
	TEXSupport bool
}

// PixelSize returns the size in bytes of one pixel of an uncompressed format,
// or 0 for compressed formats.
func (d Descriptor) PixelSize() uint32 {
	if d.Compressed {
		return 0
	}
	return d.BytesPerBlock
}

// Geometry returns the block geometry used for mip size calculations.
func (d Descriptor) Geometry() mip.Geometry {
	return mip.Geometry{
		BlockWidth:    d.BlockWidth,
		BlockHeight:   d.BlockHeight,
		BytesPerBlock: d.BytesPerBlock,
	}
}

// Supports reports whether the format can be written to container c.
func (d Descriptor) Supports(c Container) bool {
	switch c {
	case DDS:
		return d.DDSSupport
	case KTX:
		return d.KTXSupport
	case TEX:
		return d.TEXSupport
	}
	return false
}

func block(f Format, name string, size uint32, pixel Format) Descriptor {
	pd := describe(pixel)
	return Descriptor{
		Format:        f,
		Name:          name,
		Compressed:    true,
		BlockWidth:    4,
		BlockHeight:   4,
		BytesPerBlock: size,
		HasAlpha:      pd.HasAlpha,
		PixelFormat:   pixel,
	}
}

func pixels(f Format, name, channels string, componentSize uint32, float bool) Descriptor {
	n := uint32(len(channels))
	return Descriptor{
		Format:        f,
		Name:          name,
		BlockWidth:    1,
		BlockHeight:   1,
		BytesPerBlock: n * componentSize,
		Components:    n,
		ComponentSize: componentSize,
		Float:         float,
		Channels:      channels,
		HasAlpha:      strings.ContainsRune(channels, 'A'),
		PixelFormat:   f,
	}
}

func masks(bits, r, g, b, a uint32) DDSEncoding {
	return DDSEncoding{RGBBitCount: bits, RMask: r, GMask: g, BMask: b, AMask: a}
}

func dx10(id uint32) DDSEncoding {
	return DDSEncoding{FourCC: "DX10", DXGIFormat: id}
}

func gl(internal, format, typ, base uint32) KTXEncoding {
	return KTXEncoding{GLType: typ, GLFormat: format, GLInternalFormat: internal, GLBaseInternalFormat: base}
}

func glCompressed(internal, base uint32) KTXEncoding {
	return KTXEncoding{GLInternalFormat: internal, GLBaseInternalFormat: base}
}

// describe builds the descriptor for f. Unknown and out-of-range values
// return a zero Descriptor.
func describe(f Format) Descriptor {
	var d Descriptor

	switch f {
	case BC1:
		d = block(f, "BC1", 8, RGBX8)
		d.DDS = DDSEncoding{FourCC: "DXT1", DXGIFormat: DXGIFormatBC1Unorm}
		d.KTX = glCompressed(GLCompressedRGBS3TCDXT1, GLRGB)
		d.TEXCode = TEXFormatDXT1
		d.DDSSupport, d.KTXSupport, d.TEXSupport = true, true, true
	case BC2:
		// DXT3 has no KTX encoding here; it only round-trips through DDS.
		d = block(f, "BC2", 16, RGBA8)
		d.DDS = DDSEncoding{FourCC: "DXT3", DXGIFormat: DXGIFormatBC2Unorm}
		d.DDSSupport = true
	case BC3:
		d = block(f, "BC3", 16, RGBA8)
		d.DDS = DDSEncoding{FourCC: "DXT5", DXGIFormat: DXGIFormatBC3Unorm}
		d.KTX = glCompressed(GLCompressedRGBAS3TCDXT5, GLRGBA)
		d.TEXCode = TEXFormatDXT5
		d.DDSSupport, d.KTXSupport, d.TEXSupport = true, true, true
	case BC4:
		d = block(f, "BC4", 8, R8)
		d.DDS = DDSEncoding{FourCC: "BC4U", Aliases: []string{"ATI1"}, DXGIFormat: DXGIFormatBC4Unorm}
		d.KTX = glCompressed(GLCompressedRedRGTC1, GLRed)
		d.DDSSupport, d.KTXSupport = true, true
	case BC5:
		d = block(f, "BC5", 16, RG8)
		d.DDS = DDSEncoding{FourCC: "BC5U", Aliases: []string{"ATI2"}, DXGIFormat: DXGIFormatBC5Unorm}
		d.KTX = glCompressed(GLCompressedRGRGTC2, GLRG)
		d.DDSSupport, d.KTXSupport = true, true
	case BC6H:
		d = block(f, "BC6H", 16, FloatRGBX16)
		d.DDS = dx10(DXGIFormatBC6HUF16)
		d.KTX = glCompressed(GLCompressedRGBBPTCFloat, GLRGB)
		d.DDSSupport, d.KTXSupport = true, true
	case BC7:
		d = block(f, "BC7", 16, RGBA8)
		d.DDS = dx10(DXGIFormatBC7Unorm)
		d.KTX = glCompressed(GLCompressedRGBABPTC, GLRGBA)
		d.DDSSupport, d.KTXSupport = true, true
	case ETC1:
		d = block(f, "ETC1", 8, RGBX8)
		d.KTX = glCompressed(GLETC1RGB8, GLRGB)
		d.KTXSupport = true
	case ETC2:
		d = block(f, "ETC2", 8, RGBX8)
		d.KTX = glCompressed(GLCompressedRGB8ETC2, GLRGB)
		d.KTXSupport = true
	case ETC2Punchthrough:
		d = block(f, "ETC2_PUNCHTHROUGH", 8, RGBA8)
		d.KTX = glCompressed(GLCompressedRGB8A1ETC2, GLRGBA)
		d.KTXSupport = true
	case ETC2EAC:
		d = block(f, "ETC2_EAC", 16, RGBA8)
		d.KTX = glCompressed(GLCompressedRGBA8ETC2EAC, GLRGBA)
		d.KTXSupport = true

	case R8:
		d = pixels(f, "R8", "R", 1, false)
		d.DDS = masks(8, 0xFF, 0, 0, 0)
		d.DDS.DXGIFormat = DXGIFormatR8Unorm
		d.KTX = gl(GLR8, GLRed, GLUnsignedByte, GLRed)
		d.DDSSupport, d.KTXSupport = true, true
	case RG8:
		d = pixels(f, "RG8", "RG", 1, false)
		d.DDS = masks(16, 0xFF, 0xFF00, 0, 0)
		d.DDS.DXGIFormat = DXGIFormatR8G8Unorm
		d.KTX = gl(GLRG8, GLRG, GLUnsignedByte, GLRG)
		d.DDSSupport, d.KTXSupport = true, true
	case RGB8:
		d = pixels(f, "RGB8", "RGB", 1, false)
		d.DDS = masks(24, 0xFF, 0xFF00, 0xFF0000, 0)
		d.KTX = gl(GLRGB8, GLRGB, GLUnsignedByte, GLRGB)
		d.DDSSupport, d.KTXSupport = true, true
	case RGBA8:
		d = pixels(f, "RGBA8", "RGBA", 1, false)
		d.DDS = masks(32, 0xFF, 0xFF00, 0xFF0000, 0xFF000000)
		d.DDS.DXGIFormat = DXGIFormatR8G8B8A8Unorm
		d.KTX = gl(GLRGBA8, GLRGBA, GLUnsignedByte, GLRGBA)
		d.DDSSupport, d.KTXSupport = true, true
	case BGR8:
		d = pixels(f, "BGR8", "BGR", 1, false)
		d.DDS = masks(24, 0xFF0000, 0xFF00, 0xFF, 0)
		d.KTX = gl(GLRGB8, GLBGR, GLUnsignedByte, GLRGB)
	case BGRA8:
		d = pixels(f, "BGRA8", "BGRA", 1, false)
		d.DDS = masks(32, 0xFF0000, 0xFF00, 0xFF, 0xFF000000)
		d.DDS.DXGIFormat = DXGIFormatB8G8R8A8Unorm
		d.KTX = gl(GLRGBA8, GLBGRA, GLUnsignedByte, GLRGBA)
	case RGBX8:
		d = pixels(f, "RGBX8", "RGBX", 1, false)
		d.DDS = masks(32, 0xFF, 0xFF00, 0xFF0000, 0)
	case BGRX8:
		d = pixels(f, "BGRX8", "BGRX", 1, false)
		d.DDS = masks(32, 0xFF0000, 0xFF00, 0xFF, 0)
		d.DDS.DXGIFormat = DXGIFormatB8G8R8X8Unorm
	case R16:
		d = pixels(f, "R16", "R", 2, false)
		d.DDS = masks(16, 0xFFFF, 0, 0, 0)
		d.DDS.DXGIFormat = DXGIFormatR16Unorm
		d.KTX = gl(GLR16, GLRed, GLUnsignedShort, GLRed)
		d.DDSSupport, d.KTXSupport = true, true
	case RG16:
		d = pixels(f, "RG16", "RG", 2, false)
		d.DDS = masks(32, 0xFFFF, 0xFFFF0000, 0, 0)
		d.DDS.DXGIFormat = DXGIFormatR16G16Unorm
		d.KTX = gl(GLRG16, GLRG, GLUnsignedShort, GLRG)
		d.DDSSupport, d.KTXSupport = true, true
	case RGB16:
		d = pixels(f, "RGB16", "RGB", 2, false)
		d.KTX = gl(GLRGB16, GLRGB, GLUnsignedShort, GLRGB)
		d.KTXSupport = true
	case RGBA16:
		d = pixels(f, "RGBA16", "RGBA", 2, false)
		d.DDS = dx10(DXGIFormatR16G16B16A16Unorm)
		d.KTX = gl(GLRGBA16, GLRGBA, GLUnsignedShort, GLRGBA)
		d.DDSSupport, d.KTXSupport = true, true
	case FloatR16:
		d = pixels(f, "FLOAT_R16", "R", 2, true)
		d.DDS = dx10(DXGIFormatR16Float)
		d.KTX = gl(GLR16F, GLRed, GLHalfFloat, GLRed)
		d.DDSSupport, d.KTXSupport = true, true
	case FloatRG16:
		d = pixels(f, "FLOAT_RG16", "RG", 2, true)
		d.DDS = dx10(DXGIFormatR16G16Float)
		d.KTX = gl(GLRG16F, GLRG, GLHalfFloat, GLRG)
		d.DDSSupport, d.KTXSupport = true, true
	case FloatRGB16:
		d = pixels(f, "FLOAT_RGB16", "RGB", 2, true)
		d.KTX = gl(GLRGB16F, GLRGB, GLHalfFloat, GLRGB)
		d.KTXSupport = true
	case FloatRGBX16:
		d = pixels(f, "FLOAT_RGBX16", "RGBX", 2, true)
	case FloatRGBA16:
		d = pixels(f, "FLOAT_RGBA16", "RGBA", 2, true)
		d.DDS = dx10(DXGIFormatR16G16B16A16Float)
		d.KTX = gl(GLRGBA16F, GLRGBA, GLHalfFloat, GLRGBA)
		d.DDSSupport, d.KTXSupport = true, true
	case FloatR32:
		d = pixels(f, "FLOAT_R32", "R", 4, true)
		d.DDS = dx10(DXGIFormatR32Float)
		d.KTX = gl(GLR32F, GLRed, GLFloat, GLRed)
		d.DDSSupport, d.KTXSupport = true, true
	case FloatRG32:
		d = pixels(f, "FLOAT_RG32", "RG", 4, true)
		d.DDS = dx10(DXGIFormatR32G32Float)
		d.KTX = gl(GLRG32F, GLRG, GLFloat, GLRG)
		d.DDSSupport, d.KTXSupport = true, true
	case FloatRGB32:
		d = pixels(f, "FLOAT_RGB32", "RGB", 4, true)
		d.DDS = dx10(DXGIFormatR32G32B32Float)
		d.KTX = gl(GLRGB32F, GLRGB, GLFloat, GLRGB)
		d.DDSSupport, d.KTXSupport = true, true
	case FloatRGBA32:
		d = pixels(f, "FLOAT_RGBA32", "RGBA", 4, true)
		d.DDS = dx10(DXGIFormatR32G32B32A32Float)
		d.KTX = gl(GLRGBA32F, GLRGBA, GLFloat, GLRGBA)
		d.DDSSupport, d.KTXSupport = true, true
	default:
		return Descriptor{}
	}

	// Extended-header formats still record their bit depth in the pixel
	// format block.
	if !d.Compressed && d.DDS.FourCC == "DX10" {
		d.DDS.RGBBitCount = d.BytesPerBlock * 8
	}
	return d
}
