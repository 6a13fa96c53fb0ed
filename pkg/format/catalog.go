package format

import "strings"

// DDSPixelFormatFourCC is the DDS pixel-format flag marking a valid FourCC.
const DDSPixelFormatFourCC = 0x4

// DDSKey holds the fields of a DDS header that identify a format.
type DDSKey struct {
	Flags       uint32 // Pixel-format flags
	FourCC      [4]byte
	DXGIFormat  uint32 // Only consulted when FourCC is "DX10"
	RGBBitCount uint32
	RMask       uint32
	GMask       uint32
	BMask       uint32
	AMask       uint32
}

type ktxKey struct {
	internal, format, typ uint32
}

type maskKey struct {
	bits, r, g, b, a uint32
}

var (
	descriptors [numFormats]Descriptor
	byFourCC    = map[[4]byte]Format{}
	byDXGI      = map[uint32]Format{}
	byMasks     = map[maskKey]Format{}
	byKTX       = map[ktxKey]Format{}
	byTEX       = map[uint8]Format{}
)

func init() {
	for _, f := range All() {
		d := describe(f)
		descriptors[f] = d

		if d.DDS.DXGIFormat != 0 {
			byDXGI[d.DDS.DXGIFormat] = f
		}
		switch d.DDS.FourCC {
		case "DX10":
		case "":
			if d.DDS.RGBBitCount != 0 {
				byMasks[maskKey{d.DDS.RGBBitCount, d.DDS.RMask, d.DDS.GMask, d.DDS.BMask, d.DDS.AMask}] = f
			}
		default:
			byFourCC[fourCC(d.DDS.FourCC)] = f
			for _, alias := range d.DDS.Aliases {
				byFourCC[fourCC(alias)] = f
			}
		}

		if d.KTX.GLInternalFormat != 0 {
			if d.Compressed {
				byKTX[ktxKey{internal: d.KTX.GLInternalFormat}] = f
			} else {
				byKTX[ktxKey{d.KTX.GLInternalFormat, d.KTX.GLFormat, d.KTX.GLType}] = f
			}
		}
		if d.TEXCode != 0 {
			byTEX[d.TEXCode] = f
		}
	}
}

func fourCC(s string) [4]byte {
	var c [4]byte
	copy(c[:], s)
	return c
}

// FourCC returns the four-character code bytes for s.
func FourCC(s string) [4]byte {
	return fourCC(s)
}

// Lookup returns the descriptor for f.
func Lookup(f Format) (Descriptor, bool) {
	if f == Unknown || f >= numFormats {
		return Descriptor{}, false
	}
	return descriptors[f], true
}

// MustLookup is like Lookup but panics on an unknown format.
// It is meant for formats taken from the catalog itself.
func MustLookup(f Format) Descriptor {
	d, ok := Lookup(f)
	if !ok {
		panic("format: unknown format " + f.String())
	}
	return d
}

// LookupDDS identifies the format described by a DDS pixel-format block.
// "DX10" defers to the DXGI id, a set FourCC flag matches the code or one of
// its aliases, and anything else is matched on bit count and masks.
func LookupDDS(k DDSKey) (Descriptor, bool) {
	var (
		f  Format
		ok bool
	)
	switch {
	case k.FourCC == fourCC("DX10"):
		f, ok = byDXGI[k.DXGIFormat]
	case k.Flags&DDSPixelFormatFourCC != 0 && k.FourCC != [4]byte{}:
		f, ok = byFourCC[k.FourCC]
	default:
		f, ok = byMasks[maskKey{k.RGBBitCount, k.RMask, k.GMask, k.BMask, k.AMask}]
	}
	if !ok {
		return Descriptor{}, false
	}
	return descriptors[f], true
}

// LookupKTX identifies a format from a KTX header's GL enums. Compressed
// formats are matched on the internal format alone.
func LookupKTX(internal, glFormat, glType uint32) (Descriptor, bool) {
	f, ok := byKTX[ktxKey{internal: internal}]
	if !ok {
		f, ok = byKTX[ktxKey{internal, glFormat, glType}]
	}
	if !ok {
		return Descriptor{}, false
	}
	return descriptors[f], true
}

// LookupTEX identifies a format from a TEX format code.
func LookupTEX(code uint8) (Descriptor, bool) {
	f, ok := byTEX[code]
	if !ok {
		return Descriptor{}, false
	}
	return descriptors[f], true
}

// Parse returns the format with the given name, ignoring case.
func Parse(name string) (Format, bool) {
	for _, f := range All() {
		if strings.EqualFold(descriptors[f].Name, name) {
			return f, true
		}
	}
	return Unknown, false
}
