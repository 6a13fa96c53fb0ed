package decompress

import (
	"encoding/binary"
	"math"

	"github.com/goopsie/texconv/pkg/format"
	"github.com/mrjoshuak/go-openexr/half"
)

func channelIndex(c byte) int {
	switch c {
	case 'R':
		return 0
	case 'G':
		return 1
	case 'B':
		return 2
	case 'A':
		return 3
	}
	return -1
}

func readComponent(b []byte, d format.Descriptor) float32 {
	switch d.ComponentSize {
	case 1:
		return float32(b[0]) / 255
	case 2:
		v := binary.LittleEndian.Uint16(b)
		if d.Float {
			return half.Half(v).Float32()
		}
		return float32(v) / 65535
	default:
		return math.Float32frombits(binary.LittleEndian.Uint32(b))
	}
}

func unorm(v float32, scale float32) float32 {
	if math.IsNaN(float64(v)) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return scale
	}
	return float32(math.Round(float64(v * scale)))
}

func writeComponent(b []byte, v float32, d format.Descriptor) {
	switch d.ComponentSize {
	case 1:
		b[0] = uint8(unorm(v, 255))
	case 2:
		if d.Float {
			binary.LittleEndian.PutUint16(b, uint16(half.FromFloat32(v)))
			return
		}
		binary.LittleEndian.PutUint16(b, uint16(unorm(v, 65535)))
	default:
		binary.LittleEndian.PutUint32(b, math.Float32bits(v))
	}
}

// decodePixels expands n pixels of an uncompressed layout.
func decodePixels(data []byte, n int, d format.Descriptor) []float32 {
	px := make([]float32, n*4)
	for i := 0; i < n; i++ {
		px[i*4+3] = 1
	}

	size := int(d.ComponentSize)
	stride := int(d.PixelSize())
	for i := 0; i < n; i++ {
		p := data[i*stride:]
		for c := 0; c < len(d.Channels); c++ {
			if ch := channelIndex(d.Channels[c]); ch >= 0 {
				px[i*4+ch] = readComponent(p[c*size:], d)
			}
		}
	}
	return px
}

func encode(px []float32, d format.Descriptor) []byte {
	n := len(px) / 4
	size := int(d.ComponentSize)
	stride := int(d.PixelSize())
	out := make([]byte, n*stride)

	for i := 0; i < n; i++ {
		p := out[i*stride:]
		for c := 0; c < len(d.Channels); c++ {
			v := float32(1) // X padding
			if ch := channelIndex(d.Channels[c]); ch >= 0 {
				v = px[i*4+ch]
			}
			writeComponent(p[c*size:], v, d)
		}
	}
	return out
}
