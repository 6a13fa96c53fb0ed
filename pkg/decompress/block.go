package decompress

import (
	"fmt"

	"github.com/goopsie/texconv/pkg/bitblock"
	"github.com/goopsie/texconv/pkg/format"
	"github.com/goopsie/texconv/pkg/texture"
	"github.com/mauserzjeh/dxt"
)

// decodeDXT decodes BC1-BC3. dxt works on whole blocks, so it is given the
// padded size and the result is cropped. Blocks it decodes wrongly are then
// patched: the colour palette when c0 <= c1, and BC3 alpha, whose indices
// dxt reads from the endpoint bytes.
func decodeDXT(t texture.Texture) ([]float32, error) {
	pw, ph := uint(t.WidthInBlocks)*4, uint(t.HeightInBlocks)*4

	var (
		rgba []byte
		err  error
	)
	switch t.Format {
	case format.BC1:
		rgba, err = dxt.DecodeDXT1(t.Data, pw, ph)
	case format.BC2:
		rgba, err = dxt.DecodeDXT3(t.Data, pw, ph)
	case format.BC3:
		rgba, err = dxt.DecodeDXT5(t.Data, pw, ph)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", texture.ErrConversionFailed, t.Format, err)
	}
	if uint(len(rgba)) != pw*ph*4 {
		return nil, fmt.Errorf("%w: %s decoded to %d bytes, want %d", texture.ErrConversionFailed, t.Format, len(rgba), pw*ph*4)
	}

	w, h := int(t.Width), int(t.Height)
	px := make([]float32, w*h*4)
	for y := 0; y < h; y++ {
		src := rgba[y*int(pw)*4:]
		dst := px[y*w*4:]
		for i := 0; i < w*4; i++ {
			dst[i] = float32(src[i]) / 255
		}
	}

	bc1 := t.Format == format.BC1
	stride, colorOff := bitblock.BlockSize, 8
	if bc1 {
		stride, colorOff = 8, 0
	}
	off := 0
	for by := 0; by < int(t.HeightInBlocks); by++ {
		for bx := 0; bx < int(t.WidthInBlocks); bx++ {
			fixColor(t.Data[off+colorOff:], px, w, h, bx, by, bc1)
			if t.Format == format.BC3 {
				b := bitblock.NewBlock64(t.Data[off:])
				decodeRGTC(&b, px, w, h, bx, by, 3)
			}
			off += stride
		}
	}
	return px, nil
}

// unpack565 expands a 5:6:5 colour to 8 bits per channel by bit replication.
func unpack565(c uint32) (r, g, b uint32) {
	r, g, b = c>>11&0x1F, c>>5&0x3F, c&0x1F
	return r<<3 | r>>2, g<<2 | g>>4, b<<3 | b>>2
}

// fixColor rewrites the one palette entry dxt gets wrong in an 8-byte colour
// block with c0 <= c1. In BC1 index 3 is black. BC2 and BC3 never use the
// three-colour palette, so index 2 is (2*c0 + c1) / 3.
func fixColor(data []byte, px []float32, w, h, bx, by int, bc1 bool) {
	b := bitblock.NewBlock64(data)
	c0, c1 := b.ExtractBits(16), b.ExtractBits(16)
	if c0 > c1 {
		return
	}

	var (
		idx uint32 = 3
		rgb [3]float32
	)
	if !bc1 {
		idx = 2
		r0, g0, b0 := unpack565(c0)
		r1, g1, b1 := unpack565(c1)
		rgb = [3]float32{
			float32((2*r0+r1)/3) / 255,
			float32((2*g0+g1)/3) / 255,
			float32((2*b0+b1)/3) / 255,
		}
	}

	for i := 0; i < 16; i++ {
		if b.ExtractBits(2) != idx {
			continue
		}
		x, y := bx*4+i%4, by*4+i/4
		if x < w && y < h {
			copy(px[(y*w+x)*4:], rgb[:])
		}
	}
}

// rgtcPalette expands the two BC4 endpoints into the 8-entry palette.
func rgtcPalette(r0, r1 uint32) [8]float32 {
	var p [8]float32
	p[0], p[1] = float32(r0), float32(r1)
	if r0 > r1 {
		for i := 1; i < 7; i++ {
			p[i+1] = (float32(7-i)*p[0] + float32(i)*p[1]) / 7
		}
	} else {
		for i := 1; i < 5; i++ {
			p[i+1] = (float32(5-i)*p[0] + float32(i)*p[1]) / 5
		}
		p[6], p[7] = 0, 255
	}
	for i := range p {
		p[i] /= 255
	}
	return p
}

// decodeRGTC reads one 64-bit single-channel block from b and writes its 16
// values into channel c of the pixels covered by block (bx, by).
func decodeRGTC(b *bitblock.Block128, px []float32, w, h, bx, by, c int) {
	p := rgtcPalette(b.ExtractBits(8), b.ExtractBits(8))
	for i := 0; i < 16; i++ {
		v := p[b.ExtractBits(3)]
		x, y := bx*4+i%4, by*4+i/4
		if x < w && y < h {
			px[(y*w+x)*4+c] = v
		}
	}
}

func decodeBC4(t texture.Texture) []float32 {
	w, h := int(t.Width), int(t.Height)
	px := make([]float32, w*h*4)
	off := 0
	for by := 0; by < int(t.HeightInBlocks); by++ {
		for bx := 0; bx < int(t.WidthInBlocks); bx++ {
			b := bitblock.NewBlock64(t.Data[off:])
			decodeRGTC(&b, px, w, h, bx, by, 0)
			off += 8
		}
	}
	return px
}

func decodeBC5(t texture.Texture) []float32 {
	w, h := int(t.Width), int(t.Height)
	px := make([]float32, w*h*4)
	off := 0
	for by := 0; by < int(t.HeightInBlocks); by++ {
		for bx := 0; bx < int(t.WidthInBlocks); bx++ {
			b := bitblock.NewBlock128(t.Data[off:])
			decodeRGTC(&b, px, w, h, bx, by, 0)
			decodeRGTC(&b, px, w, h, bx, by, 1)
			off += bitblock.BlockSize
		}
	}
	return px
}
