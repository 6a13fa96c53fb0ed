// Package decompress converts texture levels to uncompressed pixel layouts.
//
// Every source is first expanded to float32 RGBA. Missing colour channels
// read as 0 and missing alpha as 1. The target layout is then written from
// that intermediate, with padding channels set to their maximum value.
package decompress

import (
	"fmt"

	"github.com/goopsie/texconv/pkg/format"
	"github.com/goopsie/texconv/pkg/texture"
)

// Decoder converts levels with Linear. The zero value is ready to use.
type Decoder struct{}

// Linear implements the reconciler's decompressor.
func (Decoder) Linear(t texture.Texture, target format.Format) ([]byte, error) {
	return Linear(t, target)
}

// Linear decodes t and re-encodes it as the uncompressed format target.
// The result is a new buffer of exactly Width x Height x PixelSize bytes.
func Linear(t texture.Texture, target format.Format) ([]byte, error) {
	td, ok := format.Lookup(target)
	if !ok || td.Compressed {
		return nil, fmt.Errorf("%w: cannot encode %s", texture.ErrUnsupportedFormat, target)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	px, err := DecodeRGBA(t)
	if err != nil {
		return nil, err
	}
	return encode(px, td), nil
}

// DecodeRGBA expands a level to float32 RGBA, four values per pixel in row
// order.
func DecodeRGBA(t texture.Texture) ([]float32, error) {
	sd, ok := format.Lookup(t.Format)
	if !ok {
		return nil, fmt.Errorf("%w: %s", texture.ErrUnsupportedFormat, t.Format)
	}

	var (
		px  []float32
		err error
	)
	switch t.Format {
	case format.BC1, format.BC2, format.BC3:
		px, err = decodeDXT(t)
	case format.BC4:
		px = decodeBC4(t)
	case format.BC5:
		px = decodeBC5(t)
	default:
		if sd.Compressed {
			return nil, fmt.Errorf("%w: no decoder for %s", texture.ErrUnsupportedFormat, t.Format)
		}
		px = decodePixels(t.Data, int(t.Width)*int(t.Height), sd)
	}
	if err != nil {
		return nil, err
	}

	// Formats without alpha decode as opaque regardless of what the block
	// decoder produced.
	if !sd.HasAlpha {
		for i := 3; i < len(px); i += 4 {
			px[i] = 1
		}
	}
	return px, nil
}
