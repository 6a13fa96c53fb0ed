// Package reconcile adapts a texture set to the formats a destination
// container can store.
//
// A format the destination supports is kept as is. Anything else is
// decompressed to its pixel layout, and that layout is swapped for one the
// container accepts. Nothing is ever recompressed.
package reconcile

import (
	"fmt"

	"github.com/goopsie/texconv/pkg/format"
	"github.com/goopsie/texconv/pkg/texture"
)

// Decompressor converts a level into an uncompressed target format,
// returning a new buffer.
type Decompressor interface {
	Linear(t texture.Texture, target format.Format) ([]byte, error)
}

// Reconciler selects destination formats and converts levels.
type Reconciler struct {
	Decompressor Decompressor

	// Fallbacks for formats a TEX file cannot hold. Unknown means BGR8 and
	// BGRA8 respectively.
	TEXOpaque format.Format
	TEXAlpha  format.Format
}

// New returns a Reconciler with the default TEX fallbacks.
func New(d Decompressor) *Reconciler {
	return &Reconciler{Decompressor: d, TEXOpaque: format.BGR8, TEXAlpha: format.BGRA8}
}

var substitutes = map[format.Container]map[format.Format]format.Format{
	format.DDS: {
		format.BGR8:        format.RGB8,
		format.BGRX8:       format.RGB8,
		format.RGBX8:       format.RGB8,
		format.BGRA8:       format.RGBA8,
		format.RGB16:       format.FloatRGB32,
		format.FloatRGB16:  format.FloatRGB32,
		format.FloatRGBX16: format.FloatRGB32,
	},
	format.KTX: {
		format.BGR8:        format.RGB8,
		format.BGRX8:       format.RGB8,
		format.RGBX8:       format.RGB8,
		format.BGRA8:       format.RGBA8,
		format.FloatRGBX16: format.FloatRGB16,
	},
}

// SelectFormat picks the format src is stored as in dst using the default
// TEX fallbacks.
func SelectFormat(src format.Format, dst format.Container) format.Format {
	return New(nil).SelectFormat(src, dst)
}

// SelectFormat picks the format src is stored as in dst. The result may
// still be unsupported when no substitute exists; saving then fails.
func (r *Reconciler) SelectFormat(src format.Format, dst format.Container) format.Format {
	d, ok := format.Lookup(src)
	if !ok {
		return src
	}
	if d.Supports(dst) {
		return src
	}

	if dst == format.TEX {
		if d.HasAlpha {
			return orDefault(r.TEXAlpha, format.BGRA8)
		}
		return orDefault(r.TEXOpaque, format.BGR8)
	}

	pixel := d.PixelFormat
	if pd, ok := format.Lookup(pixel); ok && pd.Supports(dst) {
		return pixel
	}
	if sub, ok := substitutes[dst][pixel]; ok {
		return sub
	}
	return pixel
}

func orDefault(f, def format.Format) format.Format {
	if f == format.Unknown {
		return def
	}
	return f
}

// Adapt converts every level of set that dst cannot store. Replacement
// levels are committed only once all of them have converted; on error the
// set is left untouched.
func (r *Reconciler) Adapt(set *texture.Set, dst format.Container) error {
	if err := set.Validate(); err != nil {
		return err
	}

	levels := make([]texture.Texture, len(set.Levels))
	for i, lvl := range set.Levels {
		target := r.SelectFormat(lvl.Format, dst)
		if target == lvl.Format {
			levels[i] = lvl
			continue
		}

		adapted, err := r.convert(lvl, target)
		if err != nil {
			return fmt.Errorf("%w: level %d %s to %s: %w", texture.ErrConversionFailed, i, lvl.Format, target, err)
		}
		levels[i] = adapted
	}

	set.Levels = levels
	return nil
}

func (r *Reconciler) convert(lvl texture.Texture, target format.Format) (texture.Texture, error) {
	if r.Decompressor == nil {
		return texture.Texture{}, fmt.Errorf("no decompressor")
	}
	out, err := texture.New(target, lvl.Width, lvl.Height)
	if err != nil {
		return texture.Texture{}, err
	}
	if d, _ := format.Lookup(target); d.Compressed {
		return texture.Texture{}, fmt.Errorf("cannot compress to %s", target)
	}

	data, err := r.Decompressor.Linear(lvl, target)
	if err != nil {
		return texture.Texture{}, err
	}
	if len(data) != len(out.Data) {
		return texture.Texture{}, &texture.MismatchError{
			Err:      texture.ErrSizeMismatch,
			What:     "converted level",
			Expected: uint64(len(out.Data)),
			Actual:   uint64(len(data)),
		}
	}
	out.Data = data
	return out, nil
}
