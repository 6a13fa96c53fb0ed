package reconcile

import (
	"bytes"
	"errors"
	"testing"

	"github.com/goopsie/texconv/pkg/decompress"
	"github.com/goopsie/texconv/pkg/format"
	"github.com/goopsie/texconv/pkg/mip"
	"github.com/goopsie/texconv/pkg/texture"
)

func TestSelectFormat(t *testing.T) {
	tests := []struct {
		src  format.Format
		dst  format.Container
		want format.Format
	}{
		{format.BC1, format.DDS, format.BC1},
		{format.BC1, format.KTX, format.BC1},
		{format.BC1, format.TEX, format.BC1},
		{format.BC3, format.TEX, format.BC3},
		{format.BC2, format.KTX, format.RGBA8},
		{format.BC2, format.TEX, format.BGRA8},
		{format.BC7, format.TEX, format.BGRA8},
		{format.BC4, format.TEX, format.BGR8},
		{format.ETC1, format.DDS, format.RGB8},
		{format.ETC2EAC, format.DDS, format.RGBA8},
		{format.BC6H, format.DDS, format.BC6H},
		{format.BGRA8, format.DDS, format.RGBA8},
		{format.BGRA8, format.KTX, format.RGBA8},
		{format.BGR8, format.DDS, format.RGB8},
		{format.RGBX8, format.KTX, format.RGB8},
		{format.BGRX8, format.DDS, format.RGB8},
		{format.RGB16, format.DDS, format.FloatRGB32},
		{format.RGB16, format.KTX, format.RGB16},
		{format.FloatRGB16, format.DDS, format.FloatRGB32},
		{format.FloatRGBX16, format.DDS, format.FloatRGB32},
		{format.FloatRGBX16, format.KTX, format.FloatRGB16},
		{format.RGBA8, format.TEX, format.BGRA8},
		{format.RGB8, format.TEX, format.BGR8},
	}

	for _, tt := range tests {
		t.Run(tt.src.String()+"->"+tt.dst.String(), func(t *testing.T) {
			if got := SelectFormat(tt.src, tt.dst); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestSelectFormatTEXFallbacks(t *testing.T) {
	r := &Reconciler{TEXOpaque: format.RGB8, TEXAlpha: format.RGBA8}
	if got := r.SelectFormat(format.BC7, format.TEX); got != format.RGBA8 {
		t.Errorf("alpha fallback: Expected RGBA8, got %s", got)
	}
	if got := r.SelectFormat(format.ETC1, format.TEX); got != format.RGB8 {
		t.Errorf("opaque fallback: Expected RGB8, got %s", got)
	}
}

// Whatever SelectFormat picks for DDS and KTX must be writable there.
func TestSelectFormatIsSupported(t *testing.T) {
	for _, dst := range []format.Container{format.DDS, format.KTX} {
		for _, f := range format.All() {
			got := SelectFormat(f, dst)
			d := format.MustLookup(got)
			if !d.Supports(dst) {
				t.Errorf("%s -> %s: selected %s is not writable", f, dst, got)
			}
		}
	}
}

func chain(t *testing.T, f format.Format, w, h uint32, n int) *texture.Set {
	t.Helper()
	set := &texture.Set{}
	for i := 0; i < n; i++ {
		lw, lh := mip.LevelDimensions(w, h, i)
		lvl, err := texture.New(f, lw, lh)
		if err != nil {
			t.Fatal(err)
		}
		for j := range lvl.Data {
			lvl.Data[j] = byte(j)
		}
		set.Levels = append(set.Levels, lvl)
	}
	return set
}

func TestAdaptPassThrough(t *testing.T) {
	set := chain(t, format.BC1, 16, 16, 3)
	before := set.Levels[0].Data
	if err := New(decompress.Decoder{}).Adapt(set, format.DDS); err != nil {
		t.Fatalf("Adapt: %v", err)
	}
	if &set.Levels[0].Data[0] != &before[0] {
		t.Error("supported level should keep its buffer")
	}
}

func TestAdaptConverts(t *testing.T) {
	set := chain(t, format.BGRA8, 4, 2, 3)
	orig := append([]byte(nil), set.Levels[0].Data...)

	if err := New(decompress.Decoder{}).Adapt(set, format.DDS); err != nil {
		t.Fatalf("Adapt: %v", err)
	}
	if err := set.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	for i, lvl := range set.Levels {
		if lvl.Format != format.RGBA8 {
			t.Errorf("level %d: Expected RGBA8, got %s", i, lvl.Format)
		}
	}
	got := set.Levels[0].Data
	for p := 0; p < len(orig); p += 4 {
		want := []byte{orig[p+2], orig[p+1], orig[p], orig[p+3]}
		if !bytes.Equal(got[p:p+4], want) {
			t.Fatalf("pixel %d: Expected %v, got %v", p/4, want, got[p:p+4])
		}
	}
}

type failingDecompressor struct {
	calls   int
	failAt  int
	handler Decompressor
}

func (f *failingDecompressor) Linear(t texture.Texture, target format.Format) ([]byte, error) {
	f.calls++
	if f.calls == f.failAt {
		return nil, errors.New("boom")
	}
	return f.handler.Linear(t, target)
}

func TestAdaptFailureLeavesSetUntouched(t *testing.T) {
	set := chain(t, format.BGRA8, 8, 8, 4)
	levels := append([]texture.Texture(nil), set.Levels...)

	fd := &failingDecompressor{failAt: 3, handler: decompress.Decoder{}}
	err := New(fd).Adapt(set, format.KTX)
	if !errors.Is(err, texture.ErrConversionFailed) {
		t.Fatalf("Expected ErrConversionFailed, got %v", err)
	}
	if fd.calls != 3 {
		t.Errorf("Expected 3 calls, got %d", fd.calls)
	}
	for i, lvl := range set.Levels {
		if lvl.Format != format.BGRA8 || &lvl.Data[0] != &levels[i].Data[0] {
			t.Errorf("level %d was modified", i)
		}
	}
}

type shortDecompressor struct{}

func (shortDecompressor) Linear(texture.Texture, format.Format) ([]byte, error) {
	return make([]byte, 3), nil
}

func TestAdaptRejectsWrongSize(t *testing.T) {
	set := chain(t, format.BGRA8, 4, 4, 1)
	err := New(shortDecompressor{}).Adapt(set, format.DDS)
	if !errors.Is(err, texture.ErrConversionFailed) || !errors.Is(err, texture.ErrSizeMismatch) {
		t.Errorf("Expected ErrConversionFailed wrapping ErrSizeMismatch, got %v", err)
	}
}

func TestAdaptWithoutDecompressor(t *testing.T) {
	set := chain(t, format.BC2, 8, 8, 1)
	if err := (&Reconciler{}).Adapt(set, format.KTX); !errors.Is(err, texture.ErrConversionFailed) {
		t.Errorf("Expected ErrConversionFailed, got %v", err)
	}
}
