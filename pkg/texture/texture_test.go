package texture

import (
	"errors"
	"testing"

	"github.com/goopsie/texconv/pkg/format"
	"github.com/goopsie/texconv/pkg/mip"
)

func chain(t *testing.T, f format.Format, w, h uint32, n int) *Set {
	t.Helper()
	s := &Set{}
	for i := 0; i < n; i++ {
		lw, lh := mip.LevelDimensions(w, h, i)
		lvl, err := New(f, lw, lh)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		s.Levels = append(s.Levels, lvl)
	}
	return s
}

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		f      format.Format
		w, h   uint32
		bw, bh uint32
		size   int
	}{
		{"bc1", format.BC1, 64, 64, 16, 16, 2048},
		{"bc3 partial", format.BC3, 6, 2, 2, 1, 32},
		{"bc1 1x1", format.BC1, 1, 1, 1, 1, 8},
		{"rgba8", format.RGBA8, 3, 5, 3, 5, 60},
		{"float rgb32", format.FloatRGB32, 2, 2, 2, 2, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lvl, err := New(tt.f, tt.w, tt.h)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if lvl.WidthInBlocks != tt.bw || lvl.HeightInBlocks != tt.bh {
				t.Errorf("Expected %dx%d blocks, got %dx%d", tt.bw, tt.bh, lvl.WidthInBlocks, lvl.HeightInBlocks)
			}
			if len(lvl.Data) != tt.size {
				t.Errorf("Expected %d bytes, got %d", tt.size, len(lvl.Data))
			}
			if err := lvl.Validate(); err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}

	if _, err := New(format.Unknown, 4, 4); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestExpectedSize(t *testing.T) {
	tests := []struct {
		f    format.Format
		w, h uint32
		want uint64
	}{
		{format.BC1, 5, 5, 4 * 8},
		{format.BC7, 1, 1, 16},
		{format.RGB8, 3, 2, 18},
		{format.BC2, 0xFFFFFFFF, 4, (1 << 30) * 16},
	}

	for _, tt := range tests {
		t.Run(tt.f.String(), func(t *testing.T) {
			got, err := Texture{Format: tt.f, Width: tt.w, Height: tt.h}.ExpectedSize()
			if err != nil {
				t.Fatalf("ExpectedSize: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}

	if _, err := (Texture{Format: format.Unknown, Width: 4, Height: 4}).ExpectedSize(); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
	if err := (Texture{Format: format.Format(250), Width: 4, Height: 4}).Validate(); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Validate: Expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestFromBytes(t *testing.T) {
	src := make([]byte, 8)
	lvl, err := FromBytes(format.BC1, 4, 4, src)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	src[0] = 0xFF
	if lvl.Data[0] != 0 {
		t.Error("level should own a copy of its data")
	}

	_, err = FromBytes(format.BC1, 4, 4, make([]byte, 7))
	var me *MismatchError
	if !errors.As(err, &me) {
		t.Fatalf("Expected MismatchError, got %v", err)
	}
	if me.Expected != 8 || me.Actual != 7 {
		t.Errorf("Expected 8/7, got %d/%d", me.Expected, me.Actual)
	}
	if !errors.Is(err, ErrSizeMismatch) {
		t.Error("MismatchError should unwrap to ErrSizeMismatch")
	}
}

func TestSetValidate(t *testing.T) {
	s := chain(t, format.BC3, 64, 32, 7)
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	last := s.Levels[len(s.Levels)-1]
	if last.Width != 1 || last.Height != 1 {
		t.Errorf("Expected 1x1 last level, got %dx%d", last.Width, last.Height)
	}

	t.Run("empty", func(t *testing.T) {
		if err := (&Set{}).Validate(); !errors.Is(err, ErrLevelCountMismatch) {
			t.Errorf("Expected ErrLevelCountMismatch, got %v", err)
		}
	})

	t.Run("bad halving", func(t *testing.T) {
		bad := chain(t, format.RGBA8, 8, 8, 3)
		bad.Levels[2].Width = 3
		if err := bad.Validate(); !errors.Is(err, ErrSizeMismatch) {
			t.Errorf("Expected ErrSizeMismatch, got %v", err)
		}
	})

	t.Run("short buffer", func(t *testing.T) {
		bad := chain(t, format.RGBA8, 8, 8, 2)
		bad.Levels[1].Data = bad.Levels[1].Data[:10]
		err := bad.Validate()
		var me *MismatchError
		if !errors.As(err, &me) {
			t.Fatalf("Expected MismatchError, got %v", err)
		}
		if me.Expected != 64 || me.Actual != 10 {
			t.Errorf("Expected 64/10, got %d/%d", me.Expected, me.Actual)
		}
	})

	t.Run("mixed formats", func(t *testing.T) {
		bad := chain(t, format.RGBA8, 8, 8, 2)
		bad.Levels[1].Format = format.BGRA8
		if err := bad.Validate(); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
		}
	})
}

func TestSetString(t *testing.T) {
	s := chain(t, format.BC1, 8, 8, 2)
	if got, want := s.String(), "BC1 8x8, 2 levels, 40 bytes"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
