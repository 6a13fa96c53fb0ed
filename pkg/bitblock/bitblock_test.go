package bitblock

import (
	"math/rand"
	"testing"
)

// sliceBits reads bits [start, start+n) of the 128-bit value one bit at a time.
func sliceBits(d0, d1 uint64, start, n int) uint32 {
	var v uint32
	for i := 0; i < n; i++ {
		pos := start + i
		var bit uint64
		if pos < 64 {
			bit = (d0 >> uint(pos)) & 1
		} else {
			bit = (d1 >> uint(pos-64)) & 1
		}
		v |= uint32(bit) << uint(i)
	}
	return v
}

func TestExtractBitsMatchesSlicing(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for trial := 0; trial < 4; trial++ {
		d0, d1 := rng.Uint64(), rng.Uint64()
		for n := 1; n <= 32; n++ {
			for start := 0; start <= 128-n; start++ {
				b := Block128{Data0: d0, Data1: d1, Index: start}
				got := b.ExtractBits(n)
				want := sliceBits(d0, d1, start, n)
				if got != want {
					t.Fatalf("n=%d start=%d: got 0x%x, want 0x%x", n, start, got, want)
				}
				if b.Index != start+n {
					t.Fatalf("n=%d start=%d: cursor at %d, want %d", n, start, b.Index, start+n)
				}

				// Ranges inside one word must agree with GetBits64.
				if start+n <= 64 {
					if g := GetBits64(d0, start, start+n-1); g != got {
						t.Fatalf("GetBits64(d0, %d, %d) = 0x%x, want 0x%x", start, start+n-1, g, got)
					}
				} else if start >= 64 {
					if g := GetBits64(d1, start-64, start-64+n-1); g != got {
						t.Fatalf("GetBits64(d1, %d, %d) = 0x%x, want 0x%x", start-64, start-64+n-1, g, got)
					}
				}
			}
		}
	}
}

func TestExtractBitsSequential(t *testing.T) {
	b := Block128{Data0: 0xFEDCBA9876543210, Data1: 0x0123456789ABCDEF}

	// Sixteen nibbles from Data0 then one field straddling the boundary.
	for i := 0; i < 15; i++ {
		if got := b.ExtractBits(4); got != uint32(i) {
			t.Fatalf("nibble %d: got %x", i, got)
		}
	}
	// Bits 60..67: high nibble of Data0 (0xF) and low nibble of Data1 (0xF).
	if got := b.ExtractBits(8); got != 0xFF {
		t.Errorf("straddling field: got 0x%x, want 0xff", got)
	}
	if b.Remaining() != 60 {
		t.Errorf("remaining: got %d, want 60", b.Remaining())
	}
}

func TestGetBits64Reversed(t *testing.T) {
	rng := rand.New(rand.NewSource(2))

	for trial := 0; trial < 64; trial++ {
		data := rng.Uint64()
		for lo := 0; lo < 63; lo++ {
			for hi := lo + 1; hi <= 63 && hi-lo < 32; hi++ {
				fwd := GetBits64(data, lo, hi)
				width := hi - lo + 1
				var want uint32
				for i := 0; i < width; i++ {
					want |= ((fwd >> uint(i)) & 1) << uint(width-1-i)
				}
				if got := GetBits64Reversed(data, hi, lo); got != want {
					t.Fatalf("data=%x hi=%d lo=%d: got 0x%x, want 0x%x", data, hi, lo, got, want)
				}
			}
		}
	}
}

func TestGetBits64FullWord(t *testing.T) {
	if got := GetBits64(0xFFFFFFFF00000000, 32, 63); got != 0xFFFFFFFF {
		t.Errorf("top half: got 0x%x", got)
	}
	if got := GetBits64(0x8000000000000000, 63, 63); got != 1 {
		t.Errorf("bit 63: got %d", got)
	}
}

func TestClearAndSetBits64(t *testing.T) {
	tests := []struct {
		name   string
		data   uint64
		lo, hi int
		val    uint64
		clear  uint64
		set    uint64
	}{
		{"low byte", 0xFFFFFFFFFFFFFFFF, 0, 7, 0x5A, 0xFFFFFFFFFFFFFF00, 0xFFFFFFFFFFFFFF5A},
		{"middle", 0xFFFFFFFFFFFFFFFF, 8, 15, 0x12, 0xFFFFFFFFFFFF00FF, 0xFFFFFFFFFFFF12FF},
		{"top bit", 0xFFFFFFFFFFFFFFFF, 63, 63, 0, 0x7FFFFFFFFFFFFFFF, 0x7FFFFFFFFFFFFFFF},
		{"whole word", 0x1234, 0, 63, 0xABCD, 0, 0xABCD},
		{"oversized value", 0, 4, 7, 0xFF, 0, 0xF0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClearBits64(tt.data, tt.lo, tt.hi); got != tt.clear {
				t.Errorf("clear: got 0x%x, want 0x%x", got, tt.clear)
			}
			if got := SetBits64(tt.data, tt.lo, tt.hi, tt.val); got != tt.set {
				t.Errorf("set: got 0x%x, want 0x%x", got, tt.set)
			}
		})
	}
}

func TestNewBlock128(t *testing.T) {
	data := []byte{
		0x01, 0, 0, 0, 0, 0, 0, 0x80,
		0x02, 0, 0, 0, 0, 0, 0, 0x40,
	}
	b := NewBlock128(data)
	if b.Data0 != 0x8000000000000001 || b.Data1 != 0x4000000000000002 {
		t.Errorf("got %x %x", b.Data0, b.Data1)
	}
	if b.Index != 0 {
		t.Errorf("cursor should start at 0, got %d", b.Index)
	}
}
