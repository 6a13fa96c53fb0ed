package mip

import "testing"

func TestLevelDimensions(t *testing.T) {
	tests := []struct {
		w, h   uint32
		i      int
		ww, wh uint32
	}{
		{64, 64, 0, 64, 64},
		{64, 64, 1, 32, 32},
		{64, 64, 6, 1, 1},
		{64, 64, 9, 1, 1},
		{256, 16, 5, 8, 1},
		{1, 1, 0, 1, 1},
		{1, 1, 4, 1, 1},
		{0, 0, 0, 1, 1},
		{1 << 20, 3, 40, 1, 1},
	}

	for _, tt := range tests {
		w, h := LevelDimensions(tt.w, tt.h, tt.i)
		if w != tt.ww || h != tt.wh {
			t.Errorf("LevelDimensions(%d, %d, %d): Expected %dx%d, got %dx%d", tt.w, tt.h, tt.i, tt.ww, tt.wh, w, h)
		}
	}
}

func TestBlockGrid(t *testing.T) {
	tests := []struct {
		name   string
		w, h   uint32
		bw, bh uint32
		gw, gh uint32
	}{
		{"exact", 64, 32, 4, 4, 16, 8},
		{"partial edge", 5, 9, 4, 4, 2, 3},
		{"single pixel", 1, 1, 4, 4, 1, 1},
		{"uncompressed", 7, 3, 1, 1, 7, 3},
		{"zero", 0, 0, 4, 4, 1, 1},
		{"max width", 0xFFFFFFFF, 4, 4, 4, 1 << 30, 1},
		{"max height", 4, 0xFFFFFFFD, 4, 4, 1, 1 << 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw, gh := BlockGrid(tt.w, tt.h, tt.bw, tt.bh)
			if gw != tt.gw || gh != tt.gh {
				t.Errorf("Expected %dx%d, got %dx%d", tt.gw, tt.gh, gw, gh)
			}
		})
	}
}

func TestLevelByteSize(t *testing.T) {
	bc1 := Geometry{BlockWidth: 4, BlockHeight: 4, BytesPerBlock: 8}
	rgba8 := Geometry{BlockWidth: 1, BlockHeight: 1, BytesPerBlock: 4}

	tests := []struct {
		name string
		w, h uint32
		g    Geometry
		want uint64
	}{
		{"bc1 64x64", 64, 64, bc1, 16 * 16 * 8},
		{"bc1 1x1", 1, 1, bc1, 8},
		{"bc1 2x2", 2, 2, bc1, 8},
		{"bc1 6x6", 6, 6, bc1, 4 * 8},
		{"rgba8 3x5", 3, 5, rgba8, 60},
		{"rgba8 1x1", 1, 1, rgba8, 4},
		{"bc1 max width", 0xFFFFFFFF, 4, bc1, (1 << 30) * 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LevelByteSize(tt.w, tt.h, tt.g); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestResolveLevelCount(t *testing.T) {
	tests := []struct {
		declared, requested, want int
	}{
		{7, 3, 3},
		{3, 7, 3},
		{0, 5, 1},
		{5, 0, 1},
		{1, 1, 1},
		{-2, 4, 1},
	}

	for _, tt := range tests {
		if got := ResolveLevelCount(tt.declared, tt.requested); got != tt.want {
			t.Errorf("ResolveLevelCount(%d, %d): Expected %d, got %d", tt.declared, tt.requested, tt.want, got)
		}
	}
}

func TestTEXLevelCount(t *testing.T) {
	tests := []struct {
		w, h uint32
		mips bool
		want int
	}{
		{256, 256, true, 9},
		{256, 64, true, 9},
		{100, 3, true, 7},
		{1, 1, true, 1},
		{0, 0, true, 1},
		{256, 256, false, 1},
	}

	for _, tt := range tests {
		if got := TEXLevelCount(tt.w, tt.h, tt.mips); got != tt.want {
			t.Errorf("TEXLevelCount(%d, %d, %v): Expected %d, got %d", tt.w, tt.h, tt.mips, tt.want, got)
		}
	}
}

// The last level of a full chain is 1x1 and takes one whole block.
func TestChainEndsAtOnePixel(t *testing.T) {
	g := Geometry{BlockWidth: 4, BlockHeight: 4, BytesPerBlock: 16}
	n := TEXLevelCount(64, 16, true)
	w, h := LevelDimensions(64, 16, n-1)
	if w != 1 || h != 1 {
		t.Fatalf("Expected 1x1 last level, got %dx%d", w, h)
	}
	if got := LevelByteSize(w, h, g); got != 16 {
		t.Errorf("Expected 16 bytes, got %d", got)
	}
	if got := ChainSize(8, 8, 4, g); got != 16*4+16+16+16 {
		t.Errorf("ChainSize: got %d", got)
	}
}
