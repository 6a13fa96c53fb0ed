// Package mip computes mip chain dimensions and level sizes.
package mip

import "math/bits"

// Geometry is the block layout of a format. Uncompressed formats use a 1x1
// block whose size is the pixel size.
type Geometry struct {
	BlockWidth    uint32
	BlockHeight   uint32
	BytesPerBlock uint32
}

// LevelDimensions returns the size of mip level i of a w x h base image.
func LevelDimensions(w, h uint32, i int) (uint32, uint32) {
	return shrink(w, i), shrink(h, i)
}

func shrink(v uint32, i int) uint32 {
	if i >= 32 {
		return 1
	}
	v >>= uint(i)
	if v == 0 {
		return 1
	}
	return v
}

// BlockGrid returns how many blocks cover a w x h image. Partial edge blocks
// count as whole blocks and each side is at least 1.
func BlockGrid(w, h, bw, bh uint32) (uint32, uint32) {
	return max(1, ceilDiv(w, bw)), max(1, ceilDiv(h, bh))
}

// ceilDiv works in 64 bits so dimensions near 1<<32 do not wrap.
func ceilDiv(v, d uint32) uint32 {
	if d == 0 {
		return 0
	}
	return uint32((uint64(v) + uint64(d) - 1) / uint64(d))
}

// LevelByteSize returns the number of bytes a w x h level occupies.
func LevelByteSize(w, h uint32, g Geometry) uint64 {
	bw, bh := BlockGrid(w, h, g.BlockWidth, g.BlockHeight)
	return uint64(bw) * uint64(bh) * uint64(g.BytesPerBlock)
}

// ResolveLevelCount clamps a declared level count to the requested cap.
// The result is never below 1.
func ResolveLevelCount(declared, requested int) int {
	return max(1, min(declared, requested))
}

// TEXLevelCount returns the full chain length for a w x h image when
// hasMipmaps is set, else 1.
func TEXLevelCount(w, h uint32, hasMipmaps bool) int {
	if !hasMipmaps {
		return 1
	}
	return max(1, bits.Len32(max(w, h)))
}

// ChainSize sums LevelByteSize over the first n levels.
func ChainSize(w, h uint32, n int, g Geometry) uint64 {
	var total uint64
	for i := 0; i < n; i++ {
		lw, lh := LevelDimensions(w, h, i)
		total += LevelByteSize(lw, lh, g)
	}
	return total
}
