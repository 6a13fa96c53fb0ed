// Package bitblock extracts and patches bit fields inside 128-bit compressed
// texture blocks.
//
// Block codecs store their fields least-significant-bit first across two
// little-endian 64-bit words. Block128 keeps a cursor into such a block so a
// decoder can read consecutive fields without tracking word boundaries.
package bitblock

import "encoding/binary"

// BlockSize is the size in bytes of a 128-bit block.
const BlockSize = 16

// Block128 is a 128-bit block with a read cursor.
// Bits 0-63 live in Data0 and bits 64-127 in Data1.
type Block128 struct {
	Data0 uint64
	Data1 uint64
	Index int // Cursor, 0..128
}

// NewBlock128 reads a block from the first 16 bytes of data (little-endian).
// The buffer must be at least BlockSize bytes.
func NewBlock128(data []byte) Block128 {
	return Block128{
		Data0: binary.LittleEndian.Uint64(data[0:8]),
		Data1: binary.LittleEndian.Uint64(data[8:16]),
	}
}

// NewBlock64 reads an 8-byte block into Data0, leaving Data1 zero.
func NewBlock64(data []byte) Block128 {
	return Block128{Data0: binary.LittleEndian.Uint64(data[0:8])}
}

// ExtractBits returns the next n bits (n <= 32) starting at the cursor and
// advances the cursor by n. Fields that straddle bit 64 are stitched from
// both words.
//
// The caller must keep Index+n <= 128; reads past the end of the block are
// not checked.
func (b *Block128) ExtractBits(n int) uint32 {
	if n == 0 {
		return 0
	}
	mask := uint64(1)<<uint(n) - 1
	i := b.Index
	b.Index += n

	switch {
	case i+n <= 64:
		return uint32((b.Data0 >> uint(i)) & mask)
	case i >= 64:
		return uint32((b.Data1 >> uint(i-64)) & mask)
	default:
		v := b.Data0>>uint(i) | b.Data1<<uint(64-i)
		return uint32(v & mask)
	}
}

// Remaining returns the number of unread bits.
func (b *Block128) Remaining() int {
	return 128 - b.Index
}

// GetBits64 returns bits lo..hi (inclusive) of data, shifted down to bit 0.
// Requires lo <= hi <= 63. Ranges wider than 32 bits are truncated.
func GetBits64(data uint64, lo, hi int) uint32 {
	return uint32((data & (uint64(1)<<uint(hi+1) - 1)) >> uint(lo))
}

// GetBits64Reversed returns bits hi..lo of data with their order reversed:
// bit hi lands in bit 0 of the result. Requires hi > lo.
//
// Some block formats pack fields big-endian inside a little-endian block.
func GetBits64Reversed(data uint64, hi, lo int) uint32 {
	var v uint32
	for i := 0; i <= hi-lo; i++ {
		v |= uint32((data>>uint(hi-i))&1) << uint(i)
	}
	return v
}

// ClearBits64 zeroes bits lo..hi (inclusive) of data.
func ClearBits64(data uint64, lo, hi int) uint64 {
	mask := ^(uint64(1)<<uint(hi+1) - 1)
	mask |= uint64(1)<<uint(lo) - 1
	return data & mask
}

// SetBits64 replaces bits lo..hi (inclusive) of data with val.
// Bits of val above the field width are dropped.
func SetBits64(data uint64, lo, hi int, val uint64) uint64 {
	width := hi - lo + 1
	if width < 64 {
		val &= uint64(1)<<uint(width) - 1
	}
	return ClearBits64(data, lo, hi) | val<<uint(lo)
}
