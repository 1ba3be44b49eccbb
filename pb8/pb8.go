// Package pb8 implements the PB8 ("prefix-byte 8") plane codec used inside a
// Donut compressed block: one flags byte followed by zero to eight literal
// bytes, one per row that differs from its predecessor.
package pb8

import "github.com/donutcodec/donut/bits"

// MaxLen is the largest number of bytes a packed PB8 plane can occupy: one
// flags byte plus eight literals.
const MaxLen = 9

// Pack encodes plane as PB8 starting from the predictor byte top, writing
// into dst (which must have room for MaxLen bytes) and returning the number
// of bytes written, 1 + (number of literals).
//
// Rows are scanned MSB-first (row 7 first, row 0 last, matching the
// little-endian plane layout where row 0 is the lowest byte); whenever a
// row's byte differs from the running "previous byte", a literal is
// emitted and the row's flag bit is set.
func Pack(dst []byte, plane uint64, top uint8) int {
	_ = dst[:MaxLen]
	flags := uint8(0)
	prev := top
	n := 1
	for i := 0; i < 8; i++ {
		c := byte(plane >> uint(8*(7-i)))
		if c != prev {
			dst[n] = c
			n++
			prev = c
			flags |= 0x80 >> uint(i)
		}
	}
	dst[0] = flags
	return n
}

// Unpack decodes one PB8 plane from src using predictor byte top, returning
// the decoded plane and the number of bytes consumed (1 + popcount(flags)).
// ok is false when src is too short to hold the indicated number of
// literals; in that case the returned plane and n are invalid and the
// caller should treat this as "need more input" rather than a decode error.
func Unpack(src []byte, top uint8) (plane uint64, n int, ok bool) {
	if len(src) < 1 {
		return 0, 0, false
	}
	flags := src[0]
	need := 1 + int(bits.Popcount8(flags))
	if len(src) < need {
		return 0, 0, false
	}
	prev := top
	lit := 1
	for i := 0; i < 8; i++ {
		if flags&0x80 != 0 {
			prev = src[lit]
			lit++
		}
		flags <<= 1
		plane <<= 8
		plane |= uint64(prev)
	}
	return plane, need, true
}
