package block

import (
	"github.com/donutcodec/donut/bits"
	"github.com/donutcodec/donut/pb8"
)

// defaultCycleLimit is the ceiling applied when the caller passes 0,
// matching the "basically unlimited" default of the reference encoder.
const defaultCycleLimit = 16384

// Encode finds the cheapest encoding of one 64-byte block and writes it to
// dst, returning the number of bytes written.
//
// It is an exhaustive search over 24 candidate block modes -- the 12
// combinations of the four predictor/XOR bits in which the two XOR bits are
// never both set, crossed with the rotate bit -- plus, per candidate, the
// single-PB8-plane and implicit-plane_def
// optimizations. The shortest candidate wins; ties are broken by lower
// decode cost. cycleLimit caps the simulated 6502 decode cost a winning
// candidate may have (0 means defaultCycleLimit). When dontCare is
// non-nil, its set bits mark pixel positions in src whose value is
// irrelevant to the caller and may be chosen freely to shrink the
// encoding. allowRotate includes the 135-degree-rotated half of the search
// space; disabling it halves the number of candidates tried.
func Encode(dst *[MaxEncodedSize]byte, src *[Size]byte, cycleLimit int, dontCare *[Size]byte, allowRotate bool) int {
	limit := cycleLimit
	if limit == 0 {
		limit = defaultCycleLimit
	}

	dst[0] = uncompressedHeader
	copy(dst[1:], src[:])
	bestLen, bestCost := Size+1, 1268
	if limit < 1298 {
		return bestLen
	}

	var planes [16]uint64
	for i := 0; i < 8; i++ {
		var chunk [8]byte
		copy(chunk[:], src[i*8:i*8+8])
		planes[i] = bits.ReadPlaneLE(&chunk)
	}
	haveMask := dontCare != nil
	if haveMask {
		for i := 0; i < 8; i++ {
			var chunk [8]byte
			copy(chunk[:], dontCare[i*8:i*8+8])
			planes[8+i] = bits.ReadPlaneLE(&chunk)
		}
	}

	var buf [2 + 8*pb8.MaxLen]byte
	var best [2 + 8*pb8.MaxLen]byte
	copy(best[:], dst[:bestLen])

	a := uint8(0x00)
	for {
		if a >= 0xc0 {
			if !allowRotate || a&0x01 != 0 {
				break
			}
			n := 8
			if haveMask {
				n = 16
			}
			for i := 0; i < n; i++ {
				planes[i] = bits.FlipPlane135(planes[i])
			}
			a = 0x01
		}

		work := planes
		if haveMask {
			fillDontCareBits(work[:], a)
		}

		planeDef := uint8(0)
		pb8Count := 0
		ln := 2
		for i := 0; i < 8; i++ {
			var predict uint64
			plane := work[i]
			if i%2 == 0 {
				if a&0x20 != 0 {
					predict = ^uint64(0)
				}
				if a&0x80 != 0 {
					plane ^= work[i+1]
				}
			} else {
				if a&0x10 != 0 {
					predict = ^uint64(0)
				}
				if a&0x40 != 0 {
					plane ^= work[i-1]
				}
			}
			planeDef <<= 1
			if plane != predict {
				ln += pb8.Pack(buf[ln:], plane, uint8(predict))
				planeDef |= 1
				pb8Count++
			}
		}
		buf[0] = a | 0x02
		buf[1] = planeDef
		length := ln
		cost := Cost(buf[:length])

		start := 0
		if allPB8PlanesMatch(buf[2:ln], pb8Count) && cost+pb8Count <= limit {
			buf[0] = a | 0x06
			length = (ln-2)/pb8Count + 2
			cost += pb8Count
		} else {
			for idx := 0; idx < 4; idx++ {
				if planeDef == shortPlaneDefs[idx] {
					buf[1] = a | uint8(idx)<<2
					start = 1
					length = ln - 1
					cost -= 5
					break
				}
			}
		}

		if length <= bestLen && (cost < bestCost || length < bestLen) && cost <= limit {
			copy(best[:], buf[start:start+length])
			bestLen, bestCost = length, cost
		}

		a += 0x10
	}

	copy(dst[:], best[:bestLen])
	return bestLen
}

// fillDontCareBits replaces each don't-care bit (per mask, in planes[8:16])
// of planes[0:8] with whichever value packs cheapest against the block
// mode's predictor and, where applicable, its XOR partner plane.
func fillDontCareBits(planes []uint64, a uint8) {
	for i := 0; i < 8; i += 2 {
		var predictL, predictM uint64
		if a&0x20 != 0 {
			predictL = ^uint64(0)
		}
		if a&0x10 != 0 {
			predictM = ^uint64(0)
		}
		planes[i] = fillDontCareHelper(planes[i], planes[i+8], 0, uint8(predictL))
		planes[i+1] = fillDontCareHelper(planes[i+1], planes[i+9], 0, uint8(predictM))
		if a&0x80 != 0 {
			planes[i] = fillDontCareHelper(planes[i], planes[i+8], planes[i+1], uint8(predictL))
		}
		if a&0x40 != 0 {
			planes[i+1] = fillDontCareHelper(planes[i+1], planes[i+9], planes[i], uint8(predictM))
		}
	}
}

// fillDontCareHelper chooses values for the don't-care bytes of plane
// (selected by mask) that extend runs of its neighbors, first forward from
// top and then backward from the result, so PB8 packing sees the fewest
// possible literal changes. xorBg is the paired plane to blend against when
// the block mode XORs this plane with it.
func fillDontCareHelper(plane, mask, xorBg uint64, top uint8) uint64 {
	if mask == 0 {
		return plane
	}
	var result, smudge uint64
	cur := uint64(top)
	for i := 0; i < 8; i++ {
		m := mask & (uint64(0xff) << uint(i*8))
		inv := ^mask & (uint64(0xff) << uint(i*8))
		cur = (cur & m) | (plane & inv)
		smudge |= cur
		cur <<= 8
	}
	smudge ^= xorBg & mask

	cur = uint64(top) << 56
	for i := 0; i < 8; i++ {
		m := mask & (uint64(0xff) << uint(8*(7-i)))
		inv := ^mask & (uint64(0xff) << uint(8*(7-i)))
		if plane&inv == cur&inv {
			cur = (cur & m) | (plane & inv)
		} else {
			cur = (smudge & m) | (plane & inv)
		}
		result |= cur
		cur >>= 8
	}
	return result
}

// allPB8PlanesMatch reports whether payload (the pb8Count PB8-packed planes
// concatenated, in order) consists of pb8Count repetitions of one identical
// byte sequence -- the precondition for the single-PB8-plane optimization,
// which stores that sequence once and replays it for every flagged plane.
func allPB8PlanesMatch(payload []byte, pb8Count int) bool {
	if pb8Count <= 1 {
		return false
	}
	n := len(payload)
	if n%pb8Count != 0 {
		return false
	}
	pb8Len := n / pb8Count
	for i := pb8Len; i < n; i++ {
		if payload[i%pb8Len] != payload[i] {
			return false
		}
	}
	return true
}
