// Package block implements the Donut compressed-block codec: the header
// layout, the block decoder state machine, the 6502 cycle cost model, and
// the exhaustive mode-search block encoder.
package block

import (
	"github.com/donutcodec/donut/bits"
	"github.com/donutcodec/donut/pb8"
)

// Size is the number of bytes in one uncompressed block: four NES tiles, or
// eight 8x8 bitplanes.
const Size = 64

// MaxEncodedSize is the largest a single compressed block can be: the
// uncompressed escape, one header byte plus 64 literal bytes.
const MaxEncodedSize = 1 + Size

// cursor reads from a compressed byte stream that may be short of the
// worst-case 74-byte block lookahead. When the stream is long enough, every
// read is satisfied directly. When it is short, reads beyond the end either
// abort decoding (so the caller can refill and retry) or, when allowPartial
// is set, are zero-filled -- the "missing tail bytes are treated as zero"
// rule of the final, end-of-stream block.
type cursor struct {
	src          []byte
	pos          int
	long         bool
	allowPartial bool
	bailed       bool
}

func newCursor(src []byte, allowPartial bool) *cursor {
	return &cursor{src: src, long: len(src) >= MaxEncodedSize + 9, allowPartial: allowPartial}
}

// take returns the next n bytes and advances the cursor, or reports false
// when that is not possible and partial decoding is not permitted.
func (c *cursor) take(n int) ([]byte, bool) {
	if c.bailed {
		return nil, false
	}
	if c.long {
		b := c.src[c.pos : c.pos+n]
		c.pos += n
		return b, true
	}
	avail := len(c.src) - c.pos
	if avail >= n {
		b := c.src[c.pos : c.pos+n]
		c.pos += n
		return b, true
	}
	if !c.allowPartial {
		c.bailed = true
		return nil, false
	}
	buf := make([]byte, n)
	if avail > 0 {
		copy(buf, c.src[c.pos:])
	}
	c.pos = len(c.src)
	return buf, true
}

// Decode consumes one compressed block from the front of src and, unless it
// is a reserved header, writes exactly 64 bytes to dst.
//
// consumed is the number of source bytes the block occupied. A return of
// consumed == 0 means "no progress": src did not hold enough lookahead to
// safely decode a block and the caller must refill and retry, unless
// allowPartial is set, in which case src is treated as the final, possibly
// truncated tail of the stream and any missing bytes are treated as zero.
//
// reserved reports whether the block was a reserved header ([0xC0,0xFF]):
// it is consumed (1 byte) but produces no output, and dst is left
// unmodified.
func Decode(dst *[Size]byte, src []byte, allowPartial bool) (consumed int, reserved bool, err error) {
	if len(src) < 1 {
		return 0, false, nil
	}

	c := newCursor(src, allowPartial)
	hdrBuf, ok := c.take(1)
	if !ok {
		return 0, false, nil
	}
	h, herr := ParseHeader(hdrBuf[0])
	if herr != nil {
		return 0, false, herr
	}

	switch h.Kind {
	case KindReserved:
		return 1, true, nil

	case KindUncompressed:
		return decodeUncompressed(dst, c)

	default:
		return decodeModal(dst, h, c)
	}
}

func decodeUncompressed(dst *[Size]byte, c *cursor) (int, bool, error) {
	payload, ok := c.take(Size)
	if !ok {
		return 0, false, nil
	}
	copy(dst[:], payload)
	return c.pos, false, nil
}

func decodeModal(dst *[Size]byte, h Header, c *cursor) (int, bool, error) {
	var planeDef uint8
	var anchor []byte
	haveAnchor := false

	if h.Explicit {
		defBuf, ok := c.take(1)
		if !ok {
			return 0, false, nil
		}
		planeDef = defBuf[0]
		h.SinglePlane = h.SinglePlane && planeDef != 0x00
	} else {
		planeDef = h.PlaneDef(0)
	}

	var prev uint64
	for i := 0; i < 8; i++ {
		plane := h.predictor(i)
		if planeDef&0x80 != 0 {
			var window []byte
			if h.SinglePlane && haveAnchor {
				window = anchor
			} else {
				flagsBuf, ok := c.take(1)
				if !ok {
					return 0, false, nil
				}
				litCount := int(bits.Popcount8(flagsBuf[0]))
				litBuf, ok := c.take(litCount)
				if !ok {
					return 0, false, nil
				}
				window = append(append([]byte{}, flagsBuf...), litBuf...)
				if h.SinglePlane {
					anchor = window
					haveAnchor = true
				}
			}
			top := uint8(plane)
			decoded, _, ok := pb8.Unpack(window, top)
			if !ok {
				return 0, false, nil
			}
			plane = decoded
			if h.Rotate {
				plane = bits.FlipPlane135(plane)
			}
		}
		planeDef <<= 1

		if i%2 == 1 {
			if h.XorL {
				prev ^= plane
			}
			if h.XorM {
				plane ^= prev
			}
			writePlane(dst, (i-1)*8, prev)
			writePlane(dst, i*8, plane)
		} else {
			prev = plane
		}
	}

	return c.pos, false, nil
}

func writePlane(dst *[Size]byte, offset int, plane uint64) {
	buf := bits.WritePlaneLE(plane)
	copy(dst[offset:offset+8], buf[:])
}
