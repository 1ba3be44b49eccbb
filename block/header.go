package block

import (
	"bytes"

	"github.com/icza/bitio"
	"github.com/mewkiz/pkg/errutil"
)

// Kind distinguishes the three header shapes a compressed block can take.
type Kind int

const (
	// KindModal is an ordinary header-driven block: up to eight PB8-encoded
	// or predictor-constant planes.
	KindModal Kind = iota
	// KindUncompressed is the 0x2A escape: 64 raw bytes follow.
	KindUncompressed
	// KindReserved is a header in [0xC0,0xFF]: consumed, no output.
	KindReserved
)

// uncompressedHeader is the 0x2A ('*') escape header byte.
const uncompressedHeader = 0x2a

// reservedMin is the first header byte value treated as reserved ([0xC0,0xFF]).
const reservedMin = 0xc0

// shortPlaneDefs is the four plane_def values selectable by the 2-bit table
// index when the header's explicit-plane_def bit is clear.
var shortPlaneDefs = [4]uint8{0x00, 0x55, 0xaa, 0xff}

// Header is the decoded form of a compressed block's leading header byte (and,
// for KindModal with an explicit plane_def, its second byte).
type Header struct {
	Kind Kind

	// Modal fields; meaningless for KindUncompressed/KindReserved.

	// Rotate applies FlipPlane135 to each decoded PB8 plane (header bit R).
	Rotate bool
	// XorL, after decode, does L ^= M using the just-decoded M (bit L).
	XorL bool
	// XorM, after decode, does M ^= L using the possibly-updated L (bit M).
	XorM bool
	// LPredictOnes makes the predictor (and PB8 top value) for even (L)
	// planes 0xFF instead of 0x00 (bit l).
	LPredictOnes bool
	// MPredictOnes makes the predictor for odd (M) planes 0xFF (bit m).
	MPredictOnes bool
	// Explicit means a plane_def byte follows the header (bit B, 0x02).
	Explicit bool
	// SinglePlane means, when Explicit is set and plane_def != 0, that only
	// one PB8 plane is physically present and is re-decoded for every set
	// bit of plane_def (bit b, 0x04, repurposed under Explicit).
	SinglePlane bool
	// TableIndex selects plane_def from shortPlaneDefs when !Explicit (bits
	// bb, 0x0c). Under Explicit it only holds the raw bb bits for
	// re-encoding.
	TableIndex uint8

	// RawReserved is the raw header byte for KindReserved, preserved so a
	// round-tripping tool can re-emit it unchanged.
	RawReserved byte
}

// PlaneDef returns the 8-bit plane-definition bitmap implied by h, reading
// explicitPlaneDef only when h.Explicit is true.
func (h Header) PlaneDef(explicitPlaneDef uint8) uint8 {
	if h.Explicit {
		return explicitPlaneDef
	}
	return shortPlaneDefs[h.TableIndex&0x03]
}

// predictor returns the 64-bit all-zero or all-one predictor for plane index
// i (0-based, even indices are L planes, odd are M planes).
func (h Header) predictor(i int) uint64 {
	isL := i%2 == 0
	if (isL && h.LPredictOnes) || (!isL && h.MPredictOnes) {
		return 0xffffffffffffffff
	}
	return 0x0000000000000000
}

// encodeByte assembles the raw header byte for a KindModal header, writing
// its seven sub-fields MSB-first with a bitio.Writer the way the teacher's
// frame-header encoder builds the FLAC frame header one field at a time.
func (h Header) encodeByte() (byte, error) {
	buf := new(bytes.Buffer)
	bw := bitio.NewWriter(buf)
	if err := bw.WriteBool(h.XorL); err != nil {
		return 0, errutil.Err(err)
	}
	if err := bw.WriteBool(h.XorM); err != nil {
		return 0, errutil.Err(err)
	}
	if err := bw.WriteBool(h.LPredictOnes); err != nil {
		return 0, errutil.Err(err)
	}
	if err := bw.WriteBool(h.MPredictOnes); err != nil {
		return 0, errutil.Err(err)
	}
	if h.Explicit {
		// The high bit of the table-index pair is unused under Explicit; the
		// decoder never inspects it, but it is carried in TableIndex so a
		// parsed header re-encodes to the same byte. SinglePlane lives in the
		// low bit of the pair.
		if err := bw.WriteBool(h.TableIndex&0x02 != 0); err != nil {
			return 0, errutil.Err(err)
		}
		if err := bw.WriteBool(h.SinglePlane); err != nil {
			return 0, errutil.Err(err)
		}
	} else {
		if err := bw.WriteBits(uint64(h.TableIndex&0x03), 2); err != nil {
			return 0, errutil.Err(err)
		}
	}
	if err := bw.WriteBool(h.Explicit); err != nil {
		return 0, errutil.Err(err)
	}
	if err := bw.WriteBool(h.Rotate); err != nil {
		return 0, errutil.Err(err)
	}
	if err := bw.Close(); err != nil {
		return 0, errutil.Err(err)
	}
	return buf.Bytes()[0], nil
}

// parseHeaderByte decodes a raw modal header byte into its bit fields using a
// bitio.Reader, the mirror image of encodeByte.
func parseHeaderByte(raw byte) (h Header, err error) {
	br := bitio.NewReader(bytes.NewReader([]byte{raw}))
	h.Kind = KindModal
	if h.XorL, err = br.ReadBool(); err != nil {
		return h, errutil.Err(err)
	}
	if h.XorM, err = br.ReadBool(); err != nil {
		return h, errutil.Err(err)
	}
	if h.LPredictOnes, err = br.ReadBool(); err != nil {
		return h, errutil.Err(err)
	}
	if h.MPredictOnes, err = br.ReadBool(); err != nil {
		return h, errutil.Err(err)
	}
	bb, err := br.ReadBits(2)
	if err != nil {
		return h, errutil.Err(err)
	}
	if h.Explicit, err = br.ReadBool(); err != nil {
		return h, errutil.Err(err)
	}
	if h.Rotate, err = br.ReadBool(); err != nil {
		return h, errutil.Err(err)
	}
	h.TableIndex = uint8(bb)
	if h.Explicit {
		// bit 0x04 of the raw byte (the low bit of bb) is SinglePlane under
		// Explicit; the high bit has no effect on decoding and is kept in
		// TableIndex only so EncodeHeader can reproduce it.
		h.SinglePlane = bb&0x01 != 0
	}
	return h, nil
}

// ParseHeader reads the leading header byte (and, for an explicit modal
// header, the interpretation needed to know whether a second byte follows)
// from raw. It does not itself read the plane_def byte or any PB8 payload --
// see Decode.
func ParseHeader(raw byte) (Header, error) {
	if raw >= reservedMin {
		return Header{Kind: KindReserved, RawReserved: raw}, nil
	}
	if raw == uncompressedHeader {
		return Header{Kind: KindUncompressed}, nil
	}
	return parseHeaderByte(raw)
}

// EncodeHeader is the inverse of ParseHeader: it returns the raw header byte
// for h. Encode does not use it; it assembles header bytes directly.
func EncodeHeader(h Header) (byte, error) {
	switch h.Kind {
	case KindUncompressed:
		return uncompressedHeader, nil
	case KindReserved:
		return h.RawReserved, nil
	default:
		return h.encodeByte()
	}
}
