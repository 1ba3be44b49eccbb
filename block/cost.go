package block

import "github.com/donutcodec/donut/bits"

// Cost returns the simulated 6502 decode cycle count for a single candidate
// compressed block as produced by the encoder (header byte, optional
// plane_def byte, then its PB8 payload). It is used exclusively to compare
// candidates during encoding and is never observed by the decoder.
func Cost(encoded []byte) int {
	if len(encoded) < 1 {
		return 0
	}
	h := encoded[0]
	remain := len(encoded) - 1
	if h >= reservedMin {
		return 0
	}
	if h == uncompressedHeader {
		return 1268
	}

	cycles := 1298
	if h&0xc0 != 0 {
		cycles += 640
	}
	if h&0x20 != 0 {
		cycles += 4
	}
	if h&0x10 != 0 {
		cycles += 4
	}

	var planeDef uint8
	var singlePlane bool
	if h&0x02 != 0 {
		if remain < 1 {
			return 0
		}
		planeDef = encoded[1]
		remain--
		cycles += 5
		singlePlane = h&0x04 != 0 && planeDef != 0x00
	} else {
		planeDef = shortPlaneDefs[(h>>2)&0x03]
	}
	pb8Count := int(bits.Popcount8(planeDef))

	if h&0x01 != 0 {
		cycles += pb8Count * 614
	} else {
		cycles += pb8Count * 75
	}

	if singlePlane {
		remain *= pb8Count
		cycles += pb8Count
	}
	remain -= pb8Count
	cycles += remain * 6

	return cycles
}
