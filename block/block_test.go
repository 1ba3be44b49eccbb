package block_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/donutcodec/donut/block"
)

func TestHeaderRoundTrip(t *testing.T) {
	for raw := 0; raw < 0xc0; raw++ {
		if raw == 0x2a {
			continue
		}
		h, err := block.ParseHeader(byte(raw))
		if err != nil {
			t.Fatalf("ParseHeader(%#02x): %v", raw, err)
		}
		got, err := block.EncodeHeader(h)
		if err != nil {
			t.Fatalf("EncodeHeader(%#02x): %v", raw, err)
		}
		if got != byte(raw) {
			t.Errorf("round-trip %#02x -> %+v -> %#02x", raw, h, got)
		}
	}
}

func TestParseHeaderSpecialCases(t *testing.T) {
	h, err := block.ParseHeader(0x2a)
	if err != nil || h.Kind != block.KindUncompressed {
		t.Fatalf("ParseHeader(0x2a) = %+v, %v", h, err)
	}
	for raw := 0xc0; raw <= 0xff; raw++ {
		h, err := block.ParseHeader(byte(raw))
		if err != nil || h.Kind != block.KindReserved || h.RawReserved != byte(raw) {
			t.Fatalf("ParseHeader(%#02x) = %+v, %v", raw, h, err)
		}
	}
}

func TestCostUncompressedAndReserved(t *testing.T) {
	if c := block.Cost([]byte{0x2a}); c != 1268 {
		t.Errorf("Cost(uncompressed) = %d, want 1268", c)
	}
	if c := block.Cost([]byte{0xc0}); c != 0 {
		t.Errorf("Cost(reserved) = %d, want 0", c)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	patterns := [][]byte{
		bytes.Repeat([]byte{0x00}, 64),
		bytes.Repeat([]byte{0xff}, 64),
	}
	for i := 0; i < 64; i++ {
		buf := make([]byte, 64)
		buf[i%64] = 0xff
		patterns = append(patterns, buf)
	}
	for i := 0; i < 64; i++ {
		buf := make([]byte, 64)
		r.Read(buf)
		patterns = append(patterns, buf)
	}

	for pi, p := range patterns {
		var src [64]byte
		copy(src[:], p)

		var encoded [block.MaxEncodedSize]byte
		n := block.Encode(&encoded, &src, 0, nil, true)
		if n < 1 || n > block.MaxEncodedSize {
			t.Fatalf("pattern %d: Encode returned invalid length %d", pi, n)
		}

		var decoded [64]byte
		consumed, reserved, err := block.Decode(&decoded, encoded[:n], false)
		if err != nil {
			t.Fatalf("pattern %d: Decode error: %v", pi, err)
		}
		if reserved {
			t.Fatalf("pattern %d: encoder produced a reserved header", pi)
		}
		if consumed != n {
			t.Fatalf("pattern %d: Decode consumed %d, Encode wrote %d", pi, consumed, n)
		}
		if decoded != src {
			t.Fatalf("pattern %d: round-trip mismatch\nin:  %x\nout: %x", pi, src, decoded)
		}
	}
}

func TestEncodeNeverExceedsUncompressedSize(t *testing.T) {
	r := rand.New(rand.NewSource(99))
	for i := 0; i < 32; i++ {
		var src [64]byte
		r.Read(src[:])
		var encoded [block.MaxEncodedSize]byte
		n := block.Encode(&encoded, &src, 0, nil, true)
		if n > block.MaxEncodedSize {
			t.Fatalf("Encode grew block to %d bytes, max is %d", n, block.MaxEncodedSize)
		}
	}
}

func TestEncodeDeterministic(t *testing.T) {
	var src [64]byte
	for i := range src {
		src[i] = byte(i * 7)
	}
	var a, b [block.MaxEncodedSize]byte
	na := block.Encode(&a, &src, 0, nil, true)
	nb := block.Encode(&b, &src, 0, nil, true)
	if na != nb || !bytes.Equal(a[:na], b[:nb]) {
		t.Fatalf("Encode is not deterministic: %x vs %x", a[:na], b[:nb])
	}
}

func TestDecodeReservedHeaderSkipsOneByte(t *testing.T) {
	var dst [64]byte
	for raw := 0xc0; raw <= 0xff; raw++ {
		consumed, reserved, err := block.Decode(&dst, []byte{byte(raw), 0xaa}, false)
		if err != nil || consumed != 1 || !reserved {
			t.Fatalf("Decode(%#02x, ...) = (%d, %v, %v)", raw, consumed, reserved, err)
		}
	}
}

func TestDecodeNoProgressOnShortBuffer(t *testing.T) {
	var dst [64]byte
	// An explicit modal header (bit 0x02 set) with no plane_def byte to follow.
	consumed, _, err := block.Decode(&dst, []byte{0x02}, false)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if consumed != 0 {
		t.Fatalf("Decode consumed %d bytes from a header with no body, want 0 (no progress)", consumed)
	}
}

func TestDecodeAllowPartialZeroFillsTail(t *testing.T) {
	var src [64]byte
	for i := range src {
		src[i] = byte(i*37 + 11) // no run of repeats, forces real PB8 literals
	}
	var encoded [block.MaxEncodedSize]byte
	n := block.Encode(&encoded, &src, 0, nil, true)
	if n < 4 {
		t.Fatalf("test pattern encoded too small (%d bytes) to exercise truncation", n)
	}

	truncated := encoded[:2]

	var dst [64]byte
	if consumed, _, err := block.Decode(&dst, truncated, false); err != nil || consumed != 0 {
		t.Fatalf("Decode(allowPartial=false) = (%d, _, %v), want (0, _, nil) -- no progress on short input", consumed, err)
	}

	consumed, _, err := block.Decode(&dst, truncated, true)
	if err != nil {
		t.Fatalf("Decode with allowPartial: %v", err)
	}
	if consumed != len(truncated) {
		t.Errorf("Decode consumed %d of %d truncated bytes, want all of them", consumed, len(truncated))
	}
}

func TestUncompressedBlockRoundTrip(t *testing.T) {
	var src [64]byte
	for i := range src {
		src[i] = byte(i)
	}
	encoded := append([]byte{0x2a}, src[:]...)
	var dst [64]byte
	consumed, reserved, err := block.Decode(&dst, encoded, false)
	if err != nil || reserved || consumed != 65 {
		t.Fatalf("Decode(uncompressed) = (%d, %v, %v)", consumed, reserved, err)
	}
	if dst != src {
		t.Fatalf("uncompressed round-trip mismatch")
	}
}
