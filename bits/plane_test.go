package bits_test

import (
	"math/rand"
	"testing"

	"github.com/donutcodec/donut/bits"
)

func TestReadWritePlaneLERoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 256; i++ {
		var p [8]byte
		for j := range p {
			p[j] = byte(r.Intn(256))
		}
		plane := bits.ReadPlaneLE(&p)
		got := bits.WritePlaneLE(plane)
		if got != p {
			t.Fatalf("round-trip mismatch: in=%v out=%v", p, got)
		}
	}
}

func TestFlipPlane135Involution(t *testing.T) {
	cases := []uint64{
		0x0000000000000000,
		0xffffffffffffffff,
		0x0102040810204080,
		0x8040201008040201,
		0xdeadbeefcafef00d,
	}
	for _, p := range cases {
		flipped := bits.FlipPlane135(p)
		if back := bits.FlipPlane135(flipped); back != p {
			t.Errorf("FlipPlane135 not an involution for %#016x: flipped=%#016x back=%#016x", p, flipped, back)
		}
	}
}

func TestFlipPlane135KnownValue(t *testing.T) {
	// A single bit at (row 0, col 7) -- the high bit of byte 0 -- moves to
	// (row 7, col 0) -- the low bit of byte 7.
	in := uint64(0x80)
	want := uint64(0x0100000000000000)
	if got := bits.FlipPlane135(in); got != want {
		t.Errorf("FlipPlane135(%#016x) = %#016x, want %#016x", in, got, want)
	}
}

func TestPopcount8(t *testing.T) {
	for x := 0; x < 256; x++ {
		want := 0
		for b := x; b != 0; b &= b - 1 {
			want++
		}
		if got := bits.Popcount8(uint8(x)); int(got) != want {
			t.Errorf("Popcount8(%#02x) = %d, want %d", x, got, want)
		}
	}
}
