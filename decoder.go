package donut

import (
	"io"

	"github.com/donutcodec/donut/block"
	"github.com/donutcodec/donut/internal/gapbuf"
	"github.com/mewkiz/pkg/errutil"
)

// lookahead is the worst-case byte count a single compressed block can
// occupy: header, plane_def byte, eight PB8 planes at their maximum
// packed size.
const lookahead = 1 + 1 + 8*9

// Decoder implements io.Reader, decompressing a Donut bitstream pulled from
// an underlying io.Reader. It reads eagerly enough to always have a full
// block's worst-case lookahead staged before decoding, the way
// bufseekio.ReadSeeker stages a read before serving it, falling back to
// allowPartial, zero-filled decoding only once the source is exhausted.
type Decoder struct {
	r        io.Reader
	src      *gapbuf.Buffer
	srcErr   error
	residual []byte // decoded bytes not yet handed to a caller's Read
}

// NewDecoder returns a Decoder that reads compressed blocks from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		r:   r,
		src: gapbuf.New(lookahead * 4),
	}
}

// Read decodes as many blocks as needed to fill p, returning 64-byte
// chunks of decompressed data. It returns io.EOF only once the underlying
// reader is exhausted and every buffered byte has been decoded and
// delivered.
func (d *Decoder) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(d.residual) > 0 {
			c := copy(p[n:], d.residual)
			d.residual = d.residual[c:]
			n += c
			continue
		}

		for d.src.Len() < lookahead && d.srcErr == nil {
			_, d.srcErr = d.src.Fill(d.r)
		}
		allowPartial := d.srcErr != nil && d.src.Len() < lookahead

		var dst [block.Size]byte
		consumed, reserved, err := block.Decode(&dst, d.src.Bytes(), allowPartial)
		if err != nil {
			return n, errutil.Err(err)
		}
		if consumed == 0 {
			// Only reachable once the source is exhausted and empty.
			if n > 0 {
				return n, nil
			}
			return 0, d.srcErr
		}
		d.src.Discard(consumed)
		if reserved {
			continue
		}

		c := copy(p[n:], dst[:])
		n += c
		if c < len(dst) {
			d.residual = append([]byte(nil), dst[c:]...)
		}
	}
	return n, nil
}
