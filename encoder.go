// Package donut implements the Donut lossless compression codec for NES CHR
// bitplane data: fixed 64-byte blocks (four 2bpp tiles) compressed
// independently, streamed in sequence with no container framing.
package donut

import (
	"io"

	"github.com/donutcodec/donut/block"
	"github.com/donutcodec/donut/internal/gapbuf"
	"github.com/mewkiz/pkg/errutil"
)

// Encoder implements io.WriteCloser, compressing whatever is written to it
// and forwarding the result to an underlying io.Writer. Bytes accumulate
// until a full 64-byte block is available, at which point it is encoded
// and flushed. Close discards any trailing partial block, matching the
// reference encoder's "src_bytes_remain < 64: stop" rule for a source
// whose length isn't a multiple of 64.
type Encoder struct {
	w    io.Writer
	cfg  encodeConfig
	in   *gapbuf.Buffer
	done bool
}

// NewEncoder returns an Encoder that writes compressed blocks to w.
func NewEncoder(w io.Writer, opts ...EncodeOption) *Encoder {
	cfg := defaultEncodeConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Encoder{
		w:   w,
		cfg: cfg,
		in:  gapbuf.New(block.Size * 4),
	}
}

// Write buffers p and encodes every complete 64-byte block it completes.
func (enc *Encoder) Write(p []byte) (int, error) {
	if enc.done {
		return 0, errutil.Newf("donut: Write called after Close")
	}
	n, _ := enc.in.Write(p)
	if err := enc.flushBlocks(); err != nil {
		return n, errutil.Err(err)
	}
	return n, nil
}

func (enc *Encoder) flushBlocks() error {
	for enc.in.Len() >= block.Size {
		var src [block.Size]byte
		copy(src[:], enc.in.Bytes()[:block.Size])

		var out [block.MaxEncodedSize]byte
		n := block.Encode(&out, &src, enc.cfg.cycleLimit, enc.cfg.dontCare, enc.cfg.bitFlip)
		if _, err := enc.w.Write(out[:n]); err != nil {
			return errutil.Err(err)
		}
		enc.in.Discard(block.Size)
	}
	return nil
}

// Close flushes any buffered complete blocks and discards a trailing
// partial block, if any. It does not close the underlying writer.
func (enc *Encoder) Close() error {
	if enc.done {
		return nil
	}
	enc.done = true
	return enc.flushBlocks()
}
