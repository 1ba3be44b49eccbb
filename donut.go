package donut

import (
	"io"

	"github.com/mewkiz/pkg/errutil"
)

// Compress reads src to completion, writing its Donut-compressed form to
// dst, and returns the number of uncompressed bytes read. It is a thin
// convenience layer over Encoder, the way flac.Open composes NewStream for
// callers who don't need the lower-level incremental API.
func Compress(dst io.Writer, src io.Reader, opts ...EncodeOption) (int64, error) {
	enc := NewEncoder(dst, opts...)
	n, err := io.Copy(enc, src)
	if err != nil {
		return n, errutil.Err(err)
	}
	if err := enc.Close(); err != nil {
		return n, errutil.Err(err)
	}
	return n, nil
}

// Decompress reads a Donut-compressed stream from src to completion,
// writing its decompressed form to dst, and returns the number of
// decompressed bytes written.
func Decompress(dst io.Writer, src io.Reader) (int64, error) {
	dec := NewDecoder(src)
	n, err := io.Copy(dst, dec)
	if err != nil {
		return n, errutil.Err(err)
	}
	return n, nil
}
