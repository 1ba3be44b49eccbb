// Package gapbuf implements the bounded-memory sliding window the Donut
// stream codecs read compressed or uncompressed block data from: bytes
// accumulate at the back, are inspected and consumed from the front, and
// already-consumed bytes are compacted away before the buffer is grown
// (doubled) to make room, the way bufseekio.ReadSeeker manages its own
// buf/r/w triple.
package gapbuf

import "io"

const defaultSize = 4096

// Buffer holds the unconsumed tail of a byte stream.
type Buffer struct {
	buf  []byte
	r, w int
}

// New returns a Buffer with room for at least size bytes of lookahead.
func New(size int) *Buffer {
	if size < defaultSize {
		size = defaultSize
	}
	return &Buffer{buf: make([]byte, size)}
}

// Bytes returns the unconsumed window. The slice is only valid until the
// next call to Fill or Write.
func (b *Buffer) Bytes() []byte {
	return b.buf[b.r:b.w]
}

// Len reports the number of unconsumed bytes currently buffered.
func (b *Buffer) Len() int {
	return b.w - b.r
}

// Discard advances the read cursor by n bytes, which must not exceed Len().
func (b *Buffer) Discard(n int) {
	b.r += n
}

// compact slides the unconsumed window down to the front of buf, the
// gap-buffer equivalent of the reference implementation's
// memmove(INPUT_BEGIN, p.source.begin, l).
func (b *Buffer) compact() {
	if b.r == 0 {
		return
	}
	n := copy(b.buf, b.buf[b.r:b.w])
	b.r = 0
	b.w = n
}

// grow doubles buf until it has room for at least n more bytes past w.
func (b *Buffer) grow(n int) {
	for len(b.buf)-b.w < n {
		grown := make([]byte, len(b.buf)*2)
		copy(grown, b.buf[:b.w])
		b.buf = grown
	}
}

// Fill compacts already-consumed bytes to the front of the buffer, then
// reads once from r, appending whatever it returns to the unconsumed
// window. It reports the number of bytes appended and any error from r,
// including io.EOF.
func (b *Buffer) Fill(r io.Reader) (int, error) {
	b.compact()
	if b.w == len(b.buf) {
		b.grow(len(b.buf))
	}
	n, err := r.Read(b.buf[b.w:])
	b.w += n
	return n, err
}

// Write appends p to the unconsumed window directly, for push-style
// callers (the encoder's io.Writer side) that receive bytes rather than
// pulling them from an io.Reader.
func (b *Buffer) Write(p []byte) (int, error) {
	b.compact()
	b.grow(len(p))
	n := copy(b.buf[b.w:], p)
	b.w += n
	return n, nil
}
