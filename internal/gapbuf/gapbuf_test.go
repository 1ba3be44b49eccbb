package gapbuf_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/donutcodec/donut/internal/gapbuf"
)

func TestFillAndDiscardCompacts(t *testing.T) {
	src := bytes.NewReader([]byte("hello, world"))
	b := gapbuf.New(4)

	n, err := b.Fill(src)
	if err != nil && err != io.EOF {
		t.Fatalf("Fill: %v", err)
	}
	if n == 0 {
		t.Fatal("Fill read zero bytes from a non-empty reader")
	}
	if string(b.Bytes()) != "hello, world"[:n] {
		t.Fatalf("Bytes() = %q, want %q", b.Bytes(), "hello, world"[:n])
	}

	b.Discard(3)
	if string(b.Bytes()) != "hello, world"[3:n] {
		t.Fatalf("Bytes() after Discard = %q", b.Bytes())
	}

	for b.Len() < len("hello, world")-3 {
		if _, err := b.Fill(src); err != nil {
			break
		}
	}
	if string(b.Bytes()) != "lo, world" {
		t.Fatalf("Bytes() = %q, want %q", b.Bytes(), "lo, world")
	}
}

func TestWriteGrows(t *testing.T) {
	b := gapbuf.New(4)
	big := bytes.Repeat([]byte{0x42}, 10000)
	n, err := b.Write(big)
	if err != nil || n != len(big) {
		t.Fatalf("Write = (%d, %v), want (%d, nil)", n, err, len(big))
	}
	if !bytes.Equal(b.Bytes(), big) {
		t.Fatalf("Bytes() mismatch after large Write")
	}
}

func TestDiscardThenFillReusesSpace(t *testing.T) {
	b := gapbuf.New(8)
	b.Write([]byte("abcdefgh"))
	b.Discard(8)
	if b.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", b.Len())
	}
	b.Write([]byte("xyz"))
	if string(b.Bytes()) != "xyz" {
		t.Fatalf("Bytes() = %q, want %q", b.Bytes(), "xyz")
	}
}
