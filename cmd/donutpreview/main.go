// Command donutpreview decodes a Donut-compressed CHR file and writes a PNG
// contact sheet of its tiles, for eyeballing what a ROM's tile data looks
// like without a NES emulator.
package main

import (
	"bytes"
	"flag"
	"log"
	"os"

	"github.com/donutcodec/donut"
	"github.com/donutcodec/donut/block"
	"github.com/donutcodec/donut/tileset"
	"github.com/pkg/errors"
)

func main() {
	var (
		output string
		cols   int
		scale  int
	)
	flag.StringVar(&output, "o", "", "output PNG path (default: input path with .png added)")
	flag.StringVar(&output, "output", "", "output PNG path (default: input path with .png added)")
	flag.IntVar(&cols, "cols", 16, "number of blocks per contact-sheet row")
	flag.IntVar(&scale, "scale", 4, "pixel upscale factor")
	flag.Parse()

	for _, path := range flag.Args() {
		out := output
		if out == "" {
			out = path + ".png"
		}
		if err := run(path, out, cols, scale); err != nil {
			log.Fatalf("%+v", err)
		}
	}
}

func run(inPath, outPath string, cols, scale int) error {
	in, err := os.Open(inPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer in.Close()

	var raw bytes.Buffer
	if _, err := donut.Decompress(&raw, in); err != nil {
		return errors.WithStack(err)
	}

	data := raw.Bytes()
	var blocks []*[64]byte
	for off := 0; off+block.Size <= len(data); off += block.Size {
		var b [64]byte
		copy(b[:], data[off:off+block.Size])
		blocks = append(blocks, &b)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer out.Close()

	if err := tileset.WritePNG(out, blocks, cols, scale); err != nil {
		return errors.WithStack(err)
	}
	return nil
}
