// Package tileset renders decoded Donut blocks as images: each 64-byte
// block is four NES 2bpp tiles (8x8 pixels, 2 bits per pixel), laid out
// 2x2 the way they sit consecutively in CHR-ROM. It has no opinion on NES
// PPU palette RAM -- colors are a fixed grayscale placeholder -- the same
// way the core codec has no opinion on file containers.
package tileset

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/mewkiz/pkg/errutil"
	"golang.org/x/image/draw"
)

// TileSize is the width and height, in pixels, of one NES tile.
const TileSize = 8

// blockPixels is the side length of the 2x2 tile grid one decoded block
// renders to.
const blockPixels = TileSize * 2

// placeholderPalette maps a tile's 2-bit pixel value to a grayscale shade.
// It carries no relationship to any actual NES palette.
var placeholderPalette = color.Palette{
	color.Gray{Y: 0x00},
	color.Gray{Y: 0x55},
	color.Gray{Y: 0xaa},
	color.Gray{Y: 0xff},
}

// Render decodes the four tiles of one 64-byte block into a 16x16
// image.Paletted, arranged 2x2 in storage order (top-left, top-right,
// bottom-left, bottom-right).
func Render(block *[64]byte) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, blockPixels, blockPixels), placeholderPalette)
	for tile := 0; tile < 4; tile++ {
		ox := (tile % 2) * TileSize
		oy := (tile / 2) * TileSize
		lo := block[tile*16 : tile*16+8]
		hi := block[tile*16+8 : tile*16+16]
		for row := 0; row < TileSize; row++ {
			for col := 0; col < TileSize; col++ {
				bit := uint(7 - col)
				px := (lo[row]>>bit)&1 | (hi[row]>>bit)&1<<1
				img.SetColorIndex(ox+col, oy+row, px)
			}
		}
	}
	return img
}

// WritePNG renders each of blocks and tiles them into a contact-sheet PNG
// with cols columns, upscaled by scale (nearest-neighbor, matching pixel
// art's hard edges) and writes the result to w.
func WritePNG(w io.Writer, blocks []*[64]byte, cols, scale int) error {
	if cols < 1 {
		cols = 1
	}
	if scale < 1 {
		scale = 1
	}
	rows := (len(blocks) + cols - 1) / cols
	cellSize := blockPixels * scale
	sheet := image.NewRGBA(image.Rect(0, 0, cols*cellSize, rows*cellSize))

	for i, b := range blocks {
		tile := Render(b)
		x := (i % cols) * cellSize
		y := (i / cols) * cellSize
		dstRect := image.Rect(x, y, x+cellSize, y+cellSize)
		draw.NearestNeighbor.Scale(sheet, dstRect, tile, tile.Bounds(), draw.Src, nil)
	}

	if err := png.Encode(w, sheet); err != nil {
		return errutil.Err(err)
	}
	return nil
}
