// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package grid

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
)

// ErrDumpSize is returned when pixel data does not match the dimensions.
var ErrDumpSize = errors.New("grid: dump size mismatch")

// Color is one pixel of a ColorGridDump, 8 bits per channel.
type Color struct {
	Red, Green, Blue, Alpha uint8
}

// RGBA converts c to a color.RGBA.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.Red, G: c.Green, B: c.Blue, A: c.Alpha}
}

// ColorGridDump is a CPU-side copy of a color grid's content, taken at some
// moment. It is meant for debugging: reading pixels back from the GPU is
// expensive and should not happen every frame.
type ColorGridDump struct {
	data  []Color
	width uint32
}

// NewColorGridDump wraps data as a width x height dump. The product of
// width and height must equal len(data).
func NewColorGridDump(data []Color, width, height uint32) (*ColorGridDump, error) {
	if uint64(width)*uint64(height) != uint64(len(data)) {
		return nil, fmt.Errorf("%w: %d * %d != %d", ErrDumpSize, width, height, len(data))
	}
	if width == 0 {
		return nil, fmt.Errorf("%w: zero width", ErrDumpSize)
	}
	return &ColorGridDump{data: data, width: width}, nil
}

// At returns the color at (x, y). (0, 0) is the top-left pixel.
func (d *ColorGridDump) At(x, y uint32) Color {
	return d.data[x+y*d.width]
}

// Width returns the number of columns.
func (d *ColorGridDump) Width() uint32 { return d.width }

// Height returns the number of rows.
func (d *ColorGridDump) Height() uint32 {
	return uint32(len(d.data)) / d.width //nolint:gosec // len checked against width*height
}

// Crop copies the pixels inside r into a new dump.
func (d *ColorGridDump) Crop(r Region) (*ColorGridDump, error) {
	h := d.Height()
	if r.Width == 0 || r.Height == 0 ||
		r.MinX > d.width || r.Width > d.width-r.MinX ||
		r.MinY > h || r.Height > h-r.MinY {
		return nil, fmt.Errorf("%w: region %+v outside %dx%d", ErrDumpSize, r, d.width, h)
	}
	out := make([]Color, 0, int(r.Width)*int(r.Height))
	for y := r.MinY; y < r.BoundY(); y++ {
		row := d.data[y*d.width+r.MinX : y*d.width+r.BoundX()]
		out = append(out, row...)
	}
	return &ColorGridDump{data: out, width: r.Width}, nil
}

// Image converts the dump to an *image.RGBA.
func (d *ColorGridDump) Image() *image.RGBA {
	w, h := int(d.width), int(d.Height())
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i, c := range d.data {
		img.SetRGBA(i%w, i/w, c.RGBA())
	}
	return img
}

// WritePNG encodes the dump as PNG.
func (d *ColorGridDump) WritePNG(w io.Writer) error {
	return png.Encode(w, d.Image())
}

// WriteBMP encodes the dump as BMP, which most image viewers and debuggers
// can open without decompression support.
func (d *ColorGridDump) WriteBMP(w io.Writer) error {
	return bmp.Encode(w, d.Image())
}
