package grid

import (
	"bytes"
	"errors"
	"image/png"
	"math"
	"testing"

	"golang.org/x/image/bmp"
)

func sampleDump(t *testing.T) *ColorGridDump {
	t.Helper()
	data := make([]Color, 6)
	for i := range data {
		data[i] = Color{Red: uint8(i * 10), Green: uint8(i), Blue: 200, Alpha: 255}
	}
	d, err := NewColorGridDump(data, 3, 2)
	if err != nil {
		t.Fatalf("NewColorGridDump() error = %v", err)
	}
	return d
}

func TestColorGridDumpSizeMismatch(t *testing.T) {
	_, err := NewColorGridDump(make([]Color, 5), 3, 2)
	if !errors.Is(err, ErrDumpSize) {
		t.Errorf("error = %v, want ErrDumpSize", err)
	}
	_, err = NewColorGridDump(nil, 0, 0)
	if !errors.Is(err, ErrDumpSize) {
		t.Errorf("zero width error = %v, want ErrDumpSize", err)
	}
}

func TestColorGridDumpAt(t *testing.T) {
	d := sampleDump(t)
	if d.Width() != 3 || d.Height() != 2 {
		t.Fatalf("size = %dx%d, want 3x2", d.Width(), d.Height())
	}
	if got := d.At(1, 1); got.Red != 40 || got.Green != 4 {
		t.Errorf("At(1, 1) = %+v, want pixel 4", got)
	}
}

func TestColorGridDumpCrop(t *testing.T) {
	d := sampleDump(t)
	c, err := d.Crop(NewRegion(1, 0, 2, 2))
	if err != nil {
		t.Fatalf("Crop() error = %v", err)
	}
	if c.Width() != 2 || c.Height() != 2 {
		t.Fatalf("crop size = %dx%d, want 2x2", c.Width(), c.Height())
	}
	if got, want := c.At(0, 1), d.At(1, 1); got != want {
		t.Errorf("crop At(0, 1) = %+v, want %+v", got, want)
	}
	for _, r := range []Region{
		NewRegion(2, 0, 2, 1),
		NewRegion(0, 0, 0, 1),
		NewRegion(math.MaxUint32, 0, 2, 1),
		NewRegion(0, math.MaxUint32, 1, 2),
		NewRegion(1, 0, math.MaxUint32, 1),
	} {
		if _, err := d.Crop(r); !errors.Is(err, ErrDumpSize) {
			t.Errorf("Crop(%+v) error = %v, want ErrDumpSize", r, err)
		}
	}
}

func TestColorGridDumpEncode(t *testing.T) {
	d := sampleDump(t)

	var pngBuf bytes.Buffer
	if err := d.WritePNG(&pngBuf); err != nil {
		t.Fatalf("WritePNG() error = %v", err)
	}
	img, err := png.Decode(&pngBuf)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Errorf("png bounds = %v, want 3x2", b)
	}

	var bmpBuf bytes.Buffer
	if err := d.WriteBMP(&bmpBuf); err != nil {
		t.Fatalf("WriteBMP() error = %v", err)
	}
	img, err = bmp.Decode(&bmpBuf)
	if err != nil {
		t.Fatalf("bmp.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Errorf("bmp bounds = %v, want 3x2", b)
	}
}

func TestRegion(t *testing.T) {
	r := NewRegion(2, 3, 4, 5)
	if r.MaxX() != 5 || r.MaxY() != 7 {
		t.Errorf("max = (%d, %d), want (5, 7)", r.MaxX(), r.MaxY())
	}
	if r.BoundX() != 6 || r.BoundY() != 8 {
		t.Errorf("bound = (%d, %d), want (6, 8)", r.BoundX(), r.BoundY())
	}
	if !r.Contains(2, 3) || r.Contains(6, 3) || r.Contains(2, 8) {
		t.Error("Contains() gives wrong answers at the edges")
	}
	e := Entire(10, 20)
	if e.MinX != 0 || e.Width != 10 || e.Height != 20 {
		t.Errorf("Entire(10, 20) = %+v", e)
	}
}
