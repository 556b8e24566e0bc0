package grid

// Region is a rectangular area of a grid, in pixels. Width and Height are
// expected to be at least 1.
type Region struct {
	MinX, MinY    uint32
	Width, Height uint32
}

// NewRegion creates a region.
func NewRegion(minX, minY, width, height uint32) Region {
	return Region{MinX: minX, MinY: minY, Width: width, Height: height}
}

// Entire returns the region covering a whole width x height grid.
func Entire(width, height uint32) Region {
	return Region{Width: width, Height: height}
}

// MaxX returns the largest x-coordinate inside the region.
func (r Region) MaxX() uint32 { return r.MinX + r.Width - 1 }

// MaxY returns the largest y-coordinate inside the region.
func (r Region) MaxY() uint32 { return r.MinY + r.Height - 1 }

// BoundX returns the first x-coordinate right of the region. It wraps
// around when MinX+Width overflows uint32.
func (r Region) BoundX() uint32 { return r.MinX + r.Width }

// BoundY returns the first y-coordinate below the region.
func (r Region) BoundY() uint32 { return r.MinY + r.Height }

// Contains reports whether (x, y) lies inside the region.
func (r Region) Contains(x, y uint32) bool {
	return x >= r.MinX && x < r.BoundX() && y >= r.MinY && y < r.BoundY()
}
