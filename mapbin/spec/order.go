package spec

import (
	"cmp"
	"slices"

	"github.com/google/hilbert"
	"github.com/scalrx/go-mapbin/screen"
)

// CoordBounds returns the bounds of coords. It returns zero bounds for no coords.
func CoordBounds(coords []screen.Coord) screen.Bounds {
	if len(coords) == 0 {
		return screen.Bounds{}
	}
	bounds := screen.Bounds{Min: coords[0], Max: coords[0]}
	for _, c := range coords[1:] {
		bounds = bounds.Extend(c)
	}
	return bounds
}

// HilbertCodes maps every coordinate to its position along a Hilbert curve
// laid over bounds, so that neighbouring screens get close codes.
func HilbertCodes(coords []screen.Coord, bounds screen.Bounds) map[screen.Coord]int {
	side := 1
	for side < max(bounds.Width(), bounds.Height()) {
		side <<= 1
	}
	h, _ := hilbert.NewHilbert(side)

	codes := make(map[screen.Coord]int, len(coords))
	for _, c := range coords {
		code, _ := h.MapInverse(c.X-bounds.Min.X, c.Y-bounds.Min.Y)
		codes[c] = code
	}
	return codes
}

// SortHilbert sorts coords in place along a Hilbert curve over their bounds.
func SortHilbert(coords []screen.Coord) {
	codes := HilbertCodes(coords, CoordBounds(coords))
	slices.SortFunc(coords, func(a, b screen.Coord) int {
		return cmp.Compare(codes[a], codes[b])
	})
}
