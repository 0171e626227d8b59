// Package screen provides common screen interfaces and types.
package screen

import "fmt"

// Coord identifies a screen in the world grid. Both components may be negative.
type Coord struct {
	X int
	Y int
}

func (c Coord) String() string {
	return fmt.Sprintf("x%dy%d", c.X, c.Y)
}

// Bounds is the inclusive rectangle covering a set of screens.
type Bounds struct {
	Min Coord
	Max Coord
}

func (b Bounds) Width() int  { return b.Max.X - b.Min.X + 1 }
func (b Bounds) Height() int { return b.Max.Y - b.Min.Y + 1 }

// Extend returns the smallest bounds containing both b and c.
func (b Bounds) Extend(c Coord) Bounds {
	return Bounds{
		Min: Coord{X: min(b.Min.X, c.X), Y: min(b.Min.Y, c.Y)},
		Max: Coord{X: max(b.Max.X, c.X), Y: max(b.Max.Y, c.Y)},
	}
}

// Writer defines an interface for writing screens to a world map.
type Writer interface {
	// WriteScreen writes a single screen payload.
	WriteScreen(coord Coord, payload []byte) error

	// Finalize completes the writing process: flushes buffers and writes indices.
	// It must be called before closing the Writer.
	Finalize() error
}

type Reader interface {
	// ReadScreen reads a single screen payload.
	// If the screen does not exist, it returns an empty slice with no error.
	ReadScreen(coord Coord) ([]byte, error)
}

type Visitor interface {
	// VisitScreens visits all screens in the world map, calling the visitor for each.
	// Order of screens is implementation-defined.
	VisitScreens(visitor func(Coord, []byte) error) error
}

// Location represents the absolute location of screen payload inside a container file.
type Location struct {
	Offset uint64
	Length uint64
}

type LocationReader interface {
	ReadLocation(coord Coord) (Location, error)
}

type LocationVisitor interface {
	VisitLocations(visitor func(Coord, Location) error) error
}
