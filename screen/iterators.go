package screen

import (
	"errors"
	"iter"
)

var errVisitCancelled = errors.New("visit cancelled")

// IterScreens returns an iterator over all screens of the visitor.
// It yields coordinates and payloads. Iteration panics on unrecoverable errors.
func IterScreens(r Visitor) iter.Seq2[Coord, []byte] {
	return func(yield func(Coord, []byte) bool) {
		err := r.VisitScreens(func(coord Coord, payload []byte) error {
			if !yield(coord, payload) {
				return errVisitCancelled
			}
			return nil
		})
		if err != nil && err != errVisitCancelled {
			panic(err)
		}
	}
}

func IterLocations(r LocationVisitor) iter.Seq2[Coord, Location] {
	return func(yield func(Coord, Location) bool) {
		err := r.VisitLocations(func(coord Coord, location Location) error {
			if !yield(coord, location) {
				return errVisitCancelled
			}
			return nil
		})
		if err != nil && err != errVisitCancelled {
			panic(err)
		}
	}
}
