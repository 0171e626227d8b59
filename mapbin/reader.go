package mapbin

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/scalrx/go-mapbin/mapbin/spec"
	"github.com/scalrx/go-mapbin/screen"
)

var ErrShortPayload = errors.New("mapbin: payload extends past end of container")

// Reader implements screen.Reader and screen.Visitor for a raw container held in memory.
type Reader struct {
	data  []byte
	index *Index
}

// NewReader indexes data and returns a Reader over it.
// The caller must not modify data afterwards.
func NewReader(data []byte, opts ...IndexOption) (*Reader, error) {
	index, err := BuildIndex(data, opts...)
	if err != nil {
		return nil, err
	}
	return &Reader{data: data, index: index}, nil
}

// NewFileReader loads a raw container file (Map.bin.raw) and indexes it.
func NewFileReader(filePath string, opts ...IndexOption) (*Reader, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return NewReader(data, opts...)
}

// NewCompressedReader loads a gzipped container file (Map.bin) and indexes it.
func NewCompressedReader(filePath string, opts ...IndexOption) (*Reader, error) {
	compressed, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	data, err := spec.Decompress(compressed)
	if err != nil {
		return nil, err
	}
	return NewReader(data, opts...)
}

func (r *Reader) Index() *Index {
	return r.index
}

// Size returns the container size in bytes.
func (r *Reader) Size() int {
	return len(r.data)
}

// location fails with ErrShortPayload when the payload extends past the buffer.
func (r *Reader) location(coord screen.Coord, offset int) (screen.Location, error) {
	if offset+r.index.payloadSize > len(r.data) {
		return screen.Location{}, fmt.Errorf("%w: screen %v at %d", ErrShortPayload, coord, offset)
	}
	return screen.Location{Offset: uint64(offset), Length: uint64(r.index.payloadSize)}, nil
}

func (r *Reader) payload(coord screen.Coord, offset int) ([]byte, error) {
	location, err := r.location(coord, offset)
	if err != nil {
		return nil, err
	}
	return slices.Clone(r.data[offset : offset+int(location.Length)]), nil
}

// ReadScreen returns a copy of the screen payload, or an empty slice if the screen does not exist.
func (r *Reader) ReadScreen(coord screen.Coord) ([]byte, error) {
	offset, err := r.index.Lookup(coord)
	if errors.Is(err, ErrNotFound) {
		return make([]byte, 0), nil
	}
	if err != nil {
		return nil, err
	}
	return r.payload(coord, offset)
}

func (r *Reader) ReadLocation(coord screen.Coord) (screen.Location, error) {
	offset, err := r.index.Lookup(coord)
	if errors.Is(err, ErrNotFound) {
		return screen.Location{}, nil
	}
	if err != nil {
		return screen.Location{}, err
	}
	return r.location(coord, offset)
}

// VisitLocations visits payload locations in container order.
func (r *Reader) VisitLocations(visitor func(screen.Coord, screen.Location) error) error {
	for coord, offset := range r.index.All() {
		location, err := r.location(coord, offset)
		if err != nil {
			return err
		}
		if err := visitor(coord, location); err != nil {
			return err
		}
	}
	return nil
}

// VisitScreens visits screens in container order.
func (r *Reader) VisitScreens(visitor func(screen.Coord, []byte) error) error {
	for coord, offset := range r.index.All() {
		payload, err := r.payload(coord, offset)
		if err != nil {
			return err
		}
		if err := visitor(coord, payload); err != nil {
			return err
		}
	}
	return nil
}
