// Package index provides a portable binary format for exported screen indices.
package index

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/scalrx/go-mapbin/screen"
)

var (
	ErrTruncated = errors.New("index: truncated item")
	ErrRange     = errors.New("index: value does not fit item field")
)

// Item represents a single record in the index, mapping screen coordinates (X, Y)
// to the location (Offset, Length) of its payload in the container file.
// It is designed to be easily portable to other languages and utilities.
type Item struct {
	X      int32
	Y      int32
	Length uint32
	Offset uint64
}

// ItemSize is the encoded size of one Item.
var ItemSize = binary.Size(Item{})

// NewItem converts a screen location into an Item.
// It fails with ErrRange when a coordinate does not fit int32 or the length does not fit uint32.
func NewItem(coord screen.Coord, location screen.Location) (Item, error) {
	if coord.X < math.MinInt32 || coord.X > math.MaxInt32 || coord.Y < math.MinInt32 || coord.Y > math.MaxInt32 {
		return Item{}, fmt.Errorf("%w: screen %v", ErrRange, coord)
	}
	if location.Length > math.MaxUint32 {
		return Item{}, fmt.Errorf("%w: screen %v has length %d", ErrRange, coord, location.Length)
	}
	return Item{
		X:      int32(coord.X),
		Y:      int32(coord.Y),
		Length: uint32(location.Length),
		Offset: location.Offset,
	}, nil
}

func (i Item) Coord() screen.Coord {
	return screen.Coord{X: int(i.X), Y: int(i.Y)}
}

func (i Item) Location() screen.Location {
	return screen.Location{Offset: i.Offset, Length: uint64(i.Length)}
}

func WriteAll(items []Item, writer io.Writer) error {
	return binary.Write(writer, binary.LittleEndian, items)
}

func ReadAll(indexData []byte) ([]Item, error) {
	if len(indexData)%ItemSize != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrTruncated, len(indexData)%ItemSize)
	}
	items := make([]Item, len(indexData)/ItemSize)

	err := binary.Read(bytes.NewReader(indexData), binary.LittleEndian, items)
	if err != nil {
		return nil, err
	}

	return items, nil
}
