// Package mapbin provides API for indexing, reading and writing world map containers
// (Map.bin.raw), where every screen payload is preceded by a "x<X>y<Y>" header.
package mapbin

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"maps"
	"slices"

	"github.com/scalrx/go-mapbin/mapbin/spec"
	"github.com/scalrx/go-mapbin/screen"
)

var ErrNotFound = errors.New("mapbin: screen not found")

// Index maps screen coordinates to payload offsets inside a container buffer.
// It is immutable after BuildIndex returns and safe for concurrent use.
type Index struct {
	offsets     map[screen.Coord]int
	payloadSize int
}

type indexConfig struct {
	PayloadSize int
	Lenient     bool
	Logger      *slog.Logger
}

type IndexOption func(*indexConfig)

// WithPayloadSize overrides spec.PayloadSize for other container versions.
func WithPayloadSize(size int) IndexOption {
	return func(c *indexConfig) { c.PayloadSize = size }
}

// WithLenientHeaders makes the scan tolerate unrecognized header bytes
// (see spec.ScanHeaderLenient).
func WithLenientHeaders() IndexOption {
	return func(c *indexConfig) { c.Lenient = true }
}

func WithIndexLogger(logger *slog.Logger) IndexOption {
	return func(c *indexConfig) { c.Logger = logger }
}

// BuildIndex scans the whole buffer once and records the payload offset of every screen.
// Any malformed header aborts the build; no partial index is returned.
// A screen header that appears twice keeps the last offset.
func BuildIndex(buf []byte, opts ...IndexOption) (*Index, error) {
	config := indexConfig{
		PayloadSize: spec.PayloadSize,
		Logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}
	if config.PayloadSize <= 0 {
		return nil, fmt.Errorf("mapbin: invalid payload size %d", config.PayloadSize)
	}

	scan := spec.ScanHeader
	if config.Lenient {
		scan = spec.ScanHeaderLenient
	}

	offsets := make(map[screen.Coord]int, len(buf)/(config.PayloadSize+spec.TerminatorWidth)+1)
	for cursor := 0; cursor < len(buf); {
		header, err := scan(buf, cursor)
		if err != nil {
			return nil, err
		}

		offset := header.PayloadOffset(cursor)
		if _, exists := offsets[header.Coord]; exists {
			config.Logger.Debug("mapbin: duplicate screen header", "coord", header.Coord, "offset", offset)
		}
		offsets[header.Coord] = offset

		cursor = offset + config.PayloadSize
	}

	config.Logger.Debug("mapbin: index built", "screens", len(offsets), "bytes", len(buf))
	return &Index{offsets: offsets, payloadSize: config.PayloadSize}, nil
}

// Lookup returns the payload offset of the screen at coord or ErrNotFound.
func (x *Index) Lookup(coord screen.Coord) (int, error) {
	offset, found := x.offsets[coord]
	if !found {
		return 0, fmt.Errorf("%w: %v", ErrNotFound, coord)
	}
	return offset, nil
}

func (x *Index) Contains(coord screen.Coord) bool {
	_, found := x.offsets[coord]
	return found
}

func (x *Index) Len() int {
	return len(x.offsets)
}

// PayloadSize returns the payload size the index was built with.
func (x *Index) PayloadSize() int {
	return x.payloadSize
}

// All returns an iterator over all screens ordered by payload offset.
func (x *Index) All() iter.Seq2[screen.Coord, int] {
	coords := slices.SortedFunc(maps.Keys(x.offsets), func(a, b screen.Coord) int {
		return cmp.Compare(x.offsets[a], x.offsets[b])
	})
	return func(yield func(screen.Coord, int) bool) {
		for _, c := range coords {
			if !yield(c, x.offsets[c]) {
				return
			}
		}
	}
}

// Bounds returns the rectangle covering all indexed screens.
// The result is meaningless for an empty index.
func (x *Index) Bounds() screen.Bounds {
	return spec.CoordBounds(slices.Collect(maps.Keys(x.offsets)))
}

// Equal reports whether both indices hold the same entries.
func (x *Index) Equal(other *Index) bool {
	return x.payloadSize == other.payloadSize && maps.Equal(x.offsets, other.offsets)
}
