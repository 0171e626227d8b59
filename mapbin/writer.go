package mapbin

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/scalrx/go-mapbin/mapbin/spec"
	"github.com/scalrx/go-mapbin/screen"
)

var ErrPayloadSize = errors.New("mapbin: unexpected payload size")

// Writer implements screen.Writer for the container format.
// Screens are kept in memory and written out by Finalize.
type Writer struct {
	filePath string
	config   writerConfig
	screens  map[screen.Coord][]byte
	order    []screen.Coord
	done     bool
}

type writerConfig struct {
	PayloadSize int
	Clustered   bool
	Compressed  bool
	Logger      *slog.Logger
}

type WriterOption func(*writerConfig)

func WithWriterPayloadSize(size int) WriterOption {
	return func(c *writerConfig) { c.PayloadSize = size }
}

// WithClustered writes screens along a Hilbert curve instead of insertion order.
func WithClustered() WriterOption {
	return func(c *writerConfig) { c.Clustered = true }
}

// WithCompression gzips the container, producing the Map.bin form.
func WithCompression() WriterOption {
	return func(c *writerConfig) { c.Compressed = true }
}

func WithLogger(logger *slog.Logger) WriterOption {
	return func(c *writerConfig) { c.Logger = logger }
}

// NewWriter creates a new Writer for the given container file path.
func NewWriter(filePath string, opts ...WriterOption) (*Writer, error) {
	config := writerConfig{
		PayloadSize: spec.PayloadSize,
		Logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}
	if config.PayloadSize <= 0 {
		return nil, fmt.Errorf("mapbin: invalid payload size %d", config.PayloadSize)
	}

	return &Writer{
		filePath: filePath,
		config:   config,
		screens:  make(map[screen.Coord][]byte),
	}, nil
}

// WriteScreen stores a screen payload. Writing the same coordinate again replaces it.
func (w *Writer) WriteScreen(coord screen.Coord, payload []byte) error {
	if len(payload) != w.config.PayloadSize {
		return fmt.Errorf("%w: screen %v has %d bytes, want %d", ErrPayloadSize, coord, len(payload), w.config.PayloadSize)
	}
	if _, exists := w.screens[coord]; !exists {
		w.order = append(w.order, coord)
	}
	w.screens[coord] = append([]byte(nil), payload...)
	return nil
}

// Encode returns the raw container bytes for the screens written so far.
func (w *Writer) Encode() []byte {
	order := w.order
	if w.config.Clustered {
		order = append([]screen.Coord(nil), w.order...)
		spec.SortHilbert(order)
	}

	size := 0
	for _, coord := range order {
		size += spec.HeaderText(coord) + spec.TerminatorWidth + w.config.PayloadSize
	}

	data := make([]byte, 0, size)
	for _, coord := range order {
		data = spec.AppendHeader(data, coord, w.config.PayloadSize)
		data = append(data, w.screens[coord]...)
	}
	return data
}

func (w *Writer) Finalize() error {
	if w.done {
		panic("mapbin: finalize called twice")
	}
	w.done = true

	w.config.Logger.Debug("mapbin: encode", "screens", len(w.order))
	data := w.Encode()

	if w.config.Compressed {
		w.config.Logger.Debug("mapbin: compress", "bytes", len(data))
		var err error
		data, err = spec.Compress(data)
		if err != nil {
			return err
		}
	}

	w.config.Logger.Debug("mapbin: write", "path", w.filePath, "bytes", len(data))
	return os.WriteFile(w.filePath, data, 0644)
}
