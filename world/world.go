// Package world locates the map files of a world directory, keeps the decompressed
// container fresh and opens it for random access.
//
// A world directory holds the gzipped container Map.bin. Readers work on its
// decompressed copy Map.bin.raw; Map.bin.dat records the modification time of
// Map.bin the copy was made from.
package world

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/scalrx/go-mapbin/mapbin"
	"github.com/scalrx/go-mapbin/mapbin/spec"
)

const MapFileName = "Map.bin"

var ErrInvalidStamp = errors.New("mapbin: invalid stamp file")

// Files names the map files of one world directory.
type Files struct {
	Dir string
}

func (f Files) Map() string   { return filepath.Join(f.Dir, MapFileName) }
func (f Files) Raw() string   { return f.Map() + ".raw" }
func (f Files) Stamp() string { return f.Map() + ".dat" }

// ReadStamp reads a stamp file: a big-endian int64 of milliseconds since the Unix epoch.
func ReadStamp(filePath string) (time.Time, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return time.Time{}, err
	}
	if len(data) != 8 {
		return time.Time{}, fmt.Errorf("%w: %d bytes", ErrInvalidStamp, len(data))
	}
	return time.UnixMilli(int64(binary.BigEndian.Uint64(data))), nil
}

func WriteStamp(filePath string, t time.Time) error {
	return os.WriteFile(filePath, binary.BigEndian.AppendUint64(nil, uint64(t.UnixMilli())), 0644)
}

// Fresh reports whether the raw container exists and was made from the current Map.bin.
// A missing or unreadable stamp counts as stale.
func (f Files) Fresh() (bool, error) {
	info, err := os.Stat(f.Map())
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(f.Raw()); errors.Is(err, fs.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	stamp, err := ReadStamp(f.Stamp())
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, ErrInvalidStamp) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return stamp.UnixMilli() == info.ModTime().UnixMilli(), nil
}

// Decompress unconditionally rebuilds the raw container and its stamp from Map.bin.
func (f Files) Decompress() error {
	src, err := os.Open(f.Map())
	if err != nil {
		return err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.Dir, MapFileName+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := spec.DecompressStream(tmp, src); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), f.Raw()); err != nil {
		return err
	}

	return WriteStamp(f.Stamp(), info.ModTime())
}

// EnsureRaw decompresses Map.bin when the raw container is missing or stale.
// It reports whether decompression took place.
func (f Files) EnsureRaw(logger *slog.Logger) (bool, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	fresh, err := f.Fresh()
	if err != nil {
		return false, err
	}
	if fresh {
		logger.Debug("mapbin: raw container is fresh", "path", f.Raw())
		return false, nil
	}
	logger.Debug("mapbin: decompressing", "path", f.Map())
	if err := f.Decompress(); err != nil {
		return false, err
	}
	return true, nil
}

type openConfig struct {
	Logger       *slog.Logger
	IndexOptions []mapbin.IndexOption
}

type OpenOption func(*openConfig)

func WithLogger(logger *slog.Logger) OpenOption {
	return func(c *openConfig) { c.Logger = logger }
}

func WithIndexOptions(opts ...mapbin.IndexOption) OpenOption {
	return func(c *openConfig) { c.IndexOptions = append(c.IndexOptions, opts...) }
}

// Open refreshes the raw container of the world in dir when needed, then loads and indexes it.
func Open(dir string, opts ...OpenOption) (*mapbin.Reader, error) {
	config := openConfig{
		Logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}

	files := Files{Dir: dir}
	if _, err := files.EnsureRaw(config.Logger); err != nil {
		return nil, err
	}

	indexOptions := append([]mapbin.IndexOption{mapbin.WithIndexLogger(config.Logger)}, config.IndexOptions...)
	return mapbin.NewFileReader(files.Raw(), indexOptions...)
}
