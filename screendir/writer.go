package screendir

import (
	"os"
	"path/filepath"

	"github.com/scalrx/go-mapbin/screen"
)

// Writer implements screen.Writer for screens stored as files.
type Writer struct {
	filePattern string
}

// NewWriter creates a new Writer for the given file pattern (e.g. "/home/user/world/{x}/{y}.bin").
func NewWriter(filePattern string) (*Writer, error) {
	if err := validatePattern(filePattern); err != nil {
		return nil, err
	}
	return &Writer{filePattern}, nil
}

func (w *Writer) WriteScreen(coord screen.Coord, payload []byte) error {
	filePath := formatPattern(w.filePattern, coord)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return err
	}

	return os.WriteFile(filePath, payload, 0644)
}

func (w *Writer) Finalize() error {
	return nil
}
