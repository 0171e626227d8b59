package screendir

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/scalrx/go-mapbin/screen"
)

// Reader implements screen.Reader and screen.Visitor for screens stored as files.
type Reader struct {
	filePattern string
	rootDir     string
	pathRegexp  *regexp.Regexp
}

// NewReader creates a new Reader for the given file pattern (e.g. "/home/user/world/{x}/{y}.bin").
func NewReader(filePattern string) (*Reader, error) {
	if err := validatePattern(filePattern); err != nil {
		return nil, err
	}

	regexPattern := regexp.QuoteMeta(filePattern)
	regexPattern = strings.ReplaceAll(regexPattern, regexp.QuoteMeta("{x}"), `(?P<x>-?\d+)`)
	regexPattern = strings.ReplaceAll(regexPattern, regexp.QuoteMeta("{y}"), `(?P<y>-?\d+)`)
	pathRegex, err := regexp.Compile("^" + regexPattern + "$")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}

	path0 := formatPattern(filePattern, screen.Coord{X: 0, Y: 0})
	path1 := formatPattern(filePattern, screen.Coord{X: 1, Y: 1})
	for path0 != path1 {
		path0 = filepath.Dir(path0)
		path1 = filepath.Dir(path1)
	}

	return &Reader{filePattern, path0, pathRegex}, nil
}

func (r *Reader) ReadScreen(coord screen.Coord) ([]byte, error) {
	filePath := formatPattern(r.filePattern, coord)
	payload, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return make([]byte, 0), nil
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// VisitScreens walks the root directory; files not matching the pattern are skipped.
func (r *Reader) VisitScreens(visitor func(screen.Coord, []byte) error) error {
	return filepath.WalkDir(r.rootDir, func(filePath string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		matches := r.pathRegexp.FindStringSubmatch(filePath)
		if matches == nil {
			return nil
		}

		x, err := strconv.Atoi(matches[r.pathRegexp.SubexpIndex("x")])
		if err != nil {
			return err
		}
		y, err := strconv.Atoi(matches[r.pathRegexp.SubexpIndex("y")])
		if err != nil {
			return err
		}

		payload, err := os.ReadFile(filePath)
		if err != nil {
			return err
		}

		return visitor(screen.Coord{X: x, Y: y}, payload)
	})
}
