// Package screendir provides API for reading and writing screens as individual files,
// with paths like "/world/{x}/{y}.bin".
package screendir

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/scalrx/go-mapbin/screen"
)

var ErrInvalidPattern = errors.New("mapbin: invalid file pattern")

func validatePattern(pattern string) error {
	for _, p := range []string{"{x}", "{y}"} {
		if !strings.Contains(pattern, p) {
			return fmt.Errorf("%w: placeholder %v not found", ErrInvalidPattern, p)
		}
	}
	return nil
}

func formatPattern(pattern string, coord screen.Coord) string {
	result := pattern
	result = strings.ReplaceAll(result, "{x}", strconv.Itoa(coord.X))
	result = strings.ReplaceAll(result, "{y}", strconv.Itoa(coord.Y))
	return result
}
