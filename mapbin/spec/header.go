package spec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/scalrx/go-mapbin/screen"
)

const (
	MarkerX    byte = 'x'
	MarkerY    byte = 'y'
	MinusSign  byte = '-'
	Terminator byte = 0x00

	// TerminatorWidth is the distance from the header terminator to the payload:
	// the zero byte itself followed by a uint32 payload size.
	TerminatorWidth = 5

	// PayloadSize is the size of one screen payload in the current format version.
	PayloadSize = 3006
)

var (
	ErrInvalidHeader   = errors.New("invalid screen header")
	ErrMissingXMarker  = fmt.Errorf("%w: missing x marker", ErrInvalidHeader)
	ErrMissingYMarker  = fmt.Errorf("%w: missing y marker", ErrInvalidHeader)
	ErrTruncatedHeader = fmt.Errorf("%w: truncated", ErrInvalidHeader)
	ErrUnexpectedByte  = fmt.Errorf("%w: unexpected byte", ErrInvalidHeader)
	ErrCoordinateRange = fmt.Errorf("%w: coordinate out of range", ErrInvalidHeader)
)

// Header is a parsed screen header.
type Header struct {
	Coord screen.Coord

	// Text is the number of coordinate bytes before the terminating byte.
	Text int

	// Length is the number of bytes consumed, terminator included.
	Length int
}

// PayloadOffset returns the payload position for a header that starts at start.
func (h Header) PayloadOffset(start int) int {
	return start + h.Text + TerminatorWidth
}

// ScanHeader parses the header "x<X>y<Y>\x00" beginning at buf[start].
// Every byte outside of the grammar fails the scan.
func ScanHeader(buf []byte, start int) (Header, error) {
	return scanHeader(buf, start, false)
}

// ScanHeaderLenient parses a header the way legacy readers did: an unrecognized
// byte ends the header at its position without being consumed, the pending
// coordinate component is dropped, and a header without y marker stores its
// only value as Y.
func ScanHeaderLenient(buf []byte, start int) (Header, error) {
	return scanHeader(buf, start, true)
}

func scanHeader(buf []byte, start int, lenient bool) (Header, error) {
	if start < 0 || start >= len(buf) {
		return Header{}, fmt.Errorf("%w: start %d outside of %d bytes", ErrTruncatedHeader, start, len(buf))
	}
	if buf[start] != MarkerX {
		return Header{}, fmt.Errorf("%w: found 0x%02x at byte %d", ErrMissingXMarker, buf[start], start)
	}

	var (
		coord    screen.Coord
		value    int
		negative bool
		seenY    bool
	)
	for pos := start + 1; pos < len(buf); pos++ {
		b := buf[pos]
		switch {
		case b >= '0' && b <= '9':
			// Negative values accumulate below zero so that math.MinInt fits.
			digit := int(b - '0')
			if negative {
				if value < (math.MinInt+digit)/10 {
					return Header{}, fmt.Errorf("%w at byte %d", ErrCoordinateRange, pos)
				}
				value = value*10 - digit
				continue
			}
			if value > (math.MaxInt-digit)/10 {
				return Header{}, fmt.Errorf("%w at byte %d", ErrCoordinateRange, pos)
			}
			value = value*10 + digit
		case b == MinusSign:
			negative = true
			value = 0
		case b == MarkerY && (!seenY || lenient):
			coord.X = value
			value, negative, seenY = 0, false, true
		case b == Terminator:
			if !seenY && !lenient {
				return Header{}, fmt.Errorf("%w: terminator at byte %d", ErrMissingYMarker, pos)
			}
			coord.Y = value
			return Header{Coord: coord, Text: pos - start, Length: pos - start + 1}, nil
		case lenient && b != MarkerX:
			return Header{Coord: coord, Text: pos - start, Length: pos - start}, nil
		default:
			return Header{}, fmt.Errorf("%w 0x%02x at byte %d", ErrUnexpectedByte, b, pos)
		}
	}

	return Header{}, fmt.Errorf("%w: no terminator after byte %d", ErrTruncatedHeader, start)
}

// AppendHeader appends the encoded header of coord followed by the payload size field.
func AppendHeader(dst []byte, coord screen.Coord, payloadSize int) []byte {
	dst = append(dst, MarkerX)
	dst = strconv.AppendInt(dst, int64(coord.X), 10)
	dst = append(dst, MarkerY)
	dst = strconv.AppendInt(dst, int64(coord.Y), 10)
	dst = append(dst, Terminator)
	return binary.LittleEndian.AppendUint32(dst, uint32(payloadSize))
}

// HeaderText returns the number of coordinate bytes in the encoded header of coord.
func HeaderText(coord screen.Coord) int {
	return len(strconv.Itoa(coord.X)) + len(strconv.Itoa(coord.Y)) + 2
}
