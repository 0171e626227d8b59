package spec_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/scalrx/go-mapbin/mapbin/spec"
	"github.com/scalrx/go-mapbin/screen"
	"github.com/stretchr/testify/require"
)

func TestScanHeader(t *testing.T) {
	for _, tc := range []struct {
		Name   string
		Input  string
		Start  int
		Want   spec.Header
		Offset int
	}{
		{Name: "Negative", Input: "x5y-3\x00", Want: spec.Header{Coord: screen.Coord{X: 5, Y: -3}, Text: 5, Length: 6}, Offset: 10},
		{Name: "Origin", Input: "x0y0\x00", Want: spec.Header{Coord: screen.Coord{}, Text: 4, Length: 5}, Offset: 9},
		{Name: "Large", Input: "x1000y1000\x00\xbe\x0b\x00\x00", Want: spec.Header{Coord: screen.Coord{X: 1000, Y: 1000}, Text: 10, Length: 11}, Offset: 15},
		{Name: "BothNegative", Input: "x-12y-7\x00", Want: spec.Header{Coord: screen.Coord{X: -12, Y: -7}, Text: 7, Length: 8}, Offset: 12},
		{Name: "EmptyDigits", Input: "xy\x00", Want: spec.Header{Coord: screen.Coord{}, Text: 2, Length: 3}, Offset: 7},
		{Name: "SignResetsValue", Input: "x12-3y4\x00", Want: spec.Header{Coord: screen.Coord{X: -3, Y: 4}, Text: 7, Length: 8}, Offset: 12},
		{Name: "Start", Input: "garbagex7y8\x00", Start: 7, Want: spec.Header{Coord: screen.Coord{X: 7, Y: 8}, Text: 4, Length: 5}, Offset: 7 + 4 + 5},
	} {
		t.Run(tc.Name, func(t *testing.T) {
			header, err := spec.ScanHeader([]byte(tc.Input), tc.Start)
			require.NoError(t, err)
			require.Equal(t, tc.Want, header)
			require.Equal(t, tc.Offset, header.PayloadOffset(tc.Start))
		})
	}
}

func TestScanHeaderErrors(t *testing.T) {
	for _, tc := range []struct {
		Name  string
		Input string
		Start int
		Err   error
	}{
		{Name: "LeadingDigit", Input: "5y3\x00", Err: spec.ErrMissingXMarker},
		{Name: "LeadingZero", Input: "\x00x1y1\x00", Err: spec.ErrMissingXMarker},
		{Name: "Empty", Input: "", Err: spec.ErrTruncatedHeader},
		{Name: "StartPastEnd", Input: "x1y1\x00", Start: 5, Err: spec.ErrTruncatedHeader},
		{Name: "NoTerminator", Input: "x1y1", Err: spec.ErrTruncatedHeader},
		{Name: "MarkerOnly", Input: "x", Err: spec.ErrTruncatedHeader},
		{Name: "UnknownByte", Input: "x1z1\x00", Err: spec.ErrUnexpectedByte},
		{Name: "SecondX", Input: "x1x1\x00", Err: spec.ErrUnexpectedByte},
		{Name: "SecondY", Input: "x1y1y\x00", Err: spec.ErrUnexpectedByte},
		{Name: "NoY", Input: "x12\x00", Err: spec.ErrMissingYMarker},
		{Name: "Overflow", Input: "x99999999999999999999999y1\x00", Err: spec.ErrCoordinateRange},
	} {
		t.Run(tc.Name, func(t *testing.T) {
			_, err := spec.ScanHeader([]byte(tc.Input), tc.Start)
			require.ErrorIs(t, err, tc.Err)
			require.ErrorIs(t, err, spec.ErrInvalidHeader)
		})
	}
}

func TestScanHeaderLenient(t *testing.T) {
	for _, tc := range []struct {
		Name  string
		Input string
		Want  spec.Header
	}{
		{Name: "Valid", Input: "x5y-3\x00", Want: spec.Header{Coord: screen.Coord{X: 5, Y: -3}, Text: 5, Length: 6}},
		{Name: "StopByte", Input: "x5y3\xff", Want: spec.Header{Coord: screen.Coord{X: 5}, Text: 4, Length: 4}},
		{Name: "NoY", Input: "x12\x00", Want: spec.Header{Coord: screen.Coord{Y: 12}, Text: 3, Length: 4}},
		{Name: "SecondY", Input: "x1y2y3\x00", Want: spec.Header{Coord: screen.Coord{X: 2, Y: 3}, Text: 6, Length: 7}},
	} {
		t.Run(tc.Name, func(t *testing.T) {
			header, err := spec.ScanHeaderLenient([]byte(tc.Input), 0)
			require.NoError(t, err)
			require.Equal(t, tc.Want, header)
		})
	}

	_, err := spec.ScanHeaderLenient([]byte("x1x2\x00"), 0)
	require.ErrorIs(t, err, spec.ErrUnexpectedByte)

	_, err = spec.ScanHeaderLenient([]byte("1y2\x00"), 0)
	require.ErrorIs(t, err, spec.ErrMissingXMarker)
}

func TestAppendHeader(t *testing.T) {
	for _, c := range []screen.Coord{{X: 0, Y: 0}, {X: 5, Y: -3}, {X: -1000, Y: 1000}, {X: -12, Y: 7}} {
		data := spec.AppendHeader(nil, c, spec.PayloadSize)
		require.Len(t, data, spec.HeaderText(c)+spec.TerminatorWidth)
		require.Equal(t, []byte{0x00, 0xbe, 0x0b, 0x00, 0x00}, data[len(data)-spec.TerminatorWidth:])

		header, err := spec.ScanHeader(data, 0)
		require.NoError(t, err)
		require.Equal(t, c, header.Coord)
		require.Equal(t, spec.HeaderText(c), header.Text)
		require.Equal(t, len(data), header.PayloadOffset(0))
	}
}

func TestScanHeaderIntLimits(t *testing.T) {
	for _, tc := range []struct {
		Name  string
		Input string
		Want  screen.Coord
		Err   error
	}{
		{Name: "MinX", Input: fmt.Sprintf("x%dy0\x00", math.MinInt), Want: screen.Coord{X: math.MinInt}},
		{Name: "MinY", Input: fmt.Sprintf("x1y%d\x00", math.MinInt), Want: screen.Coord{X: 1, Y: math.MinInt}},
		{Name: "MaxX", Input: fmt.Sprintf("x%dy%d\x00", math.MaxInt, math.MinInt+1), Want: screen.Coord{X: math.MaxInt, Y: math.MinInt + 1}},
		{Name: "BelowMin", Input: fmt.Sprintf("x%d0y0\x00", math.MinInt), Err: spec.ErrCoordinateRange},
		{Name: "BelowMinByOne", Input: fmt.Sprintf("x1y-%d\x00", uint64(math.MaxInt)+2), Err: spec.ErrCoordinateRange},
		{Name: "AboveMax", Input: fmt.Sprintf("x%dy0\x00", uint64(math.MaxInt)+1), Err: spec.ErrCoordinateRange},
	} {
		t.Run(tc.Name, func(t *testing.T) {
			header, err := spec.ScanHeader([]byte(tc.Input), 0)
			if tc.Err != nil {
				require.ErrorIs(t, err, tc.Err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.Want, header.Coord)
			require.Equal(t, len(tc.Input), header.Length)
		})
	}
}
