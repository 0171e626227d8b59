package mapbin_test

import (
	"maps"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/scalrx/go-mapbin/internal"
	"github.com/scalrx/go-mapbin/mapbin"
	"github.com/scalrx/go-mapbin/mapbin/spec"
	"github.com/scalrx/go-mapbin/screen"
	"github.com/stretchr/testify/require"
)

func TestBuildIndexTestdata(t *testing.T) {
	for name, data := range internal.TestdataCases(t, "../testdata/worlds.tar.gz") {
		t.Run(name, func(t *testing.T) {
			want, err := internal.ReferenceScan(data, spec.PayloadSize)
			if err != nil {
				t.Fatalf("ReferenceScan failed: %v", err)
			}

			index, err := mapbin.BuildIndex(data)
			if err != nil {
				t.Fatalf("BuildIndex failed: %v", err)
			}

			if diff := cmp.Diff(want, maps.Collect(index.All())); diff != "" {
				t.Errorf("BuildIndex mismatch (-want+got):\n%v", diff)
			}
			for coord, offset := range index.All() {
				header, err := spec.ScanHeader(data, offset-spec.TerminatorWidth-spec.HeaderText(coord))
				if err != nil {
					t.Fatalf("no header before payload of %v: %v", coord, err)
				}
				if header.Coord != coord {
					t.Errorf("header before payload at %d = %v, want = %v", offset, header.Coord, coord)
				}
			}
		})
	}
}

func TestBuildIndexEmpty(t *testing.T) {
	index, err := mapbin.BuildIndex(nil)
	require.NoError(t, err)
	require.Equal(t, 0, index.Len())

	index, err = mapbin.BuildIndex([]byte{})
	require.NoError(t, err)
	require.Equal(t, 0, index.Len())
}

func TestBuildIndexSequentialOffsets(t *testing.T) {
	first, second := screen.Coord{X: 5, Y: -3}, screen.Coord{X: -1000, Y: 12}
	payloads := map[screen.Coord][]byte{
		first:  internal.Payload(first, spec.PayloadSize),
		second: internal.Payload(second, spec.PayloadSize),
	}
	data := internal.EncodeScreens([]screen.Coord{first, second}, payloads)

	index, err := mapbin.BuildIndex(data)
	require.NoError(t, err)
	require.Equal(t, 2, index.Len())

	firstOffset, err := index.Lookup(first)
	require.NoError(t, err)
	secondOffset, err := index.Lookup(second)
	require.NoError(t, err)

	require.Equal(t, len("x5y-3")+spec.TerminatorWidth, firstOffset)
	require.Equal(t, spec.TerminatorWidth+spec.PayloadSize+len("x-1000y12"), secondOffset-firstOffset)
	require.Equal(t, payloads[first], data[firstOffset:firstOffset+spec.PayloadSize])
	require.Equal(t, payloads[second], data[secondOffset:secondOffset+spec.PayloadSize])
}

func TestBuildIndexMissingXMarker(t *testing.T) {
	data := append([]byte("5y1\x00"), make([]byte, 4+spec.PayloadSize)...)
	index, err := mapbin.BuildIndex(data)
	require.ErrorIs(t, err, spec.ErrMissingXMarker)
	require.Nil(t, index)
}

func TestBuildIndexCorruptLaterHeader(t *testing.T) {
	c := screen.Coord{X: 1, Y: 1}
	data := internal.EncodeScreens([]screen.Coord{c}, map[screen.Coord][]byte{c: internal.Payload(c, spec.PayloadSize)})
	data = append(data, "x2q1\x00"...)

	index, err := mapbin.BuildIndex(data)
	require.ErrorIs(t, err, spec.ErrUnexpectedByte)
	require.Nil(t, index)

	index, err = mapbin.BuildIndex(data[:len(data)-3])
	require.ErrorIs(t, err, spec.ErrTruncatedHeader)
	require.Nil(t, index)
}

func TestBuildIndexLenient(t *testing.T) {
	// a stray byte ends the header; the payload starts TerminatorWidth bytes after it
	data := []byte("x3y\x01")
	data = append(data, make([]byte, 4+spec.PayloadSize)...)

	_, err := mapbin.BuildIndex(data)
	require.ErrorIs(t, err, spec.ErrUnexpectedByte)

	index, err := mapbin.BuildIndex(data, mapbin.WithLenientHeaders())
	require.NoError(t, err)
	offset, err := index.Lookup(screen.Coord{X: 3, Y: 0})
	require.NoError(t, err)
	require.Equal(t, 3+spec.TerminatorWidth, offset)
}

func TestBuildIndexPayloadSize(t *testing.T) {
	coords := []screen.Coord{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: -1}}
	payloads := make(map[screen.Coord][]byte)
	for _, c := range coords {
		payloads[c] = internal.Payload(c, 16)
	}
	data := internal.EncodeScreens(coords, payloads)

	index, err := mapbin.BuildIndex(data, mapbin.WithPayloadSize(16))
	require.NoError(t, err)
	require.Equal(t, 3, index.Len())
	require.Equal(t, 16, index.PayloadSize())

	_, err = mapbin.BuildIndex(data, mapbin.WithPayloadSize(0))
	require.Error(t, err)
}

func TestBuildIndexDuplicate(t *testing.T) {
	c := screen.Coord{X: 7, Y: 7}
	payloads := map[screen.Coord][]byte{c: internal.Payload(c, spec.PayloadSize)}
	data := internal.EncodeScreens([]screen.Coord{c, c}, payloads)

	index, err := mapbin.BuildIndex(data)
	require.NoError(t, err)
	require.Equal(t, 1, index.Len())

	offset, err := index.Lookup(c)
	require.NoError(t, err)
	require.Equal(t, len(data)-spec.PayloadSize, offset)
}

func TestBuildIndexShortTail(t *testing.T) {
	c := screen.Coord{X: 1, Y: 2}
	data := internal.EncodeScreens([]screen.Coord{c}, map[screen.Coord][]byte{c: internal.Payload(c, spec.PayloadSize)})
	data = data[:len(data)-100]

	index, err := mapbin.BuildIndex(data)
	require.NoError(t, err)
	require.True(t, index.Contains(c))
}

func TestLookup(t *testing.T) {
	coords := []screen.Coord{{X: -12, Y: 7}, {X: 0, Y: 0}, {X: 1000, Y: -1000}}
	payloads := make(map[screen.Coord][]byte)
	for _, c := range coords {
		payloads[c] = internal.Payload(c, spec.PayloadSize)
	}
	index, err := mapbin.BuildIndex(internal.EncodeScreens(coords, payloads))
	require.NoError(t, err)

	for _, c := range coords {
		require.True(t, index.Contains(c), "Contains(%v)", c)
		_, err := index.Lookup(c)
		require.NoError(t, err)
	}

	missing := screen.Coord{X: 7, Y: -12}
	require.False(t, index.Contains(missing))
	_, err = index.Lookup(missing)
	require.ErrorIs(t, err, mapbin.ErrNotFound)

	want := screen.Bounds{Min: screen.Coord{X: -12, Y: -1000}, Max: screen.Coord{X: 1000, Y: 7}}
	require.Equal(t, want, index.Bounds())
}

func TestBuildIndexDeterministic(t *testing.T) {
	world := internal.RandomWorld(42, 200, spec.PayloadSize)
	data := internal.EncodeScreens(slices.Collect(maps.Keys(world)), world)

	first, err := mapbin.BuildIndex(data)
	require.NoError(t, err)
	second, err := mapbin.BuildIndex(data)
	require.NoError(t, err)

	require.Equal(t, len(world), first.Len())
	if !cmp.Equal(first, second) {
		t.Errorf("two builds over the same buffer differ")
	}
	if diff := cmp.Diff(maps.Collect(first.All()), maps.Collect(second.All())); diff != "" {
		t.Errorf("All mismatch (-first+second):\n%v", diff)
	}
}

func TestIndexAllOrder(t *testing.T) {
	world := internal.RandomWorld(7, 50, spec.PayloadSize)
	order := slices.Collect(maps.Keys(world))
	index, err := mapbin.BuildIndex(internal.EncodeScreens(order, world))
	require.NoError(t, err)

	var got []screen.Coord
	for c := range index.All() {
		got = append(got, c)
	}
	require.Equal(t, order, got)
}
