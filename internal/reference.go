package internal

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/rand/v2"

	"github.com/scalrx/go-mapbin/screen"
)

// ReferenceScan indexes a container with fmt.Sscanf, independently of the mapbin scanner.
func ReferenceScan(data []byte, payloadSize int) (map[screen.Coord]int, error) {
	offsets := make(map[screen.Coord]int)
	for pos := 0; pos < len(data); {
		end := bytes.IndexByte(data[pos:], 0)
		if end < 0 {
			return nil, fmt.Errorf("no terminator after byte %d", pos)
		}
		var c screen.Coord
		if _, err := fmt.Sscanf(string(data[pos:pos+end]), "x%dy%d", &c.X, &c.Y); err != nil {
			return nil, fmt.Errorf("header at byte %d: %w", pos, err)
		}
		offset := pos + end + 5
		offsets[c] = offset
		pos = offset + payloadSize
	}
	return offsets, nil
}

// Payload returns a deterministic payload for a screen.
func Payload(c screen.Coord, payloadSize int) []byte {
	payload := make([]byte, payloadSize)
	for i := range payload {
		payload[i] = byte(i*7 + c.X*31 + c.Y*17)
	}
	return payload
}

// RandomWorld returns n distinct screens with coordinates spread around zero.
func RandomWorld(seed uint64, n int, payloadSize int) map[screen.Coord][]byte {
	rng := rand.New(rand.NewPCG(seed, seed))
	world := make(map[screen.Coord][]byte, n)
	for len(world) < n {
		c := screen.Coord{X: rng.IntN(2001) - 1000, Y: rng.IntN(2001) - 1000}
		world[c] = Payload(c, payloadSize)
	}
	return world
}

// EncodeScreens lays out screens in the given order the way the level editor does.
func EncodeScreens(order []screen.Coord, payloads map[screen.Coord][]byte) []byte {
	var data []byte
	for _, c := range order {
		data = fmt.Appendf(data, "x%dy%d\x00", c.X, c.Y)
		data = binary.LittleEndian.AppendUint32(data, uint32(len(payloads[c])))
		data = append(data, payloads[c]...)
	}
	return data
}
