// Package mapdb stores world map screens in an SQLite database, for editors
// and tools that prefer random access by coordinate over the container format.
//
// The database holds a screens table keyed by (x, y) and a metadata table;
// the payload_size metadata entry records the screen payload size of the world.
//
// Note: User must properly initialize the sqlite3 library generic driver
// (e.g. import _ "github.com/mattn/go-sqlite3") before using this package.
package mapdb

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/scalrx/go-mapbin/screen"
)

const payloadSizeKey = "payload_size"

var ErrNoScreens = errors.New("mapdb: world has no screens")

// Reader implements screen.Reader and screen.Visitor for a map database.
type Reader struct {
	db   *sql.DB
	stmt *sql.Stmt
}

// NewReader opens the database at filePath read-only.
//
// The returned Reader must be closed after use to release database resources.
func NewReader(filePath string) (*Reader, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", filePath))
	if err != nil {
		return nil, err
	}

	stmt, err := db.Prepare("SELECT payload FROM screens WHERE x = ? AND y = ?")
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Reader{db: db, stmt: stmt}, nil
}

func (r *Reader) Close() error {
	return errors.Join(r.stmt.Close(), r.db.Close())
}

// ReadMetadata returns all metadata entries, payload_size included.
func (r *Reader) ReadMetadata() (map[string]string, error) {
	rows, err := r.db.Query("SELECT name, value FROM metadata")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metadata := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		metadata[name] = value
	}
	return metadata, rows.Err()
}

// PayloadSize returns the screen payload size recorded by the Writer.
func (r *Reader) PayloadSize() (int, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM metadata WHERE name = ?", payloadSizeKey).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("mapdb: read %s: %w", payloadSizeKey, err)
	}
	size, err := strconv.Atoi(value)
	if err != nil || size <= 0 {
		return 0, fmt.Errorf("mapdb: invalid %s %q", payloadSizeKey, value)
	}
	return size, nil
}

func (r *Reader) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM screens").Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Bounds returns the smallest rectangle holding every stored screen,
// or ErrNoScreens for an empty world.
func (r *Reader) Bounds() (screen.Bounds, error) {
	var minX, minY, maxX, maxY sql.NullInt64
	err := r.db.QueryRow("SELECT MIN(x), MIN(y), MAX(x), MAX(y) FROM screens").Scan(&minX, &minY, &maxX, &maxY)
	if err != nil {
		return screen.Bounds{}, err
	}
	if !minX.Valid {
		return screen.Bounds{}, ErrNoScreens
	}
	return screen.Bounds{
		Min: screen.Coord{X: int(minX.Int64), Y: int(minY.Int64)},
		Max: screen.Coord{X: int(maxX.Int64), Y: int(maxY.Int64)},
	}, nil
}

func (r *Reader) ReadScreen(coord screen.Coord) ([]byte, error) {
	var payload []byte
	if err := r.stmt.QueryRow(coord.X, coord.Y).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return make([]byte, 0), nil
		}
		return nil, err
	}
	return payload, nil
}

// VisitScreens visits screens row by row, x-major.
func (r *Reader) VisitScreens(visitor func(screen.Coord, []byte) error) error {
	rows, err := r.db.Query("SELECT x, y, payload FROM screens ORDER BY x, y")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var coord screen.Coord
		var payload []byte
		if err := rows.Scan(&coord.X, &coord.Y, &payload); err != nil {
			return err
		}
		if err := visitor(coord, payload); err != nil {
			return err
		}
	}
	return rows.Err()
}
