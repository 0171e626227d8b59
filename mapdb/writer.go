package mapdb

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/scalrx/go-mapbin/mapbin/spec"
	"github.com/scalrx/go-mapbin/screen"
)

var (
	ErrPayloadSize = errors.New("mapdb: unexpected payload size")
	ErrFinalized   = errors.New("mapdb: writer already finalized")
)

const schema = `
	CREATE TABLE metadata (
		name  TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	CREATE TABLE screens (
		x       INTEGER NOT NULL,
		y       INTEGER NOT NULL,
		payload BLOB NOT NULL,
		PRIMARY KEY (x, y)
	) WITHOUT ROWID;
`

// Writer implements screen.Writer for a map database.
//
// All screens are written in a single transaction committed by Finalize.
// Writing a coordinate again replaces its payload, matching the container
// index where the last screen with a given coordinate wins.
type Writer struct {
	db      *sql.DB
	tx      *sql.Tx
	stmt    *sql.Stmt
	config  writerConfig
	written int
}

type writerConfig struct {
	Metadata    map[string]string
	PayloadSize int
	Logger      *slog.Logger
}

type WriterOption func(*writerConfig)

// WithMetadata stores free-form world properties (name, author, ...).
// The payload_size key is reserved and always written by the Writer.
func WithMetadata(metadata map[string]string) WriterOption {
	return func(c *writerConfig) { c.Metadata = metadata }
}

// WithPayloadSize sets the screen payload size of the stored world.
func WithPayloadSize(size int) WriterOption {
	return func(c *writerConfig) { c.PayloadSize = size }
}

func WithLogger(logger *slog.Logger) WriterOption {
	return func(c *writerConfig) { c.Logger = logger }
}

// NewWriter creates a new database file and opens the write transaction.
//
// The returned Writer must be closed after use; closing without Finalize
// discards every written screen.
func NewWriter(filePath string, opts ...WriterOption) (*Writer, error) {
	config := writerConfig{
		PayloadSize: spec.PayloadSize,
		Logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}
	if config.PayloadSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrPayloadSize, config.PayloadSize)
	}

	var err error
	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	if _, err = db.Exec(schema); err != nil {
		return nil, err
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for name, value := range config.Metadata {
		if name == payloadSizeKey {
			continue
		}
		if _, err = tx.Exec("INSERT INTO metadata (name, value) VALUES (?, ?)", name, value); err != nil {
			return nil, err
		}
	}
	_, err = tx.Exec("INSERT INTO metadata (name, value) VALUES (?, ?)", payloadSizeKey, strconv.Itoa(config.PayloadSize))
	if err != nil {
		return nil, err
	}

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO screens (x, y, payload) VALUES (?, ?, ?)")
	if err != nil {
		return nil, err
	}

	return &Writer{db: db, tx: tx, stmt: stmt, config: config}, nil
}

func (w *Writer) Close() error {
	var errs []error
	if w.tx != nil {
		errs = append(errs, w.stmt.Close(), w.tx.Rollback())
		w.tx = nil
	}
	return errors.Join(append(errs, w.db.Close())...)
}

// WriteScreen stores a screen payload, replacing any earlier payload of the same coordinate.
func (w *Writer) WriteScreen(coord screen.Coord, payload []byte) error {
	if w.tx == nil {
		return ErrFinalized
	}
	if len(payload) != w.config.PayloadSize {
		return fmt.Errorf("%w: screen %v has %d bytes, want %d", ErrPayloadSize, coord, len(payload), w.config.PayloadSize)
	}
	if _, err := w.stmt.Exec(coord.X, coord.Y, payload); err != nil {
		return fmt.Errorf("mapdb: write screen %v: %w", coord, err)
	}
	w.written++
	return nil
}

// Finalize commits the written screens.
func (w *Writer) Finalize() error {
	if w.tx == nil {
		return ErrFinalized
	}
	tx := w.tx
	w.tx = nil

	if err := w.stmt.Close(); err != nil {
		tx.Rollback()
		return err
	}
	w.config.Logger.Debug("mapdb: commit", "writes", w.written)
	return tx.Commit()
}
