package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/scalrx/go-mapbin/mapbin"
	"github.com/scalrx/go-mapbin/mapdb"
	"github.com/scalrx/go-mapbin/screen"
	"github.com/scalrx/go-mapbin/screendir"
)

const (
	formatRaw        = "raw"
	formatCompressed = "gz"
	formatSqlite     = "sqlite"
	formatDir        = "dir"
)

func deduceFormat(format, filePath string) string {
	if format != "" {
		return format
	}
	switch {
	case strings.Contains(filePath, "{x}"):
		return formatDir
	case strings.HasSuffix(filePath, ".raw"):
		return formatRaw
	case strings.HasSuffix(filePath, ".sqlite"), strings.HasSuffix(filePath, ".db"):
		return formatSqlite
	case filepath.Base(filePath) == "Map.bin", strings.HasSuffix(filePath, ".gz"):
		return formatCompressed
	}
	return format
}

// expandPath resolves a leading "~" in command line paths.
func expandPath(filePath string) (string, error) {
	expanded, err := homedir.Expand(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to expand %q: %w", filePath, err)
	}
	return expanded, nil
}

func openReader(format, filePath string, lenient bool) (screen.Visitor, error) {
	var indexOptions []mapbin.IndexOption
	if lenient {
		indexOptions = append(indexOptions, mapbin.WithLenientHeaders())
	}
	indexOptions = append(indexOptions, mapbin.WithIndexLogger(slog.Default()))

	switch deduceFormat(format, filePath) {
	case formatRaw:
		return mapbin.NewFileReader(filePath, indexOptions...)
	case formatCompressed:
		return mapbin.NewCompressedReader(filePath, indexOptions...)
	case formatSqlite:
		return mapdb.NewReader(filePath)
	case formatDir:
		return screendir.NewReader(filePath)
	}
	return nil, fmt.Errorf("invalid input format: %q", format)
}

func openWriter(format, filePath string, clustered bool) (screen.Writer, error) {
	var options []mapbin.WriterOption
	if clustered {
		options = append(options, mapbin.WithClustered())
	}
	options = append(options, mapbin.WithLogger(slog.Default()))

	switch deduceFormat(format, filePath) {
	case formatRaw:
		return mapbin.NewWriter(filePath, options...)
	case formatCompressed:
		return mapbin.NewWriter(filePath, append(options, mapbin.WithCompression())...)
	case formatSqlite:
		return mapdb.NewWriter(filePath, mapdb.WithLogger(slog.Default()))
	case formatDir:
		return screendir.NewWriter(filePath)
	}
	return nil, fmt.Errorf("invalid output format: %q", format)
}
