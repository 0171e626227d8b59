package spec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// Compress gzips a raw container, producing the on-disk Map.bin form.
func Compress(data []byte) ([]byte, error) {
	var buffer bytes.Buffer
	writer, _ := gzip.NewWriterLevel(&buffer, gzip.BestCompression)

	_, err := writer.Write(data)
	if err != nil {
		return nil, fmt.Errorf("failed to compress: %w", err)
	}

	err = writer.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to compress: %w", err)
	}

	return buffer.Bytes(), nil
}

func Decompress(data []byte) ([]byte, error) {
	var buffer bytes.Buffer
	if _, err := DecompressStream(&buffer, bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// DecompressStream copies the decompressed content of src into dst.
func DecompressStream(dst io.Writer, src io.Reader) (int64, error) {
	reader, err := gzip.NewReader(src)
	if err != nil {
		return 0, fmt.Errorf("failed to decompress: %w", err)
	}
	defer reader.Close()

	n, err := io.Copy(dst, reader)
	if err != nil {
		return n, fmt.Errorf("failed to decompress: %w", err)
	}

	return n, nil
}
