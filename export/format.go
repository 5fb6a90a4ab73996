package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Format is an export format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
)

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatCSV, FormatJSON, FormatXML:
		return f, nil
	case "":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("export: unknown format %q", s)
	}
}

// Compression is an output compression.
type Compression string

const (
	CompressionNone   Compression = "none"
	CompressionZstd   Compression = "zstd"
	CompressionLZ4    Compression = "lz4"
	CompressionBrotli Compression = "brotli"
)

// ParseCompression parses a compression name. "br" and "zst" are accepted aliases.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return CompressionNone, nil
	case "zstd", "zst":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	case "brotli", "br":
		return CompressionBrotli, nil
	default:
		return "", fmt.Errorf("export: unknown compression %q", s)
	}
}

// Extension returns the file extension for a format and compression, e.g. ".json.zst".
func Extension(f Format, c Compression) string {
	ext := "." + string(f)
	switch c {
	case CompressionZstd:
		ext += ".zst"
	case CompressionLZ4:
		ext += ".lz4"
	case CompressionBrotli:
		ext += ".br"
	}
	return ext
}

// Write renders d in format f.
func Write(w io.Writer, d *Document, f Format) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, d)
	case FormatJSON:
		return WriteJSON(w, d)
	case FormatXML:
		return WriteXML(w, d)
	default:
		return fmt.Errorf("export: unknown format %q", f)
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// NewWriter wraps w with compression c. Close flushes the compressor but
// does not close w.
func NewWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case CompressionNone, "":
		return nopWriteCloser{w}, nil
	case CompressionZstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		return enc, nil
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	case CompressionBrotli:
		return brotli.NewWriterLevel(w, brotli.DefaultCompression), nil
	default:
		return nil, fmt.Errorf("export: unknown compression %q", c)
	}
}

// NewReader wraps r with decompression c.
func NewReader(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case CompressionNone, "":
		return io.NopCloser(r), nil
	case CompressionZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case CompressionBrotli:
		return io.NopCloser(brotli.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("export: unknown compression %q", c)
	}
}

// WriteCompressed renders d in format f through compression c.
func WriteCompressed(w io.Writer, d *Document, f Format, c Compression) error {
	cw, err := NewWriter(w, c)
	if err != nil {
		return err
	}
	if err := Write(cw, d, f); err != nil {
		_ = cw.Close()
		return err
	}
	return cw.Close()
}
