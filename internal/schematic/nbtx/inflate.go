package nbtx

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
)

// Inflate returns the gzip-decompressed contents of b when b starts with the
// gzip magic number, and b unchanged otherwise. Decompression failures also
// fall back to the raw buffer: a genuinely corrupt payload is left for the
// tag decode to reject.
func Inflate(b []byte) []byte {
	if len(b) < 2 || b[0] != 0x1F || b[1] != 0x8B {
		return b
	}
	zr, err := gzip.NewReader(bytes.NewReader(b))
	if err != nil {
		return b
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return b
	}
	return out
}
