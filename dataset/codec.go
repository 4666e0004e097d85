package dataset

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/zstd"
	"gonum.org/v1/gonum/mat"
)

// Archive format: a fixed 16-byte header followed by the row-major
// float64 payload, zstd-compressed.
const (
	// archiveMagic identifies feature archives (ASCII "GMF1").
	archiveMagic uint32 = 0x474D4631
	// archiveVersion is the current format version.
	archiveVersion uint16 = 1

	flagZstd uint16 = 1

	headerSize = 16
)

var (
	// ErrBadMagic is returned when a blob is not a feature archive.
	ErrBadMagic = errors.New("dataset: invalid archive magic")
	// ErrBadVersion is returned for an unsupported archive version.
	ErrBadVersion = errors.New("dataset: unsupported archive version")
	// ErrTruncated is returned when an archive ends before its payload.
	ErrTruncated = errors.New("dataset: truncated archive")
)

// Encode serializes x into the archive format.
func Encode(x *mat.Dense) ([]byte, error) {
	rows, cols := x.Dims()

	var buf bytes.Buffer
	hdr := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(hdr[0:], archiveMagic)
	binary.LittleEndian.PutUint16(hdr[4:], archiveVersion)
	binary.LittleEndian.PutUint16(hdr[6:], flagZstd)
	binary.LittleEndian.PutUint32(hdr[8:], uint32(rows))
	binary.LittleEndian.PutUint32(hdr[12:], uint32(cols))
	buf.Write(hdr)

	zw, err := zstd.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	rowBytes := make([]byte, cols*8)
	for i := 0; i < rows; i++ {
		raw := x.RawRowView(i)
		for j, v := range raw {
			binary.LittleEndian.PutUint64(rowBytes[j*8:], math.Float64bits(v))
		}
		if _, err := zw.Write(rowBytes); err != nil {
			_ = zw.Close()
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses an archive back into a dense matrix.
func Decode(data []byte) (*mat.Dense, error) {
	if len(data) < headerSize {
		return nil, ErrTruncated
	}
	if binary.LittleEndian.Uint32(data[0:]) != archiveMagic {
		return nil, ErrBadMagic
	}
	if v := binary.LittleEndian.Uint16(data[4:]); v != archiveVersion {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, v)
	}
	rows := int(binary.LittleEndian.Uint32(data[8:]))
	cols := int(binary.LittleEndian.Uint32(data[12:]))
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d payload", ErrTruncated, rows, cols)
	}

	zr, err := zstd.NewReader(bytes.NewReader(data[headerSize:]))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	raw := make([]byte, rows*cols*8)
	if _, err := io.ReadFull(zr, raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}

	vals := make([]float64, rows*cols)
	for i := range vals {
		vals[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
	}
	return mat.NewDense(rows, cols, vals), nil
}
