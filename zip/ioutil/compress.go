package ioutil

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/pkg/errors"
)

// Compressor produces raw DEFLATE output with no zlib or gzip framing; the
// ZIP format embeds the compressed payload directly.
type Compressor interface {
	// Compress compresses a whole buffer in one shot.
	Compress(data []byte) ([]byte, error)

	// NewSession opens a streaming compression session writing to dst.
	// Input may arrive over many Write calls; the session carries its
	// state across all of them and flushes the stream on Close. Feeding
	// chunks to independent sessions instead produces concatenated
	// deflate streams that no reader can inflate as one.
	NewSession(dst io.Writer) (io.WriteCloser, error)
}

// FlateCompressor implements Compressor on klauspost's DEFLATE encoder.
// The zero value compresses at flate.NoCompression; use NewFlateCompressor
// or DefaultCompressor for something useful.
type FlateCompressor struct {
	Level int
}

func NewFlateCompressor(level int) *FlateCompressor {
	return &FlateCompressor{Level: level}
}

// DefaultCompressor compresses at flate.DefaultCompression.
func DefaultCompressor() Compressor {
	return &FlateCompressor{Level: flate.DefaultCompression}
}

func (c *FlateCompressor) Compress(data []byte) ([]byte, error) {
	buf := new(bytes.Buffer)

	fw, err := flate.NewWriter(buf, c.Level)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open deflate writer")
	}
	if _, err = fw.Write(data); err != nil {
		return nil, errors.Wrap(err, "failed to deflate buffer")
	}
	if err = fw.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to flush deflate stream")
	}

	return buf.Bytes(), nil
}

func (c *FlateCompressor) NewSession(dst io.Writer) (io.WriteCloser, error) {
	fw, err := flate.NewWriter(dst, c.Level)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open deflate session")
	}
	return fw, nil
}
