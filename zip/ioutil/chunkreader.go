package ioutil

import (
	"bufio"
	"io"
)

// ChunkReader reads a stream in fixed-size chunks.
type ChunkReader struct {
	reader *bufio.Reader
	buf    []byte
}

func NewChunkReader(r io.Reader, chunkSize int) *ChunkReader {
	return &ChunkReader{
		reader: bufio.NewReaderSize(r, chunkSize),
		buf:    make([]byte, chunkSize),
	}
}

// ReadChunk returns the next chunk of input. The returned slice is reused by
// the next call. The final chunk, possibly short, is returned together with
// io.EOF; a nil chunk with io.EOF means the stream was already exhausted.
func (cr *ChunkReader) ReadChunk() ([]byte, error) {
	n, err := io.ReadFull(cr.reader, cr.buf)
	if err == io.ErrUnexpectedEOF {
		return cr.buf[:n], io.EOF
	}
	if err != nil {
		return nil, err
	}

	// Peek ahead so a stream whose length is an exact multiple of the
	// chunk size reports io.EOF together with its last chunk.
	if _, err = cr.reader.Peek(1); err == io.EOF {
		return cr.buf, io.EOF
	}
	return cr.buf, nil
}
