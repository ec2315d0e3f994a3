package ioutil

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
)

// FileSource is a random-access byte source for the two-pass add protocols,
// which read their input more than once.
type FileSource interface {
	io.ReadSeeker
	io.Closer

	// Size reports the total number of bytes the source holds.
	Size() int64
}

type osFileSource struct {
	file *os.File
	size int64
}

// OpenFileSource opens path as a FileSource. The size is captured once at
// open time.
func OpenFileSource(path string) (FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "failed to stat %s", path)
	}
	return &osFileSource{file: f, size: stat.Size()}, nil
}

func (s *osFileSource) Read(p []byte) (int, error) {
	return s.file.Read(p)
}

func (s *osFileSource) Seek(offset int64, whence int) (int64, error) {
	return s.file.Seek(offset, whence)
}

func (s *osFileSource) Close() error {
	return s.file.Close()
}

func (s *osFileSource) Size() int64 {
	return s.size
}

type bytesSource struct {
	*bytes.Reader
}

// NewBytesSource wraps an in-memory buffer as a FileSource.
func NewBytesSource(b []byte) FileSource {
	return bytesSource{Reader: bytes.NewReader(b)}
}

func (bytesSource) Close() error { return nil }
