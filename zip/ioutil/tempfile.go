package ioutil

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// TempFile is a transient scratch file. It exists only while the writer is
// sizing compressed output it cannot hold in memory.
type TempFile interface {
	io.Reader
	io.Writer
	io.Seeker

	// Remove closes the handle and deletes the backing file.
	Remove() error
}

// TempStore hands out scratch files.
type TempStore interface {
	Create(prefix string) (TempFile, error)
}

// OSTempStore creates scratch files with os.CreateTemp. The zero value uses
// the operating system default temp directory.
type OSTempStore struct {
	Dir string
}

func (s OSTempStore) Create(prefix string) (TempFile, error) {
	f, err := os.CreateTemp(s.Dir, prefix+"*")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temp file")
	}
	return &osTempFile{File: f}, nil
}

type osTempFile struct {
	*os.File
}

func (t *osTempFile) Remove() error {
	name := t.Name()
	cerr := t.Close()
	if err := os.Remove(name); err != nil {
		return errors.Wrapf(err, "failed to delete temp file %s", name)
	}
	return cerr
}
