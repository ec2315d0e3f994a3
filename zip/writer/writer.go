// Package writer builds PKZIP-compatible archives incrementally, without
// holding whole files in memory. Entries can be added three ways: from a
// buffer (AddFile), from a stream of unknown length with a trailing data
// descriptor (AddFileStream), or from a large random-access source via a
// two-pass protocol that learns the compressed size before the header is
// written (AddLargeFile).
package writer

import (
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/hlystovov/zip-archiver/zip/format"
	"github.com/hlystovov/zip-archiver/zip/ioutil"
)

const (
	// DefaultStreamChunkSize is the read granularity of AddFileStream.
	DefaultStreamChunkSize = 8 * 1024

	// LargeFileChunkSize is the read granularity of both AddLargeFile
	// passes.
	LargeFileChunkSize = 64 * 1024
)

// Writer emits one archive into a caller-supplied sink. It is not safe for
// concurrent use; parallel archive construction needs independent Writer
// instances.
type Writer struct {
	out      *countingWriter
	entries  []*Entry
	comment  string
	finished bool

	compressor          ioutil.Compressor
	tempStore           ioutil.TempStore
	descriptorSignature bool
	streamChunk         int
}

// NewWriter returns a Writer emitting into sink. The sink stays owned by
// the caller and is never closed here.
func NewWriter(sink io.Writer, opts ...Option) *Writer {
	w := &Writer{
		out:                 &countingWriter{w: sink},
		compressor:          ioutil.DefaultCompressor(),
		tempStore:           ioutil.OSTempStore{},
		descriptorSignature: true,
		streamChunk:         DefaultStreamChunkSize,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// countingWriter is the one place the running archive offset advances.
// Every byte that reaches the sink goes through it exactly once.
type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// Offset reports the number of bytes emitted so far. After Finish it equals
// the total archive length.
func (w *Writer) Offset() int64 {
	return w.out.n
}

// Entries returns a snapshot of the recorded entries in archive order.
// Finalized entries are never mutated, so callers get copies, not aliases
// into the writer's state.
func (w *Writer) Entries() []Entry {
	out := make([]Entry, len(w.entries))
	for i, e := range w.entries {
		out[i] = *e
	}
	return out
}

// AddFile adds an entry whose payload is fully in memory. The header is
// written with final CRC and sizes, so no data descriptor is needed.
func (w *Writer) AddFile(name string, data []byte, method format.Method, modTime time.Time) error {
	if w.finished {
		return entryErr(name, StageHeader, ErrFinished, nil)
	}

	crc := ioutil.Checksum(data)

	payload := data
	if method == format.MethodDeflate {
		var err error
		if payload, err = w.compressor.Compress(data); err != nil {
			return entryErr(name, StageCompress, ErrCompression, err)
		}
	}
	if int64(len(data)) > format.Uint32Max || int64(len(payload)) > format.Uint32Max {
		return entryErr(name, StageHeader, ErrSizeOverflow,
			errors.Errorf("%d bytes uncompressed, %d compressed", len(data), len(payload)))
	}

	e := &Entry{
		Name:             name,
		Method:           method,
		Modified:         modTime,
		CRC32:            crc,
		CompressedSize:   uint32(len(payload)),
		UncompressedSize: uint32(len(data)),
	}
	if err := w.writeLocalHeader(e); err != nil {
		return err
	}
	if _, err := w.out.Write(payload); err != nil {
		return entryErr(name, StagePayload, ErrSinkWrite, err)
	}

	w.entries = append(w.entries, e)
	return nil
}

// AddFileStream adds an entry read from r, whose length is unknown up
// front. The local header goes out immediately with zero CRC and sizes and
// the data-descriptor flag set; the real values trail the payload in a data
// descriptor. DEFLATE input runs through one continuous compression session
// across all chunks, so the payload is a single valid deflate stream.
func (w *Writer) AddFileStream(name string, r io.Reader, method format.Method, modTime time.Time) error {
	if w.finished {
		return entryErr(name, StageHeader, ErrFinished, nil)
	}

	e := &Entry{
		Name:     name,
		Method:   method,
		Flags:    format.FlagDataDescriptor,
		Modified: modTime,
	}
	if err := w.writeLocalHeader(e); err != nil {
		return err
	}

	payloadStart := w.out.n

	var dst io.Writer = w.out
	var session io.WriteCloser
	if method == format.MethodDeflate {
		var err error
		if session, err = w.compressor.NewSession(w.out); err != nil {
			return entryErr(name, StageCompress, ErrCompression, err)
		}
		dst = session
	}

	var crc ioutil.CRC32
	in := ioutil.NewCRCWriter(dst, &crc)

	var uncompressed int64
	chunks := ioutil.NewChunkReader(r, w.streamChunk)
	for {
		chunk, rerr := chunks.ReadChunk()
		if len(chunk) > 0 {
			n, werr := in.Write(chunk)
			uncompressed += int64(n)
			if werr != nil {
				return entryErr(name, StagePayload, ErrSinkWrite, werr)
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return entryErr(name, StagePayload, ErrSourceRead, rerr)
		}
	}
	if session != nil {
		if err := session.Close(); err != nil {
			return entryErr(name, StageCompress, ErrCompression, err)
		}
	}

	compressed := w.out.n - payloadStart
	if uncompressed > int64(format.Uint32Max) || compressed > int64(format.Uint32Max) {
		return entryErr(name, StagePayload, ErrSizeOverflow,
			errors.Errorf("%d bytes uncompressed, %d compressed", uncompressed, compressed))
	}
	e.CRC32 = crc.Sum32()
	e.UncompressedSize = uint32(uncompressed)
	e.CompressedSize = uint32(compressed)

	desc := format.DataDescriptor{
		CRC32:            e.CRC32,
		CompressedSize:   e.CompressedSize,
		UncompressedSize: e.UncompressedSize,
	}
	if _, err := w.out.Write(desc.Encode(w.descriptorSignature)); err != nil {
		return entryErr(name, StagePayload, ErrSinkWrite, err)
	}

	w.entries = append(w.entries, e)
	return nil
}

// AddLargeFile adds an entry from a random-access source whose size is
// known but may be too big to buffer. The source is read once to compute
// the CRC, then again to produce the payload. For DEFLATE the compressed
// output is sized through a scratch file first, and entries that do not
// shrink fall back to STORE.
func (w *Writer) AddLargeFile(name string, src ioutil.FileSource, method format.Method, modTime time.Time) error {
	if w.finished {
		return entryErr(name, StageHeader, ErrFinished, nil)
	}

	size := src.Size()
	if size > format.Uint32Max {
		return entryErr(name, StageCRC, ErrSizeOverflow,
			errors.Errorf("%d bytes exceeds the 4 GiB ZIP32 ceiling", size))
	}

	crc, err := w.checksumSource(name, src)
	if err != nil {
		return err
	}

	e := &Entry{
		Name:             name,
		Method:           method,
		Modified:         modTime,
		CRC32:            crc,
		UncompressedSize: uint32(size),
	}

	if method == format.MethodStore {
		e.CompressedSize = uint32(size)
		if err = w.writeLocalHeader(e); err != nil {
			return err
		}
		if err = w.copySource(name, src, w.out); err != nil {
			return err
		}
		w.entries = append(w.entries, e)
		return nil
	}

	return w.addLargeDeflate(e, src, size)
}

// addLargeDeflate learns the real compressed size by deflating into a
// scratch file, then writes the header and copies the winning payload. The
// scratch file is deleted on every exit path.
func (w *Writer) addLargeDeflate(e *Entry, src ioutil.FileSource, size int64) (err error) {
	tmp, err := w.tempStore.Create("zipar-")
	if err != nil {
		return entryErr(e.Name, StageCompress, ErrTempFile, err)
	}
	defer func() {
		if rerr := tmp.Remove(); rerr != nil && err == nil {
			err = entryErr(e.Name, StagePayload, ErrTempFile, rerr)
		}
	}()

	scratch := &countingWriter{w: tmp}
	session, err := w.compressor.NewSession(scratch)
	if err != nil {
		return entryErr(e.Name, StageCompress, ErrCompression, err)
	}
	if err = w.copySource(e.Name, src, session); err != nil {
		return err
	}
	if err = session.Close(); err != nil {
		return entryErr(e.Name, StageCompress, ErrCompression, err)
	}
	compressed := scratch.n

	if compressed >= size {
		// Compression did not shrink the entry; store the original
		// bytes instead.
		e.Method = format.MethodStore
		e.CompressedSize = uint32(size)
		if err = w.writeLocalHeader(e); err != nil {
			return err
		}
		if err = w.copySource(e.Name, src, w.out); err != nil {
			return err
		}
	} else {
		e.CompressedSize = uint32(compressed)
		if err = w.writeLocalHeader(e); err != nil {
			return err
		}
		if _, err = tmp.Seek(0, io.SeekStart); err != nil {
			return entryErr(e.Name, StagePayload, ErrTempFile, err)
		}
		if _, err = io.CopyN(w.out, tmp, compressed); err != nil {
			return entryErr(e.Name, StagePayload, ErrSinkWrite, err)
		}
	}

	w.entries = append(w.entries, e)
	return nil
}

// checksumSource is the CRC pass: one full read of the source in 64 KiB
// chunks, nothing buffered.
func (w *Writer) checksumSource(name string, src ioutil.FileSource) (uint32, error) {
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return 0, entryErr(name, StageCRC, ErrSourceRead, err)
	}

	var crc ioutil.CRC32
	chunks := ioutil.NewChunkReader(src, LargeFileChunkSize)
	for {
		chunk, err := chunks.ReadChunk()
		crc.Write(chunk)
		if err == io.EOF {
			return crc.Sum32(), nil
		}
		if err != nil {
			return 0, entryErr(name, StageCRC, ErrSourceRead, err)
		}
	}
}

// copySource rewinds the source and streams it into dst in 64 KiB chunks.
func (w *Writer) copySource(name string, src ioutil.FileSource, dst io.Writer) error {
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return entryErr(name, StagePayload, ErrSourceRead, err)
	}

	chunks := ioutil.NewChunkReader(src, LargeFileChunkSize)
	for {
		chunk, rerr := chunks.ReadChunk()
		if len(chunk) > 0 {
			if _, werr := dst.Write(chunk); werr != nil {
				return entryErr(name, StagePayload, ErrSinkWrite, werr)
			}
		}
		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			return entryErr(name, StagePayload, ErrSourceRead, rerr)
		}
	}
}

// writeLocalHeader captures the entry's header offset and emits the local
// file header with whatever CRC and sizes the entry currently holds.
func (w *Writer) writeLocalHeader(e *Entry) error {
	if w.out.n > format.Uint32Max {
		return entryErr(e.Name, StageHeader, ErrSizeOverflow,
			errors.Errorf("archive offset %d beyond ZIP32", w.out.n))
	}
	e.HeaderOffset = uint32(w.out.n)

	date, tod := format.TimeToDOS(e.Modified)
	hdr := format.LocalFileHeader{
		Flags:            e.Flags,
		Method:           e.Method,
		ModTime:          tod,
		ModDate:          date,
		CRC32:            e.CRC32,
		CompressedSize:   e.CompressedSize,
		UncompressedSize: e.UncompressedSize,
		Name:             e.Name,
	}
	buf, err := hdr.Encode()
	if err != nil {
		return entryErr(e.Name, StageHeader, ErrSizeOverflow, err)
	}
	if _, err = w.out.Write(buf); err != nil {
		return entryErr(e.Name, StageHeader, ErrSinkWrite, err)
	}
	return nil
}

// Finish writes the central directory and the end-of-central-directory
// record, then moves the writer to its finished state. No entries can be
// added afterwards.
func (w *Writer) Finish() error {
	if w.finished {
		return errors.Wrap(ErrFinished, "finish")
	}
	if len(w.entries) > format.Uint16Max {
		return errors.Wrapf(ErrSizeOverflow, "%d entries exceed the ZIP32 entry count", len(w.entries))
	}

	dirOffset := w.out.n
	if dirOffset > format.Uint32Max {
		return errors.Wrapf(ErrSizeOverflow, "central directory offset %d beyond ZIP32", dirOffset)
	}

	for _, e := range w.entries {
		date, tod := format.TimeToDOS(e.Modified)
		hdr := format.CentralDirectoryHeader{
			Flags:             e.Flags,
			Method:            e.Method,
			ModTime:           tod,
			ModDate:           date,
			CRC32:             e.CRC32,
			CompressedSize:    e.CompressedSize,
			UncompressedSize:  e.UncompressedSize,
			LocalHeaderOffset: e.HeaderOffset,
			Name:              e.Name,
		}
		buf, err := hdr.Encode()
		if err != nil {
			return entryErr(e.Name, StageDirectory, ErrSizeOverflow, err)
		}
		if _, err = w.out.Write(buf); err != nil {
			return entryErr(e.Name, StageDirectory, ErrSinkWrite, err)
		}
	}

	eocd := format.EndOfCentralDirectory{
		EntriesOnDisk:    uint16(len(w.entries)),
		TotalEntries:     uint16(len(w.entries)),
		CentralDirSize:   uint32(w.out.n - dirOffset),
		CentralDirOffset: uint32(dirOffset),
		Comment:          w.comment,
	}
	buf, err := eocd.Encode()
	if err != nil {
		return errors.Wrap(err, "failed to encode end of central directory")
	}
	if _, err = w.out.Write(buf); err != nil {
		return errors.Wrap(err, "failed to write end of central directory")
	}

	w.finished = true
	return nil
}
