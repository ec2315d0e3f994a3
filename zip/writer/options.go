package writer

import "github.com/hlystovov/zip-archiver/zip/ioutil"

// Option customizes a Writer at construction.
type Option func(*Writer)

// WithCompressor injects the DEFLATE provider.
func WithCompressor(c ioutil.Compressor) Option {
	return func(w *Writer) {
		w.compressor = c
	}
}

// WithTempStore injects the scratch-file store used by the two-pass
// large-file protocol.
func WithTempStore(s ioutil.TempStore) Option {
	return func(w *Writer) {
		w.tempStore = s
	}
}

// WithComment sets the archive comment written in the end-of-central-
// directory record.
func WithComment(comment string) Option {
	return func(w *Writer) {
		w.comment = comment
	}
}

// WithoutDescriptorSignature writes 12-byte data descriptors without the
// leading 0x08074b50 signature. Most readers accept either form; the signed
// form is the default.
func WithoutDescriptorSignature() Option {
	return func(w *Writer) {
		w.descriptorSignature = false
	}
}

// WithStreamChunkSize overrides the read chunk size used by AddFileStream.
func WithStreamChunkSize(n int) Option {
	return func(w *Writer) {
		if n > 0 {
			w.streamChunk = n
		}
	}
}
