package ioutil

import "io"

// CRCWriter folds every byte written through it into a CRC32 accumulator
// before forwarding to the destination writer.
type CRCWriter struct {
	writer io.Writer
	crc    *CRC32
}

func NewCRCWriter(dest io.Writer, crc *CRC32) *CRCWriter {
	return &CRCWriter{
		writer: dest,
		crc:    crc,
	}
}

func (w *CRCWriter) Write(p []byte) (int, error) {
	w.crc.Write(p)
	return w.writer.Write(p)
}

func (w *CRCWriter) Sum32() uint32 {
	return w.crc.Sum32()
}
