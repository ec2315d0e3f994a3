package writer

import (
	"time"

	"github.com/hlystovov/zip-archiver/zip/format"
)

// Entry is the finalized metadata for one archived file. CRC32 and the two
// sizes are zero until the entry's payload has been fully written; once the
// entry is recorded it is never mutated again. A future reader can share
// this model.
type Entry struct {
	Name             string
	Method           format.Method
	Flags            uint16
	HeaderOffset     uint32
	CRC32            uint32
	CompressedSize   uint32
	UncompressedSize uint32
	Modified         time.Time
}
