package format

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// ErrFieldOverflow is returned when a name, extra field or comment does not
// fit the 16-bit length field the record layout gives it.
var ErrFieldOverflow = errors.New("field exceeds 16-bit length limit")

// LocalFileHeader precedes each entry's payload in the archive.
//
// When an entry is streamed with a data descriptor, CRC32 and both sizes are
// written as zero here and the real values follow the payload.
type LocalFileHeader struct {
	Flags            uint16
	Method           Method
	ModTime          uint16
	ModDate          uint16
	CRC32            uint32
	CompressedSize   uint32
	UncompressedSize uint32
	Name             string
	Extra            []byte
}

func (h *LocalFileHeader) Encode() ([]byte, error) {
	if len(h.Name) > Uint16Max {
		return nil, errors.Wrapf(ErrFieldOverflow, "name is %d bytes", len(h.Name))
	}
	if len(h.Extra) > Uint16Max {
		return nil, errors.Wrapf(ErrFieldOverflow, "extra field is %d bytes", len(h.Extra))
	}

	buf := make([]byte, LocalFileHeaderLen+len(h.Name)+len(h.Extra))

	binary.LittleEndian.PutUint32(buf[0:4], SigLocalFileHeader)
	binary.LittleEndian.PutUint16(buf[4:6], VersionNeeded)
	binary.LittleEndian.PutUint16(buf[6:8], h.Flags)
	binary.LittleEndian.PutUint16(buf[8:10], uint16(h.Method))
	binary.LittleEndian.PutUint16(buf[10:12], h.ModTime)
	binary.LittleEndian.PutUint16(buf[12:14], h.ModDate)
	binary.LittleEndian.PutUint32(buf[14:18], h.CRC32)
	binary.LittleEndian.PutUint32(buf[18:22], h.CompressedSize)
	binary.LittleEndian.PutUint32(buf[22:26], h.UncompressedSize)
	binary.LittleEndian.PutUint16(buf[26:28], uint16(len(h.Name)))
	binary.LittleEndian.PutUint16(buf[28:30], uint16(len(h.Extra)))

	copy(buf[30:], h.Name)
	copy(buf[30+len(h.Name):], h.Extra)

	return buf, nil
}

// DataDescriptor trails a streamed entry's payload, carrying the CRC and
// sizes that were unknown at header time.
type DataDescriptor struct {
	CRC32            uint32
	CompressedSize   uint32
	UncompressedSize uint32
}

// Encode serializes the descriptor. The 0x08074b50 signature is de-facto
// standard and written unless withSignature is false.
func (d *DataDescriptor) Encode(withSignature bool) []byte {
	var buf []byte
	if withSignature {
		buf = make([]byte, DataDescriptorLen)
		binary.LittleEndian.PutUint32(buf[0:4], SigDataDescriptor)
	} else {
		buf = make([]byte, DataDescriptorLenRaw)
	}

	off := len(buf) - DataDescriptorLenRaw
	binary.LittleEndian.PutUint32(buf[off:off+4], d.CRC32)
	binary.LittleEndian.PutUint32(buf[off+4:off+8], d.CompressedSize)
	binary.LittleEndian.PutUint32(buf[off+8:off+12], d.UncompressedSize)

	return buf
}

// CentralDirectoryHeader is one entry's record in the central directory.
type CentralDirectoryHeader struct {
	Flags             uint16
	Method            Method
	ModTime           uint16
	ModDate           uint16
	CRC32             uint32
	CompressedSize    uint32
	UncompressedSize  uint32
	DiskNumber        uint16
	InternalAttrs     uint16
	ExternalAttrs     uint32
	LocalHeaderOffset uint32
	Name              string
	Extra             []byte
	Comment           string
}

func (h *CentralDirectoryHeader) Encode() ([]byte, error) {
	if len(h.Name) > Uint16Max {
		return nil, errors.Wrapf(ErrFieldOverflow, "name is %d bytes", len(h.Name))
	}
	if len(h.Extra) > Uint16Max {
		return nil, errors.Wrapf(ErrFieldOverflow, "extra field is %d bytes", len(h.Extra))
	}
	if len(h.Comment) > Uint16Max {
		return nil, errors.Wrapf(ErrFieldOverflow, "comment is %d bytes", len(h.Comment))
	}

	buf := make([]byte, CentralDirectoryLen+len(h.Name)+len(h.Extra)+len(h.Comment))

	binary.LittleEndian.PutUint32(buf[0:4], SigCentralDirectory)
	binary.LittleEndian.PutUint16(buf[4:6], VersionMadeBy)
	binary.LittleEndian.PutUint16(buf[6:8], VersionNeeded)
	binary.LittleEndian.PutUint16(buf[8:10], h.Flags)
	binary.LittleEndian.PutUint16(buf[10:12], uint16(h.Method))
	binary.LittleEndian.PutUint16(buf[12:14], h.ModTime)
	binary.LittleEndian.PutUint16(buf[14:16], h.ModDate)
	binary.LittleEndian.PutUint32(buf[16:20], h.CRC32)
	binary.LittleEndian.PutUint32(buf[20:24], h.CompressedSize)
	binary.LittleEndian.PutUint32(buf[24:28], h.UncompressedSize)
	binary.LittleEndian.PutUint16(buf[28:30], uint16(len(h.Name)))
	binary.LittleEndian.PutUint16(buf[30:32], uint16(len(h.Extra)))
	binary.LittleEndian.PutUint16(buf[32:34], uint16(len(h.Comment)))
	binary.LittleEndian.PutUint16(buf[34:36], h.DiskNumber)
	binary.LittleEndian.PutUint16(buf[36:38], h.InternalAttrs)
	binary.LittleEndian.PutUint32(buf[38:42], h.ExternalAttrs)
	binary.LittleEndian.PutUint32(buf[42:46], h.LocalHeaderOffset)

	off := CentralDirectoryLen
	off += copy(buf[off:], h.Name)
	off += copy(buf[off:], h.Extra)
	copy(buf[off:], h.Comment)

	return buf, nil
}

// EndOfCentralDirectory terminates the archive and locates the directory.
type EndOfCentralDirectory struct {
	EntriesOnDisk    uint16
	TotalEntries     uint16
	CentralDirSize   uint32
	CentralDirOffset uint32
	Comment          string
}

func (e *EndOfCentralDirectory) Encode() ([]byte, error) {
	if len(e.Comment) > Uint16Max {
		return nil, errors.Wrapf(ErrFieldOverflow, "comment is %d bytes", len(e.Comment))
	}

	buf := make([]byte, EndOfCentralDirLen+len(e.Comment))

	binary.LittleEndian.PutUint32(buf[0:4], SigEndOfCentralDir)
	binary.LittleEndian.PutUint16(buf[4:6], 0) // disk number
	binary.LittleEndian.PutUint16(buf[6:8], 0) // disk holding the central directory
	binary.LittleEndian.PutUint16(buf[8:10], e.EntriesOnDisk)
	binary.LittleEndian.PutUint16(buf[10:12], e.TotalEntries)
	binary.LittleEndian.PutUint32(buf[12:16], e.CentralDirSize)
	binary.LittleEndian.PutUint32(buf[16:20], e.CentralDirOffset)
	binary.LittleEndian.PutUint16(buf[20:22], uint16(len(e.Comment)))

	copy(buf[22:], e.Comment)

	return buf, nil
}
