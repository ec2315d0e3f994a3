package format

// Every ZIP record begins with a four byte signature; the low two bytes are
// always the marker "PK".
const (
	SigLocalFileHeader  uint32 = 0x04034b50
	SigDataDescriptor   uint32 = 0x08074b50
	SigCentralDirectory uint32 = 0x02014b50
	SigEndOfCentralDir  uint32 = 0x06054b50
)

// Compression methods. ZIP32 defines more, these are the two this writer emits.
type Method uint16

const (
	MethodStore   Method = 0
	MethodDeflate Method = 8
)

func (m Method) String() string {
	switch m {
	case MethodStore:
		return "store"
	case MethodDeflate:
		return "deflate"
	default:
		return "unknown"
	}
}

// General purpose bit flags.
const (
	// FlagDataDescriptor marks an entry whose CRC and sizes follow the
	// payload in a data descriptor record instead of the local header.
	FlagDataDescriptor uint16 = 1 << 3
)

// Version fields. 2.0 covers deflate and data descriptors, which is all the
// writer produces.
const (
	VersionNeeded uint16 = 20
	VersionMadeBy uint16 = 20
)

// Fixed record sizes, before variable-length name/extra/comment fields.
const (
	LocalFileHeaderLen   = 30
	DataDescriptorLen    = 16
	DataDescriptorLenRaw = 12 // without the leading signature
	CentralDirectoryLen  = 46
	EndOfCentralDirLen   = 22
)

// ZIP32 limits. Anything bigger needs ZIP64, which this writer does not emit.
const (
	Uint16Max = (1 << 16) - 1
	Uint32Max = (1 << 32) - 1
)
