package ioutil

// Reflected CRC-32 polynomial used by ZIP (and PNG, and Ethernet).
const crcPoly = 0xEDB88320

var crcTable = makeCRCTable()

func makeCRCTable() [256]uint32 {
	var t [256]uint32
	for i := range t {
		c := uint32(i)
		for k := 0; k < 8; k++ {
			if c&1 == 1 {
				c = crcPoly ^ (c >> 1)
			} else {
				c >>= 1
			}
		}
		t[i] = c
	}
	return t
}

// CRC32 accumulates a running CRC-32 over any number of Write calls.
// The zero value is ready for use. The field holds the finalized (already
// complemented) value, so Sum32 is valid at any point mid-stream.
type CRC32 struct {
	crc uint32
}

func (c *CRC32) Reset() {
	c.crc = 0
}

// Write folds p into the accumulator. It never fails; the error return
// satisfies io.Writer.
func (c *CRC32) Write(p []byte) (int, error) {
	crc := ^c.crc
	for _, b := range p {
		crc = crcTable[byte(crc)^b] ^ (crc >> 8)
	}
	c.crc = ^crc
	return len(p), nil
}

func (c *CRC32) Sum32() uint32 {
	return c.crc
}

// Checksum is the one-shot form.
func Checksum(p []byte) uint32 {
	var c CRC32
	c.Write(p)
	return c.Sum32()
}
