package ioutil

import (
	"bytes"
	"hash/crc32"
	"math/rand"
	"testing"
)

func TestChecksumVector(t *testing.T) {
	// The standard CRC-32 check value.
	if got := Checksum([]byte("123456789")); got != 0xCBF43926 {
		t.Errorf("expected 0xCBF43926, got %#x", got)
	}
}

func TestChecksumEmpty(t *testing.T) {
	if got := Checksum(nil); got != 0 {
		t.Errorf("expected 0 for empty input, got %#x", got)
	}
}

func TestCRCIncremental(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")

	var c CRC32
	for i := range data {
		c.Write(data[i : i+1])
	}
	if got, want := c.Sum32(), Checksum(data); got != want {
		t.Errorf("incremental gave %#x, one-shot gave %#x", got, want)
	}

	c.Reset()
	c.Write(data)
	if got, want := c.Sum32(), Checksum(data); got != want {
		t.Errorf("after reset gave %#x, want %#x", got, want)
	}
}

func TestChecksumMatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	data := make([]byte, 64*1024)
	rng.Read(data)

	if got, want := Checksum(data), crc32.ChecksumIEEE(data); got != want {
		t.Errorf("got %#x, reference %#x", got, want)
	}
}

func TestCRCWriter(t *testing.T) {
	var crc CRC32
	var sink bytes.Buffer

	w := NewCRCWriter(&sink, &crc)
	if _, err := w.Write([]byte("1234")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := w.Write([]byte("56789")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if got := sink.String(); got != "123456789" {
		t.Errorf("sink holds %q", got)
	}
	if got := w.Sum32(); got != 0xCBF43926 {
		t.Errorf("expected 0xCBF43926, got %#x", got)
	}
}
