package writer

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrFinished means an operation arrived after Finish.
	ErrFinished = errors.New("archive already finished")

	// ErrSizeOverflow means an entry, name, comment or offset does not
	// fit the 32-bit (or 16-bit) fields of the classic ZIP format.
	ErrSizeOverflow = errors.New("value exceeds ZIP32 limits")

	// ErrSourceRead means the file source could not deliver the
	// requested bytes.
	ErrSourceRead = errors.New("source read failed")

	// ErrSinkWrite means the downstream writer failed.
	ErrSinkWrite = errors.New("sink write failed")

	// ErrTempFile means the scratch file could not be created, written,
	// read back or deleted.
	ErrTempFile = errors.New("temp file failure")

	// ErrCompression means the compression provider reported an error.
	ErrCompression = errors.New("compression failed")
)

// Stage names the phase of an operation that failed.
type Stage string

const (
	StageCRC       Stage = "crc pass"
	StageCompress  Stage = "compression pass"
	StageHeader    Stage = "header write"
	StagePayload   Stage = "payload copy"
	StageDirectory Stage = "directory write"
)

// EntryError reports which stage of which entry failed. Kind is one of the
// Err sentinels above; Cause, when present, is the underlying failure. Both
// are visible to errors.Is and errors.As.
type EntryError struct {
	Entry string
	Stage Stage
	Kind  error
	Cause error
}

func (e *EntryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("entry %q: %s: %v: %v", e.Entry, e.Stage, e.Kind, e.Cause)
	}
	return fmt.Sprintf("entry %q: %s: %v", e.Entry, e.Stage, e.Kind)
}

func (e *EntryError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

func entryErr(name string, stage Stage, kind, cause error) error {
	return &EntryError{Entry: name, Stage: stage, Kind: kind, Cause: cause}
}
