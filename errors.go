package romfs

import (
	"errors"
	"fmt"
)

// Sentinel errors for the [FormatError] kinds. Match with errors.Is.
var (
	ErrBadMagic       = errors.New("not a romfs image")
	ErrTruncated      = errors.New("truncated romfs image")
	ErrInvalidUTF8    = errors.New("name is not valid utf-8")
	ErrLoop           = errors.New("entry chain loops")
	ErrTooManyEntries = errors.New("too many entries")
)

// FormatError reports an image that cannot be decoded. Kind is one of the
// sentinel errors above and Offset is the byte offset where decoding failed.
type FormatError struct {
	Kind   error
	Offset uint32
	Err    error // optional underlying cause
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("romfs: %s at offset 0x%x", e.Kind, e.Offset)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is matches the error's Kind so callers can test errors.Is(err, ErrTruncated)
func (e *FormatError) Is(target error) bool {
	return e.Kind == target
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func formatErr(kind error, off uint32, format string, args ...any) *FormatError {
	e := &FormatError{Kind: kind, Offset: off}
	if format != "" {
		e.Err = fmt.Errorf(format, args...)
	}
	return e
}
