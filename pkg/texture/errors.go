package texture

import (
	"errors"
	"fmt"
)

var (
	ErrBadMagic                   = errors.New("bad magic")
	ErrUnsupportedFormat          = errors.New("unsupported format")
	ErrUnsupportedContainerFormat = errors.New("format not supported by container")
	ErrTruncatedFile              = errors.New("truncated file")
	ErrIO                         = errors.New("i/o error")
	ErrSizeMismatch               = errors.New("size mismatch")
	ErrLevelCountMismatch         = errors.New("level count mismatch")
	ErrConversionFailed           = errors.New("conversion failed")
)

// MismatchError reports a value that disagreed with what was computed.
type MismatchError struct {
	Err      error // One of the sentinel errors above
	What     string
	Expected uint64
	Actual   uint64
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%v: %s: expected %d, got %d", e.Err, e.What, e.Expected, e.Actual)
}

func (e *MismatchError) Unwrap() error {
	return e.Err
}
