package meps

import (
	"errors"
	"fmt"
)

// Structural errors. Any of these aborts the parse; the format has no
// skip-and-continue semantics.
var (
	ErrEmptyFile      = errors.New("meps: empty file")
	ErrMissingHeader  = errors.New("meps: missing header record")
	ErrMissingTrailer = errors.New("meps: missing trailer record")
)

// UnexpectedRecordTypeError reports a line whose leading tag does not match
// the record type required at its position.
type UnexpectedRecordTypeError struct {
	Expected string
	Found    string
	Line     int
}

func (e *UnexpectedRecordTypeError) Error() string {
	return fmt.Sprintf("meps: line %d: unexpected record type %q, want %q", e.Line, e.Found, e.Expected)
}

// annotateLine stamps the 1-based line number onto decode errors raised by
// the stateless per-record decoders.
func annotateLine(err error, line int) error {
	var fieldErr *FieldDecodeError
	if errors.As(err, &fieldErr) {
		fieldErr.Line = line
	}
	var tagErr *UnexpectedRecordTypeError
	if errors.As(err, &tagErr) {
		tagErr.Line = line
	}
	return err
}
