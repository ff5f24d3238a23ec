// Package meps parses and validates MEPS payment-clearing files: one header
// record, zero or more detail records, one trailer record, all fixed-width.
// The package is pure; it receives raw text lines and returns typed records
// or an error. It never touches the filesystem.
package meps

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind declares how a field's raw substring is coerced.
type Kind int

const (
	// Text trims surrounding whitespace, preserving internal spacing.
	Text Kind = iota
	// Integer parses unsigned base-10.
	Integer
	// FixedDecimal parses unsigned base-10 digits with Scale implied
	// fractional digits, e.g. "0000001500" at scale 2 is 15.00. The value
	// never passes through binary floating point.
	FixedDecimal
	// DateTime parses the file's yyyymmddhhmmss timestamp.
	DateTime
)

// timestampLayout is the wire format of the dthora field.
const timestampLayout = "20060102150405"

// FieldSpec locates and types one fixed-width field within a record line.
// Offsets are byte positions; the format is a single-byte character set.
type FieldSpec struct {
	Name   string
	Offset int
	Length int
	Kind   Kind
	Scale  int32
}

// FieldDecodeError reports a field whose raw substring could not be coerced
// to its declared kind. Line is 1-based and filled in by the assembler; it is
// zero when the decoder was called directly.
type FieldDecodeError struct {
	Field  string
	Offset int
	Length int
	Raw    string
	Line   int
	Err    error
}

func (e *FieldDecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: field %s [%d:%d]: %v (raw %q)",
			e.Line, e.Field, e.Offset, e.Offset+e.Length, e.Err, e.Raw)
	}
	return fmt.Sprintf("field %s [%d:%d]: %v (raw %q)",
		e.Field, e.Offset, e.Offset+e.Length, e.Err, e.Raw)
}

func (e *FieldDecodeError) Unwrap() error { return e.Err }

// slice extracts the raw substring for f. A line too short to cover the
// field's span is a hard failure, never silently padded.
func slice(line string, f FieldSpec) (string, error) {
	if len(line) < f.Offset+f.Length {
		return "", &FieldDecodeError{
			Field:  f.Name,
			Offset: f.Offset,
			Length: f.Length,
			Raw:    line[min(f.Offset, len(line)):],
			Err:    fmt.Errorf("line length %d, need %d", len(line), f.Offset+f.Length),
		}
	}
	return line[f.Offset : f.Offset+f.Length], nil
}

func decodeText(line string, f FieldSpec) (string, error) {
	raw, err := slice(line, f)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

func decodeInt(line string, f FieldSpec) (int, error) {
	raw, err := slice(line, f)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 63)
	if err != nil {
		return 0, &FieldDecodeError{Field: f.Name, Offset: f.Offset, Length: f.Length, Raw: raw, Err: err}
	}
	return int(v), nil
}

func decodeDecimal(line string, f FieldSpec) (decimal.Decimal, error) {
	raw, err := slice(line, f)
	if err != nil {
		return decimal.Zero, err
	}
	units, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || units < 0 {
		if err == nil {
			err = fmt.Errorf("negative value %d", units)
		}
		return decimal.Zero, &FieldDecodeError{Field: f.Name, Offset: f.Offset, Length: f.Length, Raw: raw, Err: err}
	}
	return decimal.New(units, -f.Scale), nil
}

func decodeTime(line string, f FieldSpec) (time.Time, error) {
	raw, err := slice(line, f)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(timestampLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, &FieldDecodeError{Field: f.Name, Offset: f.Offset, Length: f.Length, Raw: raw, Err: err}
	}
	return t, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
