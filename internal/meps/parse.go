package meps

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/clearport/mepsfeed/internal/domain"
)

// Parse assembles and validates a complete MEPS file from its raw lines in a
// single forward pass: line 1 must be the header, the last line the trailer,
// everything in between a detail record. Running count and monetary sums are
// accumulated in exact decimal arithmetic and checked against the trailer's
// assertions before the result is constructed. On any error the result is
// nil; no partially parsed file is ever returned.
func Parse(lines []string) (*domain.ClearingFile, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyFile
	}
	if recordTag(lines[0]) != domain.TagHeader {
		return nil, ErrMissingHeader
	}
	// A one-line file cannot hold both records.
	if len(lines) == 1 || recordTag(lines[len(lines)-1]) != domain.TagTrailer {
		return nil, ErrMissingTrailer
	}

	header, err := DecodeHeader(lines[0])
	if err != nil {
		return nil, annotateLine(err, 1)
	}
	trailer, err := DecodeTrailer(lines[len(lines)-1])
	if err != nil {
		return nil, annotateLine(err, len(lines))
	}

	details := make([]domain.DetailRecord, 0, len(lines)-2)
	amountSum := decimal.Zero
	feeSum := decimal.Zero

	for i := 1; i < len(lines)-1; i++ {
		d, err := DecodeDetail(lines[i])
		if err != nil {
			return nil, annotateLine(err, i+1)
		}
		amountSum = amountSum.Add(d.MontPgPS)
		feeSum = feeSum.Add(d.TarifaPS)
		details = append(details, *d)
	}

	if err := Validate(len(details), amountSum, feeSum, trailer); err != nil {
		return nil, err
	}

	return &domain.ClearingFile{
		Header:  *header,
		Details: details,
		Trailer: *trailer,
	}, nil
}

// SplitLines splits a raw file body into record lines, tolerating CRLF
// terminators and dropping blank lines (producers pad the final record with
// a trailing newline). The core parser itself stays strict: every element of
// the slice it receives must be a record.
func SplitLines(data []byte) []string {
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
