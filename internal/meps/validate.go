package meps

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/shopspring/decimal"

	"github.com/clearport/mepsfeed/internal/domain"
)

// RecordCountMismatchError reports a trailer totreg that does not match the
// number of detail records actually present.
type RecordCountMismatchError struct {
	Expected int
	Actual   int
}

func (e *RecordCountMismatchError) Error() string {
	return fmt.Sprintf("meps: record count mismatch: trailer asserts %d, file has %d", e.Expected, e.Actual)
}

// AmountMismatchError reports a trailer montranps that does not equal the
// sum of detail payment amounts.
type AmountMismatchError struct {
	Expected decimal.Decimal
	Actual   decimal.Decimal
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("meps: amount mismatch: trailer asserts %s, details sum to %s", e.Expected, e.Actual)
}

// FeeMismatchError reports a trailer tottarps that does not equal the sum of
// detail fees.
type FeeMismatchError struct {
	Expected decimal.Decimal
	Actual   decimal.Decimal
}

func (e *FeeMismatchError) Error() string {
	return fmt.Sprintf("meps: fee mismatch: trailer asserts %s, details sum to %s", e.Expected, e.Actual)
}

// ValidationError aggregates every trailer assertion that failed. The file
// was structurally complete; only the producer's claimed totals are wrong.
type ValidationError struct {
	Mismatches []error
}

func (e *ValidationError) Error() string {
	agg := &multierror.Error{Errors: e.Mismatches}
	return agg.Error()
}

func (e *ValidationError) Unwrap() []error { return e.Mismatches }

// Validate cross-checks the accumulated detail count and sums against the
// trailer's asserted totals. Comparisons are exact on the fixed-point
// representation; the format defines monetary values to the cent, so there
// is no tolerance. All failed checks are reported together.
func Validate(counted int, amountSum, feeSum decimal.Decimal, trailer *domain.TrailerRecord) error {
	var mismatches []error

	if trailer.TotReg != counted {
		mismatches = append(mismatches, &RecordCountMismatchError{
			Expected: trailer.TotReg,
			Actual:   counted,
		})
	}
	if !trailer.MontranPS.Equal(amountSum) {
		mismatches = append(mismatches, &AmountMismatchError{
			Expected: trailer.MontranPS,
			Actual:   amountSum,
		})
	}
	if !trailer.TotTarPS.Equal(feeSum) {
		mismatches = append(mismatches, &FeeMismatchError{
			Expected: trailer.TotTarPS,
			Actual:   feeSum,
		})
	}

	if len(mismatches) == 0 {
		return nil
	}
	return &ValidationError{Mismatches: mismatches}
}
