package meps

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearport/mepsfeed/internal/domain"
)

func cents(v int64) decimal.Decimal { return decimal.New(v, -2) }

func TestValidatePasses(t *testing.T) {
	trailer := &domain.TrailerRecord{
		TotReg:    2,
		MontranPS: cents(2225),
		TotTarPS:  cents(125),
	}

	assert.NoError(t, Validate(2, cents(2225), cents(125), trailer))
}

func TestValidateNoEpsilonTolerance(t *testing.T) {
	trailer := &domain.TrailerRecord{
		TotReg:    1,
		MontranPS: cents(1500),
		TotTarPS:  cents(75),
	}

	// A single cent off is a failure; the format defines totals to the cent.
	err := Validate(1, cents(1501), cents(75), trailer)
	var amountErr *AmountMismatchError
	require.ErrorAs(t, err, &amountErr)
	assert.Equal(t, "15", amountErr.Expected.String())
	assert.Equal(t, "15.01", amountErr.Actual.String())
}

func TestValidateCollectsAllMismatches(t *testing.T) {
	trailer := &domain.TrailerRecord{
		TotReg:    5,
		MontranPS: cents(1000),
		TotTarPS:  cents(100),
	}

	err := Validate(4, cents(999), cents(99), trailer)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	require.Len(t, valErr.Mismatches, 3)

	var countErr *RecordCountMismatchError
	var amountErr *AmountMismatchError
	var feeErr *FeeMismatchError
	assert.ErrorAs(t, err, &countErr)
	assert.ErrorAs(t, err, &amountErr)
	assert.ErrorAs(t, err, &feeErr)
}

func TestValidateScaleInsensitiveEquality(t *testing.T) {
	trailer := &domain.TrailerRecord{
		TotReg:    1,
		MontranPS: decimal.New(15, 0), // 15 vs 15.00
		TotTarPS:  decimal.Zero,
	}

	assert.NoError(t, Validate(1, cents(1500), decimal.Zero, trailer))
}
