package meps

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFileLines() []string {
	// 15.00 + 7.25 + 100.10 = 122.35; fees 0.75 + 0.50 + 1.25 = 2.50.
	return []string{
		testHeaderLine,
		detailLineV1("00000001", 1500, 75),
		detailLineV2("00000002", 725, 50),
		detailLineV1("00000003", 10010, 125),
		trailerLine(3, 12235, 250, 47),
	}
}

func TestParseValidFile(t *testing.T) {
	cf, err := Parse(validFileLines())
	require.NoError(t, err)

	require.Len(t, cf.Details, 3)
	assert.Equal(t, cf.Trailer.TotReg, len(cf.Details))
	assert.Equal(t, "MEPS0000123", cf.Header.IDFich)

	sum := decimal.Zero
	fees := decimal.Zero
	for _, d := range cf.Details {
		sum = sum.Add(d.MontPgPS)
		fees = fees.Add(d.TarifaPS)
	}
	assert.True(t, sum.Equal(cf.Trailer.MontranPS), "amounts: %s vs %s", sum, cf.Trailer.MontranPS)
	assert.True(t, fees.Equal(cf.Trailer.TotTarPS), "fees: %s vs %s", fees, cf.Trailer.TotTarPS)

	// Order is meaningful and must be preserved.
	assert.Equal(t, "00000001", cf.Details[0].NrLog)
	assert.Equal(t, "00000002", cf.Details[1].NrLog)
	assert.Equal(t, "00000003", cf.Details[2].NrLog)
	assert.Equal(t, 2, cf.Details[1].Version)
}

func TestParseSingleDetailExample(t *testing.T) {
	lines := []string{
		testHeaderLine,
		detailLineV1("00000001", 1500, 75),
		trailerLine(1, 1500, 75, 17),
	}

	cf, err := Parse(lines)
	require.NoError(t, err)
	require.Len(t, cf.Details, 1)
	assert.True(t, cf.Details[0].MontPgPS.Equal(decimal.RequireFromString("15.00")))
}

func TestParseZeroDetailFile(t *testing.T) {
	lines := []string{
		testHeaderLine,
		trailerLine(0, 0, 0, 0),
	}

	cf, err := Parse(lines)
	require.NoError(t, err)
	assert.Empty(t, cf.Details)
	assert.Equal(t, 0, cf.Trailer.TotReg)
	assert.True(t, cf.Trailer.MontranPS.IsZero())
}

func TestParseIsIdempotent(t *testing.T) {
	first, err := Parse(validFileLines())
	require.NoError(t, err)
	second, err := Parse(validFileLines())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParseStructuralErrors(t *testing.T) {
	valid := validFileLines()

	t.Run("empty file", func(t *testing.T) {
		_, err := Parse(nil)
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("first line not header", func(t *testing.T) {
		_, err := Parse(valid[1:])
		assert.ErrorIs(t, err, ErrMissingHeader)
	})

	t.Run("single line", func(t *testing.T) {
		_, err := Parse(valid[:1])
		assert.ErrorIs(t, err, ErrMissingTrailer)
	})

	t.Run("trailer deleted", func(t *testing.T) {
		_, err := Parse(valid[:len(valid)-1])
		assert.ErrorIs(t, err, ErrMissingTrailer)
	})

	t.Run("header between details", func(t *testing.T) {
		lines := []string{valid[0], valid[1], testHeaderLine, valid[3], valid[4]}
		_, err := Parse(lines)

		var tagErr *UnexpectedRecordTypeError
		require.ErrorAs(t, err, &tagErr)
		assert.Equal(t, 3, tagErr.Line)
		assert.Equal(t, "0", tagErr.Found)
	})
}

func TestParseTruncatedDetailNamesFieldAndLine(t *testing.T) {
	lines := validFileLines()
	lines[2] = lines[2][:60]

	_, err := Parse(lines)
	var fieldErr *FieldDecodeError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, 3, fieldErr.Line)
	assert.NotEmpty(t, fieldErr.Field)
}

func TestParseAmountMismatch(t *testing.T) {
	lines := validFileLines()
	// One digit changed in montranps: 122.35 -> 122.45.
	lines[len(lines)-1] = trailerLine(3, 12245, 250, 47)

	_, err := Parse(lines)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	require.Len(t, valErr.Mismatches, 1)

	var amountErr *AmountMismatchError
	require.ErrorAs(t, valErr.Mismatches[0], &amountErr)
	assert.Equal(t, "122.45", amountErr.Expected.String())
	assert.Equal(t, "122.35", amountErr.Actual.String())
}

func TestParseExtraDetailCountMismatch(t *testing.T) {
	lines := validFileLines()
	extra := detailLineV1("00000099", 500, 25)
	lines = append(lines[:4:4], extra, lines[4])

	_, err := Parse(lines)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	// The uncounted line also skews both sums, so all three checks fail.
	assert.Len(t, valErr.Mismatches, 3)

	var countErr *RecordCountMismatchError
	require.ErrorAs(t, err, &countErr)
	assert.Equal(t, 3, countErr.Expected)
	assert.Equal(t, 4, countErr.Actual)
}

func TestSplitLines(t *testing.T) {
	data := []byte("line-one\r\nline-two\n\nline-three\n")

	assert.Equal(t, []string{"line-one", "line-two", "line-three"}, SplitLines(data))
	assert.Nil(t, SplitLines([]byte("\n\r\n")))
}
