package postgres

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "1000.00", "-20.5", "0.01", "123456789.99"} {
		t.Run(s, func(t *testing.T) {
			d := decimal.RequireFromString(s)
			got := numericToDecimal(decimalToNumeric(d))
			assert.True(t, d.Equal(got), "want %s got %s", d, got)
		})
	}
}

func TestNullableNumeric(t *testing.T) {
	assert.Nil(t, numericToDecimalPtr(pgtype.Numeric{}))
	assert.False(t, decimalPtrToNumeric(nil).Valid)
	assert.True(t, numericToDecimal(pgtype.Numeric{}).IsZero())

	limit := decimal.NewFromInt(1000)
	got := numericToDecimalPtr(decimalPtrToNumeric(&limit))
	if assert.NotNil(t, got) {
		assert.True(t, limit.Equal(*got))
	}
}

func TestPgDateToTimeDropsClock(t *testing.T) {
	in := time.Date(2024, 4, 15, 23, 30, 0, 0, time.FixedZone("X", 3600))
	out := pgDateToTime(timeToPgDate(in))

	assert.Equal(t, time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC), out)
	assert.True(t, pgDateToTime(pgtype.Date{}).IsZero())
}

func TestConstraintViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: "k"})

	assert.True(t, constraintViolation(err, pgErrUniqueViolation, "k"))
	assert.True(t, constraintViolation(err, pgErrUniqueViolation, ""))
	assert.False(t, constraintViolation(err, pgErrUniqueViolation, "other"))
	assert.False(t, constraintViolation(err, pgErrForeignKeyViolation, ""))
	assert.False(t, constraintViolation(errors.New("plain"), pgErrUniqueViolation, ""))
	assert.False(t, constraintViolation(nil, pgErrUniqueViolation, ""))
}
