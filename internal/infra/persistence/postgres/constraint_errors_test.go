package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestConstraintErrors_SQLState(t *testing.T) {
	wrapped := func(code string) error {
		return errors.Wrap(&pgconn.PgError{Code: code}, "insert product")
	}

	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"numeric overflow", wrapped(pgNumericOverflow), isNumericOverflow, true},
		{"check is not overflow", wrapped(pgCheckViolation), isNumericOverflow, false},
		{"plain error is not overflow", errors.New("boom"), isNumericOverflow, false},
		{"unique violation", wrapped(pgUniqueViolation), isUniqueConstraintViolation, true},
		{"foreign key violation", wrapped(pgForeignKeyViolation), isForeignKeyConstraintViolation, true},
		{"not null violation", wrapped(pgNotNullViolation), isNotNullConstraintViolation, true},
		{"invalid enum value", wrapped(pgInvalidTextRepr), isInvalidEnumValue, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check(tt.err))
		})
	}
}
