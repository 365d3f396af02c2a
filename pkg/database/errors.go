package database

import (
	"github.com/lib/pq"
	"github.com/medflow/idscan-service/pkg/errors"
)

// PostgreSQL error codes the service reacts to.
const (
	codeUndefinedTable    = "42P01"
	codeInvalidSchemaName = "3F000"
	codeNotNullViolation  = "23502"
	codeCheckViolation    = "23514"
)

// MapPQError converts a PostgreSQL error to an AppError. Returns nil if err is not a
// *pq.Error or the code has no specific mapping.
func MapPQError(err error) *errors.AppError {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}

	switch pqErr.Code {
	case codeUndefinedTable, codeInvalidSchemaName:
		return errors.ServiceUnavailable("tenant storage is not provisioned")
	case codeNotNullViolation:
		col := pqErr.Column
		if col == "" {
			col = "required field"
		}
		return errors.Validation(map[string]string{col: "must not be empty"})
	case codeCheckViolation:
		return errors.BadRequest("data validation failed: " + pqErr.Constraint)
	default:
		return nil
	}
}
