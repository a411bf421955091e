package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sanjaydhakar1990-design/schooltino-sub005/internal/core"
)

// Postgres SQLSTATE codes and classes the store distinguishes.
const (
	codeUniqueViolation = "23505"
	classIntegrity      = "23"
	classDataException  = "22"
)

// classify turns an insert failure into a row-level PersistenceError or an
// aborting SystemError. Only constraint and data errors are blamed on the
// row; everything else (connectivity, missing tables, shutdown) is systemic.
func classify(label string, err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return core.NewSystemError(err)
	}

	switch {
	case pgErr.Code == codeUniqueViolation:
		return core.NewPersistenceError(
			fmt.Sprintf("A %s with this name and mobile already exists", label), err)
	case strings.HasPrefix(pgErr.Code, classIntegrity):
		return core.NewPersistenceError(
			fmt.Sprintf("%s record violates a database constraint (%s)", label, constraintName(pgErr)), err)
	case strings.HasPrefix(pgErr.Code, classDataException):
		return core.NewPersistenceError("A value could not be stored: "+pgErr.Message, err)
	default:
		return core.NewSystemError(err)
	}
}

func constraintName(pgErr *pgconn.PgError) string {
	if pgErr.ConstraintName != "" {
		return pgErr.ConstraintName
	}
	return pgErr.Code
}
