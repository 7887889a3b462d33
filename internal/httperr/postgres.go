package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation       = "23505"
	pgInsufficientPrivilege = "42501"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func IsUniqueViolation(err error) bool {
	return pgCode(err) == pgUniqueViolation
}

func IsInsufficientPrivilege(err error) bool {
	return pgCode(err) == pgInsufficientPrivilege
}

// FromPostgres tags access-rule failures as permission_denied and leaves every
// other error untouched.
func FromPostgres(err error) error {
	if err == nil {
		return nil
	}
	if IsInsufficientPrivilege(err) {
		return Wrap(CodePermissionDenied, err)
	}
	return err
}
