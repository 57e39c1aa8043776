package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/lumenworks/sectioncms/internal/domain"
	"github.com/mattn/go-sqlite3"
)

const pqUniqueViolation = "23505"

// IsUniqueViolation reports whether err was raised by a UNIQUE or PRIMARY KEY
// constraint in either supported driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqUniqueViolation
	}
	return false
}

// MapError translates driver errors into the domain taxonomy. sql.ErrNoRows becomes
// a NotFoundError for resource/key, unique violations become a ConflictError on
// field, and anything else is wrapped with the resource name.
func MapError(err error, resource, field, key string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrConflict) ||
		errors.Is(err, domain.ErrInvalidState) || errors.Is(err, domain.ErrValidation) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Resource: resource, Key: key}
	}
	if IsUniqueViolation(err) {
		return &domain.ConflictError{Resource: resource, Field: field, Value: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
