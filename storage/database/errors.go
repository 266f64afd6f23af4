package database

import (
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/kjboard/board/core"
)

// pq error codes
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// IsConstraintViolation reports whether err is a constraint violation from either engine.
func IsConstraintViolation(err error) bool {
	switch e := errors.Cause(err).(type) {
	case *sqlite.Error:
		switch e.Code() {
		case sqlite3.SQLITE_CONSTRAINT, sqlite3.SQLITE_CONSTRAINT_UNIQUE,
			sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return true
		}
	case *pq.Error:
		switch e.Code {
		case pqUniqueViolation, pqForeignKeyViolation:
			return true
		}
	}
	return false
}

// Classify maps driver errors onto the core taxonomy; anything else is wrapped with msg.
func Classify(err error, msg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Cause(err) == sql.ErrNoRows:
		return core.ErrNotFound
	case IsConstraintViolation(err):
		return errors.Wrap(core.ErrConstraintViolation, msg)
	}
	return errors.Wrap(err, msg)
}
