// Package repository defines the data access layer and the error values it
// shares with handlers.  Handlers are the only layer that translates these
// into HTTP responses.
package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrNotFound is returned when a row does not exist or belongs to another
// user.  The two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("not found")

// ErrDuplicateIdentity is returned when registering an email that is
// already taken.
var ErrDuplicateIdentity = errors.New("email already registered")

// ErrInvalidCredential is returned when a password does not match the
// stored hash.
var ErrInvalidCredential = errors.New("invalid credential")

// ErrInvalidField is returned when a profile setting outside the
// allow-list is patched.
var ErrInvalidField = errors.New("invalid field")

// ErrInvalidTransition is returned when an incident status change is not
// allowed, e.g. reopening an attended incident.
var ErrInvalidTransition = errors.New("invalid status transition")

const mysqlDuplicateEntry = 1062

// isDuplicateKey reports whether err is a unique-key violation on either
// supported database.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlDuplicateEntry
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT &&
			strings.Contains(se.Error(), "UNIQUE")
	}
	return false
}

// rowsAffected unwraps res.RowsAffected, labelling a driver failure with op
// so it is never mistaken for "no matching row".
func rowsAffected(res sql.Result, op string) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: rows affected: %w", op, err)
	}
	return n, nil
}
