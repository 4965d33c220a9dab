// Package repository holds the SQL data access for users, teachers and
// sessions.  Queries use `?` placeholders so the same statements run on
// MySQL and SQLite.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrTeacherNotFound = errors.New("teacher not found")
	ErrSessionNotFound = errors.New("session not found")

	// ErrEmailExists is returned when a user insert hits the unique email
	// constraint.
	ErrEmailExists = errors.New("email already exists")
)

// isUniqueViolation recognises duplicate key errors from both drivers.
func isUniqueViolation(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
