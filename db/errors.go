// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"errors"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrDuplicateAction = errors.New("action with this name and version already exists")
	ErrDuplicatePledge = errors.New("user has already pledged this action")
	ErrDuplicateUser   = errors.New("username already taken")

	ErrActionNotFound       = errors.New("action not found")
	ErrPledgeNotFound       = errors.New("pledge not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrAnswerRecordNotFound = errors.New("answer record not found")
	ErrAnswerKindMismatch   = errors.New("answer record kind does not match action")
)

// IsUniqueViolation reports whether err comes from a UNIQUE constraint,
// for either supported driver.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Name() == "unique_violation"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}

	return false
}
