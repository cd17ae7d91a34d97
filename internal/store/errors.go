package store

import (
	"errors"
	"fmt"
	"strings"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Sentinels for errors.Is matching. Every typed error below reports Is() == true
// for its sentinel, so callers can branch on the kind without type assertions.
var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicateName = errors.New("duplicate name")
	ErrInvalidMove   = errors.New("invalid move")
	ErrPersistence   = errors.New("persistence failure")
)

type NotFoundError struct {
	Kind string
	ID   int64
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %d", e.Kind, e.ID)
}

func (e NotFoundError) Is(target error) bool { return target == ErrNotFound }

type DuplicateNameError struct {
	Kind string
	Name string
}

func (e DuplicateNameError) Error() string {
	return fmt.Sprintf("%s already exists: %q", e.Kind, e.Name)
}

func (e DuplicateNameError) Is(target error) bool { return target == ErrDuplicateName }

type InvalidMoveError struct {
	Kind   string
	ID     int64
	Reason string
}

func (e InvalidMoveError) Error() string {
	return fmt.Sprintf("cannot move %s %d: %s", e.Kind, e.ID, e.Reason)
}

func (e InvalidMoveError) Is(target error) bool { return target == ErrInvalidMove }

// PersistenceError wraps a failure reported by the underlying database.
type PersistenceError struct {
	Op  string
	Err error
}

func (e PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e PersistenceError) Unwrap() error { return e.Err }

func (e PersistenceError) Is(target error) bool { return target == ErrPersistence }

// classify converts raw driver errors into PersistenceError while passing
// domain errors through untouched.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var nf NotFoundError
	var dn DuplicateNameError
	var im InvalidMoveError
	var pe PersistenceError
	switch {
	case errors.As(err, &nf), errors.As(err, &dn), errors.As(err, &im), errors.As(err, &pe):
		return err
	}
	return PersistenceError{Op: op, Err: err}
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	if se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "UNIQUE")
}
