package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound             = errors.New("record not found")
	ErrConstraintViolation  = errors.New("constraint violation")
	ErrConnectivity         = errors.New("storage unavailable")
	ErrTransientAssociation = errors.New("association references an unsaved record")
)

// Error is returned by every write and lookup that fails in the storage
// engine. It matches both its Kind and the driver error with errors.Is.
type Error struct {
	Op         string
	Table      string
	Kind       error
	Code       string
	Constraint string
	Column     string
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %s", e.Op, e.Table, e.Kind)
	if e.Constraint != "" {
		fmt.Fprintf(&b, " (%s)", e.Constraint)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %s", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// sqlStateError is satisfied by pgdriver.Error.
type sqlStateError interface {
	Field(k byte) string
}

// Classify maps a driver error onto the storage error kinds. SQLSTATE class
// 23 is a constraint violation; any other server error (including a
// malformed query) or transport error is a connectivity failure. Context
// cancellation is wrapped but keeps no kind.
func Classify(op, table string, err error) error {
	if err == nil {
		return nil
	}

	var se *Error
	if errors.As(err, &se) {
		return err
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s %s: %w", op, table, err)
	}

	e := &Error{Op: op, Table: table, Kind: ErrConnectivity, Err: err}

	var pgErr sqlStateError
	if errors.As(err, &pgErr) {
		e.Code = pgErr.Field('C')
		e.Constraint = pgErr.Field('n')
		e.Column = pgErr.Field('c')
		if strings.HasPrefix(e.Code, "23") {
			e.Kind = ErrConstraintViolation
		}
		return e
	}

	// Anything else comes from the connection itself: dial failures,
	// driver.ErrBadConn, io.EOF on a dropped socket.
	return e
}

func IsConstraintViolation(err error) bool {
	return errors.Is(err, ErrConstraintViolation)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
