package storeerr

import (
	"errors"
	"fmt"
	"strings"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Kind classifies storage failures into stable categories.
type Kind string

const (
	// KindNotFound indicates a row that was expected to exist is missing.
	KindNotFound Kind = "NOT_FOUND"
	// KindNoFieldsToUpdate indicates an update was requested with an empty field set.
	KindNoFieldsToUpdate Kind = "NO_FIELDS_TO_UPDATE"
	// KindConstraintViolation indicates a uniqueness or check constraint failed.
	KindConstraintViolation Kind = "CONSTRAINT_VIOLATION"
	// KindSchema indicates schema creation, verification, or migration failed.
	KindSchema Kind = "SCHEMA_ERROR"
	// KindTransaction indicates a transaction could not begin, commit, or roll back.
	KindTransaction Kind = "TRANSACTION_ERROR"
	// KindStorage wraps any other unexpected engine failure.
	KindStorage Kind = "STORAGE_ERROR"
)

// Error is the base storage error carrying the logical operation and
// table it belongs to plus an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Op      string
	Table   string
	cause   error
}

// New creates a typed storage error without a cause.
func New(kind Kind, op, table, message string) *Error {
	return &Error{Kind: kind, Message: message, Op: op, Table: table}
}

// NotFound reports a missing row for the given operation.
func NotFound(op, table, id string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("no row with id %s", id),
		Op:      op,
		Table:   table,
	}
}

// NoFieldsToUpdate reports an update call with no defined fields. This is
// a caller error and is surfaced, never swallowed.
func NoFieldsToUpdate(op, table string) *Error {
	return &Error{
		Kind:    KindNoFieldsToUpdate,
		Message: "update requested with no fields set",
		Op:      op,
		Table:   table,
	}
}

// Schema reports a schema creation or verification failure.
func Schema(op, message string, cause error) *Error {
	return &Error{Kind: KindSchema, Message: message, Op: op, cause: cause}
}

// Transaction reports a transaction lifecycle failure. The transaction has
// already been rolled back by the time this is returned.
func Transaction(op string, cause error) *Error {
	return &Error{
		Kind:    KindTransaction,
		Message: "transaction failed",
		Op:      op,
		cause:   cause,
	}
}

// Wrap annotates an unexpected failure crossing a storage boundary with
// operation and table context exactly once: an already-typed error passes
// through unchanged so chains never double-wrap. Driver-level constraint
// failures are classified structurally from the sqlite result code rather
// than by message matching.
func Wrap(err error, op, table string) error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return err
	}
	kind := KindStorage
	if IsConstraintViolation(err) {
		kind = KindConstraintViolation
	}
	return &Error{
		Kind:    kind,
		Message: "storage operation failed",
		Op:      op,
		Table:   table,
		cause:   err,
	}
}

// Error renders the error with its context and cause.
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]", e.Kind)
	if e.Op != "" {
		fmt.Fprintf(&b, " %s", e.Op)
	}
	if e.Table != "" {
		fmt.Fprintf(&b, " (%s)", e.Table)
	}
	fmt.Fprintf(&b, ": %s", e.Message)
	if e.cause != nil {
		fmt.Fprintf(&b, ": %v", e.cause)
	}
	return b.String()
}

// Unwrap exposes the cause for errors.Is / errors.As traversal.
func (e *Error) Unwrap() error {
	return e.cause
}

// WithCause attaches a cause and returns the error.
func (e *Error) WithCause(cause error) *Error {
	e.cause = cause
	return e
}

// RootCause follows the causal chain while the cause remains within this
// taxonomy and returns the deepest typed error.
func RootCause(err error) *Error {
	var cur *Error
	if !errors.As(err, &cur) {
		return nil
	}
	for {
		next, ok := cur.cause.(*Error)
		if !ok {
			return cur
		}
		cur = next
	}
}

// Chain renders the message chain as "msgA -> msgB -> ...", descending
// through typed causes and ending on the first foreign cause, if any.
func Chain(err error) string {
	var cur *Error
	if !errors.As(err, &cur) {
		if err == nil {
			return ""
		}
		return err.Error()
	}
	var msgs []string
	for {
		msgs = append(msgs, cur.Message)
		if cur.cause == nil {
			break
		}
		next, ok := cur.cause.(*Error)
		if !ok {
			msgs = append(msgs, cur.cause.Error())
			break
		}
		cur = next
	}
	return strings.Join(msgs, " -> ")
}

// IsKind reports whether err is a storage error of the given kind.
func IsKind(err error, kind Kind) bool {
	var typed *Error
	return errors.As(err, &typed) && typed.Kind == kind
}

// IsNotFound reports whether err is a missing-row error.
func IsNotFound(err error) bool {
	return IsKind(err, KindNotFound)
}

// IsConstraintViolation reports whether err carries a sqlite constraint
// result code, either directly from the driver or inside a typed wrapper.
func IsConstraintViolation(err error) bool {
	if IsKind(err, KindConstraintViolation) {
		return true
	}
	var drvErr *sqlite.Error
	if errors.As(err, &drvErr) {
		return drvErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return false
}
