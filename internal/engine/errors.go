package engine

import (
	"errors"
	"fmt"

	"todosync/internal/transport"
)

// fallbackMessage is recorded globally when a rejection carries no message.
const fallbackMessage = "Some error occurred"

// ErrorKind categorizes operation failures.
type ErrorKind string

const (
	// KindNetwork is a transport-level failure: timeout, connection
	// failure, malformed response. Always recorded globally.
	KindNetwork ErrorKind = "NETWORK"

	// KindApplication is a server-side business-rule rejection with a
	// user-facing message. Recorded globally.
	KindApplication ErrorKind = "APPLICATION"

	// KindField is a server-side rejection scoped to named input fields.
	// Returned to the caller for per-field annotation; the global error
	// stays untouched.
	KindField ErrorKind = "FIELD"

	// KindPrecondition means required local data was missing, so the
	// operation failed before any transport call was made.
	KindPrecondition ErrorKind = "PRECONDITION"
)

// OpError is the single failure type every operation returns. One of these
// is produced per failed operation; a failure never propagates past the
// operation that raised it.
type OpError struct {
	// Kind identifies the failure category.
	Kind ErrorKind

	// Op names the operation that failed, e.g. "fetch-lists".
	Op string

	// Message is the human-readable description. For field-scoped
	// rejections it is informational only and is not recorded globally.
	Message string

	// FieldErrors holds the per-field rejections for KindField.
	FieldErrors []transport.FieldError
}

// Error implements the error interface.
func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Op, e.Message)
}

// IsFieldScoped reports whether err is a field-scoped rejection.
// Uses errors.As to handle wrapped errors.
func IsFieldScoped(err error) bool {
	var oe *OpError
	return errors.As(err, &oe) && oe.Kind == KindField
}

// IsPrecondition reports whether err failed before reaching the transport.
func IsPrecondition(err error) bool {
	var oe *OpError
	return errors.As(err, &oe) && oe.Kind == KindPrecondition
}

// FieldErrors extracts the per-field rejections from err, if any.
func FieldErrors(err error) []transport.FieldError {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.FieldErrors
	}
	return nil
}
