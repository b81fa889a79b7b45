// Package common defines the error taxonomy shared by the service layer and
// the transports. Callers should use errors.Is against the sentinel values
// (matched by kind) or KindOf to branch on a failure.
package common

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure leaving the service core.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindUnauthorized
	KindInvalid
)

// InternalMessage replaces the message of every non-public error at the boundary.
const InternalMessage = "Internal server error"

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindInvalid:
		return "invalid"
	default:
		return "internal"
	}
}

// HTTPStatus is the status code a transport should answer with.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindInvalid:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// IsPublic reports whether messages of this kind may be returned verbatim.
func (k Kind) IsPublic() bool {
	return k != KindInternal
}

// Error is a classified failure with an optional underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

var (
	// Repository / service level errors.
	ErrorNotFound     = &Error{Kind: KindNotFound, Message: "not found"}
	ErrorConflict     = &Error{Kind: KindConflict, Message: "already exists"}
	ErrorUnauthorized = &Error{Kind: KindUnauthorized, Message: "unauthorized"}
	ErrorInternal     = &Error{Kind: KindInternal, Message: "internal error"}

	// Request validation.
	ErrorInvalid = &Error{Kind: KindInvalid, Message: "invalid request"}
)

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(cause error, format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func Unauthorized(cause error, format string, args ...any) *Error {
	return &Error{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func Internal(cause error, format string, args ...any) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func Invalid(format string, args ...any) *Error {
	return &Error{Kind: KindInvalid, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain.
// Unclassified errors are treated as internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// PublicMessage returns the text a caller is allowed to see for err.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind.IsPublic() {
		return e.Message
	}
	return InternalMessage
}
