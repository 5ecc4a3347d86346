// Package apperrors defines the typed error taxonomy shared by the poker
// game core and its RPC facade. Core components return these typed errors;
// the facade maps each kind to the closest transport status.
package apperrors

import "fmt"

// Kind categorizes an AppError for mapping to a transport status.
type Kind int

const (
	// Internal signals an invariant violation; should be impossible,
	// logged, and surfaced as a generic "internal" status.
	Internal Kind = iota
	// NotFound signals an identifier that does not resolve.
	NotFound
	// PreconditionFailed signals state that does not permit the operation.
	PreconditionFailed
	// Unauthorized signals a caller lacking the required role.
	Unauthorized
	// InvalidRequest signals malformed arguments.
	InvalidRequest
)

func (k Kind) String() string {
	switch k {
	case Internal:
		return "internal"
	case NotFound:
		return "not_found"
	case PreconditionFailed:
		return "precondition_failed"
	case Unauthorized:
		return "unauthorized"
	case InvalidRequest:
		return "invalid_request"
	default:
		return "unknown"
	}
}

// AppError is a typed error carrying a Kind, a message, and an optional
// wrapped cause.
type AppError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

func new(kind Kind, format string, args ...any) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// InternalError builds an Internal AppError.
func InternalError(format string, args ...any) *AppError { return new(Internal, format, args...) }

// NotFoundError builds a NotFound AppError.
func NotFoundError(format string, args ...any) *AppError { return new(NotFound, format, args...) }

// PreconditionFailedError builds a PreconditionFailed AppError.
func PreconditionFailedError(format string, args ...any) *AppError {
	return new(PreconditionFailed, format, args...)
}

// UnauthorizedError builds an Unauthorized AppError.
func UnauthorizedError(format string, args ...any) *AppError {
	return new(Unauthorized, format, args...)
}

// InvalidRequestError builds an InvalidRequest AppError.
func InvalidRequestError(format string, args ...any) *AppError {
	return new(InvalidRequest, format, args...)
}

// Wrap attaches a wrapped cause to an AppError, returning a copy.
func Wrap(err *AppError, cause error) *AppError {
	wrapped := *err
	wrapped.Cause = cause
	return &wrapped
}

// KindOf extracts the Kind of err if it is an *AppError, defaulting to
// Internal for unrecognized errors (a bug, not a runtime condition).
func KindOf(err error) Kind {
	var appErr *AppError
	if as(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

func as(err error, target **AppError) bool {
	for err != nil {
		if appErr, ok := err.(*AppError); ok {
			*target = appErr
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
