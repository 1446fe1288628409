package domain

import "fmt"

// Kind identifies the category of an Error.
type Kind string

const (
	KindInvalidArgument   Kind = "INVALID_ARGUMENT"
	KindParse             Kind = "PARSE_ERROR"
	KindRemoteUnavailable Kind = "REMOTE_UNAVAILABLE"
)

// Sentinels for errors.Is. Any *Error of the same Kind matches.
var (
	ErrInvalidArgument   = &Error{Kind: KindInvalidArgument}
	ErrParse             = &Error{Kind: KindParse}
	ErrRemoteUnavailable = &Error{Kind: KindRemoteUnavailable}
)

// Error is a domain error with a kind and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func InvalidArgument(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func ParseError(message string, cause error) *Error {
	return &Error{Kind: KindParse, Message: message, Cause: cause}
}

func RemoteUnavailable(message string, cause error) *Error {
	return &Error{Kind: KindRemoteUnavailable, Message: message, Cause: cause}
}
