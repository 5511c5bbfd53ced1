package quill

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an Error and decides its HTTP status.
type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindTooLarge
	KindRateLimited
)

// Status returns the HTTP status code for k.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindRateLimited:
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindTooLarge:
		return "too_large"
	case KindRateLimited:
		return "rate_limited"
	}
	return "unexpected"
}

// Error is the error type returned by the services. Key is an English
// message format (a catalog key) and Args its arguments; the endpoint layer
// localizes them for the client. Err is the cause, never shown to clients.
type Error struct {
	Kind Kind
	Key  string
	Args []any
	Err  error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf(e.Key, e.Args...)
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of err, or KindUnexpected when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

func validationError(key string, args ...any) *Error {
	return &Error{Kind: KindValidation, Key: key, Args: args}
}

func conflictError(key string, args ...any) *Error {
	return &Error{Kind: KindConflict, Key: key, Args: args}
}

func notFoundError(key string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Key: key, Args: args}
}

// unexpected wraps an I/O or parse failure. A nil err stays nil.
func unexpected(err error, op string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: KindUnexpected, Key: msgUnexpected, Err: fmt.Errorf("%s: %w", op, err)}
}
