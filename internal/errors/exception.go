package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Exception is an error that knows the HTTP status it maps to. Detailed
// exceptions point at the sentinel they specialise through Kind.
type Exception struct {
	Message    string
	StatusCode int
	Kind       *Exception
	Fields     map[string]string
}

func (e *Exception) Error() string {
	return e.Message
}

func (e *Exception) Unwrap() error {
	if e.Kind == nil {
		return nil
	}
	return e.Kind
}

func StatusCode(err error) int {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// Message returns the client-safe text for err.
func Message(err error) string {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return http.StatusText(http.StatusInternalServerError)
}

// Fields returns per-field messages attached to err, if any.
func Fields(err error) map[string]string {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}

func newf(kind *Exception, format string, args ...any) error {
	return &Exception{
		Message:    fmt.Sprintf(format, args...),
		StatusCode: kind.StatusCode,
		Kind:       kind,
	}
}
