package errors

import "net/http"

var ErrConflict = &Exception{
	Message:    "resource conflict",
	StatusCode: http.StatusConflict,
}

var ErrEmailTaken = &Exception{
	Message:    "the email has already been taken",
	StatusCode: http.StatusConflict,
	Kind:       ErrConflict,
}

func Conflict(format string, args ...any) error {
	return newf(ErrConflict, format, args...)
}
