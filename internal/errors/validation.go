package errors

import "net/http"

var ErrValidation = &Exception{
	Message:    "validation failed",
	StatusCode: http.StatusUnprocessableEntity,
}

var ErrInvalidID = &Exception{
	Message:    "id must be a positive integer",
	StatusCode: http.StatusUnprocessableEntity,
	Kind:       ErrValidation,
}

var ErrInvalidJSON = &Exception{
	Message:    "invalid JSON payload",
	StatusCode: http.StatusBadRequest,
	Kind:       ErrValidation,
}

func Validation(format string, args ...any) error {
	return newf(ErrValidation, format, args...)
}

// InvalidFields builds a validation error carrying one message per field.
func InvalidFields(fields map[string]string) error {
	return &Exception{
		Message:    ErrValidation.Message,
		StatusCode: ErrValidation.StatusCode,
		Kind:       ErrValidation,
		Fields:     fields,
	}
}
