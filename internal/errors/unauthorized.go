package errors

import "net/http"

// ErrUnauthorized is returned when a policy check denies the actor.
var ErrUnauthorized = &Exception{
	Message:    "this action is unauthorized",
	StatusCode: http.StatusForbidden,
}

var ErrUnauthenticated = &Exception{
	Message:    "unauthenticated",
	StatusCode: http.StatusUnauthorized,
}

var ErrInvalidCredentials = &Exception{
	Message:    "invalid email or password",
	StatusCode: http.StatusUnauthorized,
	Kind:       ErrUnauthenticated,
}
