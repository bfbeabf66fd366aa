package errors

import "net/http"

var ErrNotFound = &Exception{
	Message:    "resource not found",
	StatusCode: http.StatusNotFound,
}

var (
	ErrOrganizationNotFound = &Exception{Message: "organization not found", StatusCode: http.StatusNotFound, Kind: ErrNotFound}
	ErrUserNotFound         = &Exception{Message: "user not found", StatusCode: http.StatusNotFound, Kind: ErrNotFound}
	ErrProjectNotFound      = &Exception{Message: "project not found", StatusCode: http.StatusNotFound, Kind: ErrNotFound}
	ErrTaskNotFound         = &Exception{Message: "task not found", StatusCode: http.StatusNotFound, Kind: ErrNotFound}
)
