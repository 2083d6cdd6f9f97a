package dashboardapi

import (
	"errors"
	"net/http"
)

const (
	ErrCodeBadRequest  = "BAD_REQUEST"
	ErrCodeNotFound    = "NOT_FOUND"
	ErrCodeTimeout     = "TIMEOUT"
	ErrCodeServerError = "SERVER_ERROR"
	ErrCodeRejected    = "REJECTED"
)

var (
	ErrBadRequest  = errors.New(ErrCodeBadRequest)
	ErrNotFound    = errors.New(ErrCodeNotFound)
	ErrTimeout     = errors.New(ErrCodeTimeout)
	ErrServerError = errors.New(ErrCodeServerError)
	ErrRejected    = errors.New(ErrCodeRejected)
)

var statusErrorMap = map[int]error{
	http.StatusBadRequest:          ErrBadRequest,
	http.StatusNotFound:            ErrNotFound,
	http.StatusUnprocessableEntity: ErrBadRequest,
}

func MapStatusToError(statusCode int) error {
	if err, exists := statusErrorMap[statusCode]; exists {
		return err
	}

	return ErrServerError
}
