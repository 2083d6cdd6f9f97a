package view

import (
	"context"
	"errors"

	"github.com/javivarba/chatbots/internal/constants"
	"github.com/javivarba/chatbots/pkg/dashboardapi"
)

// ErrSuperseded is returned by a load whose result was dropped because a newer
// load for the same element started after it.
var ErrSuperseded = errors.New("SUPERSEDED")

type Error struct {
	Code  string
	Cause error
}

func NewError(code string, cause error) error {
	return Error{Code: code, Cause: cause}
}

func (e Error) Error() string {
	return e.Cause.Error()
}

func (e Error) Unwrap() error {
	return e.Cause
}

func backendError(err error) error {
	switch {
	case errors.Is(err, dashboardapi.ErrNotFound):
		return NewError(constants.ErrCodeNotFound, err)
	case errors.Is(err, dashboardapi.ErrRejected):
		return NewError(constants.ErrCodeActionRejected, err)
	case errors.Is(err, dashboardapi.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return NewError(constants.ErrCodeBackendTimeout, err)
	default:
		return NewError(constants.ErrCodeBackendUnavailable, err)
	}
}
