package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/javivarba/chatbots/internal/constants"
	"github.com/javivarba/chatbots/internal/view"
)

func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var viewErr view.Error
		if errors.As(err, &viewErr) {
			return handleViewError(c, viewErr)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(Response{
				Error:   fiberErr.Message,
				Code:    constants.ErrCodeInvalidRequest,
				Message: fiberErr.Message,
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(Response{
			Error:   constants.ErrCodeInternalError,
			Code:    constants.ErrCodeInternalError,
			Message: constants.GetErrorMessage(constants.ErrCodeInternalError),
		})
	}
}

func handleViewError(c *fiber.Ctx, err view.Error) error {
	errorCode := err.Code

	status := constants.GetHTTPStatus(errorCode)
	if status == fiber.StatusInternalServerError && err.Code != constants.ErrCodeInternalError &&
		err.Code != constants.ErrCodeRenderFailed {
		errorCode = constants.ErrCodeInternalError
	}

	response := Response{
		Error:   errorCode,
		Code:    errorCode,
		Message: constants.GetErrorMessage(errorCode),
	}
	if errorCode == constants.ErrCodeInvalidRequest && err.Cause != nil {
		response.Message = err.Cause.Error()
	}

	return c.Status(status).JSON(response)
}
