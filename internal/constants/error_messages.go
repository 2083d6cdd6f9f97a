package constants

const (
	ErrCodeBackendUnavailable = "BACKEND_UNAVAILABLE"
	ErrCodeBackendTimeout     = "BACKEND_TIMEOUT"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeInvalidSection     = "INVALID_SECTION"
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeRenderFailed       = "RENDER_FAILED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeActionRejected     = "ACTION_REJECTED"
)

const (
	ErrMsgBackendUnavailable = "chatbot backend unavailable"
	ErrMsgBackendTimeout     = "chatbot backend timed out"
	ErrMsgNotFound           = "resource not found"
	ErrMsgInvalidSection     = "unknown dashboard section"
	ErrMsgInvalidRequest     = "invalid request parameters"
	ErrMsgRenderFailed       = "failed to render fragment"
	ErrMsgInternalError      = "Internal server error"
	ErrMsgActionRejected     = "chatbot backend rejected the action"
)

var errorMessages = map[string]string{
	ErrCodeBackendUnavailable: ErrMsgBackendUnavailable,
	ErrCodeBackendTimeout:     ErrMsgBackendTimeout,
	ErrCodeNotFound:           ErrMsgNotFound,
	ErrCodeInvalidSection:     ErrMsgInvalidSection,
	ErrCodeInvalidRequest:     ErrMsgInvalidRequest,
	ErrCodeRenderFailed:       ErrMsgRenderFailed,
	ErrCodeInternalError:      ErrMsgInternalError,
	ErrCodeActionRejected:     ErrMsgActionRejected,
}

func GetErrorMessage(code string) string {
	if msg, exists := errorMessages[code]; exists {
		return msg
	}
	return ErrMsgInternalError
}

func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeInvalidSection, ErrCodeInvalidRequest:
		return 400
	case ErrCodeNotFound:
		return 404
	case ErrCodeActionRejected:
		return 409
	case ErrCodeBackendUnavailable:
		return 502
	case ErrCodeBackendTimeout:
		return 504
	case ErrCodeRenderFailed, ErrCodeInternalError:
		return 500
	default:
		return 500
	}
}
