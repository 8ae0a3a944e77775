package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/vpd-calculator/pkg/errors"
)

const (
	codeInvalidRequest = "invalid_request"
	codeInternal       = "internal_error"
)

// HTTPError is the transport view of a failure: a status plus the code and
// message written into the {"error": {...}} envelope.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

// badRequest reports a request that failed binding or validation.
func badRequest(message string, err error) *HTTPError {
	if message == "" && err != nil {
		message = err.Error()
	}
	return NewHTTPError(http.StatusBadRequest, codeInvalidRequest, message, err)
}

// statusForCode maps calculator error codes to HTTP statuses.
var statusForCode = map[string]int{
	apperrors.CodeInvalidInput: http.StatusBadRequest,
	apperrors.CodeRenderFailed: http.StatusInternalServerError,
}

// asHTTPError resolves any handler error into an HTTPError. Transport errors
// pass through, calculator errors keep their code, and everything else is
// hidden behind internal_error.
func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		status, ok := statusForCode[appErr.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		return &HTTPError{Status: status, Code: appErr.Code, Message: appErr.Message, Err: err}
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    codeInternal,
		Message: "something went wrong",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}
