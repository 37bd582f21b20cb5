package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/legal-assistant/pkg/errors"
)

// HTTPError is rendered by errorHandlingMiddleware as
// {"error": {"code": ..., "message": ...}}.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error { return e.Err }

// NewHTTPError builds an HTTPError.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

type errorMapping struct {
	status int
	code   string
}

var domainErrors = map[string]errorMapping{
	apperrors.CodeInvalidInput: {http.StatusBadRequest, "invalid_request"},
	apperrors.CodeExtraction:   {http.StatusUnprocessableEntity, "extraction_failed"},
	apperrors.CodeInference:    {http.StatusBadGateway, "inference_failed"},
	apperrors.CodeStorage:      {http.StatusInternalServerError, "ledger_failed"},
}

// analysisError maps a pipeline failure by its domain code.
func analysisError(err error) *HTTPError {
	if m, ok := domainErrors[apperrors.CodeOf(err)]; ok {
		return NewHTTPError(m.status, m.code, errMessage(err), err)
	}
	return NewHTTPError(http.StatusInternalServerError, "analysis_failed", errMessage(err), err)
}

// requestError covers body decoding failures before the pipeline runs.
func requestError(err error) *HTTPError {
	if isTooLarge(err) {
		return NewHTTPError(http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", err)
	}
	return NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err)
}

func legacyStatus(err error) int {
	if isTooLarge(err) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge)
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
