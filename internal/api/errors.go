package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/alexiusacademia/gomoscap/internal/numeric"
	"github.com/alexiusacademia/gomoscap/internal/stackfile"
	"github.com/alexiusacademia/gomoscap/internal/structure"
	"github.com/alexiusacademia/gomoscap/internal/units"
)

// APIError is the JSON body of every error response
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewBadRequestError creates a 400 error
func NewBadRequestError(message string, cause error) *APIError {
	err := &APIError{Status: http.StatusBadRequest, Code: "BAD_REQUEST", Message: message}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// fromEngine maps engine errors onto API errors
func fromEngine(err error) *APIError {
	var (
		apiErr  *APIError
		verr    *stackfile.ValidationError
		domain  *units.DomainError
		invalid *structure.InvalidStructureError
		conv    *numeric.ConvergenceError
	)
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.As(err, &verr), errors.As(err, &domain):
		return &APIError{Status: http.StatusBadRequest, Code: "VALIDATION_ERROR", Message: err.Error()}
	case errors.As(err, &invalid):
		return &APIError{Status: http.StatusUnprocessableEntity, Code: "INVALID_STRUCTURE", Message: invalid.Reason}
	case errors.As(err, &conv):
		return &APIError{Status: http.StatusUnprocessableEntity, Code: "NO_SOLUTION", Message: "current layout has no solution", Details: err.Error()}
	}
	return &APIError{Status: http.StatusBadRequest, Code: "BAD_REQUEST", Message: err.Error()}
}

// ErrorHandler renders errors returned by handlers.
// Usage: e.HTTPErrorHandler = api.ErrorHandler
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var apiErr *APIError
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &httpErr):
		apiErr = &APIError{Status: httpErr.Code, Code: "HTTP_ERROR", Message: fmt.Sprintf("%v", httpErr.Message)}
	default:
		apiErr = fromEngine(err)
	}
	_ = c.JSON(apiErr.Status, apiErr)
}
