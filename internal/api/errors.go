package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"evalgo.org/megacloud-mcp/internal/errdefs"
	"evalgo.org/megacloud-mcp/internal/orchestration"
)

// APIError represents a structured API error with HTTP status code.
type APIError struct {
	Code       int                    `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	FieldError map[string]string      `json:"field_errors,omitempty"`
	Context    map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

// NewAPIError creates a new API error.
func NewAPIError(code int, message string, details string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Common error constructors
func BadRequestError(message, details string) *APIError {
	return NewAPIError(http.StatusBadRequest, message, details)
}

func NotFoundError(resource, name string, available []string) *APIError {
	return &APIError{
		Code:    http.StatusNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Context: map[string]interface{}{"name": name, "available": available},
	}
}

func ValidationError(message string, fieldErrors map[string]string) *APIError {
	return &APIError{
		Code:       http.StatusBadRequest,
		Message:    message,
		FieldError: fieldErrors,
	}
}

func InternalError(message, details string) *APIError {
	return NewAPIError(http.StatusInternalServerError, message, details)
}

func BadGatewayError(message, details string) *APIError {
	return NewAPIError(http.StatusBadGateway, message, details)
}

// FromError maps an error returned by a tool call onto an APIError.
func FromError(err error) *APIError {
	var (
		apiErr      *APIError
		unknown     *errdefs.UnknownToolError
		validation  *errdefs.ValidationError
		partial     *orchestration.PartialAllocationError
		notFound    *errdefs.NotFoundError
		unsupported *errdefs.UnsupportedError
		backend     *errdefs.BackendError
	)

	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.As(err, &unknown):
		return &APIError{
			Code:    http.StatusNotFound,
			Message: "Unknown tool",
			Context: map[string]interface{}{"name": unknown.Name},
		}
	case errors.As(err, &validation):
		fields := make(map[string]string, len(validation.Fields))
		for _, f := range validation.Fields {
			fields[f.Field] = f.Message
		}
		return ValidationError(fmt.Sprintf("Invalid arguments for %s", validation.Tool), fields)
	case errors.As(err, &partial):
		// Checked before the wrapped cause so the leaked nodes are reported.
		apiErr := BadGatewayError("Operation failed after nodes were allocated", err.Error())
		apiErr.Context = map[string]interface{}{"allocated_nodes": partial.Nodes}
		return apiErr
	case errors.As(err, &notFound):
		return NotFoundError(notFound.Kind, notFound.Name, notFound.Available)
	case errors.As(err, &unsupported):
		return &APIError{
			Code:    http.StatusUnprocessableEntity,
			Message: fmt.Sprintf("Unsupported %s", unsupported.Kind),
			Details: err.Error(),
			Context: map[string]interface{}{"value": unsupported.Value, "supported": unsupported.Supported},
		}
	case errors.As(err, &backend):
		apiErr := BadGatewayError("Backend request failed", err.Error())
		apiErr.Context = map[string]interface{}{"backend_status": backend.StatusCode}
		return apiErr
	default:
		return InternalError("Internal server error", err.Error())
	}
}

// HTTPErrorHandler is a custom error handler for Echo.
func HTTPErrorHandler(err error, c echo.Context) {
	// Don't send response if already sent
	if c.Response().Committed {
		return
	}

	var apiErr *APIError
	if he, ok := err.(*echo.HTTPError); ok {
		apiErr = &APIError{
			Code:    he.Code,
			Message: getHTTPMessage(he.Code),
			Details: fmt.Sprintf("%v", he.Message),
		}
	} else {
		apiErr = FromError(err)
	}
	code := apiErr.Code

	// Don't expose internal errors in production
	if code == http.StatusInternalServerError && !c.Echo().Debug {
		apiErr.Details = "An internal error occurred. Please try again later."
	}

	if err := c.JSON(code, apiErr); err != nil {
		c.Logger().Error(err)
	}
}

// getHTTPMessage returns a user-friendly message for HTTP status codes.
func getHTTPMessage(code int) string {
	messages := map[int]string{
		http.StatusBadRequest:          "Bad request",
		http.StatusUnauthorized:        "Unauthorized",
		http.StatusForbidden:           "Forbidden",
		http.StatusNotFound:            "Resource not found",
		http.StatusMethodNotAllowed:    "Method not allowed",
		http.StatusUnprocessableEntity: "Unprocessable entity",
		http.StatusTooManyRequests:     "Too many requests",
		http.StatusInternalServerError: "Internal server error",
		http.StatusBadGateway:          "Bad gateway",
		http.StatusServiceUnavailable:  "Service unavailable",
	}

	if msg, ok := messages[code]; ok {
		return msg
	}
	return http.StatusText(code)
}
