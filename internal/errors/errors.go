package errors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	// ErrCustomerNotFound is returned when a customer id does not exist.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrUserNotFound is returned when a user id does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = errors.New("Invalid credentials")
	// ErrUsernameTaken is returned when a username is already in use.
	ErrUsernameTaken = errors.New("a user with that username already exists")
	// ErrUnauthenticated is returned when a request carries no valid session.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden is returned when the session role may not perform an action.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError carries per-field messages for a rejected submission.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// ImportError reports an aborted spreadsheet import. Rows written before the
// failure stay persisted; Imported counts them.
type ImportError struct {
	Row      int // 1-based data row that failed, 0 for file-level failures
	Imported int
	Err      error
}

func (e *ImportError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	}
	return e.Err.Error()
}

func (e *ImportError) Unwrap() error { return e.Err }

// RenderError reports a failure to assemble a PDF document.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string {
	return "render document: " + e.Err.Error()
}

func (e *RenderError) Unwrap() error { return e.Err }

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error    string            `json:"error"`
	Code     string            `json:"code"`
	Fields   map[string]string `json:"fields,omitempty"`
	Imported *int              `json:"imported,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Fields     map[string]string
	Imported   *int
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:    e.Message,
		Code:     e.Code,
		Fields:   e.Fields,
		Imported: e.Imported,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		httpErr := NewHTTPError(http.StatusBadRequest, "validation failed", "VALIDATION_FAILED")
		httpErr.Fields = ve.Fields
		return httpErr
	}

	var ie *ImportError
	if errors.As(err, &ie) {
		httpErr := NewHTTPError(http.StatusUnprocessableEntity, "Error processing file: "+ie.Error(), "IMPORT_FAILED")
		imported := ie.Imported
		httpErr.Imported = &imported
		return httpErr
	}

	var re *RenderError
	if errors.As(err, &re) {
		return NewHTTPError(http.StatusInternalServerError, "failed to generate PDF", "RENDER_FAILED")
	}

	switch {
	case errors.Is(err, ErrCustomerNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "CUSTOMER_NOT_FOUND")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrUsernameTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "USERNAME_TAKEN")
	case errors.Is(err, ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHENTICATED")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
