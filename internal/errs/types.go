package errs

import (
	"net/http"
)

func newHTTPError(status int, message string, override bool, code *string) *HTTPError {
	// http.StatusText(404) => "Not Found" => "NOT_FOUND"
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(status))
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   status,
		Override: override,
	}
}

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
//   - code: optional custom code string (if nil, defaults to "BAD_REQUEST")
//   - errors: optional slice of field errors
func NewBadRequestError(message string, override bool, code *string, errors []FieldError) *HTTPError {
	e := newHTTPError(http.StatusBadRequest, message, override, code)
	e.Errors = errors
	return e
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	return newHTTPError(http.StatusNotFound, message, override, code)
}

// NewPersonNotFoundError is the 404 for the absent state.
func NewPersonNotFoundError() *HTTPError {
	code := "PERSON_NOT_FOUND"
	return NewNotFoundError("Person not found", true, &code)
}

// NewConflictError creates a 409 Conflict HTTPError, used for duplicate primary keys.
func NewConflictError(message string, override bool, code *string) *HTTPError {
	return newHTTPError(http.StatusConflict, message, override, code)
}

// NewServiceUnavailableError creates a 503 HTTPError for an unreachable store.
// The message is generic; connection details stay in the logs.
func NewServiceUnavailableError() *HTTPError {
	return newHTTPError(http.StatusServiceUnavailable, http.StatusText(http.StatusServiceUnavailable), false, nil)
}

// NewTooManyRequestsError creates a 429 HTTPError for rate-limited clients.
func NewTooManyRequestsError() *HTTPError {
	code := "RATE_LIMITED"
	return newHTTPError(http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests), true, &code)
}

// NewInternalServerError creates a 500 Internal Server Error HTTPError.
//
// The message is the generic status text, never the internal error message.
func NewInternalServerError() *HTTPError {
	return newHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), false, nil)
}

// FromValidationError converts an aggregated ValidationError into a 400 with field errors.
func FromValidationError(err *ValidationError) *HTTPError {
	return NewBadRequestError("Validation failed", true, nil, err.Fields)
}

// FromConfigurationError converts a ConfigurationError into a 400.
func FromConfigurationError(err *ConfigurationError) *HTTPError {
	code := "INVALID_ARGUMENT_COUNT"
	return NewBadRequestError(err.Error(), true, &code, nil)
}
