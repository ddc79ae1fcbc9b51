package errs

import "net/http"

const (
	// MessageInvalidBody is reported when the request body is not a JSON object.
	MessageInvalidBody = "Invalid Body"

	// MessageNotFound is reported when a game does not exist.
	MessageNotFound = "Not Found! 🤢"

	// CodeInvalidBody distinguishes unparseable bodies from schema failures.
	CodeInvalidBody = "INVALID_BODY"

	// CodeValidation marks schema failures.
	CodeValidation = "VALIDATION_FAILED"
)

// Sentinel values for errors.Is checks; only Code is compared.
var (
	ErrInvalidBody = &HTTPError{Code: CodeInvalidBody}
	ErrValidation  = &HTTPError{Code: CodeValidation}
	ErrNotFound    = &HTTPError{Code: MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound))}
)

// InvalidBody creates the 422 returned for bodies that are not JSON objects.
func InvalidBody() *HTTPError {
	return &HTTPError{
		Code:    CodeInvalidBody,
		Message: MessageInvalidBody,
		Status:  http.StatusUnprocessableEntity,
	}
}

// NewValidationError creates a 422 carrying the failing fields.
func NewValidationError(message string, fields []FieldError) *HTTPError {
	return &HTTPError{
		Code:    CodeValidation,
		Message: message,
		Status:  http.StatusUnprocessableEntity,
		Errors:  fields,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string) *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound)),
		Message: message,
		Status:  http.StatusNotFound,
	}
}

// NewMethodNotAllowedError creates a 405 Method Not Allowed HTTPError.
func NewMethodNotAllowedError() *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusMethodNotAllowed)),
		Message: http.StatusText(http.StatusMethodNotAllowed),
		Status:  http.StatusMethodNotAllowed,
	}
}

// NewBadRequestError creates a 400 Bad Request HTTPError.
func NewBadRequestError(message string) *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusBadRequest)),
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// NewInternalServerError creates a 500 that keeps the underlying message.
func NewInternalServerError(message string) *HTTPError {
	if message == "" {
		message = http.StatusText(http.StatusInternalServerError)
	}
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message: message,
		Status:  http.StatusInternalServerError,
	}
}
