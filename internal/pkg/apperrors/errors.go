package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound    = errors.New("resource not found")
	ErrApplicationNotFound = errors.New("application not found")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Intake errors
	ErrDuplicateApplicant = errors.New("an application already exists for this PAN + Aadhaar")

	// Lifecycle guard errors
	ErrNotVerified    = errors.New("application must be verified before analysis")
	ErrAnalysisNotRun = errors.New("run analysis before taking decision")
)

// Scoring adapter errors
var (
	ErrScoringUnreachable = errors.New("scoring service unreachable")
	ErrScoringRejected    = errors.New("scoring service rejected the request")
	ErrScoringMalformed   = errors.New("scoring service returned a malformed response")
)

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// NewNotFoundError creates a not-found error with a message
func NewNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}
