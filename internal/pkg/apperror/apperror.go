// Package apperror defines the error type used for expected business-rule
// failures. These are returned, never panicked; handlers map them to HTTP
// responses by their embedded status code.
package apperror

// AppError carries an HTTP status code alongside a user-facing message.
type AppError struct {
	Code    int    // HTTP status code (e.g. 404, 409)
	Message string // User-facing error message
	Err     error  // Underlying cause, if any (not exposed to the user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError with a status code and message.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates an AppError wrapping an underlying error.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
