package apperror

import "fmt"

type AppError struct {
	Code       string // machine readable, e.g. NOT_CHECKED_IN
	Message    string // safe to show to the caller
	HTTPStatus int
	Err        error // optional cause
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError carrying the same code, so errors built with a
// dynamic message still satisfy errors.Is against the sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Newf formats the message and keeps code/status from base.
func Newf(base *AppError, format string, args ...any) *AppError {
	return &AppError{
		Code:       base.Code,
		Message:    fmt.Sprintf(format, args...),
		HTTPStatus: base.HTTPStatus,
	}
}

func Wrap(err error, code, message string, httpStatus int) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}
