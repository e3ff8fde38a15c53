package apperror

import "net/http"

// Shared failure taxonomy. Modules wrap these with their own messages when
// the generic text is not specific enough.
var (
	ErrUnauthenticated = New(
		CodeUnauthenticated,
		"Authentication is required",
		http.StatusUnauthorized,
	)

	ErrUserNotFound = New(
		CodeUserNotFound,
		"User not found",
		http.StatusNotFound,
	)

	ErrEmployeeNotFound = New(
		CodeEmployeeNotFound,
		"Employee record not found",
		http.StatusNotFound,
	)

	ErrForbidden = New(
		CodeForbidden,
		"You do not have permission to access this resource",
		http.StatusForbidden,
	)

	ErrNotFound = New(
		CodeNotFound,
		"Resource not found",
		http.StatusNotFound,
	)

	ErrInvalidState = New(
		CodeInvalidState,
		"The resource is not in a state that allows this action",
		http.StatusBadRequest,
	)

	ErrInvalidInput = New(
		CodeInvalidInput,
		"The provided input is invalid",
		http.StatusBadRequest,
	)

	ErrInternal = New(
		CodeInternalError,
		"An unexpected error occurred",
		http.StatusInternalServerError,
	)
)

func RequiredField(field string) *AppError {
	return New(CodeInvalidInput, field+" is required", http.StatusBadRequest)
}

func InvalidField(field string) *AppError {
	return New(CodeInvalidInput, field+" is invalid", http.StatusBadRequest)
}
