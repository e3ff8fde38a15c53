package accesserrors

import (
	"go-hrops/internal/shared/apperror"
	"net/http"
)

var (
	ErrUnauthenticated = apperror.New(
		apperror.CodeUnauthenticated,
		"Not authenticated",
		http.StatusUnauthorized,
	)
	ErrUserNotFound = apperror.New(
		apperror.CodeUserNotFound,
		"User not found",
		http.StatusNotFound,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeEmployeeNotFound,
		"Employee record not found",
		http.StatusNotFound,
	)
	ErrAdminRequired = apperror.New(
		apperror.CodeForbidden,
		"Unauthorized: admin access required",
		http.StatusForbidden,
	)
)
