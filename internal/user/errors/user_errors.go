package usererrors

import (
	"go-hrops/internal/shared/apperror"
	"net/http"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeUserNotFound,
		"User not found",
		http.StatusNotFound,
	)

	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid user ID",
		http.StatusBadRequest,
	)

	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"Role must be admin or employee",
		http.StatusBadRequest,
	)

	ErrMissingSubject = apperror.New(
		apperror.CodeInvalidInput,
		"Identity event has no user id",
		http.StatusBadRequest,
	)

	ErrInvalidSignature = apperror.New(
		apperror.CodeUnauthenticated,
		"Invalid webhook signature",
		http.StatusUnauthorized,
	)
)
