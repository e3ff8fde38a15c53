package leavetypeerrors

import (
	"go-hrops/internal/shared/apperror"
	"net/http"
)

var (
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave type not found",
		http.StatusNotFound,
	)
	ErrLeaveTypeCodeExists = apperror.New(
		apperror.CodeConflict,
		"A leave type with this code already exists",
		http.StatusConflict,
	)
)
