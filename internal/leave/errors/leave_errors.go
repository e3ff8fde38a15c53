package leaveerrors

import (
	"net/http"

	"go-hrops/internal/shared/apperror"
)

var (
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave request id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrInvalidNumberOfDays = apperror.New(
		apperror.CodeInvalidInput,
		"number_of_days must be greater than 0",
		http.StatusBadRequest,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"year must be a four digit year",
		http.StatusBadRequest,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave request not found",
		http.StatusNotFound,
	)
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave type not found",
		http.StatusNotFound,
	)
	ErrNotOwner = apperror.New(
		apperror.CodeForbidden,
		"Unauthorized",
		http.StatusForbidden,
	)
	ErrOnlyPendingCancel = apperror.New(
		apperror.CodeInvalidState,
		"Can only cancel pending requests",
		http.StatusBadRequest,
	)
	ErrOnlyPendingApprove = apperror.New(
		apperror.CodeInvalidState,
		"Only pending requests can be approved",
		http.StatusBadRequest,
	)
	ErrOnlyPendingReject = apperror.New(
		apperror.CodeInvalidState,
		"Only pending requests can be rejected",
		http.StatusBadRequest,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInsufficientBalance,
		"Insufficient leave balance",
		http.StatusUnprocessableEntity,
	)
	ErrOverlappingRequest = apperror.New(
		apperror.CodeOverlappingRequest,
		"Overlapping leave request exists",
		http.StatusConflict,
	)
)
