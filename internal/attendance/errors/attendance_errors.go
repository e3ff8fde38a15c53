package attendanceerrors

import (
	"go-hrops/internal/shared/apperror"
	"net/http"
)

var (
	ErrAlreadyCheckedIn = apperror.New(
		apperror.CodeAlreadyCheckedIn,
		"You are already checked in. Please check out before checking in again.",
		http.StatusConflict,
	)
	ErrNotCheckedIn = apperror.New(
		apperror.CodeNotCheckedIn,
		"You are not checked in.",
		http.StatusConflict,
	)
	ErrAttendanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"Attendance record not found",
		http.StatusNotFound,
	)
	ErrNotOwner = apperror.New(
		apperror.CodeForbidden,
		"Unauthorized",
		http.StatusForbidden,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrInvalidID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid id",
		http.StatusBadRequest,
	)
	ErrExportFailed = apperror.New(
		apperror.CodeInternalError,
		"Failed to build attendance export",
		http.StatusInternalServerError,
	)
)
