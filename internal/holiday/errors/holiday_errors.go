package holidayerrors

import (
	"go-hrops/internal/shared/apperror"
	"net/http"
)

var (
	ErrHolidayNotFound = apperror.New(apperror.CodeNotFound, "Holiday not found", http.StatusNotFound)
	ErrInvalidID       = apperror.New(apperror.CodeInvalidInput, "invalid holiday id", http.StatusBadRequest)
	ErrInvalidDate     = apperror.New(apperror.CodeInvalidInput, "invalid date format, expected YYYY-MM-DD", http.StatusBadRequest)
	ErrInvalidYear     = apperror.New(apperror.CodeInvalidInput, "invalid year", http.StatusBadRequest)
	ErrInvalidLimit    = apperror.New(apperror.CodeInvalidInput, "limit must be a positive number", http.StatusBadRequest)
)
