package dashboarderrors

import (
	"go-hrops/internal/shared/apperror"
	"net/http"
)

var ErrInvalidDate = apperror.New(
	apperror.CodeInvalidInput,
	"invalid date format, expected YYYY-MM-DD",
	http.StatusBadRequest,
)
