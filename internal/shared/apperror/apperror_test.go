package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go-hrops/internal/shared/apperror"

	"github.com/stretchr/testify/assert"
)

func TestAppError_IsMatchesByCode(t *testing.T) {
	base := apperror.New(apperror.CodeInsufficientBalance, "Insufficient leave balance", http.StatusUnprocessableEntity)
	dynamic := apperror.Newf(base, "Insufficient leave balance. Available: %d, Requested: %d", 2, 3)

	assert.True(t, errors.Is(dynamic, base))
	assert.False(t, errors.Is(dynamic, apperror.ErrNotFound))
	assert.Equal(t, "Insufficient leave balance. Available: 2, Requested: 3", dynamic.Error())
}

func TestToHTTP(t *testing.T) {
	t.Run("app error keeps status and code", func(t *testing.T) {
		wrapped := fmt.Errorf("lookup: %w", apperror.ErrEmployeeNotFound)
		httpErr := apperror.ToHTTP(wrapped)
		assert.Equal(t, http.StatusNotFound, httpErr.Status)
		assert.Equal(t, apperror.CodeEmployeeNotFound, httpErr.Code)
	})

	t.Run("unknown error hides message", func(t *testing.T) {
		httpErr := apperror.ToHTTP(errors.New("pq: connection refused"))
		assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
		assert.Equal(t, apperror.CodeInternalError, httpErr.Code)
		assert.NotContains(t, httpErr.Message, "pq")
	})
}
