package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-hrops/internal/access"
	accesserrors "go-hrops/internal/access/errors"
	"go-hrops/internal/middleware"
	"go-hrops/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

func signToken(t *testing.T, subject string, expiresIn time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
	})
	signed, err := token.SignedString([]byte(testSecret))
	assert.NoError(t, err)
	return signed
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/ping", middleware.AuthMiddleware(testSecret), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(middleware.KeySubject))
	})

	t.Run("valid token exposes subject", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "user_2abc", time.Hour))
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user_2abc", w.Body.String())
	})

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "UNAUTHENTICATED")
	})

	t.Run("expired token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "user_2abc", -time.Minute))
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Token expired")
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "user_2abc"})
		signed, _ := token.SignedString([]byte("other"))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

type fakeResolver struct {
	principal *access.Principal
	err       error
}

func (f *fakeResolver) ResolveCallerUser(ctx context.Context, subject string) (*access.Principal, error) {
	return f.principal, f.err
}
func (f *fakeResolver) ResolveCallerEmployee(ctx context.Context, subject string) (*access.Principal, error) {
	return f.principal, f.err
}
func (f *fakeResolver) RequireAdmin(ctx context.Context, subject string) (*access.Principal, error) {
	return f.principal, f.err
}

func TestRequireEmployee(t *testing.T) {
	gin.SetMode(gin.TestMode)

	userID := uuid.New()
	employeeID := uuid.New()
	resolver := &fakeResolver{principal: &access.Principal{
		User:     access.UserRef{ID: userID, Role: access.RoleEmployee},
		Employee: &access.EmployeeRef{ID: employeeID, Department: "Sales"},
	}}

	r := gin.New()
	r.GET("/me", middleware.RequireEmployee(resolver), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":     c.GetString(middleware.KeyUserID),
			"employee_id": c.GetString(middleware.KeyEmployeeID),
			"department":  c.GetString(middleware.KeyDepartment),
		})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), employeeID.String())
	assert.Contains(t, w.Body.String(), "Sales")

	resolver.principal = nil
	resolver.err = accesserrors.ErrEmployeeNotFound
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "EMPLOYEE_NOT_FOUND")
}

func TestRequireAdmin_Forbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/admin", middleware.RequireAdmin(&fakeResolver{err: accesserrors.ErrAdminRequired}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestIdempotency(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rdb, mock := redismock.NewClientMock()
	calls := 0

	r := gin.New()
	r.POST("/check-in",
		func(c *gin.Context) { c.Set(middleware.KeyUserID, "u1"); c.Next() },
		middleware.Idempotency(rdb),
		func(c *gin.Context) {
			calls++
			c.Status(http.StatusCreated)
		},
	)

	cacheKey := "idemp:/check-in:u1:k1"

	t.Run("replays cached result", func(t *testing.T) {
		mock.ExpectGet(cacheKey).SetVal(`{"id":"att-1"}`)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/check-in", nil)
		req.Header.Set("Idempotency-Key", "k1")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "att-1")
		assert.Equal(t, 0, calls)
	})

	t.Run("rejects concurrent duplicate", func(t *testing.T) {
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(false)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/check-in", nil)
		req.Header.Set("Idempotency-Key", "k1")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, 0, calls)
	})

	t.Run("no key skips redis", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/check-in", nil))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimitByUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/x",
		func(c *gin.Context) { c.Set(middleware.KeyUserID, "u1"); c.Next() },
		middleware.RateLimitByUser(1, 1),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/ping", middleware.RequestID(), func(c *gin.Context) {
		c.String(http.StatusOK, contextutil.GetRequestID(c.Request.Context()))
	})

	t.Run("reuses caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(middleware.HeaderRequestID, "req-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "req-123", w.Body.String())
		assert.Equal(t, "req-123", w.Header().Get(middleware.HeaderRequestID))
	})

	t.Run("mints id when missing or oversized", func(t *testing.T) {
		for _, incoming := range []string{"", strings.Repeat("a", 101)} {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if incoming != "" {
				req.Header.Set(middleware.HeaderRequestID, incoming)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			_, err := uuid.Parse(w.Body.String())
			assert.NoError(t, err)
			assert.Equal(t, w.Body.String(), w.Header().Get(middleware.HeaderRequestID))
		}
	})
}
