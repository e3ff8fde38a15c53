package middleware

import (
	"errors"
	"fmt"
	"strings"

	accesserrors "go-hrops/internal/access/errors"
	"go-hrops/internal/shared/apperror"
	"go-hrops/internal/shared/contextutil"
	"go-hrops/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	KeySubject    = "subject"
	KeyUserID     = "user_id"
	KeyRole       = "role"
	KeyEmployeeID = "employee_id"
	KeyDepartment = "department"
)

var errTokenExpired = apperror.New(apperror.CodeUnauthenticated, "Token expired", 401)

// AuthMiddleware verifies the identity provider's bearer token and stores
// its subject. It does not look the caller up; see RequireUser and friends.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found || tokenString == "" {
			if cookie, err := c.Cookie("__session"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			abortWithError(c, accesserrors.ErrUnauthenticated)
			return
		}

		claims := jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, errTokenExpired)
				return
			}
			abortWithError(c, accesserrors.ErrUnauthenticated)
			return
		}

		if claims.Subject == "" {
			abortWithError(c, accesserrors.ErrUnauthenticated)
			return
		}

		c.Set(KeySubject, claims.Subject)
		c.Request = c.Request.WithContext(contextutil.WithSubject(c.Request.Context(), claims.Subject))
		c.Next()
	}
}

func abortWithError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
	c.Abort()
}
