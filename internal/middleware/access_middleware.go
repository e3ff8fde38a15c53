package middleware

import (
	"context"

	"go-hrops/internal/access"
	"go-hrops/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CallerResolver is the subset of access.Service the route guards need.
type CallerResolver interface {
	ResolveCallerUser(ctx context.Context, subject string) (*access.Principal, error)
	ResolveCallerEmployee(ctx context.Context, subject string) (*access.Principal, error)
	RequireAdmin(ctx context.Context, subject string) (*access.Principal, error)
}

type resolveFunc func(ctx context.Context, subject string) (*access.Principal, error)

// RequireUser lets through any caller that has a User record.
func RequireUser(r CallerResolver) gin.HandlerFunc {
	return guard(r.ResolveCallerUser)
}

// RequireEmployee additionally requires an Employee record.
func RequireEmployee(r CallerResolver) gin.HandlerFunc {
	return guard(r.ResolveCallerEmployee)
}

func RequireAdmin(r CallerResolver) gin.HandlerFunc {
	return guard(r.RequireAdmin)
}

func guard(resolve resolveFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := resolve(c.Request.Context(), c.GetString(KeySubject))
		if err != nil {
			abortWithError(c, err)
			return
		}
		setPrincipal(c, p)
		c.Next()
	}
}

func setPrincipal(c *gin.Context, p *access.Principal) {
	userID := p.User.ID.String()
	c.Set(KeyUserID, userID)
	c.Set(KeyRole, p.User.Role)

	fields := []zap.Field{zap.String("user_id", userID)}
	if p.Employee != nil {
		c.Set(KeyEmployeeID, p.Employee.ID.String())
		c.Set(KeyDepartment, p.Employee.Department)
		fields = append(fields, zap.String("employee_id", p.Employee.ID.String()))
	}

	ctx := contextutil.WithUserID(c.Request.Context(), userID)
	ctx = contextutil.WithLogger(ctx, contextutil.GetLogger(ctx, zap.L()).With(fields...))
	c.Request = c.Request.WithContext(ctx)
}
