package access

import (
	"context"
	"errors"

	accesserrors "go-hrops/internal/access/errors"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=access_service.go -destination=mock/access_service_mock.go -package=mock
type Service interface {
	ResolveCallerUser(ctx context.Context, subject string) (*Principal, error)
	ResolveCallerEmployee(ctx context.Context, subject string) (*Principal, error)
	RequireAdmin(ctx context.Context, subject string) (*Principal, error)
	Authorize(p *Principal, resource, action string) (bool, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	logger   *zap.Logger
}

func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("access.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("access.service")
	}
	return &service{repo: repo, enforcer: enforcer, logger: l}
}

func (s *service) ResolveCallerUser(ctx context.Context, subject string) (*Principal, error) {
	if subject == "" {
		return nil, accesserrors.ErrUnauthenticated
	}

	u, err := s.repo.FindUserBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Debug("caller has no user record", zap.String("subject", subject))
			return nil, accesserrors.ErrUserNotFound
		}
		s.logger.Error("resolve caller user failed", zap.String("subject", subject), zap.Error(err))
		return nil, err
	}
	return &Principal{User: *u}, nil
}

func (s *service) ResolveCallerEmployee(ctx context.Context, subject string) (*Principal, error) {
	p, err := s.ResolveCallerUser(ctx, subject)
	if err != nil {
		return nil, err
	}

	emp, err := s.repo.FindEmployeeByUserID(ctx, p.User.ID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, accesserrors.ErrEmployeeNotFound
		}
		s.logger.Error("resolve caller employee failed", zap.String("user_id", p.User.ID.String()), zap.Error(err))
		return nil, err
	}
	p.Employee = emp
	return p, nil
}

func (s *service) RequireAdmin(ctx context.Context, subject string) (*Principal, error) {
	p, err := s.ResolveCallerUser(ctx, subject)
	if err != nil {
		return nil, err
	}

	allowed, err := s.Authorize(p, ResourceAdmin, ActionManage)
	if err != nil {
		return nil, err
	}
	if !allowed {
		s.logger.Warn("admin access denied",
			zap.String("user_id", p.User.ID.String()),
			zap.String("role", p.User.Role),
		)
		return nil, accesserrors.ErrAdminRequired
	}
	return p, nil
}

func (s *service) Authorize(p *Principal, resource, action string) (bool, error) {
	if p == nil {
		return false, accesserrors.ErrUnauthenticated
	}
	return s.enforcer.Enforce(p.User.Role, resource, action)
}
