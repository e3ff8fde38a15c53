package user

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-hrops/internal/access"
	"go-hrops/internal/shared/contextutil"
	usererrors "go-hrops/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	HandleIdentityEvent(ctx context.Context, event IdentityWebhookEvent) error
	UpsertFromIdentity(ctx context.Context, identity Identity) (UserResponse, error)
	DeleteFromIdentity(ctx context.Context, subject string) error
	GetMe(ctx context.Context, subject string) (*UserResponse, error)
	GetMeWithEmployee(ctx context.Context, subject string) (*MeWithEmployeeResponse, error)
	EnsureMe(ctx context.Context, subject string, req SyncMeRequest) (UserResponse, error)
	SetRole(ctx context.Context, userID string, req SetRoleRequest) (UserResponse, error)
	ListAll(ctx context.Context) ([]UserResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

// HandleIdentityEvent applies one identity-provider webhook event. Unknown
// event types and events without a user id are ignored.
func (s *service) HandleIdentityEvent(ctx context.Context, event IdentityWebhookEvent) error {
	log := contextutil.GetLogger(ctx, s.logger)

	switch event.Type {
	case EventUserCreated, EventUserUpdated, EventUserDeleted:
	default:
		log.Debug("identity event ignored", zap.String("type", event.Type))
		return nil
	}

	var data IdentityUserData
	if err := json.Unmarshal(event.Data, &data); err != nil || data.ID == "" {
		log.Warn("identity event without usable user data", zap.String("type", event.Type), zap.Error(err))
		return nil
	}

	if event.Type == EventUserDeleted {
		return s.DeleteFromIdentity(ctx, data.ID)
	}
	_, err := s.UpsertFromIdentity(ctx, data.ToIdentity())
	return err
}

func (s *service) UpsertFromIdentity(ctx context.Context, identity Identity) (UserResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	if identity.Subject == "" {
		return UserResponse{}, usererrors.ErrMissingSubject
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("upsert user begin tx failed", zap.Error(err))
		return UserResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	row := &User{
		ID:        uuid.New(),
		Subject:   identity.Subject,
		Email:     identity.Email,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		ImageURL:  identity.ImageURL,
		Role:      access.RoleEmployee,
	}
	if err := qtx.Upsert(ctx, row); err != nil {
		log.Error("upsert user persist failed", zap.String("subject", identity.Subject), zap.Error(err))
		return UserResponse{}, err
	}

	saved, err := qtx.FindBySubject(ctx, identity.Subject)
	if err != nil {
		log.Error("upsert user reload failed", zap.String("subject", identity.Subject), zap.Error(err))
		return UserResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("upsert user commit failed", zap.Error(err))
		return UserResponse{}, err
	}

	log.Info("user synced from identity provider",
		zap.String("user_id", saved.ID.String()),
		zap.String("subject", saved.Subject),
	)
	return mapToResponse(*saved), nil
}

func (s *service) DeleteFromIdentity(ctx context.Context, subject string) error {
	log := contextutil.GetLogger(ctx, s.logger)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("delete user begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	deleted, err := s.repo.WithTx(tx).DeleteBySubject(ctx, subject)
	if err != nil {
		log.Error("delete user failed", zap.String("subject", subject), zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("delete user commit failed", zap.Error(err))
		return err
	}

	log.Info("user deleted from identity provider", zap.String("subject", subject), zap.Int64("rows", deleted))
	return nil
}

// GetMe returns nil (not an error) when the caller cannot be resolved.
func (s *service) GetMe(ctx context.Context, subject string) (*UserResponse, error) {
	u, err := s.findCaller(ctx, subject)
	if err != nil || u == nil {
		return nil, err
	}
	resp := mapToResponse(*u)
	return &resp, nil
}

func (s *service) GetMeWithEmployee(ctx context.Context, subject string) (*MeWithEmployeeResponse, error) {
	u, err := s.findCaller(ctx, subject)
	if err != nil || u == nil {
		return nil, err
	}

	resp := &MeWithEmployeeResponse{User: mapToResponse(*u)}
	emp, err := s.repo.FindEmployeeByUserID(ctx, u.ID.String())
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("get me employee lookup failed", zap.String("user_id", u.ID.String()), zap.Error(err))
		return nil, err
	}
	if emp != nil {
		resp.Employee = mapEmployeeSummary(*emp)
	}
	return resp, nil
}

// EnsureMe lets a signed-in caller create its own user row before the
// webhook arrives. Empty fields keep the stored values.
func (s *service) EnsureMe(ctx context.Context, subject string, req SyncMeRequest) (UserResponse, error) {
	identity := Identity{
		Subject:   subject,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		ImageURL:  req.ImageURL,
	}

	existing, err := s.findCaller(ctx, subject)
	if err != nil {
		return UserResponse{}, err
	}
	if existing != nil {
		if identity.Email == "" {
			identity.Email = existing.Email
		}
		if identity.FirstName == "" {
			identity.FirstName = existing.FirstName
		}
		if identity.LastName == "" {
			identity.LastName = existing.LastName
		}
		if identity.ImageURL == nil {
			identity.ImageURL = existing.ImageURL
		}
	}

	return s.UpsertFromIdentity(ctx, identity)
}

func (s *service) SetRole(ctx context.Context, userID string, req SetRoleRequest) (UserResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}
	if req.Role != access.RoleAdmin && req.Role != access.RoleEmployee {
		return UserResponse{}, usererrors.ErrInvalidRole
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return UserResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.UpdateRole(ctx, userID, req.Role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		s.logger.Error("set role persist failed", zap.String("user_id", userID), zap.Error(err))
		return UserResponse{}, err
	}

	u, err := qtx.FindByID(ctx, userID)
	if err != nil {
		return UserResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("set role commit failed", zap.Error(err))
		return UserResponse{}, err
	}

	s.logger.Info("user role changed", zap.String("user_id", userID), zap.String("role", req.Role))
	return mapToResponse(*u), nil
}

func (s *service) ListAll(ctx context.Context) ([]UserResponse, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]UserResponse, len(users))
	for i, u := range users {
		res[i] = mapToResponse(u)
	}
	return res, nil
}

func (s *service) findCaller(ctx context.Context, subject string) (*User, error) {
	if subject == "" {
		return nil, nil
	}
	u, err := s.repo.FindBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func mapToResponse(u User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Subject:   u.Subject,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		ImageURL:  u.ImageURL,
		Role:      u.Role,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

func mapEmployeeSummary(e UserEmployee) *EmployeeSummary {
	summary := &EmployeeSummary{
		ID:            e.ID.String(),
		EmployeeCode:  e.EmployeeCode,
		Department:    e.Department,
		Designation:   e.Designation,
		DateOfJoining: e.DateOfJoining,
		Status:        e.Status,
	}
	if e.ManagerID != nil {
		v := e.ManagerID.String()
		summary.ManagerID = &v
	}
	return summary
}
