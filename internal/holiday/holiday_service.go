package holiday

import (
	"context"
	"database/sql"
	"errors"

	holidayerrors "go-hrops/internal/holiday/errors"
	"go-hrops/internal/shared/cache"
	"go-hrops/internal/shared/clock"
	"go-hrops/internal/shared/contextutil"
	"go-hrops/internal/shared/dateutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=holiday_service.go -destination=mock/holiday_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, userID string, req CreateHolidayRequest) (HolidayResponse, error)
	Update(ctx context.Context, id string, req UpdateHolidayRequest) (HolidayResponse, error)
	Remove(ctx context.Context, id string) error
	ListAll(ctx context.Context, location string) ([]HolidayResponse, error)
	GetLocations(ctx context.Context) ([]string, error)
	GetUpcoming(ctx context.Context, department, fromDate string, limit int) ([]HolidayResponse, error)
	GetForYear(ctx context.Context, department string, year int) ([]HolidayResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	cache  *cache.Loader
	clock  clock.Clock
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, loader *cache.Loader, clk clock.Clock, logger ...*zap.Logger) Service {
	l := zap.L().Named("holiday.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("holiday.service")
	}
	if loader == nil {
		loader = cache.NewLoader(nil, l)
	}
	return &service{db: db, repo: repo, cache: loader, clock: clock.Or(clk), logger: l}
}

func (s *service) Create(ctx context.Context, userID string, req CreateHolidayRequest) (HolidayResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	if !dateutil.Valid(req.Date) {
		return HolidayResponse{}, holidayerrors.ErrInvalidDate
	}
	createdBy, err := uuid.Parse(userID)
	if err != nil {
		return HolidayResponse{}, holidayerrors.ErrInvalidID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create holiday begin tx failed", zap.Error(err))
		return HolidayResponse{}, err
	}
	defer tx.Rollback()

	h := &Holiday{
		ID:          uuid.New(),
		Name:        req.Name,
		Date:        req.Date,
		Description: req.Description,
		Location:    normalizeLocation(req.Location),
		IsActive:    true,
		CreatedBy:   createdBy,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.repo.WithTx(tx).Create(ctx, h); err != nil {
		log.Error("create holiday persist failed", zap.Error(err))
		return HolidayResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("create holiday commit failed", zap.Error(err))
		return HolidayResponse{}, err
	}

	log.Info("holiday created",
		zap.String("holiday_id", h.ID.String()),
		zap.String("date", h.Date),
		zap.String("location", h.Location),
	)
	return mapToResponse(*h), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateHolidayRequest) (HolidayResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	if _, err := uuid.Parse(id); err != nil {
		return HolidayResponse{}, holidayerrors.ErrInvalidID
	}
	if !dateutil.Valid(req.Date) {
		return HolidayResponse{}, holidayerrors.ErrInvalidDate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("update holiday begin tx failed", zap.Error(err))
		return HolidayResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	h, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return HolidayResponse{}, holidayerrors.ErrHolidayNotFound
		}
		log.Error("update holiday fetch failed", zap.Error(err))
		return HolidayResponse{}, err
	}

	h.Name = req.Name
	h.Date = req.Date
	h.Description = req.Description
	h.Location = normalizeLocation(req.Location)
	if req.IsActive != nil {
		h.IsActive = *req.IsActive
	}
	if err := qtx.Update(ctx, h); err != nil {
		log.Error("update holiday persist failed", zap.Error(err))
		return HolidayResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("update holiday commit failed", zap.Error(err))
		return HolidayResponse{}, err
	}

	log.Info("holiday updated", zap.String("holiday_id", id))
	return mapToResponse(*h), nil
}

// Remove deletes the row outright; inactive holidays are kept via Update.
func (s *service) Remove(ctx context.Context, id string) error {
	log := contextutil.GetLogger(ctx, s.logger)
	if _, err := uuid.Parse(id); err != nil {
		return holidayerrors.ErrInvalidID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("remove holiday begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	n, err := s.repo.WithTx(tx).Delete(ctx, id)
	if err != nil {
		log.Error("remove holiday failed", zap.Error(err))
		return err
	}
	if n == 0 {
		return holidayerrors.ErrHolidayNotFound
	}

	if err := tx.Commit(); err != nil {
		log.Error("remove holiday commit failed", zap.Error(err))
		return err
	}

	log.Info("holiday removed", zap.String("holiday_id", id))
	return nil
}

func (s *service) ListAll(ctx context.Context, location string) ([]HolidayResponse, error) {
	rows, err := s.repo.FindAll(ctx, normalizeLocation(location))
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetLocations(ctx context.Context) ([]string, error) {
	return cache.GetOrLoad(ctx, s.cache, cache.DepartmentsKey, cache.DepartmentsTTL, s.repo.FindDepartments)
}

// GetUpcoming lists holidays visible to department from fromDate (default
// today) onwards. limit 0 returns all of them.
func (s *service) GetUpcoming(ctx context.Context, department, fromDate string, limit int) ([]HolidayResponse, error) {
	if fromDate == "" {
		fromDate = dateutil.Key(s.clock.Now())
	}
	if !dateutil.Valid(fromDate) {
		return nil, holidayerrors.ErrInvalidDate
	}
	if limit < 0 {
		return nil, holidayerrors.ErrInvalidLimit
	}
	rows, err := s.repo.FindVisible(ctx, department, fromDate, "", limit)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetForYear(ctx context.Context, department string, year int) ([]HolidayResponse, error) {
	if year < 1000 || year > 9999 {
		return nil, holidayerrors.ErrInvalidYear
	}
	from, to := dateutil.YearBounds(year)
	rows, err := s.repo.FindVisible(ctx, department, from, to, 0)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}
