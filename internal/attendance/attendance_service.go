package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	attendanceerrors "go-hrops/internal/attendance/errors"
	"go-hrops/internal/shared/clock"
	"go-hrops/internal/shared/contextutil"
	"go-hrops/internal/shared/dateutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	CheckIn(ctx context.Context, employeeID string, req GeoRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context, employeeID string, req GeoRequest) (AttendanceResponse, error)
	GetTodayStatus(ctx context.Context, employeeID string) (*AttendanceResponse, error)
	GetLogs(ctx context.Context, employeeID, attendanceID string) ([]LogResponse, error)
	GetLogsByAttendanceID(ctx context.Context, attendanceID string) ([]LogResponse, error)
	GetMyHistory(ctx context.Context, employeeID, startDate, endDate string) ([]AttendanceResponse, error)
	GetAllByDate(ctx context.Context, date string) ([]AttendanceResponse, error)
	GetByEmployee(ctx context.Context, employeeID, startDate, endDate string) ([]AttendanceResponse, error)
	ExportByDateRange(ctx context.Context, startDate, endDate, employeeID string) ([]byte, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	exporter Exporter
	clock    clock.Clock
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, exporter Exporter, clk clock.Clock, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	if exporter == nil {
		exporter = NewXLSXExporter()
	}
	return &service{db: db, repo: repo, exporter: exporter, clock: clock.Or(clk), logger: l}
}

// CheckIn opens a session on today's record, creating the record on the
// first check-in of the day.
func (s *service) CheckIn(ctx context.Context, employeeID string, req GeoRequest) (AttendanceResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidID
	}

	now := s.clock.Now()
	today := dateutil.Key(now)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("check in begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	record, err := qtx.FindByEmployeeDateForUpdate(ctx, employeeID, today)
	if err != nil {
		log.Error("check in lookup failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	switch {
	case record != nil && record.IsCheckedIn:
		log.Warn("check in while already checked in", zap.String("employee_id", employeeID), zap.String("date", today))
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedIn
	case record == nil:
		record = &Attendance{
			ID:           uuid.New(),
			EmployeeID:   employeeUUID,
			Date:         today,
			FirstCheckIn: now,
			LastCheckIn:  now,
			TotalHours:   decimal.Zero,
			Status:       StatusPresent,
			IsCheckedIn:  true,
		}
		if err := qtx.Create(ctx, record); err != nil {
			if !errors.Is(err, attendanceerrors.ErrAlreadyCheckedIn) {
				log.Error("check in create failed", zap.Error(err))
			}
			return AttendanceResponse{}, err
		}
	default:
		record.LastCheckIn = now
		record.IsCheckedIn = true
		if err := qtx.UpdateSession(ctx, record); err != nil {
			log.Error("check in update failed", zap.Error(err))
			return AttendanceResponse{}, err
		}
	}

	if err := qtx.CreateLog(ctx, newLog(record, LogCheckIn, now, req)); err != nil {
		log.Error("check in log failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("check in commit failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	log.Info("checked in", zap.String("employee_id", employeeID), zap.String("attendance_id", record.ID.String()))
	return mapToResponse(*record), nil
}

// CheckOut closes the open session and adds its hours to the day's total.
func (s *service) CheckOut(ctx context.Context, employeeID string, req GeoRequest) (AttendanceResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	now := s.clock.Now()
	today := dateutil.Key(now)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("check out begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	record, err := qtx.FindByEmployeeDateForUpdate(ctx, employeeID, today)
	if err != nil {
		log.Error("check out lookup failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if record == nil || !record.IsCheckedIn {
		log.Warn("check out without open session", zap.String("employee_id", employeeID), zap.String("date", today))
		return AttendanceResponse{}, attendanceerrors.ErrNotCheckedIn
	}

	record.TotalHours, record.Status = CloseSession(record.TotalHours, record.LastCheckIn, now)
	record.LastCheckOut = &now
	record.IsCheckedIn = false
	if err := qtx.UpdateSession(ctx, record); err != nil {
		log.Error("check out update failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	if err := qtx.CreateLog(ctx, newLog(record, LogCheckOut, now, req)); err != nil {
		log.Error("check out log failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("check out commit failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	log.Info("checked out",
		zap.String("employee_id", employeeID),
		zap.String("total_hours", record.TotalHours.String()),
		zap.String("status", record.Status),
	)
	return mapToResponse(*record), nil
}

func (s *service) GetTodayStatus(ctx context.Context, employeeID string) (*AttendanceResponse, error) {
	record, err := s.repo.FindByEmployeeDate(ctx, employeeID, dateutil.Key(s.clock.Now()))
	if err != nil || record == nil {
		return nil, err
	}
	resp := mapToResponse(*record)
	return &resp, nil
}

// GetLogs only returns logs of the caller's own attendance records.
func (s *service) GetLogs(ctx context.Context, employeeID, attendanceID string) ([]LogResponse, error) {
	record, err := s.findAttendance(ctx, attendanceID)
	if err != nil {
		return nil, err
	}
	if record.EmployeeID.String() != employeeID {
		contextutil.GetLogger(ctx, s.logger).Warn("attendance logs requested by non-owner",
			zap.String("attendance_id", attendanceID),
			zap.String("employee_id", employeeID),
		)
		return nil, attendanceerrors.ErrNotOwner
	}
	return s.logs(ctx, attendanceID)
}

func (s *service) GetLogsByAttendanceID(ctx context.Context, attendanceID string) ([]LogResponse, error) {
	if _, err := s.findAttendance(ctx, attendanceID); err != nil {
		return nil, err
	}
	return s.logs(ctx, attendanceID)
}

func (s *service) GetMyHistory(ctx context.Context, employeeID, startDate, endDate string) ([]AttendanceResponse, error) {
	if err := validateRange(startDate, endDate); err != nil {
		return nil, err
	}
	rows, err := s.repo.FindByEmployeeRange(ctx, employeeID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Employee = nil
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetAllByDate(ctx context.Context, date string) ([]AttendanceResponse, error) {
	if date == "" {
		date = dateutil.Key(s.clock.Now())
	}
	if !dateutil.Valid(date) {
		return nil, attendanceerrors.ErrInvalidDate
	}
	rows, err := s.repo.FindByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetByEmployee(ctx context.Context, employeeID, startDate, endDate string) ([]AttendanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, attendanceerrors.ErrInvalidID
	}
	if err := validateRange(startDate, endDate); err != nil {
		return nil, err
	}
	rows, err := s.repo.FindByEmployeeRange(ctx, employeeID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

// ExportByDateRange renders the records in range (optionally for a single
// employee) as an xlsx workbook.
func (s *service) ExportByDateRange(ctx context.Context, startDate, endDate, employeeID string) ([]byte, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	if err := validateRange(startDate, endDate); err != nil {
		return nil, err
	}
	if employeeID != "" {
		if _, err := uuid.Parse(employeeID); err != nil {
			return nil, attendanceerrors.ErrInvalidID
		}
	}

	rows, err := s.repo.FindForExport(ctx, startDate, endDate, employeeID)
	if err != nil {
		return nil, err
	}

	buf, err := s.exporter.Export(rows)
	if err != nil {
		log.Error("attendance export failed", zap.Error(err))
		return nil, attendanceerrors.ErrExportFailed
	}

	log.Info("attendance exported",
		zap.String("start_date", startDate),
		zap.String("end_date", endDate),
		zap.Int("rows", len(rows)),
	)
	return buf.Bytes(), nil
}

func (s *service) findAttendance(ctx context.Context, attendanceID string) (*Attendance, error) {
	if _, err := uuid.Parse(attendanceID); err != nil {
		return nil, attendanceerrors.ErrInvalidID
	}
	record, err := s.repo.FindByID(ctx, attendanceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, attendanceerrors.ErrAttendanceNotFound
		}
		return nil, err
	}
	return record, nil
}

func (s *service) logs(ctx context.Context, attendanceID string) ([]LogResponse, error) {
	rows, err := s.repo.FindLogs(ctx, attendanceID)
	if err != nil {
		return nil, err
	}
	return mapLogs(rows), nil
}

func newLog(a *Attendance, logType string, at time.Time, req GeoRequest) *AttendanceLog {
	return &AttendanceLog{
		ID:           uuid.New(),
		AttendanceID: a.ID,
		EmployeeID:   a.EmployeeID,
		Type:         logType,
		Time:         at,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Accuracy:     req.Accuracy,
	}
}

func validateRange(startDate, endDate string) error {
	if !dateutil.Valid(startDate) || !dateutil.Valid(endDate) {
		return attendanceerrors.ErrInvalidDate
	}
	if startDate > endDate {
		return attendanceerrors.ErrInvalidDateRange
	}
	return nil
}
