package attendance

import (
	"bytes"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const exportSheet = "Attendance"

var exportHeaders = []string{
	"Date", "Employee ID", "Employee", "Department", "First Check-in",
	"Last Check-in", "Last Check-out", "Total Hours", "Status", "Checked In",
}

type Exporter interface {
	Export(rows []Attendance) (*bytes.Buffer, error)
}

type xlsxExporter struct {
	logger *zap.Logger
}

func NewXLSXExporter(logger ...*zap.Logger) Exporter {
	l := zap.L().Named("attendance.export")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.export")
	}
	return xlsxExporter{logger: l}
}

func (x xlsxExporter) Export(rows []Attendance) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			x.logger.Warn("close xlsx file failed", zap.Error(err))
		}
	}()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, errors.Wrap(err, "rename attendance sheet")
	}

	row, err := writeHeader(f, exportSheet, 0, exportHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "write attendance header")
	}
	if len(rows) > 0 {
		if _, err := writeAttendanceRows(f, exportSheet, rows, row); err != nil {
			return nil, errors.Wrap(err, "write attendance rows")
		}
	}

	return f.WriteToBuffer()
}

func writeAttendanceRows(f *excelize.File, sheet string, rows []Attendance, row int) (int, error) {
	for _, a := range rows {
		row++
		values := []any{
			a.Date,
			employeeCode(a),
			employeeName(a),
			department(a),
			formatTime(&a.FirstCheckIn),
			formatTime(&a.LastCheckIn),
			formatTime(a.LastCheckOut),
			a.TotalHours.InexactFloat64(),
			a.Status,
			a.IsCheckedIn,
		}
		for i, v := range values {
			if err := writeColumn(f, sheet, i+1, row, v); err != nil {
				return row, err
			}
		}
	}
	return row, nil
}

func writeColumn(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}

func writeHeader(f *excelize.File, sheet string, row int, headers []string) (int, error) {
	row++
	style, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Font:      &excelize.Font{Bold: true, Size: 11},
	})
	if err != nil {
		return row, err
	}

	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return row, err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), row)
	if err != nil {
		return row, err
	}
	if err := f.SetCellStyle(sheet, first, last, style); err != nil {
		return row, err
	}

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return row, err
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 20); err != nil {
		return row, err
	}

	for i, h := range headers {
		if err := writeColumn(f, sheet, i+1, row, h); err != nil {
			return row, err
		}
	}
	return row, nil
}

func employeeCode(a Attendance) string {
	if a.Employee == nil {
		return a.EmployeeID.String()
	}
	return a.Employee.EmployeeCode
}

func employeeName(a Attendance) string {
	if a.Employee == nil || a.Employee.User == nil {
		return ""
	}
	return strings.TrimSpace(a.Employee.User.FirstName + " " + a.Employee.User.LastName)
}

func department(a Attendance) string {
	if a.Employee == nil {
		return ""
	}
	return a.Employee.Department
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
