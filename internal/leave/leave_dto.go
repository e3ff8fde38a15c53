package leave

import (
	"time"

	"go-hrops/internal/shared/dateutil"
)

type ApplyLeaveRequest struct {
	LeaveTypeID  string  `json:"leave_type_id" binding:"required,uuid"`
	StartDate    string  `json:"start_date" binding:"required"`
	EndDate      string  `json:"end_date" binding:"required"`
	NumberOfDays float64 `json:"number_of_days" binding:"gte=0"`
	Reason       string  `json:"reason" binding:"required,max=1000"`
}

type ReviewLeaveRequest struct {
	Notes *string `json:"notes" binding:"omitempty,max=1000"`
}

type EmployeeInfo struct {
	EmployeeCode string `json:"employee_code"`
	Department   string `json:"department"`
	Designation  string `json:"designation"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
}

type LeaveTypeInfo struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type LeaveResponse struct {
	ID           string         `json:"id"`
	EmployeeID   string         `json:"employee_id"`
	LeaveTypeID  string         `json:"leave_type_id"`
	StartDate    string         `json:"start_date"`
	EndDate      string         `json:"end_date"`
	NumberOfDays float64        `json:"number_of_days"`
	Reason       string         `json:"reason"`
	Status       string         `json:"status"`
	AppliedOn    string         `json:"applied_on"`
	ReviewedBy   *string        `json:"reviewed_by,omitempty"`
	ReviewedOn   *string        `json:"reviewed_on,omitempty"`
	ReviewNotes  *string        `json:"review_notes,omitempty"`
	Employee     *EmployeeInfo  `json:"employee,omitempty"`
	LeaveType    *LeaveTypeInfo `json:"leave_type,omitempty"`
}

type BusinessDaysResponse struct {
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	BusinessDays int    `json:"business_days"`
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:           l.ID.String(),
		EmployeeID:   l.EmployeeID.String(),
		LeaveTypeID:  l.LeaveTypeID.String(),
		StartDate:    l.StartDate,
		EndDate:      l.EndDate,
		NumberOfDays: l.NumberOfDays.InexactFloat64(),
		Reason:       l.Reason,
		Status:       l.Status,
		AppliedOn:    l.AppliedOn.UTC().Format(time.RFC3339),
		ReviewNotes:  l.ReviewNotes,
	}
	if l.ReviewedBy != nil {
		v := l.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	if l.ReviewedOn != nil {
		v := l.ReviewedOn.UTC().Format(time.RFC3339)
		resp.ReviewedOn = &v
	}
	return resp
}

func mapViewToResponse(v RequestView) LeaveResponse {
	resp := mapToResponse(v.LeaveRequest)
	if v.EmployeeCode != "" {
		resp.Employee = &EmployeeInfo{
			EmployeeCode: v.EmployeeCode,
			Department:   v.Department,
			Designation:  v.Designation,
			FirstName:    v.FirstName,
			LastName:     v.LastName,
			Email:        v.Email,
		}
	}
	if v.LeaveTypeCode != "" {
		resp.LeaveType = &LeaveTypeInfo{Name: v.LeaveTypeName, Code: v.LeaveTypeCode}
	}
	return resp
}

func mapViewsToResponse(rows []RequestView) []LeaveResponse {
	res := make([]LeaveResponse, len(rows))
	for i, r := range rows {
		res[i] = mapViewToResponse(r)
	}
	return res
}

func yearOf(date string) int {
	y, _ := dateutil.Year(date)
	return y
}
