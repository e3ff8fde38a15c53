package leavebalance

import "go-hrops/internal/leavetype"

type BalanceResponse struct {
	ID              string                       `json:"id"`
	EmployeeID      string                       `json:"employee_id"`
	LeaveTypeID     string                       `json:"leave_type_id"`
	Year            int                          `json:"year"`
	TotalAllocation float64                      `json:"total_allocation"`
	Used            float64                      `json:"used"`
	CarriedForward  float64                      `json:"carried_forward"`
	Available       float64                      `json:"available"`
	LeaveType       *leavetype.LeaveTypeResponse `json:"leave_type,omitempty"`
}

func mapToResponse(b LeaveBalance) BalanceResponse {
	resp := BalanceResponse{
		ID:              b.ID.String(),
		EmployeeID:      b.EmployeeID.String(),
		LeaveTypeID:     b.LeaveTypeID.String(),
		Year:            b.Year,
		TotalAllocation: b.TotalAllocation.InexactFloat64(),
		Used:            b.Used.InexactFloat64(),
		CarriedForward:  b.CarriedForward.InexactFloat64(),
		Available:       b.Available().InexactFloat64(),
	}
	if b.LeaveType != nil {
		lt := leavetype.MapToResponse(*b.LeaveType)
		resp.LeaveType = &lt
	}
	return resp
}
