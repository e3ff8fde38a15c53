package leavetype

type CreateLeaveTypeRequest struct {
	Name            string   `json:"name" binding:"required,max=100"`
	Code            string   `json:"code" binding:"required,max=20"`
	Description     *string  `json:"description"`
	DefaultBalance  float64  `json:"default_balance" binding:"gte=0"`
	IsPaid          bool     `json:"is_paid"`
	CarryForward    bool     `json:"carry_forward"`
	MaxCarryForward *float64 `json:"max_carry_forward" binding:"omitempty,gte=0"`
}

type LeaveTypeResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Code            string   `json:"code"`
	Description     *string  `json:"description,omitempty"`
	DefaultBalance  float64  `json:"default_balance"`
	IsPaid          bool     `json:"is_paid"`
	IsActive        bool     `json:"is_active"`
	CarryForward    bool     `json:"carry_forward"`
	MaxCarryForward *float64 `json:"max_carry_forward,omitempty"`
}

func MapToResponse(lt LeaveType) LeaveTypeResponse {
	resp := LeaveTypeResponse{
		ID:             lt.ID.String(),
		Name:           lt.Name,
		Code:           lt.Code,
		Description:    lt.Description,
		DefaultBalance: lt.DefaultBalance.InexactFloat64(),
		IsPaid:         lt.IsPaid,
		IsActive:       lt.IsActive,
		CarryForward:   lt.CarryForward,
	}
	if lt.MaxCarryForward.Valid {
		v := lt.MaxCarryForward.Decimal.InexactFloat64()
		resp.MaxCarryForward = &v
	}
	return resp
}

func mapToListResponse(rows []LeaveType) []LeaveTypeResponse {
	res := make([]LeaveTypeResponse, len(rows))
	for i, r := range rows {
		res[i] = MapToResponse(r)
	}
	return res
}
