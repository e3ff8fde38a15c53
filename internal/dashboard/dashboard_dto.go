package dashboard

type SummaryResponse struct {
	Date             string `json:"date"`
	ActiveEmployees  int64  `json:"active_employees"`
	PresentToday     int64  `json:"present_today"`
	CurrentlyWorking int64  `json:"currently_working"`
	PendingLeaves    int64  `json:"pending_leaves"`
	OnLeaveToday     int64  `json:"on_leave_today"`
}

func mapToResponse(s Summary) SummaryResponse {
	return SummaryResponse{
		Date:             s.Date,
		ActiveEmployees:  s.ActiveEmployees,
		PresentToday:     s.PresentToday,
		CurrentlyWorking: s.CurrentlyWorking,
		PendingLeaves:    s.PendingLeaves,
		OnLeaveToday:     s.OnLeaveToday,
	}
}
