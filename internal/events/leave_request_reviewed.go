package events

import "time"

const (
	LeaveRequestTopic         = "hr.leave.request.v1"
	EventLeaveRequestReviewed = "leave_request.reviewed"
)

type LeaveRequestReviewedEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id,omitempty"`
	LeaveRequestID string    `json:"leave_request_id"`
	EmployeeID     string    `json:"employee_id"`
	Status         string    `json:"status"`
	NumberOfDays   string    `json:"number_of_days"`
	ReviewedBy     string    `json:"reviewed_by"`
	OccurredAt     time.Time `json:"occurred_at"`
}
