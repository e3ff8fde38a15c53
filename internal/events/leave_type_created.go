package events

import "time"

const (
	LeaveTypeTopic        = "hr.leave.type.v1"
	EventLeaveTypeCreated = "leave_type.created"
)

// LeaveTypeCreatedEvent drives balance allocation for existing employees.
type LeaveTypeCreatedEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id,omitempty"`
	LeaveTypeID string    `json:"leave_type_id"`
	Code        string    `json:"code"`
	Year        int       `json:"year"`
	OccurredAt  time.Time `json:"occurred_at"`
}
