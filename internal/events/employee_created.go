package events

import "time"

const (
	EmployeeLifecycleTopic = "hr.employee.lifecycle.v1"
	EventEmployeeCreated   = "employee.created"
)

type EmployeeCreatedEvent struct {
	EventType    string    `json:"event_type"`
	RequestID    string    `json:"request_id,omitempty"`
	EmployeeID   string    `json:"employee_id"`
	UserID       string    `json:"user_id"`
	EmployeeCode string    `json:"employee_code"`
	Department   string    `json:"department"`
	OccurredAt   time.Time `json:"occurred_at"`
}
