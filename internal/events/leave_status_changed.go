package events

import "time"

const LeaveStatusChangedTopic = "hr.leave.status.v1"

type LeaveStatusChangedEvent struct {
	EventType     string    `json:"event_type"`
	RequestID     string    `json:"request_id"`
	EmployeeID    string    `json:"employee_id"`
	LeaveType     string    `json:"leave_type"`
	Status        string    `json:"status"`
	DaysRequested int       `json:"days_requested"`
	OccurredAt    time.Time `json:"occurred_at"`
}
