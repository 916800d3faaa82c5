package events

import "time"

const ShiftRequestResolvedTopic = "hr.shift.request.v1"

type ShiftRequestResolvedEvent struct {
	EventType     string    `json:"event_type"`
	EmployeeID    string    `json:"employee_id"`
	RequestedName string    `json:"requested_name"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}
