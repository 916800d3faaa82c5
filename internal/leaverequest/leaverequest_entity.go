package leaverequest

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

// DateLayout is the wire format for leave dates.
const DateLayout = "2006-01-02"

type LeaveRequest struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID    uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee"`
	LeaveType     string    `gorm:"type:varchar(20);not null"`
	StartDate     time.Time `gorm:"type:date;not null"`
	EndDate       time.Time `gorm:"type:date;not null"`
	DaysRequested int       `gorm:"not null"`
	Status        string    `gorm:"type:varchar(20);not null;default:PENDING"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// IsTerminal reports whether the request can no longer change state.
func (r LeaveRequest) IsTerminal() bool {
	return r.Status != StatusPending
}

// daysBetween counts calendar days in [start, end], both ends included.
// A single-day request counts as one day.
func daysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}
