package shift

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ShiftAssignment is an employee's effective schedule. Assignments are never
// updated in place except through an approved change request; the current one
// is whichever row has the latest end date.
type ShiftAssignment struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_shift_assignments_employee"`
	ShiftName  string    `gorm:"type:varchar(50);not null"`
	StartDate  time.Time `gorm:"type:date;not null"`
	EndDate    time.Time `gorm:"type:date;not null"`
	StartTime  string    `gorm:"type:varchar(5);not null"`
	EndTime    string    `gorm:"type:varchar(5);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (ShiftAssignment) TableName() string {
	return "shift_assignments"
}

type ShiftChangeRequest struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID        uuid.UUID `gorm:"type:uuid;not null;index:idx_shift_requests_employee"`
	RequestedName     string    `gorm:"type:varchar(50);not null"`
	StartTime         string    `gorm:"type:varchar(5);not null"`
	EndTime           string    `gorm:"type:varchar(5);not null"`
	Status            string    `gorm:"type:varchar(20);not null;default:PENDING"`
	AssignedShiftID   uuid.UUID `gorm:"type:uuid;not null"`
	AssignedShiftName string    `gorm:"type:varchar(50);not null"`
	RequestedAt       time.Time `gorm:"not null"`
}

func (ShiftChangeRequest) TableName() string {
	return "shift_change_requests"
}

// UpdatedRequestHistory is the append-only log of resolved change requests.
// Rows are written once and never touched again.
type UpdatedRequestHistory struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID    uuid.UUID `gorm:"type:uuid;not null;index:idx_shift_history_employee"`
	RequestedName string    `gorm:"type:varchar(50);not null"`
	StartTime     string    `gorm:"type:varchar(5);not null"`
	EndTime       string    `gorm:"type:varchar(5);not null"`
	StartDate     time.Time `gorm:"type:date;not null"`
	EndDate       time.Time `gorm:"type:date;not null"`
	Status        string    `gorm:"type:varchar(20);not null"`
	ResolvedAt    time.Time `gorm:"not null"`
}

func (UpdatedRequestHistory) TableName() string {
	return "updated_request_history"
}
