package attendance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPresent = "PRESENT"
	StatusLate    = "LATE"
	StatusAbsent  = "ABSENT"
)

const DateLayout = "2006-01-02"

// Attendance holds one row per employee per calendar day. Absentee rows have
// no clock times and zero work hours.
type Attendance struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EmployeeID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_employee_date"`
	AttendanceDate time.Time  `gorm:"type:date;not null;uniqueIndex:uq_attendance_employee_date"`
	ClockIn        *time.Time `gorm:"type:timestamptz"`
	ClockOut       *time.Time `gorm:"type:timestamptz"`
	WorkHours      float64    `gorm:"not null;default:0"`
	Status         string     `gorm:"type:varchar(20);not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Attendance) TableName() string {
	return "attendances"
}
