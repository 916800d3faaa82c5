package leavebalance

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeSick   = "SICK"
	TypeCasual = "CASUAL"
	TypePaid   = "PAID"
)

// Default allotments per leave type. Rows are created lazily with these
// values and the monthly reset restores them.
var defaultAllotments = map[string]int{
	TypeSick:   3,
	TypeCasual: 5,
	TypePaid:   2,
}

// CanonicalTypes lists every leave type an employee owns a balance for.
var CanonicalTypes = []string{TypeSick, TypeCasual, TypePaid}

func DefaultAllotment(leaveType string) (int, bool) {
	d, ok := defaultAllotments[leaveType]
	return d, ok
}

type LeaveBalance struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_balances_employee_type"`
	LeaveType  string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_balances_employee_type"`
	Balance    int       `gorm:"type:int;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}
