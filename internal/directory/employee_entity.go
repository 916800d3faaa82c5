package directory

import (
	"time"

	"github.com/google/uuid"
)

// Employee rows form a flat org chart: ManagerID points at another row in
// the same table by id, never at an embedded object graph.
type Employee struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FullName  string     `gorm:"type:varchar(255);not null"`
	Email     string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	Role      string     `gorm:"type:varchar(20);not null;default:'EMPLOYEE'"`
	ManagerID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Employee) TableName() string {
	return "employees"
}
