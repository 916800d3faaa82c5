package leavebalance

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leavebalance_repo.go -destination=mock/leavebalance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByEmployee(ctx context.Context, employeeID string) ([]LeaveBalance, error)
	FindByEmployeeAndType(ctx context.Context, employeeID, leaveType string) (*LeaveBalance, error)
	Create(ctx context.Context, b *LeaveBalance) error
	Update(ctx context.Context, b *LeaveBalance) error
	ResetAllToDefaults(ctx context.Context, defaults map[string]int) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) ([]LeaveBalance, error) {
	var balances []LeaveBalance
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Find(&balances).Error
	return balances, err
}

func (r *repository) FindByEmployeeAndType(ctx context.Context, employeeID, leaveType string) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Where("leave_type = ?", leaveType).
		First(&b).Error
	return &b, err
}

func (r *repository) Create(ctx context.Context, b *LeaveBalance) error {
	return r.conn(ctx).Create(b).Error
}

func (r *repository) Update(ctx context.Context, b *LeaveBalance) error {
	return r.conn(ctx).Save(b).Error
}

// ResetAllToDefaults rewrites every row in one statement so the reset is
// atomic within the caller's transaction.
func (r *repository) ResetAllToDefaults(ctx context.Context, defaults map[string]int) error {
	return r.conn(ctx).Exec(`
		UPDATE leave_balances
		SET balance = CASE leave_type
			WHEN 'SICK' THEN ?
			WHEN 'CASUAL' THEN ?
			WHEN 'PAID' THEN ?
			ELSE balance
		END,
		updated_at = now()
	`, defaults[TypeSick], defaults[TypeCasual], defaults[TypePaid]).Error
}
