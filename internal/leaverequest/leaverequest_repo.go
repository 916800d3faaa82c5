package leaverequest

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leaverequest_repo.go -destination=mock/leaverequest_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *LeaveRequest) error
	Update(ctx context.Context, r *LeaveRequest) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindLatestByEmployee(ctx context.Context, employeeID string) (*LeaveRequest, error)
	FindByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	FindPendingByEmployees(ctx context.Context, employeeIDs []string) ([]LeaveRequest, error)
	ExistsOverlapping(ctx context.Context, employeeID string, start, end time.Time) (bool, error)
	FindStartingInRange(ctx context.Context, start, end time.Time) ([]LeaveRequest, error)
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

func (r *repository) Create(ctx context.Context, req *LeaveRequest) error {
	return r.conn(ctx).Create(req).Error
}

func (r *repository) Update(ctx context.Context, req *LeaveRequest) error {
	return r.conn(ctx).Save(req).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.conn(ctx).Where("id = ?", id).Delete(&LeaveRequest{}).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var req LeaveRequest
	err := r.conn(ctx).Where("id = ?", id).First(&req).Error
	return &req, err
}

func (r *repository) FindLatestByEmployee(ctx context.Context, employeeID string) (*LeaveRequest, error) {
	var req LeaveRequest
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		First(&req).Error
	return &req, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error) {
	var rows []LeaveRequest
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindPendingByEmployees(ctx context.Context, employeeIDs []string) ([]LeaveRequest, error) {
	if len(employeeIDs) == 0 {
		return []LeaveRequest{}, nil
	}
	var rows []LeaveRequest
	err := r.conn(ctx).
		Where("employee_id IN ?", employeeIDs).
		Where("status = ?", StatusPending).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// ExistsOverlapping matches any non-cancelled request whose inclusive date
// range intersects [start, end].
func (r *repository) ExistsOverlapping(ctx context.Context, employeeID string, start, end time.Time) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&LeaveRequest{}).
		Where("employee_id = ?", employeeID).
		Where("status <> ?", StatusCancelled).
		Where("NOT (end_date < ? OR start_date > ?)", start, end).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindStartingInRange(ctx context.Context, start, end time.Time) ([]LeaveRequest, error) {
	var rows []LeaveRequest
	err := r.conn(ctx).
		Where("start_date BETWEEN ? AND ?", start, end).
		Order("start_date ASC").
		Find(&rows).Error
	return rows, err
}
