package shift

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=shift_repo.go -destination=mock/shift_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	CreateAssignment(ctx context.Context, a *ShiftAssignment) error
	UpdateAssignment(ctx context.Context, a *ShiftAssignment) error
	FindLatestAssignment(ctx context.Context, employeeID string) (*ShiftAssignment, error)
	FindAssignmentsStartingInRange(ctx context.Context, start, end time.Time) ([]ShiftAssignment, error)

	CreateChangeRequest(ctx context.Context, r *ShiftChangeRequest) error
	DeleteChangeRequest(ctx context.Context, id string) error
	FindLatestChangeRequest(ctx context.Context, employeeID string) (*ShiftChangeRequest, error)

	CreateHistory(ctx context.Context, h *UpdatedRequestHistory) error
	FindHistoryByEmployee(ctx context.Context, employeeID string) ([]UpdatedRequestHistory, error)
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

func (r *repository) CreateAssignment(ctx context.Context, a *ShiftAssignment) error {
	return r.conn(ctx).Create(a).Error
}

func (r *repository) UpdateAssignment(ctx context.Context, a *ShiftAssignment) error {
	return r.conn(ctx).Save(a).Error
}

// FindLatestAssignment picks the row with the latest end date, which is the
// employee's currently effective schedule.
func (r *repository) FindLatestAssignment(ctx context.Context, employeeID string) (*ShiftAssignment, error) {
	var a ShiftAssignment
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Order("end_date DESC").
		First(&a).Error
	return &a, err
}

func (r *repository) FindAssignmentsStartingInRange(ctx context.Context, start, end time.Time) ([]ShiftAssignment, error) {
	var rows []ShiftAssignment
	err := r.conn(ctx).
		Where("start_date BETWEEN ? AND ?", start, end).
		Order("start_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) CreateChangeRequest(ctx context.Context, req *ShiftChangeRequest) error {
	return r.conn(ctx).Create(req).Error
}

func (r *repository) DeleteChangeRequest(ctx context.Context, id string) error {
	return r.conn(ctx).Where("id = ?", id).Delete(&ShiftChangeRequest{}).Error
}

func (r *repository) FindLatestChangeRequest(ctx context.Context, employeeID string) (*ShiftChangeRequest, error) {
	var req ShiftChangeRequest
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Order("requested_at DESC").
		First(&req).Error
	return &req, err
}

func (r *repository) CreateHistory(ctx context.Context, h *UpdatedRequestHistory) error {
	return r.conn(ctx).Create(h).Error
}

func (r *repository) FindHistoryByEmployee(ctx context.Context, employeeID string) ([]UpdatedRequestHistory, error) {
	var rows []UpdatedRequestHistory
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Order("resolved_at DESC").
		Find(&rows).Error
	return rows, err
}
