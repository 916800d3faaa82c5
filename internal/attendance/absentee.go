package attendance

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hrflow/internal/directory"
)

// Sweeper backfills ABSENT rows for employees with no attendance record on
// the previous calendar day.
type Sweeper struct {
	db     *sql.DB
	repo   Repository
	org    directory.Directory
	logger *zap.Logger
}

func NewSweeper(db *sql.DB, repo Repository, org directory.Directory, logger ...*zap.Logger) *Sweeper {
	l := zap.L().Named("attendance.sweeper")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.sweeper")
	}
	return &Sweeper{db: db, repo: repo, org: org, logger: l}
}

// MarkAbsentees sweeps the day before asOf. Each employee is an independent
// unit of work: a failure is logged and the sweep moves on. Re-running for
// the same day finds the existing rows and inserts nothing.
func (s *Sweeper) MarkAbsentees(ctx context.Context, asOf time.Time) error {
	target := asOf.UTC().Truncate(24 * time.Hour).AddDate(0, 0, -1)

	employeeIDs, err := s.org.AllEmployeeIDs(ctx)
	if err != nil {
		s.logger.Error("absentee sweep could not list employees", zap.Error(err))
		return err
	}

	s.logger.Info("absentee sweep started",
		zap.String("date", target.Format(DateLayout)),
		zap.Int("employees", len(employeeIDs)),
	)

	var marked, skipped, failed int
	for _, employeeID := range employeeIDs {
		ok, err := s.markOne(ctx, employeeID, target)
		if err != nil {
			failed++
			s.logger.Error("absentee sweep failed for employee",
				zap.String("employee_id", employeeID),
				zap.String("date", target.Format(DateLayout)),
				zap.Error(err),
			)
			continue
		}
		if ok {
			marked++
		} else {
			skipped++
		}
	}

	s.logger.Info("absentee sweep finished",
		zap.String("date", target.Format(DateLayout)),
		zap.Int("marked", marked),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
	)
	return nil
}

func (s *Sweeper) markOne(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.HasRecordForDate(ctx, employeeID, date)
	if err != nil {
		return false, err
	}
	if exists {
		return false, tx.Commit()
	}

	row := &Attendance{
		ID:             uuid.New(),
		EmployeeID:     employeeUUID,
		AttendanceDate: date,
		WorkHours:      0,
		Status:         StatusAbsent,
	}
	if err := qtx.Create(ctx, row); err != nil {
		return false, err
	}
	return true, tx.Commit()
}
