package attendance_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"hrflow/internal/attendance"
	attendanceerrors "hrflow/internal/attendance/errors"
)

type fakeAttendanceRepository struct {
	withTxFn                func(tx *sql.Tx) attendance.Repository
	createFn                func(ctx context.Context, a *attendance.Attendance) error
	updateFn                func(ctx context.Context, a *attendance.Attendance) error
	findByEmployeeAndDateFn func(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error)
	hasRecordForDateFn      func(ctx context.Context, employeeID string, date time.Time) (bool, error)
	findByEmployeeFn        func(ctx context.Context, employeeID string) ([]attendance.Attendance, error)
}

func (f *fakeAttendanceRepository) WithTx(tx *sql.Tx) attendance.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeAttendanceRepository) Create(ctx context.Context, a *attendance.Attendance) error {
	if f.createFn != nil {
		return f.createFn(ctx, a)
	}
	return nil
}

func (f *fakeAttendanceRepository) Update(ctx context.Context, a *attendance.Attendance) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, a)
	}
	return nil
}

func (f *fakeAttendanceRepository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	if f.findByEmployeeAndDateFn != nil {
		return f.findByEmployeeAndDateFn(ctx, employeeID, date)
	}
	return nil, nil
}

func (f *fakeAttendanceRepository) HasRecordForDate(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	if f.hasRecordForDateFn != nil {
		return f.hasRecordForDateFn(ctx, employeeID, date)
	}
	return false, nil
}

func (f *fakeAttendanceRepository) FindByEmployee(ctx context.Context, employeeID string) ([]attendance.Attendance, error) {
	if f.findByEmployeeFn != nil {
		return f.findByEmployeeFn(ctx, employeeID)
	}
	return nil, nil
}

type attendanceServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service attendance.Service
	repo    *fakeAttendanceRepository
}

func setupAttendanceServiceTest(t *testing.T) *attendanceServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeAttendanceRepository{}
	svc := attendance.NewService(db, repo)

	return &attendanceServiceDeps{db: db, sqlMock: sqlMock, service: svc, repo: repo}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestAttendanceService_ClockIn(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		var created *attendance.Attendance
		deps.repo.createFn = func(ctx context.Context, a *attendance.Attendance) error {
			created = a
			return nil
		}

		resp, err := deps.service.ClockIn(ctx, employeeID)

		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.NotNil(t, created.ClockIn)
		assert.Contains(t, []string{attendance.StatusPresent, attendance.StatusLate}, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative already clocked in", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.hasRecordForDateFn = func(ctx context.Context, eid string, date time.Time) (bool, error) {
			return true, nil
		}
		deps.repo.createFn = func(ctx context.Context, a *attendance.Attendance) error {
			t.Fatal("no second record should be created")
			return nil
		}

		_, err := deps.service.ClockIn(ctx, employeeID)
		assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyClockedIn)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative invalid employee id", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.ClockIn(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidEmployeeID)
	})
}

func TestAttendanceService_ClockOut(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()

	t.Run("success computes work hours", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		clockIn := time.Now().UTC().Add(-8 * time.Hour)
		deps.repo.findByEmployeeAndDateFn = func(ctx context.Context, eid string, date time.Time) (*attendance.Attendance, error) {
			return &attendance.Attendance{
				ID:             uuid.New(),
				EmployeeID:     uuid.MustParse(employeeID),
				AttendanceDate: date,
				ClockIn:        &clockIn,
				Status:         attendance.StatusPresent,
			}, nil
		}

		resp, err := deps.service.ClockOut(ctx, employeeID)

		assert.NoError(t, err)
		assert.InDelta(t, 8.0, resp.WorkHours, 0.1)
		assert.NotEmpty(t, resp.ClockOut)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative already clocked out", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		clockIn := time.Now().UTC().Add(-9 * time.Hour)
		clockOut := time.Now().UTC().Add(-time.Hour)
		deps.repo.findByEmployeeAndDateFn = func(ctx context.Context, eid string, date time.Time) (*attendance.Attendance, error) {
			return &attendance.Attendance{
				ID:         uuid.New(),
				EmployeeID: uuid.MustParse(employeeID),
				ClockIn:    &clockIn,
				ClockOut:   &clockOut,
			}, nil
		}

		_, err := deps.service.ClockOut(ctx, employeeID)
		assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyClockedOut)
	})

	t.Run("negative no clock in today", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByEmployeeAndDateFn = func(ctx context.Context, eid string, date time.Time) (*attendance.Attendance, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.ClockOut(ctx, employeeID)
		assert.ErrorIs(t, err, attendanceerrors.ErrNoClockIn)
	})
}
