package attendance_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"hrflow/internal/attendance"
)

type fakeOrg struct {
	allEmployeeIDsFn func(ctx context.Context) ([]string, error)
}

func (f *fakeOrg) EmployeesUnderManager(ctx context.Context, managerID string) ([]string, error) {
	return nil, nil
}

func (f *fakeOrg) ManagerOf(ctx context.Context, employeeID string) (string, error) {
	return "", nil
}

func (f *fakeOrg) AllEmployeeIDs(ctx context.Context) ([]string, error) {
	if f.allEmployeeIDsFn != nil {
		return f.allEmployeeIDsFn(ctx)
	}
	return nil, nil
}

func TestSweeper_MarkAbsentees(t *testing.T) {
	ctx := context.Background()
	alice := uuid.New().String()
	bob := uuid.New().String()
	asOf := time.Date(2026, 9, 1, 0, 35, 0, 0, time.UTC)
	wantDate := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	t.Run("success marks previous day once and is idempotent", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		org := &fakeOrg{allEmployeeIDsFn: func(ctx context.Context) ([]string, error) {
			return []string{alice, bob}, nil
		}}
		sweeper := attendance.NewSweeper(deps.db, deps.repo, org)

		marked := map[string]int{}
		deps.repo.hasRecordForDateFn = func(ctx context.Context, eid string, date time.Time) (bool, error) {
			assert.Equal(t, wantDate, date)
			return marked[eid] > 0, nil
		}
		deps.repo.createFn = func(ctx context.Context, a *attendance.Attendance) error {
			assert.Equal(t, attendance.StatusAbsent, a.Status)
			assert.Equal(t, wantDate, a.AttendanceDate)
			assert.Nil(t, a.ClockIn)
			assert.Nil(t, a.ClockOut)
			marked[a.EmployeeID.String()]++
			return nil
		}

		// first run inserts, second run finds the rows and inserts nothing
		for i := 0; i < 4; i++ {
			expectTx(t, deps.sqlMock, true)
		}
		assert.NoError(t, sweeper.MarkAbsentees(ctx, asOf))
		assert.NoError(t, sweeper.MarkAbsentees(ctx, asOf))

		assert.Equal(t, 1, marked[alice])
		assert.Equal(t, 1, marked[bob])
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("continues past a failing employee", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		org := &fakeOrg{allEmployeeIDsFn: func(ctx context.Context) ([]string, error) {
			return []string{alice, bob}, nil
		}}
		sweeper := attendance.NewSweeper(deps.db, deps.repo, org)

		var created []string
		deps.repo.createFn = func(ctx context.Context, a *attendance.Attendance) error {
			if a.EmployeeID.String() == alice {
				return errors.New("insert failed")
			}
			created = append(created, a.EmployeeID.String())
			return nil
		}

		expectTx(t, deps.sqlMock, false)
		expectTx(t, deps.sqlMock, true)
		assert.NoError(t, sweeper.MarkAbsentees(ctx, asOf))
		assert.Equal(t, []string{bob}, created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative directory unavailable", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		org := &fakeOrg{allEmployeeIDsFn: func(ctx context.Context) ([]string, error) {
			return nil, errors.New("directory down")
		}}
		sweeper := attendance.NewSweeper(deps.db, deps.repo, org)

		assert.Error(t, sweeper.MarkAbsentees(ctx, asOf))
	})
}
