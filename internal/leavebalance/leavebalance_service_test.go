package leavebalance_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"hrflow/internal/leavebalance"
	leavebalanceerrors "hrflow/internal/leavebalance/errors"
)

type fakeBalanceRepository struct {
	withTxFn                func(tx *sql.Tx) leavebalance.Repository
	findByEmployeeFn        func(ctx context.Context, employeeID string) ([]leavebalance.LeaveBalance, error)
	findByEmployeeAndTypeFn func(ctx context.Context, employeeID, leaveType string) (*leavebalance.LeaveBalance, error)
	createFn                func(ctx context.Context, b *leavebalance.LeaveBalance) error
	updateFn                func(ctx context.Context, b *leavebalance.LeaveBalance) error
	resetAllToDefaultsFn    func(ctx context.Context, defaults map[string]int) error
}

func (f *fakeBalanceRepository) WithTx(tx *sql.Tx) leavebalance.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeBalanceRepository) FindByEmployee(ctx context.Context, employeeID string) ([]leavebalance.LeaveBalance, error) {
	if f.findByEmployeeFn != nil {
		return f.findByEmployeeFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakeBalanceRepository) FindByEmployeeAndType(ctx context.Context, employeeID, leaveType string) (*leavebalance.LeaveBalance, error) {
	if f.findByEmployeeAndTypeFn != nil {
		return f.findByEmployeeAndTypeFn(ctx, employeeID, leaveType)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBalanceRepository) Create(ctx context.Context, b *leavebalance.LeaveBalance) error {
	if f.createFn != nil {
		return f.createFn(ctx, b)
	}
	return nil
}

func (f *fakeBalanceRepository) Update(ctx context.Context, b *leavebalance.LeaveBalance) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, b)
	}
	return nil
}

func (f *fakeBalanceRepository) ResetAllToDefaults(ctx context.Context, defaults map[string]int) error {
	if f.resetAllToDefaultsFn != nil {
		return f.resetAllToDefaultsFn(ctx, defaults)
	}
	return nil
}

type fakeOrg struct {
	employeesUnderManagerFn func(ctx context.Context, managerID string) ([]string, error)
	managerOfFn             func(ctx context.Context, employeeID string) (string, error)
	allEmployeeIDsFn        func(ctx context.Context) ([]string, error)
}

func (f *fakeOrg) EmployeesUnderManager(ctx context.Context, managerID string) ([]string, error) {
	if f.employeesUnderManagerFn != nil {
		return f.employeesUnderManagerFn(ctx, managerID)
	}
	return nil, nil
}

func (f *fakeOrg) ManagerOf(ctx context.Context, employeeID string) (string, error) {
	if f.managerOfFn != nil {
		return f.managerOfFn(ctx, employeeID)
	}
	return "", nil
}

func (f *fakeOrg) AllEmployeeIDs(ctx context.Context) ([]string, error) {
	if f.allEmployeeIDsFn != nil {
		return f.allEmployeeIDsFn(ctx)
	}
	return nil, nil
}

type balanceServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service leavebalance.Service
	repo    *fakeBalanceRepository
	org     *fakeOrg
}

func setupBalanceServiceTest(t *testing.T) *balanceServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeBalanceRepository{}
	org := &fakeOrg{}
	svc := leavebalance.NewService(db, repo, org)

	return &balanceServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		org:     org,
	}
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

func TestBalanceService_GetAllBalances(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()

	t.Run("success creates missing types", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByEmployeeFn = func(ctx context.Context, eid string) ([]leavebalance.LeaveBalance, error) {
			assert.Equal(t, employeeID, eid)
			return []leavebalance.LeaveBalance{
				{ID: uuid.New(), EmployeeID: uuid.MustParse(employeeID), LeaveType: leavebalance.TypeSick, Balance: 1},
			}, nil
		}
		var created []string
		deps.repo.createFn = func(ctx context.Context, b *leavebalance.LeaveBalance) error {
			created = append(created, b.LeaveType)
			return nil
		}

		resp, err := deps.service.GetAllBalances(ctx, employeeID)

		assert.NoError(t, err)
		assert.Len(t, resp, 3)
		assert.ElementsMatch(t, []string{leavebalance.TypeCasual, leavebalance.TypePaid}, created)

		byType := map[string]int{}
		for _, b := range resp {
			byType[b.LeaveType] = b.Balance
		}
		assert.Equal(t, 1, byType[leavebalance.TypeSick])
		assert.Equal(t, 5, byType[leavebalance.TypeCasual])
		assert.Equal(t, 2, byType[leavebalance.TypePaid])
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success all present creates nothing", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByEmployeeFn = func(ctx context.Context, eid string) ([]leavebalance.LeaveBalance, error) {
			return []leavebalance.LeaveBalance{
				{LeaveType: leavebalance.TypeSick, Balance: 3, EmployeeID: uuid.MustParse(employeeID)},
				{LeaveType: leavebalance.TypeCasual, Balance: 5, EmployeeID: uuid.MustParse(employeeID)},
				{LeaveType: leavebalance.TypePaid, Balance: 2, EmployeeID: uuid.MustParse(employeeID)},
			}, nil
		}
		deps.repo.createFn = func(ctx context.Context, b *leavebalance.LeaveBalance) error {
			t.Fatal("create should not be called")
			return nil
		}

		resp, err := deps.service.GetAllBalances(ctx, employeeID)

		assert.NoError(t, err)
		assert.Len(t, resp, 3)
	})

	t.Run("negative invalid employee id", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetAllBalances(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, leavebalanceerrors.ErrInvalidEmployeeID)
	})
}

func TestBalanceService_Debit(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByEmployeeAndTypeFn = func(ctx context.Context, eid, lt string) (*leavebalance.LeaveBalance, error) {
			return &leavebalance.LeaveBalance{
				EmployeeID: uuid.MustParse(employeeID),
				LeaveType:  leavebalance.TypeCasual,
				Balance:    5,
			}, nil
		}
		deps.repo.updateFn = func(ctx context.Context, b *leavebalance.LeaveBalance) error {
			assert.Equal(t, 2, b.Balance)
			return nil
		}

		resp, err := deps.service.Debit(ctx, employeeID, leavebalance.TypeCasual, 3)

		assert.NoError(t, err)
		assert.Equal(t, 2, resp.Balance)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success floors at zero", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByEmployeeAndTypeFn = func(ctx context.Context, eid, lt string) (*leavebalance.LeaveBalance, error) {
			return &leavebalance.LeaveBalance{
				EmployeeID: uuid.MustParse(employeeID),
				LeaveType:  leavebalance.TypeSick,
				Balance:    2,
			}, nil
		}
		deps.repo.updateFn = func(ctx context.Context, b *leavebalance.LeaveBalance) error {
			assert.Equal(t, 0, b.Balance)
			return nil
		}

		resp, err := deps.service.Debit(ctx, employeeID, leavebalance.TypeSick, 10)

		assert.NoError(t, err)
		assert.Equal(t, 0, resp.Balance)
	})

	t.Run("success lazily creates missing row", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByEmployeeAndTypeFn = func(ctx context.Context, eid, lt string) (*leavebalance.LeaveBalance, error) {
			return nil, gorm.ErrRecordNotFound
		}
		deps.repo.createFn = func(ctx context.Context, b *leavebalance.LeaveBalance) error {
			assert.Equal(t, leavebalance.TypePaid, b.LeaveType)
			assert.Equal(t, 2, b.Balance)
			return nil
		}
		deps.repo.updateFn = func(ctx context.Context, b *leavebalance.LeaveBalance) error {
			assert.Equal(t, 1, b.Balance)
			return nil
		}

		resp, err := deps.service.Debit(ctx, employeeID, leavebalance.TypePaid, 1)

		assert.NoError(t, err)
		assert.Equal(t, 1, resp.Balance)
	})

	t.Run("negative unknown leave type", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		_, err := deps.service.Debit(ctx, employeeID, "ANNUAL", 1)
		assert.ErrorIs(t, err, leavebalanceerrors.ErrUnknownLeaveType)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestBalanceService_TeamBalances(t *testing.T) {
	ctx := context.Background()
	managerID := uuid.New().String()
	reportA := uuid.New().String()
	reportB := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		deps.org.employeesUnderManagerFn = func(ctx context.Context, mid string) ([]string, error) {
			assert.Equal(t, managerID, mid)
			return []string{reportA, reportB}, nil
		}
		deps.repo.findByEmployeeFn = func(ctx context.Context, eid string) ([]leavebalance.LeaveBalance, error) {
			return []leavebalance.LeaveBalance{
				{LeaveType: leavebalance.TypeSick, Balance: 3, EmployeeID: uuid.MustParse(eid)},
				{LeaveType: leavebalance.TypeCasual, Balance: 5, EmployeeID: uuid.MustParse(eid)},
				{LeaveType: leavebalance.TypePaid, Balance: 2, EmployeeID: uuid.MustParse(eid)},
			}, nil
		}
		// one tx per report
		expectTx(t, deps.sqlMock, true)
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.TeamBalances(ctx, managerID)

		assert.NoError(t, err)
		assert.Len(t, resp, 2)
		assert.Equal(t, reportA, resp[0].EmployeeID)
		assert.Len(t, resp[0].Balances, 3)
	})
}

func TestBalanceService_ResetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("success resets to canonical defaults", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.resetAllToDefaultsFn = func(ctx context.Context, defaults map[string]int) error {
			assert.Equal(t, 3, defaults[leavebalance.TypeSick])
			assert.Equal(t, 5, defaults[leavebalance.TypeCasual])
			assert.Equal(t, 2, defaults[leavebalance.TypePaid])
			return nil
		}

		err := deps.service.ResetAll(ctx)

		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative repo error rolls back", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.resetAllToDefaultsFn = func(ctx context.Context, defaults map[string]int) error {
			return assert.AnError
		}

		err := deps.service.ResetAll(ctx)

		assert.Error(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}
