package leavebalance

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hrflow/internal/directory"
	leavebalanceerrors "hrflow/internal/leavebalance/errors"
)

//go:generate mockgen -source=leavebalance_service.go -destination=mock/leavebalance_service_mock.go -package=mock
type Service interface {
	GetAllBalances(ctx context.Context, employeeID string) ([]BalanceResponse, error)
	GetBalance(ctx context.Context, employeeID, leaveType string) (BalanceResponse, error)
	Debit(ctx context.Context, employeeID, leaveType string, days int) (BalanceResponse, error)
	TeamBalances(ctx context.Context, managerID string) ([]TeamBalancesResponse, error)
	ResetAll(ctx context.Context) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	org    directory.Directory
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, org directory.Directory, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavebalance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavebalance.service")
	}
	return &service{db: db, repo: repo, org: org, logger: l}
}

// GetAllBalances returns one row per canonical leave type, creating any
// missing rows with their default allotment. Callers always see exactly
// three entries.
func (s *service) GetAllBalances(ctx context.Context, employeeID string) ([]BalanceResponse, error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, leavebalanceerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("get all balances begin tx failed", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	existing, err := qtx.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	byType := make(map[string]LeaveBalance, len(existing))
	for _, b := range existing {
		byType[b.LeaveType] = b
	}

	result := make([]BalanceResponse, 0, len(CanonicalTypes))
	for _, leaveType := range CanonicalTypes {
		b, ok := byType[leaveType]
		if !ok {
			allotment, _ := DefaultAllotment(leaveType)
			b = LeaveBalance{
				ID:         uuid.New(),
				EmployeeID: employeeUUID,
				LeaveType:  leaveType,
				Balance:    allotment,
			}
			if err := qtx.Create(ctx, &b); err != nil {
				s.logger.Error("lazy balance create failed",
					zap.String("employee_id", employeeID),
					zap.String("leave_type", leaveType),
					zap.Error(err),
				)
				return nil, err
			}
		}
		result = append(result, mapToBalanceResponse(b))
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) GetBalance(ctx context.Context, employeeID, leaveType string) (BalanceResponse, error) {
	b, err := s.fetchOrCreate(ctx, employeeID, leaveType)
	if err != nil {
		return BalanceResponse{}, err
	}
	return mapToBalanceResponse(*b), nil
}

// Debit floors the balance at zero and always persists, even for a
// non-positive day count. Passing sane values is the caller's job.
func (s *service) Debit(ctx context.Context, employeeID, leaveType string, days int) (BalanceResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("debit begin tx failed", zap.Error(err))
		return BalanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	b, err := s.fetchOrCreateTx(ctx, qtx, employeeID, leaveType)
	if err != nil {
		return BalanceResponse{}, err
	}

	newBalance := b.Balance - days
	if newBalance < 0 {
		newBalance = 0
	}
	b.Balance = newBalance

	if err := qtx.Update(ctx, b); err != nil {
		s.logger.Error("debit persist failed",
			zap.String("employee_id", employeeID),
			zap.String("leave_type", leaveType),
			zap.Error(err),
		)
		return BalanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return BalanceResponse{}, err
	}

	s.logger.Info("balance debited",
		zap.String("employee_id", employeeID),
		zap.String("leave_type", leaveType),
		zap.Int("days", days),
		zap.Int("balance", b.Balance),
	)
	return mapToBalanceResponse(*b), nil
}

func (s *service) TeamBalances(ctx context.Context, managerID string) ([]TeamBalancesResponse, error) {
	reports, err := s.org.EmployeesUnderManager(ctx, managerID)
	if err != nil {
		return nil, err
	}

	result := make([]TeamBalancesResponse, 0, len(reports))
	for _, employeeID := range reports {
		balances, err := s.GetAllBalances(ctx, employeeID)
		if err != nil {
			return nil, err
		}
		result = append(result, TeamBalancesResponse{
			EmployeeID: employeeID,
			Balances:   balances,
		})
	}
	return result, nil
}

// ResetAll restores every existing balance row to its type default in a
// single transaction; a partial reset is never observable.
func (s *service) ResetAll(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("reset all begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).ResetAllToDefaults(ctx, defaultAllotments); err != nil {
		s.logger.Error("reset all persist failed", zap.Error(err))
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("all leave balances reset to defaults")
	return nil
}

func (s *service) fetchOrCreate(ctx context.Context, employeeID, leaveType string) (*LeaveBalance, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	b, err := s.fetchOrCreateTx(ctx, qtx, employeeID, leaveType)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) fetchOrCreateTx(ctx context.Context, qtx Repository, employeeID, leaveType string) (*LeaveBalance, error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, leavebalanceerrors.ErrInvalidEmployeeID
	}
	allotment, ok := DefaultAllotment(leaveType)
	if !ok {
		return nil, leavebalanceerrors.ErrUnknownLeaveType
	}

	b, err := qtx.FindByEmployeeAndType(ctx, employeeID, leaveType)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := &LeaveBalance{
		ID:         uuid.New(),
		EmployeeID: employeeUUID,
		LeaveType:  leaveType,
		Balance:    allotment,
	}
	if err := qtx.Create(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

func mapToBalanceResponse(b LeaveBalance) BalanceResponse {
	return BalanceResponse{
		EmployeeID: b.EmployeeID.String(),
		LeaveType:  b.LeaveType,
		Balance:    b.Balance,
	}
}
