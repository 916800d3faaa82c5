package directory

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	directoryerrors "hrflow/internal/directory/errors"
)

//go:generate mockgen -source=directory_service.go -destination=mock/directory_service_mock.go -package=mock
type Service interface {
	Directory

	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("directory.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("directory.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	e := &Employee{
		ID:       uuid.New(),
		FullName: req.FullName,
		Email:    req.Email,
		Role:     req.Role,
	}
	if req.ManagerID != nil && *req.ManagerID != "" {
		managerUUID, err := uuid.Parse(*req.ManagerID)
		if err != nil {
			return EmployeeResponse{}, directoryerrors.ErrInvalidManagerID
		}
		if _, err := qtx.FindByID(ctx, managerUUID.String()); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return EmployeeResponse{}, directoryerrors.ErrManagerNotFound
			}
			return EmployeeResponse{}, err
		}
		e.ManagerID = &managerUUID
	}

	if err := qtx.Create(ctx, e); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return EmployeeResponse{}, directoryerrors.ErrEmailTaken
		}
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	s.logger.Info("employee created",
		zap.String("employee_id", e.ID.String()),
		zap.String("role", e.Role),
	)

	return mapToEmployeeResponse(*e), nil
}

func (s *service) GetEmployee(ctx context.Context, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, directoryerrors.ErrInvalidEmployeeID
	}
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, directoryerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}
	return mapToEmployeeResponse(*e), nil
}

func (s *service) EmployeesUnderManager(ctx context.Context, managerID string) ([]string, error) {
	if _, err := uuid.Parse(managerID); err != nil {
		return nil, directoryerrors.ErrInvalidManagerID
	}
	return s.repo.FindIDsByManager(ctx, managerID)
}

func (s *service) ManagerOf(ctx context.Context, employeeID string) (string, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return "", directoryerrors.ErrInvalidEmployeeID
	}
	e, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", directoryerrors.ErrEmployeeNotFound
		}
		return "", err
	}
	if e.ManagerID == nil {
		return "", directoryerrors.ErrNoManagerAssigned
	}
	return e.ManagerID.String(), nil
}

func (s *service) AllEmployeeIDs(ctx context.Context) ([]string, error) {
	return s.repo.FindAllIDs(ctx)
}

func mapToEmployeeResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:       e.ID.String(),
		FullName: e.FullName,
		Email:    e.Email,
		Role:     e.Role,
	}
	if e.ManagerID != nil {
		v := e.ManagerID.String()
		resp.ManagerID = &v
	}
	return resp
}
