package leaverequest

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hrflow/internal/directory"
	"hrflow/internal/events"
	"hrflow/internal/leavebalance"
	leaverequesterrors "hrflow/internal/leaverequest/errors"
	"hrflow/internal/messaging/kafka"
	"hrflow/internal/shared/contextutil"
)

//go:generate mockgen -source=leaverequest_service.go -destination=mock/leaverequest_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, employeeID string, req SubmitLeaveRequest) (LeaveRequestResponse, error)
	ApproveOrReject(ctx context.Context, employeeID, newStatus string) (LeaveRequestResponse, error)
	Cancel(ctx context.Context, employeeID, requestID string) (LeaveRequestResponse, error)
	ListForManager(ctx context.Context, managerID string) ([]LeaveRequestResponse, error)
	ListForEmployee(ctx context.Context, employeeID string) ([]LeaveRequestResponse, error)
	ListInDateRange(ctx context.Context, start, end string) ([]LeaveRequestResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	balances leavebalance.Service
	org      directory.Directory
	outbox   kafka.OutboxRepository
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(
	db *sql.DB,
	repo Repository,
	balances leavebalance.Service,
	org directory.Directory,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leaverequest.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaverequest.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		balances: balances,
		org:      org,
		outbox:   outbox,
		logger:   l,
		now:      time.Now,
	}
}

func (s *service) Submit(ctx context.Context, employeeID string, req SubmitLeaveRequest) (LeaveRequestResponse, error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidEmployeeID
	}

	start, okStart := parseDate(req.StartDate)
	end, okEnd := parseDate(req.EndDate)
	if !okStart || !okEnd {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidDate
	}

	today := s.today()
	if start.Before(today) || end.Before(today) || start.After(end) {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidDate
	}

	days := daysBetween(start, end)

	balance, err := s.balances.GetBalance(ctx, employeeID, req.LeaveType)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if balance.Balance == 0 || balance.Balance < days {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInsufficientBalance
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	overlaps, err := qtx.ExistsOverlapping(ctx, employeeID, start, end)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if overlaps {
		return LeaveRequestResponse{}, leaverequesterrors.ErrDuplicateRequest
	}

	request := LeaveRequest{
		ID:            uuid.New(),
		EmployeeID:    employeeUUID,
		LeaveType:     req.LeaveType,
		StartDate:     start,
		EndDate:       end,
		DaysRequested: days,
		Status:        StatusPending,
	}
	if err := qtx.Create(ctx, &request); err != nil {
		// The exclusion constraint on (employee_id, daterange) closes the
		// race two concurrent submissions open between check and insert.
		if isExclusionViolation(err) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrDuplicateRequest
		}
		s.logger.Error("submit persist failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return LeaveRequestResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("leave request submitted",
		zap.String("request_id", request.ID.String()),
		zap.String("employee_id", employeeID),
		zap.String("leave_type", req.LeaveType),
		zap.Int("days", days),
	)
	return mapToLeaveRequestResponse(request), nil
}

// ApproveOrReject resolves the employee's most recent request. Resolving a
// request that already left PENDING is an explicit conflict, never a silent
// retry, so an approval's debit is applied at most once.
func (s *service) ApproveOrReject(ctx context.Context, employeeID, newStatus string) (LeaveRequestResponse, error) {
	if newStatus != StatusApproved && newStatus != StatusRejected {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidStatus
	}
	if _, err := uuid.Parse(employeeID); err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("approve or reject begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	request, err := qtx.FindLatestByEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}
	if request.IsTerminal() {
		return LeaveRequestResponse{}, leaverequesterrors.ErrAlreadyResolved
	}

	request.Status = newStatus
	if err := qtx.Update(ctx, request); err != nil {
		s.logger.Error("status update failed",
			zap.String("request_id", request.ID.String()),
			zap.Error(err),
		)
		return LeaveRequestResponse{}, err
	}

	if err := s.enqueueStatusEvent(ctx, tx, *request); err != nil {
		return LeaveRequestResponse{}, err
	}

	if newStatus == StatusApproved {
		// Debit commits in its own transaction before the status change
		// does. If the commit below fails the debit stands without an
		// approved request; the conflict check above keeps a retry from
		// debiting twice.
		if _, err := s.balances.Debit(ctx, employeeID, request.LeaveType, request.DaysRequested); err != nil {
			s.logger.Error("approval debit failed",
				zap.String("request_id", request.ID.String()),
				zap.Error(err),
			)
			return LeaveRequestResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("leave request resolved",
		zap.String("request_id", request.ID.String()),
		zap.String("employee_id", employeeID),
		zap.String("status", newStatus),
	)
	return mapToLeaveRequestResponse(*request), nil
}

// Cancel deletes a PENDING request and returns a CANCELLED copy. A request
// that already reached a terminal state comes back unchanged.
func (s *service) Cancel(ctx context.Context, employeeID, requestID string) (LeaveRequestResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("cancel begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	request, err := qtx.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}
	if request.EmployeeID.String() != employeeID {
		return LeaveRequestResponse{}, leaverequesterrors.ErrRequestNotFound
	}

	if request.IsTerminal() {
		if err := tx.Commit(); err != nil {
			return LeaveRequestResponse{}, err
		}
		return mapToLeaveRequestResponse(*request), nil
	}

	if err := qtx.Delete(ctx, requestID); err != nil {
		s.logger.Error("cancel delete failed",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return LeaveRequestResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return LeaveRequestResponse{}, err
	}

	request.Status = StatusCancelled
	s.logger.Info("leave request cancelled",
		zap.String("request_id", requestID),
		zap.String("employee_id", employeeID),
	)
	return mapToLeaveRequestResponse(*request), nil
}

func (s *service) ListForManager(ctx context.Context, managerID string) ([]LeaveRequestResponse, error) {
	reports, err := s.org.EmployeesUnderManager(ctx, managerID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.FindPendingByEmployees(ctx, reports)
	if err != nil {
		return nil, err
	}
	return mapToLeaveRequestResponses(rows), nil
}

func (s *service) ListForEmployee(ctx context.Context, employeeID string) ([]LeaveRequestResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, leaverequesterrors.ErrInvalidEmployeeID
	}
	rows, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToLeaveRequestResponses(rows), nil
}

// ListInDateRange returns every request starting inside [start, end]. An
// empty range is a valid answer, not an error.
func (s *service) ListInDateRange(ctx context.Context, start, end string) ([]LeaveRequestResponse, error) {
	startDate, okStart := parseDate(start)
	endDate, okEnd := parseDate(end)
	if !okStart || !okEnd || startDate.After(endDate) {
		return nil, leaverequesterrors.ErrInvalidDate
	}

	rows, err := s.repo.FindStartingInRange(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	return mapToLeaveRequestResponses(rows), nil
}

func (s *service) enqueueStatusEvent(ctx context.Context, tx *sql.Tx, request LeaveRequest) error {
	payload, err := json.Marshal(events.LeaveStatusChangedEvent{
		EventType:     "leave.status.changed",
		RequestID:     request.ID.String(),
		EmployeeID:    request.EmployeeID.String(),
		LeaveType:     request.LeaveType,
		Status:        request.Status,
		DaysRequested: request.DaysRequested,
		OccurredAt:    s.now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   request.ID.String(),
		EventType:     "leave.status.changed",
		Topic:         events.LeaveStatusChangedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) today() time.Time {
	n := s.now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" || pgErr.Code == "23P01"
}
