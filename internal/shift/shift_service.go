package shift

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hrflow/internal/directory"
	"hrflow/internal/events"
	"hrflow/internal/messaging/kafka"
	"hrflow/internal/shared/contextutil"
	shifterrors "hrflow/internal/shift/errors"
)

//go:generate mockgen -source=shift_service.go -destination=mock/shift_service_mock.go -package=mock
type Service interface {
	Assign(ctx context.Context, managerID, employeeID string, req AssignShiftRequest) (AssignShiftResult, error)
	RequestChange(ctx context.Context, employeeID string, req RequestChangeRequest) (ShiftChangeRequestResponse, error)
	Resolve(ctx context.Context, managerID, employeeID, newStatus string) (ShiftChangeRequestResponse, error)
	ListForManager(ctx context.Context, managerID string) ([]ShiftAssignmentResponse, error)
	History(ctx context.Context, employeeID string) ([]HistoryResponse, error)
	HistoryForManager(ctx context.Context, managerID string) ([]TeamHistoryResponse, error)
	AssignmentsInDateRange(ctx context.Context, start, end string) ([]ShiftAssignmentResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	org    directory.Directory
	outbox kafka.OutboxRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(
	db *sql.DB,
	repo Repository,
	org directory.Directory,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("shift.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("shift.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		org:    org,
		outbox: outbox,
		logger: l,
		now:    time.Now,
	}
}

// Assign schedules a new shift for a direct report. Scheduling-rule
// violations come back as a rejected result with a reason rather than an
// error; callers check Accepted.
func (s *service) Assign(ctx context.Context, managerID, employeeID string, req AssignShiftRequest) (AssignShiftResult, error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return AssignShiftResult{}, shifterrors.ErrInvalidEmployeeID
	}
	if err := s.requireManagerOf(ctx, managerID, employeeID); err != nil {
		return AssignShiftResult{}, err
	}

	start, okStart := parseDate(req.StartDate)
	end, okEnd := parseDate(req.EndDate)
	if !okStart || !okEnd {
		return AssignShiftResult{Reason: "start_date and end_date must be YYYY-MM-DD"}, nil
	}
	if !validTimeOfDay(req.StartTime) || !validTimeOfDay(req.EndTime) {
		return AssignShiftResult{}, shifterrors.ErrInvalidTime
	}
	if end.Before(start) {
		return AssignShiftResult{Reason: "end_date must not be before start_date"}, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("assign begin tx failed", zap.Error(err))
		return AssignShiftResult{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	previous, err := qtx.FindLatestAssignment(ctx, employeeID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return AssignShiftResult{}, err
	}
	if err == nil && !start.After(previous.EndDate) {
		return AssignShiftResult{
			Reason: "new shift must start after the current assignment ends on " + previous.EndDate.Format(DateLayout),
		}, nil
	}

	assignment := ShiftAssignment{
		ID:         uuid.New(),
		EmployeeID: employeeUUID,
		ShiftName:  req.ShiftName,
		StartDate:  start,
		EndDate:    end,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	}
	if err := qtx.CreateAssignment(ctx, &assignment); err != nil {
		s.logger.Error("assign persist failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return AssignShiftResult{}, err
	}
	if err := tx.Commit(); err != nil {
		return AssignShiftResult{}, err
	}

	s.logger.Info("shift assigned",
		zap.String("assignment_id", assignment.ID.String()),
		zap.String("employee_id", employeeID),
		zap.String("shift_name", req.ShiftName),
	)
	resp := mapToAssignmentResponse(assignment)
	return AssignShiftResult{Accepted: true, Assignment: &resp}, nil
}

func (s *service) RequestChange(ctx context.Context, employeeID string, req RequestChangeRequest) (ShiftChangeRequestResponse, error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return ShiftChangeRequestResponse{}, shifterrors.ErrInvalidEmployeeID
	}
	if !validTimeOfDay(req.StartTime) || !validTimeOfDay(req.EndTime) {
		return ShiftChangeRequestResponse{}, shifterrors.ErrInvalidTime
	}

	current, err := s.repo.FindLatestAssignment(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ShiftChangeRequestResponse{}, shifterrors.ErrAssignmentNotFound
		}
		return ShiftChangeRequestResponse{}, err
	}
	if current.ShiftName == req.RequestedName {
		return ShiftChangeRequestResponse{}, shifterrors.ErrDuplicateShiftName
	}

	request := ShiftChangeRequest{
		ID:                uuid.New(),
		EmployeeID:        employeeUUID,
		RequestedName:     req.RequestedName,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		Status:            StatusPending,
		AssignedShiftID:   current.ID,
		AssignedShiftName: current.ShiftName,
		RequestedAt:       s.now().UTC(),
	}
	if err := s.repo.CreateChangeRequest(ctx, &request); err != nil {
		s.logger.Error("change request persist failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return ShiftChangeRequestResponse{}, err
	}

	s.logger.Info("shift change requested",
		zap.String("request_id", request.ID.String()),
		zap.String("employee_id", employeeID),
		zap.String("requested_name", req.RequestedName),
	)
	return mapToChangeRequestResponse(request), nil
}

// Resolve closes out the employee's outstanding change request. Approval
// rewrites only the assignment fields that actually differ; both outcomes
// leave exactly one history row behind and drop the request itself.
func (s *service) Resolve(ctx context.Context, managerID, employeeID, newStatus string) (ShiftChangeRequestResponse, error) {
	if newStatus != StatusApproved && newStatus != StatusRejected {
		return ShiftChangeRequestResponse{}, shifterrors.ErrInvalidStatus
	}
	if err := s.requireManagerOf(ctx, managerID, employeeID); err != nil {
		return ShiftChangeRequestResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("resolve begin tx failed", zap.Error(err))
		return ShiftChangeRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	request, err := qtx.FindLatestChangeRequest(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ShiftChangeRequestResponse{}, shifterrors.ErrRequestNotFound
		}
		return ShiftChangeRequestResponse{}, err
	}
	if request.Status != StatusPending {
		return ShiftChangeRequestResponse{}, shifterrors.ErrCannotUpdateStatus
	}

	assignment, err := qtx.FindLatestAssignment(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ShiftChangeRequestResponse{}, shifterrors.ErrAssignmentNotFound
		}
		return ShiftChangeRequestResponse{}, err
	}

	if newStatus == StatusApproved {
		if changed := applyRequestedFields(assignment, request); changed {
			if err := qtx.UpdateAssignment(ctx, assignment); err != nil {
				s.logger.Error("assignment update failed",
					zap.String("assignment_id", assignment.ID.String()),
					zap.Error(err),
				)
				return ShiftChangeRequestResponse{}, err
			}
		}
	}

	history := UpdatedRequestHistory{
		ID:            uuid.New(),
		EmployeeID:    request.EmployeeID,
		RequestedName: request.RequestedName,
		StartTime:     request.StartTime,
		EndTime:       request.EndTime,
		StartDate:     assignment.StartDate,
		EndDate:       assignment.EndDate,
		Status:        newStatus,
		ResolvedAt:    s.now().UTC(),
	}
	if err := qtx.CreateHistory(ctx, &history); err != nil {
		return ShiftChangeRequestResponse{}, err
	}
	if err := qtx.DeleteChangeRequest(ctx, request.ID.String()); err != nil {
		return ShiftChangeRequestResponse{}, err
	}
	if err := s.enqueueResolvedEvent(ctx, tx, *request, newStatus); err != nil {
		return ShiftChangeRequestResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return ShiftChangeRequestResponse{}, err
	}

	s.logger.Info("shift change request resolved",
		zap.String("request_id", request.ID.String()),
		zap.String("employee_id", employeeID),
		zap.String("status", newStatus),
	)
	request.Status = newStatus
	return mapToChangeRequestResponse(*request), nil
}

func (s *service) ListForManager(ctx context.Context, managerID string) ([]ShiftAssignmentResponse, error) {
	reports, err := s.org.EmployeesUnderManager(ctx, managerID)
	if err != nil {
		return nil, err
	}

	result := make([]ShiftAssignmentResponse, 0, len(reports))
	for _, employeeID := range reports {
		a, err := s.repo.FindLatestAssignment(ctx, employeeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		result = append(result, mapToAssignmentResponse(*a))
	}
	return result, nil
}

func (s *service) History(ctx context.Context, employeeID string) ([]HistoryResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, shifterrors.ErrInvalidEmployeeID
	}
	rows, err := s.repo.FindHistoryByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToHistoryResponses(rows), nil
}

// HistoryForManager groups history per direct report; reports without any
// resolved request are left out entirely.
func (s *service) HistoryForManager(ctx context.Context, managerID string) ([]TeamHistoryResponse, error) {
	reports, err := s.org.EmployeesUnderManager(ctx, managerID)
	if err != nil {
		return nil, err
	}

	result := make([]TeamHistoryResponse, 0, len(reports))
	for _, employeeID := range reports {
		rows, err := s.repo.FindHistoryByEmployee(ctx, employeeID)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			continue
		}
		result = append(result, TeamHistoryResponse{
			EmployeeID: employeeID,
			History:    mapToHistoryResponses(rows),
		})
	}
	return result, nil
}

func (s *service) AssignmentsInDateRange(ctx context.Context, start, end string) ([]ShiftAssignmentResponse, error) {
	startDate, okStart := parseDate(start)
	endDate, okEnd := parseDate(end)
	if !okStart || !okEnd || startDate.After(endDate) {
		return nil, shifterrors.ErrInvalidDateRange
	}

	rows, err := s.repo.FindAssignmentsStartingInRange(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}

	result := make([]ShiftAssignmentResponse, 0, len(rows))
	for _, a := range rows {
		result = append(result, mapToAssignmentResponse(a))
	}
	return result, nil
}

func (s *service) requireManagerOf(ctx context.Context, managerID, employeeID string) error {
	actual, err := s.org.ManagerOf(ctx, employeeID)
	if err != nil {
		return err
	}
	if actual != managerID {
		return shifterrors.ErrNotYourReport
	}
	return nil
}

// applyRequestedFields copies the requested values that differ from the
// assignment and reports whether anything changed.
func applyRequestedFields(a *ShiftAssignment, req *ShiftChangeRequest) bool {
	changed := false
	if a.ShiftName != req.RequestedName {
		a.ShiftName = req.RequestedName
		changed = true
	}
	if a.StartTime != req.StartTime {
		a.StartTime = req.StartTime
		changed = true
	}
	if a.EndTime != req.EndTime {
		a.EndTime = req.EndTime
		changed = true
	}
	return changed
}

func (s *service) enqueueResolvedEvent(ctx context.Context, tx *sql.Tx, request ShiftChangeRequest, status string) error {
	payload, err := json.Marshal(events.ShiftRequestResolvedEvent{
		EventType:     "shift.request.resolved",
		EmployeeID:    request.EmployeeID.String(),
		RequestedName: request.RequestedName,
		Status:        status,
		OccurredAt:    s.now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "shift_change_request",
		AggregateID:   request.ID.String(),
		EventType:     "shift.request.resolved",
		Topic:         events.ShiftRequestResolvedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}
