package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"hrflow/internal/events"
)

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	NotifyLeaveStatus(ctx context.Context, event events.LeaveStatusChangedEvent) error
	NotifyShiftResolution(ctx context.Context, event events.ShiftRequestResolvedEvent) error
}

// logService writes notifications to the log. It stands in for a mail or
// push gateway; swapping one in means implementing Service.
type logService struct {
	logger *zap.Logger
}

func NewLogService(logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &logService{logger: l}
}

func (s *logService) NotifyLeaveStatus(ctx context.Context, event events.LeaveStatusChangedEvent) error {
	s.logger.Info("leave notification",
		zap.String("employee_id", event.EmployeeID),
		zap.String("message", fmt.Sprintf(
			"Your %s leave request for %d day(s) is now %s",
			event.LeaveType, event.DaysRequested, event.Status,
		)),
	)
	return nil
}

func (s *logService) NotifyShiftResolution(ctx context.Context, event events.ShiftRequestResolvedEvent) error {
	s.logger.Info("shift notification",
		zap.String("employee_id", event.EmployeeID),
		zap.String("message", fmt.Sprintf(
			"Your request to move to shift %q was %s",
			event.RequestedName, event.Status,
		)),
	)
	return nil
}
