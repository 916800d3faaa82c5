package consumer

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"hrflow/internal/events"
	"hrflow/internal/notification"
)

func ConsumeShiftRequestResolved(
	ctx context.Context,
	reader *kafkago.Reader,
	notifier notification.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.shift_request")
	log.Info("shift request consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("shift request consumer stopped")
				return
			}
			log.Error("fetch shift request message failed", zap.Error(err))
			continue
		}

		var event events.ShiftRequestResolvedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode shift request event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := notifier.NotifyShiftResolution(ctx, event); err != nil {
			log.Error("notify shift resolution failed",
				zap.String("employee_id", event.EmployeeID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit shift request message failed", zap.Error(err))
			continue
		}

		log.Info("shift resolution notification delivered",
			zap.String("employee_id", event.EmployeeID),
			zap.String("status", event.Status),
		)
	}
}
