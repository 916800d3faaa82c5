package kafka_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hrflow/internal/messaging/kafka"
)

func TestValidateOutboxEvent(t *testing.T) {
	valid := kafka.OutboxEvent{
		ID:      "evt-1",
		Topic:   "hr.leave.status",
		Payload: []byte(`{"event_type":"leave.status.changed"}`),
		Status:  kafka.OutboxStatusPending,
	}

	t.Run("success", func(t *testing.T) {
		assert.NoError(t, kafka.ValidateOutboxEvent(valid))
	})

	t.Run("negative missing id", func(t *testing.T) {
		e := valid
		e.ID = ""
		assert.Error(t, kafka.ValidateOutboxEvent(e))
	})

	t.Run("negative missing topic", func(t *testing.T) {
		e := valid
		e.Topic = ""
		assert.Error(t, kafka.ValidateOutboxEvent(e))
	})

	t.Run("negative empty payload", func(t *testing.T) {
		e := valid
		e.Payload = nil
		assert.Error(t, kafka.ValidateOutboxEvent(e))
	})

	t.Run("negative unknown status", func(t *testing.T) {
		e := valid
		e.Status = "queued"
		assert.Error(t, kafka.ValidateOutboxEvent(e))
	})
}
