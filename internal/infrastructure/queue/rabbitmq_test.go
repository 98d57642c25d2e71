package queue

import (
	"encoding/json"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-inmobiliario/internal/application/lotes"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/entity"
)

func TestStatusChangedMessage(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	msg, err := statusChangedMessage(lotes.StatusChangedEvent{
		LoteID:     "l-1",
		OldStatus:  entity.LotStatusLibre,
		NewStatus:  entity.LotStatusApartado,
		ActorID:    "u-1",
		OccurredAt: at,
	})
	require.NoError(t, err)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, RoutingKeyStatusChanged, msg.Type)

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Body, &body))
	assert.Equal(t, "l-1", body["lote_id"])
	assert.Equal(t, "LIBRE", body["old_status"])
	assert.Equal(t, "APARTADO", body["new_status"])
	assert.Equal(t, "u-1", body["actor_id"])
}
