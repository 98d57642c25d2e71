package lotes

import (
	"context"
	"time"

	"github.com/jhoicas/crm-inmobiliario/internal/domain/entity"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Lotes        repository.LoteRepository
	Asignaciones repository.AsignacionRepository
	Historial    repository.HistorialRepository
	Bitacora     repository.StatusLogRepository
	Clients      repository.ClientRepository
}

// TxRunner ejecuta fn dentro de una transacción; Commit si fn devuelve nil, Rollback en otro caso.
// GetForUpdate dentro de fn bloquea la fila del lote hasta el fin de la transacción.
type TxRunner interface {
	RunLotes(ctx context.Context, fn func(tx TxRepos) error) error
}

// StatusChangedEvent se publica después del commit de cada transición aceptada.
type StatusChangedEvent struct {
	LoteID     string           `json:"lote_id"`
	OldStatus  entity.LotStatus `json:"old_status"`
	NewStatus  entity.LotStatus `json:"new_status"`
	ActorID    string           `json:"actor_id"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// EventPublisher destino de los eventos de cambio de estado (cola, webhook...).
type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, ev StatusChangedEvent) error
}

// Recorder métricas del motor.
type Recorder interface {
	RecordTransition(from, to entity.LotStatus)
	RecordRejection(code string)
}

type nopPublisher struct{}

func (nopPublisher) PublishStatusChanged(context.Context, StatusChangedEvent) error { return nil }

type nopRecorder struct{}

func (nopRecorder) RecordTransition(entity.LotStatus, entity.LotStatus) {}
func (nopRecorder) RecordRejection(string)                              {}
