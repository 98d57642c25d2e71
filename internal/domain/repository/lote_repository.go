package repository

import (
	"context"
	"time"

	"github.com/jhoicas/crm-inmobiliario/internal/domain/entity"
)

// LoteRepository puerto de persistencia para lotes.
type LoteRepository interface {
	Create(ctx context.Context, lote *entity.Lote) error
	GetByID(ctx context.Context, id string) (*entity.Lote, error)
	// GetForUpdate obtiene el lote y bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Lote, error)
	// Update actualiza atributos descriptivos. Nunca modifica Status.
	Update(ctx context.Context, lote *entity.Lote) error
	// UpdateStatus uso exclusivo del motor de lotes.
	UpdateStatus(ctx context.Context, id string, status entity.LotStatus, at time.Time) error
	// ListByPaquete lotes del paquete; status nil = todos.
	ListByPaquete(ctx context.Context, paqueteID string, status *entity.LotStatus) ([]*entity.Lote, error)
	// FindByLocation lote del paquete con esa manzana y número de lote (nil si no existe).
	FindByLocation(ctx context.Context, paqueteID, manzana, numero string) (*entity.Lote, error)
	ListAll(ctx context.Context) ([]*entity.Lote, error)
}

// AsignacionRepository asignaciones activas (a lo más una por lote).
type AsignacionRepository interface {
	// Create devuelve ErrLotAlreadyAssigned si el lote ya tiene una asignación activa.
	Create(ctx context.Context, a *entity.LoteAsignacion) error
	// GetActiveByLote nil si el lote no tiene asignación activa.
	GetActiveByLote(ctx context.Context, loteID string) (*entity.LoteAsignacion, error)
	Delete(ctx context.Context, id string) error
	ListActive(ctx context.Context) ([]*entity.LoteAsignacion, error)
}

// HistorialRepository solo inserta y lee; los registros son inmutables.
type HistorialRepository interface {
	Create(ctx context.Context, h *entity.LoteAsignacionHistorial) error
	// ListByLote más recientes primero (fecha_inicio desc).
	ListByLote(ctx context.Context, loteID string) ([]*entity.LoteAsignacionHistorial, error)
}

// StatusLogRepository bitácora de cambios de estado; solo inserta y lee.
type StatusLogRepository interface {
	Create(ctx context.Context, log *entity.LoteStatusChangeLog) error
	// ListByLote más recientes primero.
	ListByLote(ctx context.Context, loteID string) ([]*entity.LoteStatusChangeLog, error)
}
