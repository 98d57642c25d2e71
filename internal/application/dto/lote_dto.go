package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-inmobiliario/internal/domain/entity"
)

// AssignLoteRequest entrada para apartar un lote a un cliente.
type AssignLoteRequest struct {
	ClientID string `json:"client_id" validate:"required"`
	Notas    string `json:"notas"`
}

// ReleaseLoteRequest entrada para liberar un lote.
type ReleaseLoteRequest struct {
	Motivo string `json:"motivo" validate:"required"`
	Notas  string `json:"notas"`
}

// ChangeStatusRequest entrada cruda del cambio de estado. NewStatus se normaliza en el handler.
// ClientID es obligatorio para LIBRE -> APARTADO y para TITULADO -> APARTADO cuando no hay asignación.
type ChangeStatusRequest struct {
	NewStatus string `json:"new_status" validate:"required"`
	Reason    string `json:"reason"`
	ClientID  string `json:"client_id"`
	Notas     string `json:"notas"`
}

// AsignacionResponse asignación activa.
type AsignacionResponse struct {
	ID          string    `json:"id"`
	LoteID      string    `json:"lote_id"`
	ClientID    string    `json:"client_id"`
	UserID      string    `json:"user_id"`
	FechaInicio time.Time `json:"fecha_inicio"`
	Notas       string    `json:"notas,omitempty"`
}

// HistorialResponse asignación cerrada con nombres desnormalizados (nil si la relación no existe).
type HistorialResponse struct {
	ID           string           `json:"id"`
	LoteID       string           `json:"lote_id"`
	FechaInicio  time.Time        `json:"fecha_inicio"`
	FechaFin     time.Time        `json:"fecha_fin"`
	ClientID     string           `json:"client_id"`
	ClientName   *string          `json:"client_name"`
	UserID       string           `json:"user_id"`
	UserName     *string          `json:"user_name"`
	Estado       entity.LotStatus `json:"estado"`
	MotivoCambio string           `json:"motivo_cambio"`
	Notas        string           `json:"notas,omitempty"`
}

// StatusChangeResponse fila de la bitácora de estados.
type StatusChangeResponse struct {
	ID        string           `json:"id"`
	LoteID    string           `json:"lote_id"`
	OldStatus entity.LotStatus `json:"old_status"`
	NewStatus entity.LotStatus `json:"new_status"`
	Reason    string           `json:"reason,omitempty"`
	UserID    string           `json:"user_id"`
	UserName  *string          `json:"user_name"`
	CreatedAt time.Time        `json:"created_at"`
}

// TransitionResponse resultado de una transición aceptada.
type TransitionResponse struct {
	Message    string              `json:"message"`
	LoteID     string              `json:"lote_id"`
	OldStatus  entity.LotStatus    `json:"old_status"`
	NewStatus  entity.LotStatus    `json:"new_status"`
	Asignacion *AsignacionResponse `json:"asignacion,omitempty"`
	Historial  *HistorialResponse  `json:"historial,omitempty"`
	ChangeLog  string              `json:"change_log_id"`
}

// PrototipoSummary datos del prototipo embebidos en el detalle del lote.
type PrototipoSummary struct {
	ID                     string          `json:"id"`
	Nombre                 string          `json:"nombre"`
	SuperficieConstruccion decimal.Decimal `json:"superficie"`
}

// ClienteContacto contacto del cliente con asignación activa.
type ClienteContacto struct {
	ID             string `json:"id"`
	NombreCompleto string `json:"nombre_completo"`
	Celular        string `json:"celular"`
	Telefono       string `json:"telefono,omitempty"`
	Email          string `json:"email,omitempty"`
}

// LoteDetailsResponse atributos del lote más el cliente cuando está APARTADO.
type LoteDetailsResponse struct {
	ID              string            `json:"id"`
	NumeroLote      string            `json:"numero_lote"`
	Manzana         string            `json:"manzana"`
	Calle           string            `json:"calle"`
	NumeroExterior  int               `json:"numero_exterior"`
	Superficie      *decimal.Decimal  `json:"superficie"`
	Precio          decimal.Decimal   `json:"precio"`
	Estado          entity.LotStatus  `json:"estado"`
	Tipo            string            `json:"tipo"`
	Paquete         *string           `json:"paquete"`
	Fraccionamiento *string           `json:"fraccionamiento"`
	Prototipo       *PrototipoSummary `json:"prototipo"`
	Cliente         *ClienteContacto  `json:"cliente"`
	UpdatedAt       time.Time         `json:"ultima_modificacion"`
}

// OrientacionDTO colindancia del lote.
type OrientacionDTO struct {
	Orientacion string `json:"orientacion"`
	Medidas     string `json:"medidas"`
	Colindancia string `json:"colindancia"`
}

// CreateLoteRequest alta de lote. El estado inicial siempre es LIBRE.
type CreateLoteRequest struct {
	PrototipoID    *string          `json:"prototipo_id"`
	Calle          string           `json:"calle" validate:"required"`
	NumeroExterior int              `json:"numero_exterior" validate:"required"`
	NumeroInterior string           `json:"numero_interior"`
	Manzana        string           `json:"manzana" validate:"required"`
	Lote           string           `json:"lote" validate:"required"`
	CUV            string           `json:"cuv"`
	Terreno        *decimal.Decimal `json:"terreno"`
	TipoDeLote     string           `json:"tipo_de_lote" validate:"required"`
	Precio         decimal.Decimal  `json:"precio"`
	Orientaciones  []OrientacionDTO `json:"orientaciones" validate:"max=4"`
}

// UpdateLoteRequest edición de atributos descriptivos (el estado no se edita aquí).
type UpdateLoteRequest = CreateLoteRequest

// LoteResponse salida de un lote.
type LoteResponse struct {
	ID             string           `json:"id"`
	PaqueteID      string           `json:"paquete_id"`
	PrototipoID    *string          `json:"prototipo_id"`
	Calle          string           `json:"calle"`
	NumeroExterior int              `json:"numero_exterior"`
	NumeroInterior string           `json:"numero_interior,omitempty"`
	Manzana        string           `json:"manzana"`
	Lote           string           `json:"lote"`
	CUV            string           `json:"cuv,omitempty"`
	Terreno        *decimal.Decimal `json:"terreno"`
	TipoDeLote     string           `json:"tipo_de_lote"`
	Precio         decimal.Decimal  `json:"precio"`
	Orientaciones  []OrientacionDTO `json:"orientaciones"`
	Estado         entity.LotStatus `json:"estado"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// LotStatusOption estado disponible para selectores.
type LotStatusOption struct {
	Value       entity.LotStatus `json:"value"`
	Label       string           `json:"label"`
	Description string           `json:"description"`
}

// ImportResult resumen de una carga masiva de lotes.
type ImportResult struct {
	Created int      `json:"created"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}
