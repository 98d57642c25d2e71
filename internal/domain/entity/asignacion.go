package entity

import "time"

// LoteAsignacion vínculo activo entre un lote y un cliente. FechaFin es nil mientras está activa.
type LoteAsignacion struct {
	ID          string
	LoteID      string
	ClientID    string
	UserID      string // quién creó la asignación
	FechaInicio time.Time
	FechaFin    *time.Time
	Notas       string
}

// LoteAsignacionHistorial registro inmutable de una asignación cerrada.
type LoteAsignacionHistorial struct {
	ID           string
	LoteID       string
	ClientID     string
	UserID       string // quién cerró la asignación
	FechaInicio  time.Time
	FechaFin     time.Time
	Estado       LotStatus // estado del lote durante el periodo
	MotivoCambio string
	Notas        string
}

// LoteStatusChangeLog bitácora inmutable de cada transición de estado.
type LoteStatusChangeLog struct {
	ID        string
	LoteID    string
	UserID    string
	OldStatus LotStatus
	NewStatus LotStatus
	Reason    string
	CreatedAt time.Time
}
