package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/crm-inmobiliario/internal/domain"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/entity"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/repository"
)

var (
	_ repository.AsignacionRepository = (*AsignacionRepo)(nil)
	_ repository.HistorialRepository  = (*HistorialRepo)(nil)
	_ repository.StatusLogRepository  = (*StatusLogRepo)(nil)
)

// AsignacionRepo asignaciones activas. El índice único parcial sobre lote_id garantiza a lo más una.
type AsignacionRepo struct {
	q Querier
}

// NewAsignacionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAsignacionRepository(q Querier) *AsignacionRepo {
	return &AsignacionRepo{q: q}
}

const asignacionColumns = `id, lote_id, client_id, user_id, fecha_inicio, fecha_fin, notas`

func scanAsignacion(row pgx.Row) (*entity.LoteAsignacion, error) {
	var a entity.LoteAsignacion
	if err := row.Scan(&a.ID, &a.LoteID, &a.ClientID, &a.UserID, &a.FechaInicio, &a.FechaFin, &a.Notas); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AsignacionRepo) Create(ctx context.Context, a *entity.LoteAsignacion) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO lote_asignaciones (`+asignacionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.LoteID, a.ClientID, a.UserID, a.FechaInicio, a.FechaFin, a.Notas)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrLotAlreadyAssigned
		case isForeignKeyViolation(err):
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert asignacion: %w", err)
	}
	return nil
}

func (r *AsignacionRepo) GetActiveByLote(ctx context.Context, loteID string) (*entity.LoteAsignacion, error) {
	a, err := scanAsignacion(r.q.QueryRow(ctx, `
		SELECT `+asignacionColumns+` FROM lote_asignaciones
		WHERE lote_id = $1 AND fecha_fin IS NULL`, loteID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get asignacion activa: %w", err)
	}
	return a, nil
}

func (r *AsignacionRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM lote_asignaciones WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete asignacion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AsignacionRepo) ListActive(ctx context.Context) ([]*entity.LoteAsignacion, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+asignacionColumns+` FROM lote_asignaciones
		WHERE fecha_fin IS NULL ORDER BY lote_id`)
	if err != nil {
		return nil, fmt.Errorf("list asignaciones: %w", err)
	}
	defer rows.Close()
	out := []*entity.LoteAsignacion{}
	for rows.Next() {
		a, err := scanAsignacion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asignacion: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// HistorialRepo inserta y lee asignaciones cerradas.
type HistorialRepo struct {
	q Querier
}

// NewHistorialRepository construye el adaptador.
func NewHistorialRepository(q Querier) *HistorialRepo {
	return &HistorialRepo{q: q}
}

func (r *HistorialRepo) Create(ctx context.Context, h *entity.LoteAsignacionHistorial) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO lote_asignaciones_historial
			(id, lote_id, client_id, user_id, fecha_inicio, fecha_fin, estado, motivo_cambio, notas)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		h.ID, h.LoteID, h.ClientID, h.UserID, h.FechaInicio, h.FechaFin, h.Estado, h.MotivoCambio, h.Notas)
	if err != nil {
		return fmt.Errorf("insert historial: %w", err)
	}
	return nil
}

func (r *HistorialRepo) ListByLote(ctx context.Context, loteID string) ([]*entity.LoteAsignacionHistorial, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, lote_id, client_id, user_id, fecha_inicio, fecha_fin, estado, motivo_cambio, notas
		FROM lote_asignaciones_historial WHERE lote_id = $1
		ORDER BY fecha_inicio DESC, seq DESC`, loteID)
	if err != nil {
		return nil, fmt.Errorf("list historial: %w", err)
	}
	defer rows.Close()
	out := []*entity.LoteAsignacionHistorial{}
	for rows.Next() {
		var h entity.LoteAsignacionHistorial
		if err := rows.Scan(&h.ID, &h.LoteID, &h.ClientID, &h.UserID, &h.FechaInicio, &h.FechaFin,
			&h.Estado, &h.MotivoCambio, &h.Notas); err != nil {
			return nil, fmt.Errorf("scan historial: %w", err)
		}
		out = append(out, &h)
	}
	return out, rows.Err()
}

// StatusLogRepo bitácora de cambios de estado.
type StatusLogRepo struct {
	q Querier
}

// NewStatusLogRepository construye el adaptador.
func NewStatusLogRepository(q Querier) *StatusLogRepo {
	return &StatusLogRepo{q: q}
}

func (r *StatusLogRepo) Create(ctx context.Context, l *entity.LoteStatusChangeLog) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO lote_status_change_logs (id, lote_id, user_id, old_status, new_status, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		l.ID, l.LoteID, l.UserID, l.OldStatus, l.NewStatus, l.Reason, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert status log: %w", err)
	}
	return nil
}

func (r *StatusLogRepo) ListByLote(ctx context.Context, loteID string) ([]*entity.LoteStatusChangeLog, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, lote_id, user_id, old_status, new_status, reason, created_at
		FROM lote_status_change_logs WHERE lote_id = $1
		ORDER BY created_at DESC, seq DESC`, loteID)
	if err != nil {
		return nil, fmt.Errorf("list status log: %w", err)
	}
	defer rows.Close()
	out := []*entity.LoteStatusChangeLog{}
	for rows.Next() {
		var l entity.LoteStatusChangeLog
		if err := rows.Scan(&l.ID, &l.LoteID, &l.UserID, &l.OldStatus, &l.NewStatus, &l.Reason, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan status log: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}
