package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/crm-inmobiliario/internal/domain"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/entity"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/repository"
)

var _ repository.LoteRepository = (*LoteRepo)(nil)

const loteColumns = `id, paquete_id, prototipo_id, calle, numero_exterior, numero_interior, manzana, lote,
	cuv, terreno, tipo_de_lote, precio, orientaciones, status, created_at, updated_at`

// LoteRepo lotes sobre PostgreSQL (usable con pool o tx).
type LoteRepo struct {
	q Querier
}

// NewLoteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLoteRepository(q Querier) *LoteRepo {
	return &LoteRepo{q: q}
}

// orientaciones se guardan como JSONB (arreglo de cuatro).
func scanLote(row pgx.Row) (*entity.Lote, error) {
	var l entity.Lote
	err := row.Scan(
		&l.ID, &l.PaqueteID, &l.PrototipoID, &l.Calle, &l.NumeroExterior, &l.NumeroInterior, &l.Manzana, &l.Lote,
		&l.CUV, &l.Terreno, &l.TipoDeLote, &l.Precio, &l.Orientaciones, &l.Status, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Create inserta el lote. La ubicación (paquete, manzana, lote) es única.
func (r *LoteRepo) Create(ctx context.Context, l *entity.Lote) error {
	query := `
		INSERT INTO lotes (` + loteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.PaqueteID, l.PrototipoID, l.Calle, l.NumeroExterior, l.NumeroInterior, l.Manzana, l.Lote,
		l.CUV, l.Terreno, l.TipoDeLote, l.Precio, l.Orientaciones, l.Status, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicate
		case isForeignKeyViolation(err):
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert lote: %w", err)
	}
	return nil
}

// GetByID obtiene un lote (nil si no existe).
func (r *LoteRepo) GetByID(ctx context.Context, id string) (*entity.Lote, error) {
	return r.get(ctx, `SELECT `+loteColumns+` FROM lotes WHERE id = $1`, id)
}

// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE). Solo tiene efecto dentro de una tx.
func (r *LoteRepo) GetForUpdate(ctx context.Context, id string) (*entity.Lote, error) {
	return r.get(ctx, `SELECT `+loteColumns+` FROM lotes WHERE id = $1 FOR UPDATE`, id)
}

func (r *LoteRepo) get(ctx context.Context, query, id string) (*entity.Lote, error) {
	l, err := scanLote(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lote: %w", err)
	}
	return l, nil
}

// Update actualiza atributos descriptivos; status y created_at no se tocan.
func (r *LoteRepo) Update(ctx context.Context, l *entity.Lote) error {
	query := `
		UPDATE lotes SET prototipo_id = $2, calle = $3, numero_exterior = $4, numero_interior = $5,
			manzana = $6, lote = $7, cuv = $8, terreno = $9, tipo_de_lote = $10, precio = $11,
			orientaciones = $12, updated_at = $13
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		l.ID, l.PrototipoID, l.Calle, l.NumeroExterior, l.NumeroInterior, l.Manzana, l.Lote,
		l.CUV, l.Terreno, l.TipoDeLote, l.Precio, l.Orientaciones, l.UpdatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicate
		case isForeignKeyViolation(err):
			return domain.ErrNotFound
		}
		return fmt.Errorf("update lote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus cambia el estado. Solo lo invoca el motor de lotes dentro de RunLotes.
func (r *LoteRepo) UpdateStatus(ctx context.Context, id string, status entity.LotStatus, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE lotes SET status = $2, updated_at = $3 WHERE id = $1`, id, status, at)
	if err != nil {
		return fmt.Errorf("update lote status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByPaquete lotes del paquete ordenados por manzana y lote; status nil = todos.
func (r *LoteRepo) ListByPaquete(ctx context.Context, paqueteID string, status *entity.LotStatus) ([]*entity.Lote, error) {
	if status == nil {
		return r.list(ctx, `SELECT `+loteColumns+` FROM lotes WHERE paquete_id = $1 ORDER BY manzana, lote, id`, paqueteID)
	}
	return r.list(ctx, `SELECT `+loteColumns+` FROM lotes WHERE paquete_id = $1 AND status = $2
		ORDER BY manzana, lote, id`, paqueteID, *status)
}

// FindByLocation lote del paquete con esa manzana y número (nil si no existe).
func (r *LoteRepo) FindByLocation(ctx context.Context, paqueteID, manzana, numero string) (*entity.Lote, error) {
	l, err := scanLote(r.q.QueryRow(ctx, `SELECT `+loteColumns+` FROM lotes
		WHERE paquete_id = $1 AND manzana = $2 AND lote = $3`, paqueteID, manzana, numero))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find lote by location: %w", err)
	}
	return l, nil
}

// ListAll todos los lotes (usado por check-statuses).
func (r *LoteRepo) ListAll(ctx context.Context) ([]*entity.Lote, error) {
	return r.list(ctx, `SELECT `+loteColumns+` FROM lotes ORDER BY paquete_id, manzana, lote, id`)
}

func (r *LoteRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Lote, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lotes: %w", err)
	}
	defer rows.Close()
	out := []*entity.Lote{}
	for rows.Next() {
		l, err := scanLote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lote: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
