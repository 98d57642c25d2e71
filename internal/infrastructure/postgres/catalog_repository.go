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
	_ repository.FraccionamientoRepository = (*FraccionamientoRepo)(nil)
	_ repository.PaqueteRepository         = (*PaqueteRepo)(nil)
	_ repository.PrototipoRepository       = (*PrototipoRepo)(nil)
)

// FraccionamientoRepo desarrollos sobre PostgreSQL.
type FraccionamientoRepo struct {
	q Querier
}

// NewFraccionamientoRepository construye el adaptador.
func NewFraccionamientoRepository(q Querier) *FraccionamientoRepo {
	return &FraccionamientoRepo{q: q}
}

func (r *FraccionamientoRepo) Create(ctx context.Context, f *entity.Fraccionamiento) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO fraccionamientos (id, nombre, ubicacion, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		f.ID, f.Nombre, f.Ubicacion, f.CreatedAt, f.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert fraccionamiento: %w", err)
	}
	return nil
}

func (r *FraccionamientoRepo) GetByID(ctx context.Context, id string) (*entity.Fraccionamiento, error) {
	var f entity.Fraccionamiento
	err := r.q.QueryRow(ctx, `
		SELECT id, nombre, ubicacion, created_at, updated_at FROM fraccionamientos WHERE id = $1`, id).
		Scan(&f.ID, &f.Nombre, &f.Ubicacion, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fraccionamiento: %w", err)
	}
	return &f, nil
}

func (r *FraccionamientoRepo) List(ctx context.Context) ([]*entity.Fraccionamiento, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, nombre, ubicacion, created_at, updated_at FROM fraccionamientos ORDER BY nombre`)
	if err != nil {
		return nil, fmt.Errorf("list fraccionamientos: %w", err)
	}
	defer rows.Close()
	out := []*entity.Fraccionamiento{}
	for rows.Next() {
		var f entity.Fraccionamiento
		if err := rows.Scan(&f.ID, &f.Nombre, &f.Ubicacion, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan fraccionamiento: %w", err)
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}

func (r *FraccionamientoRepo) Update(ctx context.Context, f *entity.Fraccionamiento) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE fraccionamientos SET nombre = $2, ubicacion = $3, updated_at = $4 WHERE id = $1`,
		f.ID, f.Nombre, f.Ubicacion, f.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update fraccionamiento: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// PaqueteRepo paquetes sobre PostgreSQL.
type PaqueteRepo struct {
	q Querier
}

// NewPaqueteRepository construye el adaptador.
func NewPaqueteRepository(q Querier) *PaqueteRepo {
	return &PaqueteRepo{q: q}
}

func (r *PaqueteRepo) Create(ctx context.Context, p *entity.Paquete) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO paquetes (id, fraccionamiento_id, nombre, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.FraccionamientoID, p.Nombre, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicate
		case isForeignKeyViolation(err):
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert paquete: %w", err)
	}
	return nil
}

func (r *PaqueteRepo) GetByID(ctx context.Context, id string) (*entity.Paquete, error) {
	var p entity.Paquete
	err := r.q.QueryRow(ctx, `
		SELECT id, fraccionamiento_id, nombre, created_at, updated_at FROM paquetes WHERE id = $1`, id).
		Scan(&p.ID, &p.FraccionamientoID, &p.Nombre, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get paquete: %w", err)
	}
	return &p, nil
}

func (r *PaqueteRepo) ListByFraccionamiento(ctx context.Context, fraccionamientoID string) ([]*entity.Paquete, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, fraccionamiento_id, nombre, created_at, updated_at
		FROM paquetes WHERE fraccionamiento_id = $1 ORDER BY nombre`, fraccionamientoID)
	if err != nil {
		return nil, fmt.Errorf("list paquetes: %w", err)
	}
	defer rows.Close()
	out := []*entity.Paquete{}
	for rows.Next() {
		var p entity.Paquete
		if err := rows.Scan(&p.ID, &p.FraccionamientoID, &p.Nombre, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan paquete: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// PrototipoRepo prototipos de vivienda sobre PostgreSQL.
type PrototipoRepo struct {
	q Querier
}

// NewPrototipoRepository construye el adaptador.
func NewPrototipoRepository(q Querier) *PrototipoRepo {
	return &PrototipoRepo{q: q}
}

const prototipoColumns = `id, nombre, superficie_terreno, superficie_construccion, niveles, recamaras,
	banos, observaciones, precio, created_at, updated_at`

func scanPrototipo(row pgx.Row) (*entity.Prototipo, error) {
	var p entity.Prototipo
	err := row.Scan(&p.ID, &p.Nombre, &p.SuperficieTerreno, &p.SuperficieConstruccion, &p.Niveles,
		&p.Recamaras, &p.Banos, &p.Observaciones, &p.Precio, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PrototipoRepo) Create(ctx context.Context, p *entity.Prototipo) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO prototipos (`+prototipoColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.Nombre, p.SuperficieTerreno, p.SuperficieConstruccion, p.Niveles, p.Recamaras,
		p.Banos, p.Observaciones, p.Precio, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert prototipo: %w", err)
	}
	return nil
}

func (r *PrototipoRepo) GetByID(ctx context.Context, id string) (*entity.Prototipo, error) {
	p, err := scanPrototipo(r.q.QueryRow(ctx, `SELECT `+prototipoColumns+` FROM prototipos WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get prototipo: %w", err)
	}
	return p, nil
}

func (r *PrototipoRepo) List(ctx context.Context) ([]*entity.Prototipo, error) {
	rows, err := r.q.Query(ctx, `SELECT `+prototipoColumns+` FROM prototipos ORDER BY nombre`)
	if err != nil {
		return nil, fmt.Errorf("list prototipos: %w", err)
	}
	defer rows.Close()
	out := []*entity.Prototipo{}
	for rows.Next() {
		p, err := scanPrototipo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prototipo: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PrototipoRepo) Update(ctx context.Context, p *entity.Prototipo) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE prototipos SET nombre = $2, superficie_terreno = $3, superficie_construccion = $4,
			niveles = $5, recamaras = $6, banos = $7, observaciones = $8, precio = $9, updated_at = $10
		WHERE id = $1`,
		p.ID, p.Nombre, p.SuperficieTerreno, p.SuperficieConstruccion, p.Niveles, p.Recamaras,
		p.Banos, p.Observaciones, p.Precio, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update prototipo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
