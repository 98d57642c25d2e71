package repository

import (
	"context"

	"github.com/jhoicas/crm-inmobiliario/internal/domain/entity"
)

// FraccionamientoRepository puerto de persistencia para desarrollos.
type FraccionamientoRepository interface {
	Create(ctx context.Context, f *entity.Fraccionamiento) error
	GetByID(ctx context.Context, id string) (*entity.Fraccionamiento, error)
	List(ctx context.Context) ([]*entity.Fraccionamiento, error)
	Update(ctx context.Context, f *entity.Fraccionamiento) error
}

// PaqueteRepository puerto de persistencia para paquetes.
type PaqueteRepository interface {
	Create(ctx context.Context, p *entity.Paquete) error
	GetByID(ctx context.Context, id string) (*entity.Paquete, error)
	ListByFraccionamiento(ctx context.Context, fraccionamientoID string) ([]*entity.Paquete, error)
}

// PrototipoRepository puerto de persistencia para prototipos de vivienda.
type PrototipoRepository interface {
	Create(ctx context.Context, p *entity.Prototipo) error
	GetByID(ctx context.Context, id string) (*entity.Prototipo, error)
	List(ctx context.Context) ([]*entity.Prototipo, error)
	Update(ctx context.Context, p *entity.Prototipo) error
}
