package repository

import (
	"context"

	"github.com/jhoicas/crm-inmobiliario/internal/domain/entity"
)

// ClientFilter filtros de listado. Con AllOwners = false solo se devuelven clientes cuyo
// AssignedUserID está en OwnerIDs (lista vacía = ningún cliente).
type ClientFilter struct {
	AllOwners bool
	OwnerIDs  []string
	Estatus   string // vacío = cualquiera
	Search    string // nombre, apellidos o email
	Limit     int
	Offset    int
}

// ClientRepository define el puerto de persistencia para Client.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	Delete(ctx context.Context, id string) error
	// List devuelve la página y el total sin paginar, ordenados por apellido paterno, materno y nombre.
	// Limit 0 = sin límite.
	List(ctx context.Context, filter ClientFilter) ([]*entity.Client, int, error)
}
