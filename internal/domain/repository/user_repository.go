package repository

import (
	"context"

	"github.com/jhoicas/crm-inmobiliario/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	// ListActive todos los usuarios activos.
	ListActive(ctx context.Context) ([]*entity.User, error)
	// ListByIDs usuarios con esos IDs (activos o no); IDs inexistentes se ignoran.
	ListByIDs(ctx context.Context, ids []string) ([]*entity.User, error)
	// HasRecords indica si el usuario es dueño de clientes o aparece en asignaciones o bitácoras.
	HasRecords(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

// TeamRepository aristas (leader_id, member_id) de los equipos de ventas.
type TeamRepository interface {
	MemberIDs(ctx context.Context, leaderID string) ([]string, error)
	// SetMembers reemplaza el equipo completo del líder.
	SetMembers(ctx context.Context, leaderID string, memberIDs []string) error
}
