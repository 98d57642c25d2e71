package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/crm-inmobiliario/internal/application/lotes"
)

// Repos adaptadores sobre el pool (fuera de transacción).
type Repos struct {
	Users            *UserRepo
	Teams            *TeamRepo
	Clients          *ClientRepo
	Fraccionamientos *FraccionamientoRepo
	Paquetes         *PaqueteRepo
	Prototipos       *PrototipoRepo
	Lotes            *LoteRepo
	Asignaciones     *AsignacionRepo
	Historial        *HistorialRepo
	Bitacora         *StatusLogRepo
}

// NewRepos construye todos los repositorios sobre el pool.
func NewRepos(pool *pgxpool.Pool) Repos {
	return Repos{
		Users:            NewUserRepository(pool),
		Teams:            NewTeamRepository(pool),
		Clients:          NewClientRepository(pool),
		Fraccionamientos: NewFraccionamientoRepository(pool),
		Paquetes:         NewPaqueteRepository(pool),
		Prototipos:       NewPrototipoRepository(pool),
		Lotes:            NewLoteRepository(pool),
		Asignaciones:     NewAsignacionRepository(pool),
		Historial:        NewHistorialRepository(pool),
		Bitacora:         NewStatusLogRepository(pool),
	}
}

// QueryRepos repositorios para las proyecciones de solo lectura.
func (r Repos) QueryRepos() lotes.QueryRepos {
	return lotes.QueryRepos{
		Lotes:            r.Lotes,
		Asignaciones:     r.Asignaciones,
		Historial:        r.Historial,
		Bitacora:         r.Bitacora,
		Clients:          r.Clients,
		Users:            r.Users,
		Paquetes:         r.Paquetes,
		Fraccionamientos: r.Fraccionamientos,
		Prototipos:       r.Prototipos,
	}
}
