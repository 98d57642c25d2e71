// Package bootstrap arma repositorios, casos de uso y motor según STORE_DRIVER.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/crm-inmobiliario/internal/application/auth"
	"github.com/jhoicas/crm-inmobiliario/internal/application/lotes"
	"github.com/jhoicas/crm-inmobiliario/internal/application/usecase"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/repository"
	"github.com/jhoicas/crm-inmobiliario/internal/infrastructure/memory"
	"github.com/jhoicas/crm-inmobiliario/internal/infrastructure/metrics"
	"github.com/jhoicas/crm-inmobiliario/internal/infrastructure/postgres"
	"github.com/jhoicas/crm-inmobiliario/internal/infrastructure/queue"
	"github.com/jhoicas/crm-inmobiliario/pkg/config"
	"github.com/jhoicas/crm-inmobiliario/pkg/logger"
)

// Backend dependencias listas para la API o el CLI.
type Backend struct {
	Auth    *auth.AuthUseCase
	Users   *usecase.UserUseCase
	Clients *usecase.ClientUseCase
	Catalog *usecase.CatalogUseCase
	Engine  *lotes.Engine
	Query   *lotes.QueryUseCase
	Metrics *metrics.Metrics

	UserRepo       repository.UserRepository
	LoteRepo       repository.LoteRepository
	AsignacionRepo repository.AsignacionRepository

	// Pool nil con STORE_DRIVER=memory.
	Pool *pgxpool.Pool

	closers []func()
}

type storage struct {
	users            repository.UserRepository
	teams            repository.TeamRepository
	clients          repository.ClientRepository
	fraccionamientos repository.FraccionamientoRepository
	paquetes         repository.PaqueteRepository
	prototipos       repository.PrototipoRepository
	lotes            repository.LoteRepository
	asignaciones     repository.AsignacionRepository
	query            lotes.QueryRepos
	txRunner         lotes.TxRunner
}

// Open conecta el storage, el publicador AMQP (si hay URL) y construye los casos de uso.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Backend, error) {
	b := &Backend{}
	var st storage

	switch cfg.App.StoreDriver {
	case config.StoreDriverMemory:
		log.Warn().Msg("STORE_DRIVER=memory: los datos se pierden al reiniciar")
		store := memory.NewStore()
		r := store.Repos()
		st = storage{
			users: r.Users, teams: r.Teams, clients: r.Clients,
			fraccionamientos: r.Fraccionamientos, paquetes: r.Paquetes, prototipos: r.Prototipos,
			lotes: r.Lotes, asignaciones: r.Asignaciones,
			query: store.QueryRepos(), txRunner: store,
		}
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		b.Pool = pool
		b.closers = append(b.closers, pool.Close)
		r := postgres.NewRepos(pool)
		st = storage{
			users: r.Users, teams: r.Teams, clients: r.Clients,
			fraccionamientos: r.Fraccionamientos, paquetes: r.Paquetes, prototipos: r.Prototipos,
			lotes: r.Lotes, asignaciones: r.Asignaciones,
			query: r.QueryRepos(), txRunner: postgres.NewTxRunner(pool),
		}
	}

	var publisher lotes.EventPublisher
	if cfg.AMQP.URL != "" {
		pub, err := queue.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("conexión a AMQP: %w", err)
		}
		publisher = pub
		b.closers = append(b.closers, func() {
			if err := pub.Close(); err != nil {
				log.Error().Err(err).Msg("cerrar publicador AMQP")
			}
		})
		log.Info().Str("exchange", cfg.AMQP.Exchange).Msg("eventos de lotes habilitados")
	}

	var recorder lotes.Recorder
	if cfg.Metrics.Enabled {
		b.Metrics = metrics.New()
		recorder = b.Metrics
	}

	b.Auth = auth.NewAuthUseCase(st.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	b.Users = usecase.NewUserUseCase(st.users, st.teams)
	b.Clients = usecase.NewClientUseCase(st.clients, st.users)
	b.Catalog = usecase.NewCatalogUseCase(usecase.CatalogRepos{
		Fraccionamientos: st.fraccionamientos,
		Paquetes:         st.paquetes,
		Prototipos:       st.prototipos,
		Lotes:            st.lotes,
	})
	b.Engine = lotes.NewEngine(st.txRunner, publisher, recorder, log.Named("lotes"))
	b.Query = lotes.NewQueryUseCase(st.query)
	b.UserRepo = st.users
	b.LoteRepo = st.lotes
	b.AsignacionRepo = st.asignaciones
	return b, nil
}

// Close libera conexiones en orden inverso.
func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}
