package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/crm-inmobiliario/internal/application/lotes"
)

var _ lotes.TxRunner = (*TxRunner)(nil)

// lotesTxOptions READ COMMITTED; cada lote se serializa con SELECT ... FOR UPDATE
// y el índice parcial uq_lote_asignacion_activa.
var lotesTxOptions = pgx.TxOptions{IsoLevel: pgx.ReadCommitted}

// TxRunner transacciones del motor de lotes sobre el pool.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunLotes ejecuta fn con repos atados a una transacción; Commit si fn devuelve nil, Rollback si no.
func (r *TxRunner) RunLotes(ctx context.Context, fn func(tx lotes.TxRepos) error) error {
	return pgx.BeginTxFunc(ctx, r.pool, lotesTxOptions, func(tx pgx.Tx) error {
		return fn(txRepos(tx))
	})
}

func txRepos(q Querier) lotes.TxRepos {
	return lotes.TxRepos{
		Lotes:        NewLoteRepository(q),
		Asignaciones: NewAsignacionRepository(q),
		Historial:    NewHistorialRepository(q),
		Bitacora:     NewStatusLogRepository(q),
		Clients:      NewClientRepository(q),
	}
}
