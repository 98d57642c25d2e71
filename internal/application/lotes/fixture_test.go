package lotes_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-inmobiliario/internal/application/lotes"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/access"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/entity"
	"github.com/jhoicas/crm-inmobiliario/internal/infrastructure/memory"
)

const (
	adminID     = "u-admin"
	gerenteID   = "u-gerente"
	liderID     = "u-lider"
	vendedorID  = "u-vendedor"
	vendedor2ID = "u-vendedor2"

	clienteID     = "c-vendedor"
	clienteAjeno  = "c-vendedor2"
	paqueteID     = "p-1"
	fraccID       = "f-1"
	loteLibreID   = "l-1"
	loteLibre2ID  = "l-2"
	loteSinProtID = "l-3"
)

type fixture struct {
	store  *memory.Store
	repos  memory.Repos
	engine *lotes.Engine
	query  *lotes.QueryUseCase
	pub    *fakePublisher
	rec    *fakeRecorder
}

var (
	admin     = access.NewActor(adminID, entity.RoleAdmin, nil)
	gerente   = access.NewActor(gerenteID, entity.RoleGerente, nil)
	lider     = access.NewActor(liderID, entity.RoleLider, []string{vendedorID})
	vendedor  = access.NewActor(vendedorID, entity.RoleVendedor, nil)
	vendedor2 = access.NewActor(vendedor2ID, entity.RoleVendedor, nil)
)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	users := []*entity.User{
		{ID: adminID, Username: "admin", Email: "admin@test.mx", Nombre: "Ana", ApellidoPaterno: "Zamora", Role: entity.RoleAdmin, IsActive: true},
		{ID: gerenteID, Username: "gerente", Email: "gerente@test.mx", Nombre: "Germán", ApellidoPaterno: "López", Role: entity.RoleGerente, IsActive: true},
		{ID: liderID, Username: "lider", Email: "lider@test.mx", Nombre: "Lidia", ApellidoPaterno: "Mora", Role: entity.RoleLider, IsActive: true},
		{ID: vendedorID, Username: "vendedor", Email: "vendedor@test.mx", Nombre: "Víctor", ApellidoPaterno: "Ruiz", ApellidoMaterno: "Soto", Role: entity.RoleVendedor, IsActive: true},
		{ID: vendedor2ID, Username: "vendedor2", Email: "vendedor2@test.mx", Nombre: "Vera", ApellidoPaterno: "Díaz", Role: entity.RoleVendedor, IsActive: true},
	}
	for _, u := range users {
		u.CreatedAt = now
		require.NoError(t, repos.Users.Create(ctx, u))
	}
	require.NoError(t, repos.Teams.SetMembers(ctx, liderID, []string{vendedorID}))

	for _, c := range []*entity.Client{
		{ID: clienteID, Nombre: "Carlos", ApellidoPaterno: "Pérez", ApellidoMaterno: "Gómez", Celular: "5551112222", Estatus: entity.ClientStatusActivo, AssignedUserID: vendedorID},
		{ID: clienteAjeno, Nombre: "Claudia", ApellidoPaterno: "Arias", Estatus: entity.ClientStatusNuevo, AssignedUserID: vendedor2ID},
	} {
		c.FechaRegistro, c.CreatedAt, c.UpdatedAt = now, now, now
		require.NoError(t, repos.Clients.Create(ctx, c))
	}

	require.NoError(t, repos.Fraccionamientos.Create(ctx, &entity.Fraccionamiento{ID: fraccID, Nombre: "Valle Real"}))
	require.NoError(t, repos.Paquetes.Create(ctx, &entity.Paquete{ID: paqueteID, FraccionamientoID: fraccID, Nombre: "Paquete A"}))
	protID := "proto-1"
	require.NoError(t, repos.Prototipos.Create(ctx, &entity.Prototipo{ID: protID, Nombre: "Roble", SuperficieConstruccion: decimal.NewFromInt(85)}))
	terreno := decimal.NewFromInt(120)
	for i, id := range []string{loteLibreID, loteLibre2ID, loteSinProtID} {
		l := &entity.Lote{
			ID:             id,
			PaqueteID:      paqueteID,
			Calle:          "Av. Central",
			NumeroExterior: 100 + i,
			Manzana:        "M1",
			Lote:           id,
			Terreno:        &terreno,
			TipoDeLote:     entity.TipoLoteRegular,
			Precio:         decimal.NewFromInt(950000),
			Status:         entity.LotStatusLibre,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if id != loteSinProtID {
			l.PrototipoID = &protID
		}
		require.NoError(t, repos.Lotes.Create(ctx, l))
	}

	pub := &fakePublisher{}
	rec := &fakeRecorder{}
	return &fixture{
		store:  store,
		repos:  repos,
		engine: lotes.NewEngine(store, pub, rec, nil),
		query:  lotes.NewQueryUseCase(store.QueryRepos()),
		pub:    pub,
		rec:    rec,
	}
}

func (f *fixture) lote(t *testing.T, id string) *entity.Lote {
	t.Helper()
	l, err := f.repos.Lotes.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, l)
	return l
}

func (f *fixture) bitacora(t *testing.T, id string) []*entity.LoteStatusChangeLog {
	t.Helper()
	rows, err := f.repos.Bitacora.ListByLote(context.Background(), id)
	require.NoError(t, err)
	return rows
}

func (f *fixture) historial(t *testing.T, id string) []*entity.LoteAsignacionHistorial {
	t.Helper()
	rows, err := f.repos.Historial.ListByLote(context.Background(), id)
	require.NoError(t, err)
	return rows
}

func (f *fixture) activa(t *testing.T, id string) *entity.LoteAsignacion {
	t.Helper()
	a, err := f.repos.Asignaciones.GetActiveByLote(context.Background(), id)
	require.NoError(t, err)
	return a
}

// requireInvariante status != LIBRE <=> exactamente una asignación activa, para todos los lotes.
func (f *fixture) requireInvariante(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	all, err := f.repos.Lotes.ListAll(ctx)
	require.NoError(t, err)
	active, err := f.repos.Asignaciones.ListActive(ctx)
	require.NoError(t, err)
	count := map[string]int{}
	for _, a := range active {
		count[a.LoteID]++
	}
	for _, l := range all {
		require.LessOrEqual(t, count[l.ID], 1, "lote %s con más de una asignación activa", l.ID)
		if l.Status == entity.LotStatusLibre {
			require.Zero(t, count[l.ID], "lote %s LIBRE con asignación", l.ID)
		} else {
			require.Equal(t, 1, count[l.ID], "lote %s %s sin asignación", l.ID, l.Status)
		}
	}
}

type fakePublisher struct {
	mu     sync.Mutex
	events []lotes.StatusChangedEvent
	err    error
}

func (p *fakePublisher) PublishStatusChanged(_ context.Context, ev lotes.StatusChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

type fakeRecorder struct {
	mu          sync.Mutex
	transitions int
	rejections  map[string]int
}

func (r *fakeRecorder) RecordTransition(entity.LotStatus, entity.LotStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions++
}

func (r *fakeRecorder) RecordRejection(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rejections == nil {
		r.rejections = map[string]int{}
	}
	r.rejections[code]++
}
