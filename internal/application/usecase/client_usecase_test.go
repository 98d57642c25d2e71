package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-inmobiliario/internal/application/dto"
	"github.com/jhoicas/crm-inmobiliario/internal/application/lotes"
	"github.com/jhoicas/crm-inmobiliario/internal/domain"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/access"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/entity"
)

func clienteReq(nombre, paterno string) dto.CreateClientRequest {
	return dto.CreateClientRequest{
		Nombre:          nombre,
		ApellidoPaterno: paterno,
		ApellidoMaterno: "Gómez",
		Celular:         "5551112222",
		Email:           nombre + "@correo.mx",
		RFC:             "pego800101abc",
	}
}

func TestClient_CreateAsignaAlActor(t *testing.T) {
	e := newEnv(t)
	out, err := e.clients.Create(context.Background(), vendedor, clienteReq("Carlos", "Pérez"))
	require.NoError(t, err)
	assert.Equal(t, "u-vendedor", out.AssignedUserID)
	assert.Equal(t, entity.ClientStatusActivo, out.Estatus)
	assert.Equal(t, "PEGO800101ABC", out.RFC)
	assert.Equal(t, "Carlos Pérez Gómez", out.NombreCompleto)
}

func TestClient_CreadoEsAsignable(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	out, err := e.clients.Create(ctx, vendedor, dto.CreateClientRequest{
		Nombre: "Elena", ApellidoPaterno: "Soto", ApellidoMaterno: "Vega", Celular: "5553334444",
	})
	require.NoError(t, err)
	require.Equal(t, entity.ClientStatusActivo, out.Estatus)

	query := lotes.NewQueryUseCase(lotes.QueryRepos{Clients: e.repos.Clients, Users: e.repos.Users})
	asignables, err := query.AssignableClients(ctx, vendedor)
	require.NoError(t, err)
	require.Len(t, asignables, 1)
	assert.Equal(t, out.ID, asignables[0].ID)

	// sin estatus en la edición se conserva el actual
	in := clienteReq("Elena", "Soto")
	in.Estatus = entity.ClientStatusInactivo
	_, err = e.clients.Update(ctx, vendedor, out.ID, in)
	require.NoError(t, err)
	in.Estatus = ""
	upd, err := e.clients.Update(ctx, vendedor, out.ID, in)
	require.NoError(t, err)
	assert.Equal(t, entity.ClientStatusInactivo, upd.Estatus)

	asignables, err = query.AssignableClients(ctx, vendedor)
	require.NoError(t, err)
	assert.Empty(t, asignables)
}

func TestClient_CreateValidaciones(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	in := clienteReq("Carlos", "Pérez")
	in.Celular = "  "
	_, err := e.clients.Create(ctx, vendedor, in)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	in = clienteReq("Carlos", "Pérez")
	in.Telefono = "123"
	_, err = e.clients.Create(ctx, vendedor, in)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	in = clienteReq("Carlos", "Pérez")
	in.Estatus = "vip"
	_, err = e.clients.Create(ctx, vendedor, in)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClient_VisibilidadPorRol(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c, err := e.clients.Create(ctx, vendedor, clienteReq("Carlos", "Pérez"))
	require.NoError(t, err)

	for _, tc := range []struct {
		name  string
		actor access.Actor
		ok    bool
	}{
		{"dueño", vendedor, true},
		{"lider del equipo", lider, true},
		{"gerente", gerente, true},
		{"admin", admin, true},
		{"otro vendedor", vendedor2, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.clients.GetByID(ctx, tc.actor, c.ID)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, domain.ErrForbidden)
			}
		})
	}

	_, err = e.clients.GetByID(ctx, admin, "no-existe")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_UpdateYDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c, err := e.clients.Create(ctx, vendedor, clienteReq("Carlos", "Pérez"))
	require.NoError(t, err)

	in := clienteReq("Carlos", "Pérez")
	in.Estatus = entity.ClientStatusActivo
	_, err = e.clients.Update(ctx, vendedor2, c.ID, in)
	require.ErrorIs(t, err, domain.ErrForbidden)

	out, err := e.clients.Update(ctx, vendedor, c.ID, in)
	require.NoError(t, err)
	assert.Equal(t, entity.ClientStatusActivo, out.Estatus)
	assert.Equal(t, "u-vendedor", out.AssignedUserID)

	err = e.clients.Delete(ctx, vendedor, c.ID)
	require.ErrorIs(t, err, domain.ErrForbidden)
	require.NoError(t, e.clients.Delete(ctx, gerente, c.ID))
	_, err = e.clients.GetByID(ctx, admin, c.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_AssignUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c, err := e.clients.Create(ctx, vendedor, clienteReq("Carlos", "Pérez"))
	require.NoError(t, err)

	// el líder no gestiona a vendedor2
	_, err = e.clients.AssignUser(ctx, lider, c.ID, "u-vendedor2")
	require.ErrorIs(t, err, domain.ErrForbidden)
	// un vendedor no reasigna
	_, err = e.clients.AssignUser(ctx, vendedor, c.ID, "u-vendedor2")
	require.ErrorIs(t, err, domain.ErrForbidden)

	_, err = e.clients.AssignUser(ctx, gerente, c.ID, "u-fantasma")
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	out, err := e.clients.AssignUser(ctx, gerente, c.ID, "u-vendedor2")
	require.NoError(t, err)
	assert.Equal(t, "u-vendedor2", out.AssignedUserID)

	_, err = e.clients.GetByID(ctx, vendedor, c.ID)
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestClient_ListConAlcanceYFiltros(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.clients.Create(ctx, vendedor, clienteReq("Carlos", "Pérez"))
	require.NoError(t, err)
	_, err = e.clients.Create(ctx, vendedor, clienteReq("Beatriz", "Acosta"))
	require.NoError(t, err)
	_, err = e.clients.Create(ctx, vendedor2, clienteReq("Dario", "Núñez"))
	require.NoError(t, err)

	all, err := e.clients.List(ctx, admin, dto.ClientListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Page.Total)
	assert.Equal(t, "Acosta", all.Items[0].ApellidoPaterno)

	team, err := e.clients.List(ctx, lider, dto.ClientListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, team.Page.Total)

	mine, err := e.clients.List(ctx, vendedor2, dto.ClientListRequest{})
	require.NoError(t, err)
	require.Len(t, mine.Items, 1)
	assert.Equal(t, "Dario", mine.Items[0].Nombre)

	found, err := e.clients.List(ctx, admin, dto.ClientListRequest{Busqueda: "beatriz"})
	require.NoError(t, err)
	require.Len(t, found.Items, 1)

	page, err := e.clients.List(ctx, admin, dto.ClientListRequest{PageRequest: dto.PageRequest{Limit: 2, Offset: 2}})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 3, page.Page.Total)

	_, err = e.clients.List(ctx, admin, dto.ClientListRequest{Estatus: "vip"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
