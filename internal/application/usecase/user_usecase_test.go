package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-inmobiliario/internal/application/dto"
	"github.com/jhoicas/crm-inmobiliario/internal/domain"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/entity"
)

func TestUser_LoadActorCargaEquipo(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	a, err := e.users.LoadActor(ctx, "u-lider")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleLider, a.Role)
	assert.True(t, a.InTeam("u-vendedor"))
	assert.False(t, a.InTeam("u-vendedor2"))

	a, err = e.users.LoadActor(ctx, "u-vendedor")
	require.NoError(t, err)
	assert.Empty(t, a.TeamMemberIDs())

	_, err = e.users.LoadActor(ctx, "u-fantasma")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestUser_LoadActorDesactivado(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	require.NoError(t, e.users.Deactivate(ctx, admin, "u-vendedor2"))

	_, err := e.users.LoadActor(ctx, "u-vendedor2")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestUser_CreateSoloAdmin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	in := dto.CreateUserRequest{
		Username: "nuevo",
		Email:    "Nuevo@Test.mx",
		Password: "secreto123",
		Nombre:   "Nora",
		Role:     "vendedor",
	}

	_, err := e.users.Create(ctx, gerente, in)
	require.ErrorIs(t, err, domain.ErrForbidden)

	out, err := e.users.Create(ctx, admin, in)
	require.NoError(t, err)
	assert.Equal(t, "nuevo@test.mx", out.Email)
	assert.Equal(t, string(entity.RoleVendedor), out.Role)
	assert.True(t, out.IsActive)

	stored, err := e.repos.Users.GetByID(ctx, out.ID)
	require.NoError(t, err)
	assert.NotEqual(t, in.Password, stored.PasswordHash)

	_, err = e.users.Create(ctx, admin, in)
	require.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	in.Email, in.Role = "otro@test.mx", "cajero"
	_, err = e.users.Create(ctx, admin, in)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	in.Role, in.Password = "vendedor", "corta"
	_, err = e.users.Create(ctx, admin, in)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUser_ViewablePorRol(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	all, err := e.users.Viewable(ctx, gerente)
	require.NoError(t, err)
	require.Len(t, all, 5)
	// orden por apellido paterno
	assert.Equal(t, "Díaz", all[0].ApellidoPaterno)
	assert.Equal(t, "Zamora", all[4].ApellidoPaterno)

	team, err := e.users.Viewable(ctx, lider)
	require.NoError(t, err)
	require.Len(t, team, 1)
	assert.Equal(t, "u-vendedor", team[0].ID)

	self, err := e.users.Viewable(ctx, vendedor2)
	require.NoError(t, err)
	require.Len(t, self, 1)
	assert.Equal(t, "u-vendedor2", self[0].ID)
}

func TestUser_SetTeam(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	err := e.users.SetTeam(ctx, gerente, "u-lider", []string{"u-vendedor2"})
	require.ErrorIs(t, err, domain.ErrForbidden)
	err = e.users.SetTeam(ctx, admin, "u-vendedor", []string{"u-vendedor2"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	err = e.users.SetTeam(ctx, admin, "u-lider", []string{"u-lider"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, e.users.SetTeam(ctx, admin, "u-lider", []string{"u-vendedor", "u-vendedor2", "u-vendedor2"}))
	a, err := e.users.LoadActor(ctx, "u-lider")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u-vendedor", "u-vendedor2"}, a.TeamMemberIDs())
}

func TestUser_DeleteConRegistrosEsConflicto(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.clients.Create(ctx, vendedor, clienteReq("Carlos", "Pérez"))
	require.NoError(t, err)

	err = e.users.Delete(ctx, admin, "u-vendedor")
	require.ErrorIs(t, err, domain.ErrConflict)
	err = e.users.Delete(ctx, admin, "u-admin")
	require.ErrorIs(t, err, domain.ErrConflict)

	require.NoError(t, e.users.Delete(ctx, admin, "u-vendedor2"))
	_, err = e.users.LoadActor(ctx, "u-vendedor2")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	err = e.users.Delete(ctx, admin, "u-vendedor2")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}
