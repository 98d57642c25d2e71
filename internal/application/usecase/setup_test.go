package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-inmobiliario/internal/application/auth"
	"github.com/jhoicas/crm-inmobiliario/internal/application/usecase"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/access"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/entity"
	"github.com/jhoicas/crm-inmobiliario/internal/infrastructure/memory"
)

var (
	admin     = access.NewActor("u-admin", entity.RoleAdmin, nil)
	gerente   = access.NewActor("u-gerente", entity.RoleGerente, nil)
	lider     = access.NewActor("u-lider", entity.RoleLider, []string{"u-vendedor"})
	vendedor  = access.NewActor("u-vendedor", entity.RoleVendedor, nil)
	vendedor2 = access.NewActor("u-vendedor2", entity.RoleVendedor, nil)
)

type env struct {
	store   *memory.Store
	repos   memory.Repos
	users   *usecase.UserUseCase
	clients *usecase.ClientUseCase
	catalog *usecase.CatalogUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()

	hash, err := auth.HashPassword("secreto123")
	require.NoError(t, err)
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	for _, u := range []*entity.User{
		{ID: "u-admin", Username: "admin", Email: "admin@test.mx", Nombre: "Ana", ApellidoPaterno: "Zamora", Role: entity.RoleAdmin},
		{ID: "u-gerente", Username: "gerente", Email: "gerente@test.mx", Nombre: "Germán", ApellidoPaterno: "López", Role: entity.RoleGerente},
		{ID: "u-lider", Username: "lider", Email: "lider@test.mx", Nombre: "Lidia", ApellidoPaterno: "Mora", Role: entity.RoleLider},
		{ID: "u-vendedor", Username: "vendedor", Email: "vendedor@test.mx", Nombre: "Víctor", ApellidoPaterno: "Ruiz", Role: entity.RoleVendedor},
		{ID: "u-vendedor2", Username: "vendedor2", Email: "vendedor2@test.mx", Nombre: "Vera", ApellidoPaterno: "Díaz", Role: entity.RoleVendedor},
	} {
		u.PasswordHash, u.IsActive, u.CreatedAt = hash, true, now
		require.NoError(t, repos.Users.Create(ctx, u))
	}
	require.NoError(t, repos.Teams.SetMembers(ctx, "u-lider", []string{"u-vendedor"}))

	return &env{
		store:   store,
		repos:   repos,
		users:   usecase.NewUserUseCase(repos.Users, repos.Teams),
		clients: usecase.NewClientUseCase(repos.Clients, repos.Users),
		catalog: usecase.NewCatalogUseCase(usecase.CatalogRepos{
			Fraccionamientos: repos.Fraccionamientos,
			Paquetes:         repos.Paquetes,
			Prototipos:       repos.Prototipos,
			Lotes:            repos.Lotes,
		}),
	}
}
