package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-inmobiliario/internal/application/auth"
	"github.com/jhoicas/crm-inmobiliario/internal/application/dto"
	"github.com/jhoicas/crm-inmobiliario/internal/domain"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/entity"
	"github.com/jhoicas/crm-inmobiliario/internal/infrastructure/memory"
	pkgjwt "github.com/jhoicas/crm-inmobiliario/pkg/jwt"
)

const secret = "test-secret"

func newAuth(t *testing.T, active bool) (*auth.AuthUseCase, *memory.UserRepo) {
	t.Helper()
	repo := memory.NewStore().Repos().Users
	hash, err := auth.HashPassword("contraseña-segura")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), &entity.User{
		ID: "u-1", Username: "vvendedor", Email: "vendedor@test.mx", PasswordHash: hash,
		Nombre: "Víctor", ApellidoPaterno: "Ruiz", Role: entity.RoleVendedor, IsActive: active,
	}))
	return auth.NewAuthUseCase(repo, auth.JWTConfig{Secret: secret, ExpMinutes: 10, Issuer: "crm-test"}), repo
}

func TestLogin_PorEmailYUsername(t *testing.T) {
	uc, repo := newAuth(t, true)
	ctx := context.Background()

	for _, login := range []string{"vendedor@test.mx", "VENDEDOR@test.mx", "vvendedor"} {
		out, err := uc.Login(ctx, dto.LoginRequest{Email: login, Password: "contraseña-segura"})
		require.NoError(t, err, login)
		userID, role, err := pkgjwt.Parse(secret, out.Token)
		require.NoError(t, err)
		assert.Equal(t, "u-1", userID)
		assert.Equal(t, string(entity.RoleVendedor), role)
		assert.Equal(t, "Víctor Ruiz", out.User.NombreCompleto)
	}

	u, err := repo.GetByID(ctx, "u-1")
	require.NoError(t, err)
	assert.NotNil(t, u.LastLogin)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, _ := newAuth(t, true)
	ctx := context.Background()

	_, err := uc.Login(ctx, dto.LoginRequest{Email: "vendedor@test.mx", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@test.mx", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_UsuarioDesactivado(t *testing.T) {
	uc, _ := newAuth(t, false)
	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "vendedor@test.mx", Password: "contraseña-segura"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
