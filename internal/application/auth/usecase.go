package auth

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/crm-inmobiliario/internal/application/dto"
	"github.com/jhoicas/crm-inmobiliario/internal/domain"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/entity"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/repository"
	"github.com/jhoicas/crm-inmobiliario/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login con email (o username) y password.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Login verifica credenciales, registra el último acceso y genera el JWT.
// Credenciales incorrectas y usuario inexistente devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	login := strings.TrimSpace(in.Email)
	if login == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	var (
		user *entity.User
		err  error
	)
	if strings.Contains(login, "@") {
		user, err = uc.userRepo.GetByEmail(ctx, login)
	} else {
		user, err = uc.userRepo.GetByUsername(ctx, login)
	}
	if err != nil {
		return nil, domain.StorageError(err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.Rule(domain.ErrForbidden, "el usuario está desactivado")
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, string(user.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user.LastLogin = &now
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, domain.StorageError(err)
	}
	return &dto.LoginResponse{
		Token: token,
		User:  ToUserResponse(user),
	}, nil
}

// HashPassword bcrypt con costo por defecto.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ToUserResponse mapea la entidad a su DTO (sin password).
func ToUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		Nombre:          u.Nombre,
		ApellidoPaterno: u.ApellidoPaterno,
		ApellidoMaterno: u.ApellidoMaterno,
		NombreCompleto:  u.NombreCompleto(),
		Role:            string(u.Role),
		IsActive:        u.IsActive,
		CreatedAt:       u.CreatedAt,
		LastLogin:       u.LastLogin,
	}
}
