package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/crm-inmobiliario/internal/application/dto"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/access"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/entity"
	"github.com/jhoicas/crm-inmobiliario/pkg/jwt"
)

// Locals keys en Fiber.
const (
	LocalUserID = "user_id"
	LocalRole   = "role"
	LocalActor  = "actor"
)

// AuthMiddleware valida el Bearer Token JWT y extrae UserID y Role a c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		userID, role, err := jwt.Parse(jwtSecret, tokenString)
		if errors.Is(err, jwt.ErrExpiredToken) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "TOKEN_EXPIRED", Message: "token expirado, inicie sesión de nuevo"})
		}
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido"})
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetRole rol declarado en el token.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}

// RequireRole RBAC grueso con el rol del token. Acepta nombres canónicos o alias (admin, gerente...).
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[entity.Role]struct{}, len(roles))
	for _, r := range roles {
		if role, ok := entity.ParseRole(r); ok {
			allowed[role] = struct{}{}
		}
	}
	return func(c *fiber.Ctx) error {
		raw := GetRole(c)
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		role, ok := entity.ParseRole(raw)
		if _, allowedRole := allowed[role]; !ok || !allowedRole {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para este recurso"})
		}
		return c.Next()
	}
}

// actorLoader lo implementa *usecase.UserUseCase.
type actorLoader interface {
	LoadActor(ctx context.Context, userID string) (access.Actor, error)
}

// ActorMiddleware recarga al usuario del token (rol vigente y equipo) y lo deja en c.Locals.
// Debe ir DESPUÉS de AuthMiddleware. Un usuario desactivado o eliminado recibe 401.
func ActorMiddleware(loader actorLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := loader.LoadActor(c.UserContext(), GetUserID(c))
		if err != nil {
			return writeError(c, err)
		}
		c.Locals(LocalActor, actor)
		return c.Next()
	}
}

// GetActor actor cargado por ActorMiddleware.
func GetActor(c *fiber.Ctx) access.Actor {
	a, _ := c.Locals(LocalActor).(access.Actor)
	return a
}
