package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Username        string `json:"username" validate:"required,max=64"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	Nombre          string `json:"nombre" validate:"required,max=64"`
	ApellidoPaterno string `json:"apellido_paterno" validate:"required,max=64"`
	ApellidoMaterno string `json:"apellido_materno" validate:"required,max=64"`
	Role            string `json:"role" validate:"required,oneof=ADMIN GERENTE LIDER VENDEDOR"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID              string     `json:"id"`
	Username        string     `json:"username"`
	Email           string     `json:"email"`
	Nombre          string     `json:"nombre"`
	ApellidoPaterno string     `json:"apellido_paterno"`
	ApellidoMaterno string     `json:"apellido_materno"`
	NombreCompleto  string     `json:"nombre_completo"`
	Role            string     `json:"role"`
	IsActive        bool       `json:"is_active"`
	CreatedAt       time.Time  `json:"created_at"`
	LastLogin       *time.Time `json:"last_login,omitempty"`
}

// SetTeamRequest reemplaza los miembros del equipo de un líder.
type SetTeamRequest struct {
	MemberIDs []string `json:"member_ids"`
}

// LoginRequest entrada para login (email o username).
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
