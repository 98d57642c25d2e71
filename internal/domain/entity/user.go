package entity

import (
	"strings"
	"time"
)

// Role es el rol de un usuario. Cada usuario tiene exactamente uno.
type Role string

// Roles válidos para User.
const (
	RoleAdmin    Role = "ADMIN"
	RoleGerente  Role = "GERENTE"
	RoleLider    Role = "LIDER DE EQUIPO"
	RoleVendedor Role = "VENDEDOR"
)

// Valid indica si r es uno de los roles conocidos.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleGerente, RoleLider, RoleVendedor:
		return true
	}
	return false
}

// ParseRole acepta el valor almacenado o un alias corto (admin, gerente, lider, vendedor).
func ParseRole(s string) (Role, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ADMIN":
		return RoleAdmin, true
	case "GERENTE", "MANAGER":
		return RoleGerente, true
	case "LIDER DE EQUIPO", "LIDER", "TEAM_LEAD":
		return RoleLider, true
	case "VENDEDOR", "AGENT":
		return RoleVendedor, true
	}
	return "", false
}

// User representa un usuario del sistema (vendedor, líder, gerente o admin).
type User struct {
	ID              string
	Username        string
	Email           string
	PasswordHash    string // bcrypt hash, nunca plano en dominio después de persistir
	Nombre          string
	ApellidoPaterno string
	ApellidoMaterno string
	Role            Role
	IsActive        bool
	CreatedAt       time.Time
	LastLogin       *time.Time
}

// NombreCompleto nombre para mostrar: nombre y apellidos.
func (u *User) NombreCompleto() string {
	return strings.TrimSpace(u.Nombre + " " + u.ApellidoPaterno + " " + u.ApellidoMaterno)
}
