package entity

import (
	"strings"
	"time"
)

// Estatus de cliente.
const (
	ClientStatusNuevo         = "nuevo"
	ClientStatusActivo        = "activo"
	ClientStatusEnSeguimiento = "en_seguimiento"
	ClientStatusInactivo      = "inactivo"
)

// ValidClientStatus indica si s es un estatus de cliente conocido.
func ValidClientStatus(s string) bool {
	switch s {
	case ClientStatusNuevo, ClientStatusActivo, ClientStatusEnSeguimiento, ClientStatusInactivo:
		return true
	}
	return false
}

// Client representa un prospecto o comprador. Siempre pertenece a un único usuario (AssignedUserID).
type Client struct {
	ID              string
	Nombre          string
	ApellidoPaterno string
	ApellidoMaterno string
	Email           string
	Celular         string
	Telefono        string
	RFC             string
	CURP            string
	Estatus         string
	Notas           string
	AssignedUserID  string
	FechaRegistro   time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NombreCompleto "Nombre Paterno Materno".
func (c *Client) NombreCompleto() string {
	return strings.TrimSpace(c.Nombre + " " + c.ApellidoPaterno + " " + c.ApellidoMaterno)
}

// NombreCorto "Nombre Paterno", usado en el historial de asignaciones.
func (c *Client) NombreCorto() string {
	return strings.TrimSpace(c.Nombre + " " + c.ApellidoPaterno)
}
