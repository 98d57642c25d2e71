package dto

import "time"

// CreateClientRequest alta de cliente. Queda asignado al usuario que lo crea.
type CreateClientRequest struct {
	Nombre          string `json:"nombre" validate:"required,max=100"`
	ApellidoPaterno string `json:"apellido_paterno" validate:"required,max=100"`
	ApellidoMaterno string `json:"apellido_materno" validate:"required,max=100"`
	Email           string `json:"email" validate:"omitempty,email"`
	Celular         string `json:"celular" validate:"required,max=20"`
	Telefono        string `json:"telefono" validate:"omitempty,len=10"`
	RFC             string `json:"rfc" validate:"omitempty,max=13"`
	CURP            string `json:"curp" validate:"omitempty,max=18"`
	Estatus         string `json:"estatus"`
	Notas           string `json:"notas"`
}

// UpdateClientRequest edición de cliente (no cambia el dueño; ver AssignUserRequest).
type UpdateClientRequest = CreateClientRequest

// AssignUserRequest reasignación del cliente a otro usuario.
type AssignUserRequest struct {
	NewUserID string `json:"new_user_id" validate:"required"`
}

// ClientResponse salida de un cliente.
type ClientResponse struct {
	ID              string    `json:"id"`
	Nombre          string    `json:"nombre"`
	ApellidoPaterno string    `json:"apellido_paterno"`
	ApellidoMaterno string    `json:"apellido_materno"`
	NombreCompleto  string    `json:"nombre_completo"`
	Email           string    `json:"email,omitempty"`
	Celular         string    `json:"celular"`
	Telefono        string    `json:"telefono,omitempty"`
	RFC             string    `json:"rfc,omitempty"`
	CURP            string    `json:"curp,omitempty"`
	Estatus         string    `json:"estatus"`
	Notas           string    `json:"notas,omitempty"`
	AssignedUserID  string    `json:"assigned_user_id"`
	FechaRegistro   time.Time `json:"fecha_registro"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ClientListRequest filtros del listado de clientes.
type ClientListRequest struct {
	PageRequest
	Busqueda string `query:"busqueda"`
	Estatus  string `query:"estatus"`
}

// ClientListResponse página de clientes.
type ClientListResponse struct {
	Items []*ClientResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// AssignableClientResponse cliente candidato para apartar un lote.
type AssignableClientResponse struct {
	ID             string `json:"id"`
	NombreCompleto string `json:"nombre_completo"`
	Celular        string `json:"celular"`
}
