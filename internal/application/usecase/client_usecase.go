package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/crm-inmobiliario/internal/application/dto"
	"github.com/jhoicas/crm-inmobiliario/internal/domain"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/access"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/entity"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/repository"
)

// ClientUseCase CRUD de clientes con las reglas de propiedad del actor.
type ClientUseCase struct {
	repo  repository.ClientRepository
	users repository.UserRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository, users repository.UserRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo, users: users}
}

// Create crea un cliente asignado al actor que lo registra. Estatus por defecto "activo".
func (uc *ClientUseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	if in.Estatus == "" {
		in.Estatus = entity.ClientStatusActivo
	}
	if err := validateClient(&in); err != nil {
		return nil, err
	}
	now := time.Now()
	client := &entity.Client{
		ID:              uuid.New().String(),
		Nombre:          in.Nombre,
		ApellidoPaterno: in.ApellidoPaterno,
		ApellidoMaterno: in.ApellidoMaterno,
		Email:           in.Email,
		Celular:         in.Celular,
		Telefono:        in.Telefono,
		RFC:             strings.ToUpper(in.RFC),
		CURP:            strings.ToUpper(in.CURP),
		Estatus:         in.Estatus,
		Notas:           in.Notas,
		AssignedUserID:  actor.UserID,
		FechaRegistro:   now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Create(ctx, client); err != nil {
		return nil, domain.StorageError(err)
	}
	return toClientResponse(client), nil
}

// GetByID devuelve el cliente si el actor puede verlo.
func (uc *ClientUseCase) GetByID(ctx context.Context, actor access.Actor, id string) (*dto.ClientResponse, error) {
	client, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanViewClient(client) {
		return nil, domain.Rule(domain.ErrForbidden, "el cliente pertenece a otro usuario")
	}
	return toClientResponse(client), nil
}

// Update edita los datos del cliente. El dueño solo cambia vía AssignUser.
func (uc *ClientUseCase) Update(ctx context.Context, actor access.Actor, id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	client, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanEditClient(client) {
		return nil, domain.Rule(domain.ErrForbidden, "el usuario no puede editar este cliente")
	}
	if in.Estatus == "" {
		in.Estatus = client.Estatus
	}
	if err := validateClient(&in); err != nil {
		return nil, err
	}
	client.Nombre = in.Nombre
	client.ApellidoPaterno = in.ApellidoPaterno
	client.ApellidoMaterno = in.ApellidoMaterno
	client.Email = in.Email
	client.Celular = in.Celular
	client.Telefono = in.Telefono
	client.RFC = strings.ToUpper(in.RFC)
	client.CURP = strings.ToUpper(in.CURP)
	client.Estatus = in.Estatus
	client.Notas = in.Notas
	client.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, client); err != nil {
		return nil, domain.StorageError(err)
	}
	return toClientResponse(client), nil
}

// Delete solo ADMIN o GERENTE. Falla con ErrConflict si el cliente tiene asignaciones o historial.
func (uc *ClientUseCase) Delete(ctx context.Context, actor access.Actor, id string) error {
	client, err := uc.load(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanDeleteClient(client) {
		return domain.Rule(domain.ErrForbidden, "solo ADMIN o GERENTE pueden eliminar clientes")
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return domain.StorageError(err)
	}
	return nil
}

// AssignUser reasigna el cliente. El actor debe poder asignar tanto al dueño actual como al nuevo.
func (uc *ClientUseCase) AssignUser(ctx context.Context, actor access.Actor, id, newUserID string) (*dto.ClientResponse, error) {
	client, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAssignClient(client.AssignedUserID) {
		return nil, domain.Rule(domain.ErrForbidden, "el usuario no gestiona al dueño actual del cliente")
	}
	if !actor.CanAssignClient(newUserID) {
		return nil, domain.Rule(domain.ErrForbidden, "el usuario no puede asignar clientes a %s", newUserID)
	}
	target, err := uc.users.GetByID(ctx, newUserID)
	if err != nil {
		return nil, domain.StorageError(err)
	}
	if target == nil {
		return nil, domain.ErrUserNotFound
	}
	if !target.IsActive {
		return nil, domain.Rule(domain.ErrInvalidInput, "el usuario destino está desactivado")
	}
	client.AssignedUserID = target.ID
	client.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, client); err != nil {
		return nil, domain.StorageError(err)
	}
	return toClientResponse(client), nil
}

// List clientes visibles para el actor, con búsqueda y filtro de estatus.
func (uc *ClientUseCase) List(ctx context.Context, actor access.Actor, in dto.ClientListRequest) (*dto.ClientListResponse, error) {
	in.DefaultPage()
	if in.Estatus != "" && !entity.ValidClientStatus(in.Estatus) {
		return nil, domain.Rule(domain.ErrInvalidInput, "estatus %q desconocido", in.Estatus)
	}
	scope := actor.Scope()
	list, total, err := uc.repo.List(ctx, repository.ClientFilter{
		AllOwners: scope.All,
		OwnerIDs:  scope.UserIDs,
		Estatus:   in.Estatus,
		Search:    in.Busqueda,
		Limit:     in.Limit,
		Offset:    in.Offset,
	})
	if err != nil {
		return nil, domain.StorageError(err)
	}
	items := make([]*dto.ClientResponse, 0, len(list))
	for _, c := range list {
		items = append(items, toClientResponse(c))
	}
	return &dto.ClientListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

func (uc *ClientUseCase) load(ctx context.Context, id string) (*entity.Client, error) {
	client, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.StorageError(err)
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return client, nil
}

func validateClient(in *dto.CreateClientRequest) error {
	in.Nombre = strings.TrimSpace(in.Nombre)
	in.ApellidoPaterno = strings.TrimSpace(in.ApellidoPaterno)
	in.ApellidoMaterno = strings.TrimSpace(in.ApellidoMaterno)
	in.Celular = strings.TrimSpace(in.Celular)
	if in.Nombre == "" || in.ApellidoPaterno == "" || in.ApellidoMaterno == "" || in.Celular == "" {
		return domain.Rule(domain.ErrInvalidInput, "nombre, apellidos y celular son obligatorios")
	}
	if in.Telefono != "" && len(in.Telefono) != 10 {
		return domain.Rule(domain.ErrInvalidInput, "el teléfono debe tener 10 dígitos")
	}
	if in.Email != "" && !strings.Contains(in.Email, "@") {
		return domain.Rule(domain.ErrInvalidInput, "email inválido")
	}
	if !entity.ValidClientStatus(in.Estatus) {
		return domain.Rule(domain.ErrInvalidInput, "estatus %q desconocido", in.Estatus)
	}
	return nil
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:              c.ID,
		Nombre:          c.Nombre,
		ApellidoPaterno: c.ApellidoPaterno,
		ApellidoMaterno: c.ApellidoMaterno,
		NombreCompleto:  c.NombreCompleto(),
		Email:           c.Email,
		Celular:         c.Celular,
		Telefono:        c.Telefono,
		RFC:             c.RFC,
		CURP:            c.CURP,
		Estatus:         c.Estatus,
		Notas:           c.Notas,
		AssignedUserID:  c.AssignedUserID,
		FechaRegistro:   c.FechaRegistro,
		UpdatedAt:       c.UpdatedAt,
	}
}
