package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/crm-inmobiliario/internal/application/auth"
	"github.com/jhoicas/crm-inmobiliario/internal/application/dto"
	"github.com/jhoicas/crm-inmobiliario/internal/domain"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/access"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/entity"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/repository"
)

// UserUseCase administración de usuarios y equipos.
type UserUseCase struct {
	repo  repository.UserRepository
	teams repository.TeamRepository
}

// NewUserUseCase construye el caso de uso con los puertos de persistencia.
func NewUserUseCase(repo repository.UserRepository, teams repository.TeamRepository) *UserUseCase {
	return &UserUseCase{repo: repo, teams: teams}
}

// LoadActor reconstruye el actor desde storage (rol vigente y miembros del equipo).
// Un usuario inexistente o desactivado no puede actuar.
func (uc *UserUseCase) LoadActor(ctx context.Context, userID string) (access.Actor, error) {
	user, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return access.Actor{}, domain.StorageError(err)
	}
	if user == nil || !user.IsActive {
		return access.Actor{}, domain.ErrUnauthorized
	}
	var members []string
	if user.Role == entity.RoleLider {
		if members, err = uc.teams.MemberIDs(ctx, user.ID); err != nil {
			return access.Actor{}, domain.StorageError(err)
		}
	}
	return access.NewActor(user.ID, user.Role, members), nil
}

// Create da de alta un usuario. Solo ADMIN.
func (uc *UserUseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if !actor.CanManageUsers() {
		return nil, domain.Rule(domain.ErrForbidden, "solo ADMIN puede crear usuarios")
	}
	role, ok := entity.ParseRole(in.Role)
	if !ok {
		return nil, domain.Rule(domain.ErrInvalidInput, "rol %q desconocido", in.Role)
	}
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || !strings.Contains(in.Email, "@") || strings.TrimSpace(in.Nombre) == "" {
		return nil, domain.Rule(domain.ErrInvalidInput, "username, email y nombre son obligatorios")
	}
	if len(in.Password) < 8 {
		return nil, domain.Rule(domain.ErrInvalidInput, "la contraseña debe tener al menos 8 caracteres")
	}
	if existing, err := uc.repo.GetByEmail(ctx, in.Email); err != nil {
		return nil, domain.StorageError(err)
	} else if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	if existing, err := uc.repo.GetByUsername(ctx, in.Username); err != nil {
		return nil, domain.StorageError(err)
	} else if existing != nil {
		return nil, domain.Rule(domain.ErrDuplicate, "el username %q ya existe", in.Username)
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		ID:              uuid.New().String(),
		Username:        in.Username,
		Email:           in.Email,
		PasswordHash:    hash,
		Nombre:          strings.TrimSpace(in.Nombre),
		ApellidoPaterno: strings.TrimSpace(in.ApellidoPaterno),
		ApellidoMaterno: strings.TrimSpace(in.ApellidoMaterno),
		Role:            role,
		IsActive:        true,
		CreatedAt:       time.Now(),
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, domain.StorageError(err)
	}
	out := auth.ToUserResponse(user)
	return &out, nil
}

// Viewable usuarios a los que el actor puede ver y asignar clientes, ordenados por apellidos.
func (uc *UserUseCase) Viewable(ctx context.Context, actor access.Actor) ([]dto.UserResponse, error) {
	scope := actor.Scope()
	var (
		users []*entity.User
		err   error
	)
	if scope.All {
		users, err = uc.repo.ListActive(ctx)
	} else {
		users, err = uc.repo.ListByIDs(ctx, scope.UserIDs)
	}
	if err != nil {
		return nil, domain.StorageError(err)
	}
	access.SortUsers(users)
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, auth.ToUserResponse(u))
	}
	return out, nil
}

// SetTeam reemplaza los miembros del equipo de un LIDER DE EQUIPO. Solo ADMIN.
// No se valida la ausencia de ciclos entre equipos.
func (uc *UserUseCase) SetTeam(ctx context.Context, actor access.Actor, leaderID string, memberIDs []string) error {
	if !actor.CanManageUsers() {
		return domain.Rule(domain.ErrForbidden, "solo ADMIN puede armar equipos")
	}
	leader, err := uc.repo.GetByID(ctx, leaderID)
	if err != nil {
		return domain.StorageError(err)
	}
	if leader == nil {
		return domain.ErrUserNotFound
	}
	if leader.Role != entity.RoleLider {
		return domain.Rule(domain.ErrInvalidInput, "el usuario %s no es %s", leaderID, entity.RoleLider)
	}
	seen := make(map[string]struct{}, len(memberIDs))
	members := make([]string, 0, len(memberIDs))
	for _, id := range memberIDs {
		if id == "" || id == leaderID {
			return domain.Rule(domain.ErrInvalidInput, "un líder no puede ser miembro de su propio equipo")
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		members = append(members, id)
	}
	if err := uc.teams.SetMembers(ctx, leaderID, members); err != nil {
		return domain.StorageError(err)
	}
	return nil
}

// Deactivate impide el login y cualquier acción del usuario sin borrar sus registros.
func (uc *UserUseCase) Deactivate(ctx context.Context, actor access.Actor, id string) error {
	if !actor.CanManageUsers() {
		return domain.Rule(domain.ErrForbidden, "solo ADMIN puede desactivar usuarios")
	}
	if id == actor.UserID {
		return domain.Rule(domain.ErrConflict, "un usuario no puede desactivarse a sí mismo")
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return domain.StorageError(err)
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	user.IsActive = false
	if err := uc.repo.Update(ctx, user); err != nil {
		return domain.StorageError(err)
	}
	return nil
}

// Delete borra el usuario solo si no es dueño de clientes ni aparece en asignaciones o bitácoras.
func (uc *UserUseCase) Delete(ctx context.Context, actor access.Actor, id string) error {
	if !actor.CanManageUsers() {
		return domain.Rule(domain.ErrForbidden, "solo ADMIN puede eliminar usuarios")
	}
	if id == actor.UserID {
		return domain.Rule(domain.ErrConflict, "un usuario no puede eliminarse a sí mismo")
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return domain.StorageError(err)
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	has, err := uc.repo.HasRecords(ctx, id)
	if err != nil {
		return domain.StorageError(err)
	}
	if has {
		return domain.Rule(domain.ErrConflict, "el usuario tiene clientes o registros históricos; desactívalo en su lugar")
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return domain.StorageError(err)
	}
	return nil
}
