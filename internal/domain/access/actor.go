// Package access reglas de visibilidad y autoridad por rol. Todas las funciones son puras:
// el Actor se construye en la frontera (usuario + miembros de su equipo) y se pasa explícito.
package access

import (
	"sort"

	"github.com/jhoicas/crm-inmobiliario/internal/domain/entity"
)

// Actor usuario autenticado que invoca una operación.
type Actor struct {
	UserID string
	Role   entity.Role
	team   map[string]struct{}
}

// NewActor construye el actor a partir del usuario y los IDs de su equipo (solo aplica a líderes).
func NewActor(userID string, role entity.Role, teamMemberIDs []string) Actor {
	team := make(map[string]struct{}, len(teamMemberIDs))
	for _, id := range teamMemberIDs {
		team[id] = struct{}{}
	}
	return Actor{UserID: userID, Role: role, team: team}
}

// IsManagement ADMIN o GERENTE.
func (a Actor) IsManagement() bool {
	return a.Role == entity.RoleAdmin || a.Role == entity.RoleGerente
}

// InTeam indica si userID es miembro del equipo del actor.
func (a Actor) InTeam(userID string) bool {
	_, ok := a.team[userID]
	return ok
}

// TeamMemberIDs IDs del equipo, ordenados.
func (a Actor) TeamMemberIDs() []string {
	ids := make([]string, 0, len(a.team))
	for id := range a.team {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// governs regla común: gestión siempre; líder si ownerID es de su equipo; vendedor si es él mismo.
func (a Actor) governs(ownerID string) bool {
	switch a.Role {
	case entity.RoleAdmin, entity.RoleGerente:
		return true
	case entity.RoleLider:
		return a.InTeam(ownerID)
	case entity.RoleVendedor:
		return ownerID != "" && ownerID == a.UserID
	}
	return false
}

// CanViewClient puede ver el cliente.
func (a Actor) CanViewClient(c *entity.Client) bool {
	return c != nil && a.governs(c.AssignedUserID)
}

// CanEditClient puede editar el cliente.
func (a Actor) CanEditClient(c *entity.Client) bool {
	return c != nil && a.governs(c.AssignedUserID)
}

// CanDeleteClient solo ADMIN y GERENTE, sin importar quién sea el dueño.
func (a Actor) CanDeleteClient(c *entity.Client) bool {
	return c != nil && a.IsManagement()
}

// CanAssignClient puede asignar clientes al usuario targetUserID.
func (a Actor) CanAssignClient(targetUserID string) bool {
	return a.governs(targetUserID)
}

// CanAssignLot puede apartar un lote para el cliente c.
func (a Actor) CanAssignLot(c *entity.Client) bool {
	return c != nil && a.governs(c.AssignedUserID)
}

// CanViewLotAssignment puede ver una asignación cuyo cliente es c.
func (a Actor) CanViewLotAssignment(c *entity.Client) bool {
	return c != nil && a.governs(c.AssignedUserID)
}

// CanModifyLotAssignment puede liberar o modificar una asignación cuyo cliente es c.
func (a Actor) CanModifyLotAssignment(c *entity.Client) bool {
	return c != nil && a.governs(c.AssignedUserID)
}

// CanTitle puede llevar un lote a TITULADO o sacarlo de TITULADO.
func (a Actor) CanTitle() bool {
	return a.IsManagement()
}

// CanManageCatalog puede crear o editar fraccionamientos, paquetes, prototipos y lotes.
func (a Actor) CanManageCatalog() bool {
	return a.IsManagement()
}

// CanManageUsers solo ADMIN crea usuarios y arma equipos.
func (a Actor) CanManageUsers() bool {
	return a.Role == entity.RoleAdmin
}

// Scope alcance de visibilidad sobre usuarios (y por lo tanto sobre sus clientes).
// All = true significa sin filtro; si no, solo UserIDs.
type Scope struct {
	All     bool
	UserIDs []string
}

// Scope ADMIN/GERENTE todos; LIDER su equipo; VENDEDOR solo él mismo.
func (a Actor) Scope() Scope {
	switch a.Role {
	case entity.RoleAdmin, entity.RoleGerente:
		return Scope{All: true}
	case entity.RoleLider:
		return Scope{UserIDs: a.TeamMemberIDs()}
	}
	return Scope{UserIDs: []string{a.UserID}}
}

// SortUsers orden de las listas de candidatos: apellido paterno, materno y nombre (sin locale).
func SortUsers(users []*entity.User) {
	sort.SliceStable(users, func(i, j int) bool {
		ui, uj := users[i], users[j]
		if ui.ApellidoPaterno != uj.ApellidoPaterno {
			return ui.ApellidoPaterno < uj.ApellidoPaterno
		}
		if ui.ApellidoMaterno != uj.ApellidoMaterno {
			return ui.ApellidoMaterno < uj.ApellidoMaterno
		}
		return ui.Nombre < uj.Nombre
	})
}
