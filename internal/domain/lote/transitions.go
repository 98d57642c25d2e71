// Package lote tabla de transiciones de estado de un lote (servicio de dominio, sin E/S).
package lote

import (
	"strings"

	"github.com/jhoicas/crm-inmobiliario/internal/domain"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/access"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/entity"
)

// Authority quién puede ejecutar una transición.
type Authority uint8

const (
	// AuthorityAssignLot cualquier actor que pueda asignar lotes al cliente destino.
	AuthorityAssignLot Authority = iota + 1
	// AuthorityModifyAssignment quien pueda modificar la asignación activa (dueño del cliente, su líder o gestión).
	AuthorityModifyAssignment
	// AuthorityManagement solo ADMIN o GERENTE.
	AuthorityManagement
)

// Effect qué le pasa a la asignación activa.
type Effect uint8

const (
	// EffectNone solo bitácora; la asignación existente se conserva.
	EffectNone Effect = iota
	// EffectOpen crea la asignación.
	EffectOpen
	// EffectClose archiva la asignación en el historial y la elimina.
	EffectClose
	// EffectKeepOrOpen conserva la asignación existente o crea una si no hay (TITULADO -> APARTADO).
	EffectKeepOrOpen
)

// Transition una fila de la tabla de transiciones.
type Transition struct {
	From           entity.LotStatus
	To             entity.LotStatus
	Authority      Authority
	Effect         Effect
	RequiresReason bool
}

type edge struct{ from, to entity.LotStatus }

var table = map[edge]Transition{
	{entity.LotStatusLibre, entity.LotStatusApartado}: {
		Authority: AuthorityAssignLot, Effect: EffectOpen,
	},
	{entity.LotStatusApartado, entity.LotStatusLibre}: {
		Authority: AuthorityModifyAssignment, Effect: EffectClose,
	},
	{entity.LotStatusApartado, entity.LotStatusTitulado}: {
		Authority: AuthorityManagement, Effect: EffectNone,
	},
	{entity.LotStatusTitulado, entity.LotStatusLibre}: {
		Authority: AuthorityManagement, Effect: EffectClose,
	},
	{entity.LotStatusTitulado, entity.LotStatusApartado}: {
		Authority: AuthorityManagement, Effect: EffectKeepOrOpen, RequiresReason: true,
	},
}

// Lookup devuelve la transición from -> to o ErrInvalidTransition.
func Lookup(from, to entity.LotStatus) (Transition, error) {
	t, ok := table[edge{from, to}]
	if !ok {
		return Transition{}, domain.Rule(domain.ErrInvalidTransition, "%s -> %s no está en la tabla de transiciones", from, to)
	}
	t.From, t.To = from, to
	return t, nil
}

// Transitions todas las transiciones permitidas desde from.
func Transitions(from entity.LotStatus) []Transition {
	var out []Transition
	for _, to := range entity.LotStatuses {
		if t, err := Lookup(from, to); err == nil {
			out = append(out, t)
		}
	}
	return out
}

// Authorize verifica que actor pueda ejecutar t. client es el cliente destino (AssignLot)
// o el cliente de la asignación activa (ModifyAssignment); puede ser nil si no hay asignación.
func (t Transition) Authorize(actor access.Actor, client *entity.Client) error {
	switch t.Authority {
	case AuthorityAssignLot:
		if !actor.CanAssignLot(client) {
			return domain.Rule(domain.ErrForbidden, "el usuario no puede asignar lotes a este cliente")
		}
	case AuthorityModifyAssignment:
		if client == nil {
			// asignación huérfana o inexistente: solo gestión puede corregir el estado
			if !actor.IsManagement() {
				return domain.Rule(domain.ErrForbidden, "solo ADMIN o GERENTE pueden liberar un lote sin cliente asignado")
			}
			return nil
		}
		if !actor.CanModifyLotAssignment(client) {
			return domain.Rule(domain.ErrForbidden, "el usuario no puede modificar la asignación de este lote")
		}
	case AuthorityManagement:
		if !actor.CanTitle() {
			return domain.Rule(domain.ErrForbidden, "solo ADMIN o GERENTE pueden cambiar de %s a %s", t.From, t.To)
		}
	default:
		return domain.Rule(domain.ErrInvalidTransition, "transición sin autoridad definida")
	}
	return nil
}

// CheckReason exige motivo cuando la transición lo requiere.
func (t Transition) CheckReason(reason string) error {
	if t.RequiresReason && strings.TrimSpace(reason) == "" {
		return domain.Rule(domain.ErrMissingReason, "se requiere un motivo para cambiar de %s a %s", t.From, t.To)
	}
	return nil
}
