// Package lotes motor de estados y asignaciones de lotes.
package lotes

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/crm-inmobiliario/internal/domain"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/access"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/entity"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/lote"
	"github.com/jhoicas/crm-inmobiliario/pkg/logger"
)

// motivoLiberacion motivo por defecto al cerrar una asignación vía ChangeStatus sin motivo.
const motivoLiberacion = "Lote liberado"

// Engine aplica la tabla de transiciones con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
// Cada transición aceptada escribe exactamente una fila en la bitácora de estados.
type Engine struct {
	txRunner  TxRunner
	publisher EventPublisher
	recorder  Recorder
	log       *logger.Logger
	now       func() time.Time
}

// NewEngine construye el motor. publisher, recorder y log pueden ser nil.
func NewEngine(txRunner TxRunner, publisher EventPublisher, recorder Recorder, log *logger.Logger) *Engine {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{
		txRunner:  txRunner,
		publisher: publisher,
		recorder:  recorder,
		log:       log,
		now:       time.Now,
	}
}

// AssignInput entrada de Assign.
type AssignInput struct {
	LoteID   string
	ClientID string
	Notas    string
}

// ReleaseInput entrada de Release. Motivo es obligatorio.
type ReleaseInput struct {
	LoteID string
	Motivo string
	Notas  string
}

// ChangeStatusInput entrada de ChangeStatus. NewStatus ya viene normalizado.
// ClientID se usa cuando la transición abre una asignación.
type ChangeStatusInput struct {
	LoteID    string
	NewStatus entity.LotStatus
	Reason    string
	ClientID  string
	Notas     string
}

// Result efectos de una transición aceptada.
type Result struct {
	LoteID     string
	From       entity.LotStatus
	To         entity.LotStatus
	Asignacion *entity.LoteAsignacion          // creada o conservada; nil si se cerró
	Historial  *entity.LoteAsignacionHistorial // solo cuando se cerró una asignación
	Log        *entity.LoteStatusChangeLog
}

// Assign aparta un lote LIBRE para un cliente.
func (e *Engine) Assign(ctx context.Context, actor access.Actor, in AssignInput) (*Result, error) {
	if in.LoteID == "" || in.ClientID == "" {
		return nil, e.rejectInput(domain.Rule(domain.ErrInvalidInput, "lote_id y client_id son obligatorios"))
	}
	return e.run(ctx, "assign", actor, in.LoteID, func(tx TxRepos, l *entity.Lote, r *Result) error {
		if l.Status != entity.LotStatusLibre {
			return domain.Rule(domain.ErrLotNotAvailable, "el lote está %s", l.Status)
		}
		t, err := lote.Lookup(l.Status, entity.LotStatusApartado)
		if err != nil {
			return err
		}
		a, err := e.openAssignment(ctx, tx, actor, t, l, in.ClientID, in.Notas)
		if err != nil {
			return err
		}
		r.Asignacion = a
		return e.apply(ctx, tx, actor, l, r, entity.LotStatusApartado, "")
	})
}

// Release cierra la asignación activa, la archiva en el historial y deja el lote LIBRE.
func (e *Engine) Release(ctx context.Context, actor access.Actor, in ReleaseInput) (*Result, error) {
	if in.LoteID == "" {
		return nil, e.rejectInput(domain.Rule(domain.ErrInvalidInput, "lote_id es obligatorio"))
	}
	if strings.TrimSpace(in.Motivo) == "" {
		return nil, e.rejectInput(domain.Rule(domain.ErrMissingReason, "se requiere especificar el motivo de la liberación"))
	}
	return e.run(ctx, "release", actor, in.LoteID, func(tx TxRepos, l *entity.Lote, r *Result) error {
		a, err := tx.Asignaciones.GetActiveByLote(ctx, l.ID)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.Rule(domain.ErrNoActiveAssignment, "el lote %s-%s no tiene asignación activa", l.Manzana, l.Lote)
		}
		t, err := lote.Lookup(l.Status, entity.LotStatusLibre)
		if err != nil {
			return err
		}
		client, err := tx.Clients.GetByID(ctx, a.ClientID)
		if err != nil {
			return err
		}
		if err := t.Authorize(actor, client); err != nil {
			return err
		}
		h, err := e.archive(ctx, tx, actor, l, a, in.Motivo, in.Notas)
		if err != nil {
			return err
		}
		r.Historial = h
		return e.apply(ctx, tx, actor, l, r, entity.LotStatusLibre, in.Motivo)
	})
}

// ChangeStatus ejecuta cualquier transición de la tabla.
func (e *Engine) ChangeStatus(ctx context.Context, actor access.Actor, in ChangeStatusInput) (*Result, error) {
	if in.LoteID == "" {
		return nil, e.rejectInput(domain.Rule(domain.ErrInvalidInput, "lote_id es obligatorio"))
	}
	if !in.NewStatus.Valid() {
		return nil, e.rejectInput(domain.Rule(domain.ErrInvalidStatus, "estado destino desconocido"))
	}
	return e.run(ctx, "change_status", actor, in.LoteID, func(tx TxRepos, l *entity.Lote, r *Result) error {
		t, err := lote.Lookup(l.Status, in.NewStatus)
		if err != nil {
			return err
		}
		active, err := tx.Asignaciones.GetActiveByLote(ctx, l.ID)
		if err != nil {
			return err
		}

		switch t.Effect {
		case lote.EffectOpen:
			if in.ClientID == "" {
				return domain.Rule(domain.ErrInvalidInput, "se requiere client_id para apartar el lote")
			}
			a, err := e.openAssignment(ctx, tx, actor, t, l, in.ClientID, in.Notas)
			if err != nil {
				return err
			}
			r.Asignacion = a

		case lote.EffectClose:
			var client *entity.Client
			if active != nil {
				if client, err = tx.Clients.GetByID(ctx, active.ClientID); err != nil {
					return err
				}
			}
			if err := t.Authorize(actor, client); err != nil {
				return err
			}
			if active != nil {
				motivo := in.Reason
				if strings.TrimSpace(motivo) == "" {
					motivo = motivoLiberacion
				}
				h, err := e.archive(ctx, tx, actor, l, active, motivo, in.Notas)
				if err != nil {
					return err
				}
				r.Historial = h
			}

		case lote.EffectNone:
			if err := t.Authorize(actor, nil); err != nil {
				return err
			}
			if active == nil {
				return domain.Rule(domain.ErrNoActiveAssignment, "no se puede titular un lote sin asignación activa")
			}
			r.Asignacion = active

		case lote.EffectKeepOrOpen:
			if err := t.Authorize(actor, nil); err != nil {
				return err
			}
			if err := t.CheckReason(in.Reason); err != nil {
				return err
			}
			if active != nil {
				r.Asignacion = active
				break
			}
			if in.ClientID == "" {
				return domain.Rule(domain.ErrInvalidInput, "el lote no tiene asignación; se requiere client_id para apartarlo")
			}
			a, err := e.openAssignment(ctx, tx, actor, t, l, in.ClientID, in.Notas)
			if err != nil {
				return err
			}
			r.Asignacion = a
		}
		return e.apply(ctx, tx, actor, l, r, in.NewStatus, in.Reason)
	})
}

// run abre la transacción, bloquea el lote y delega en fn. Cualquier error revierte todo.
func (e *Engine) run(ctx context.Context, op string, actor access.Actor, loteID string, fn func(tx TxRepos, l *entity.Lote, r *Result) error) (*Result, error) {
	var res *Result
	err := e.txRunner.RunLotes(ctx, func(tx TxRepos) error {
		l, err := tx.Lotes.GetForUpdate(ctx, loteID)
		if err != nil {
			return err
		}
		if l == nil {
			return domain.Rule(domain.ErrNotFound, "el lote %s no existe", loteID)
		}
		r := &Result{LoteID: l.ID, From: l.Status}
		if err := fn(tx, l, r); err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		err = domain.StorageError(err)
		e.reject(op, actor, loteID, err)
		return nil, err
	}
	e.committed(ctx, op, actor, res)
	return res, nil
}

// openAssignment crea la asignación activa tras validar que no exista otra y que el actor pueda asignar al cliente.
func (e *Engine) openAssignment(ctx context.Context, tx TxRepos, actor access.Actor, t lote.Transition, l *entity.Lote, clientID, notas string) (*entity.LoteAsignacion, error) {
	existing, err := tx.Asignaciones.GetActiveByLote(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Rule(domain.ErrLotAlreadyAssigned, "el lote ya tiene una asignación activa")
	}
	client, err := tx.Clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.Rule(domain.ErrNotFound, "el cliente %s no existe", clientID)
	}
	if t.Authority == lote.AuthorityAssignLot {
		if err := t.Authorize(actor, client); err != nil {
			return nil, err
		}
	} else if !actor.CanAssignLot(client) {
		return nil, domain.Rule(domain.ErrForbidden, "el usuario no puede asignar lotes a este cliente")
	}
	a := &entity.LoteAsignacion{
		ID:          uuid.New().String(),
		LoteID:      l.ID,
		ClientID:    client.ID,
		UserID:      actor.UserID,
		FechaInicio: e.now(),
		Notas:       notas,
	}
	if err := tx.Asignaciones.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// archive archiva la asignación en el historial y elimina la fila activa.
func (e *Engine) archive(ctx context.Context, tx TxRepos, actor access.Actor, l *entity.Lote, a *entity.LoteAsignacion, motivo, notas string) (*entity.LoteAsignacionHistorial, error) {
	if notas == "" {
		notas = a.Notas
	}
	h := &entity.LoteAsignacionHistorial{
		ID:           uuid.New().String(),
		LoteID:       l.ID,
		ClientID:     a.ClientID,
		UserID:       actor.UserID,
		FechaInicio:  a.FechaInicio,
		FechaFin:     e.now(),
		Estado:       l.Status,
		MotivoCambio: motivo,
		Notas:        notas,
	}
	if err := tx.Historial.Create(ctx, h); err != nil {
		return nil, err
	}
	if err := tx.Asignaciones.Delete(ctx, a.ID); err != nil {
		return nil, err
	}
	return h, nil
}

// apply persiste el nuevo estado y escribe la fila de bitácora.
func (e *Engine) apply(ctx context.Context, tx TxRepos, actor access.Actor, l *entity.Lote, r *Result, to entity.LotStatus, reason string) error {
	now := e.now()
	if err := tx.Lotes.UpdateStatus(ctx, l.ID, to, now); err != nil {
		return err
	}
	entry := &entity.LoteStatusChangeLog{
		ID:        uuid.New().String(),
		LoteID:    l.ID,
		UserID:    actor.UserID,
		OldStatus: l.Status,
		NewStatus: to,
		Reason:    reason,
		CreatedAt: now,
	}
	if err := tx.Bitacora.Create(ctx, entry); err != nil {
		return err
	}
	r.To = to
	r.Log = entry
	return nil
}

func (e *Engine) committed(ctx context.Context, op string, actor access.Actor, r *Result) {
	e.recorder.RecordTransition(r.From, r.To)
	e.log.Info().
		Str("op", op).
		Str("lote_id", r.LoteID).
		Str("actor_id", actor.UserID).
		Stringer("from", r.From).
		Stringer("to", r.To).
		Msg("transición de lote aplicada")

	ev := StatusChangedEvent{
		LoteID:     r.LoteID,
		OldStatus:  r.From,
		NewStatus:  r.To,
		ActorID:    actor.UserID,
		OccurredAt: r.Log.CreatedAt,
	}
	if err := e.publisher.PublishStatusChanged(ctx, ev); err != nil {
		e.log.Error().Err(err).Str("lote_id", r.LoteID).Msg("no se pudo publicar el cambio de estado")
	}
}

func (e *Engine) reject(op string, actor access.Actor, loteID string, err error) {
	code := domain.ErrorCode(err)
	e.recorder.RecordRejection(code)
	ev := e.log.Warn()
	if code == "STORAGE_ERROR" || code == "INTERNAL" {
		ev = e.log.Error()
	}
	ev.Err(err).
		Str("op", op).
		Str("lote_id", loteID).
		Str("actor_id", actor.UserID).
		Str("code", code).
		Str("rule", domain.RuleOf(err)).
		Msg("transición de lote rechazada")
}

func (e *Engine) rejectInput(err error) error {
	e.recorder.RecordRejection(domain.ErrorCode(err))
	return err
}
