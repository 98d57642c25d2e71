package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/crm-inmobiliario/internal/application/dto"
	"github.com/jhoicas/crm-inmobiliario/internal/application/lotes"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/entity"
)

// LoteHandler transiciones de estado y proyecciones de lotes.
type LoteHandler struct {
	engine *lotes.Engine
	query  *lotes.QueryUseCase
	strict bool
}

// NewLoteHandler construye el handler. strict decide cómo se normaliza new_status.
func NewLoteHandler(engine *lotes.Engine, query *lotes.QueryUseCase, strict bool) *LoteHandler {
	return &LoteHandler{engine: engine, query: query, strict: strict}
}

// Estados GET /api/lotes/estados
func (h *LoteHandler) Estados(c *fiber.Ctx) error {
	return c.JSON(lotes.StatusOptions())
}

// ListByPaquete GET /api/paquetes/:id/lotes?estado=. El filtro se normaliza en modo permisivo.
func (h *LoteHandler) ListByPaquete(c *fiber.Ctx) error {
	var status *entity.LotStatus
	if raw := strings.TrimSpace(c.Query("estado")); raw != "" {
		st := entity.NormalizeLotStatus(raw)
		status = &st
	}
	list, err := h.query.ListByPaquete(c.UserContext(), c.Params("id"), status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Details GET /api/lotes/:id
func (h *LoteHandler) Details(c *fiber.Ctx) error {
	out, err := h.query.LotDetails(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Transitions GET /api/lotes/:id/transitions estados a los que el actor puede mover el lote.
func (h *LoteHandler) Transitions(c *fiber.Ctx) error {
	to, err := h.query.AllowedTransitions(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"lote_id": c.Params("id"), "allowed": to})
}

// Assign POST /api/lotes/:id/assign
func (h *LoteHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignLoteRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	r, err := h.engine.Assign(c.UserContext(), GetActor(c), lotes.AssignInput{
		LoteID:   c.Params("id"),
		ClientID: strings.TrimSpace(in.ClientID),
		Notas:    in.Notas,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(lotes.ToTransitionResponse(r, "Lote apartado correctamente"))
}

// Release POST /api/lotes/:id/release
func (h *LoteHandler) Release(c *fiber.Ctx) error {
	var in dto.ReleaseLoteRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	r, err := h.engine.Release(c.UserContext(), GetActor(c), lotes.ReleaseInput{
		LoteID: c.Params("id"),
		Motivo: in.Motivo,
		Notas:  in.Notas,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(lotes.ToTransitionResponse(r, "Lote liberado correctamente"))
}

// ChangeStatus POST /api/lotes/:id/status
func (h *LoteHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.ChangeStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	status, err := h.parseStatus(in.NewStatus)
	if err != nil {
		return writeError(c, err)
	}
	r, err := h.engine.ChangeStatus(c.UserContext(), GetActor(c), lotes.ChangeStatusInput{
		LoteID:    c.Params("id"),
		NewStatus: status,
		Reason:    in.Reason,
		ClientID:  strings.TrimSpace(in.ClientID),
		Notas:     in.Notas,
	})
	if err != nil {
		return writeError(c, err)
	}
	msg := fmt.Sprintf("Estado actualizado de %s a %s", r.From.Label(), r.To.Label())
	return c.JSON(lotes.ToTransitionResponse(r, msg))
}

func (h *LoteHandler) parseStatus(raw string) (entity.LotStatus, error) {
	if h.strict {
		return entity.ParseLotStatus(raw)
	}
	return entity.NormalizeLotStatus(raw), nil
}

// History GET /api/lotes/:id/history
func (h *LoteHandler) History(c *fiber.Ctx) error {
	rows, err := h.query.History(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(rows)
}

// StatusLog GET /api/lotes/:id/status-log
func (h *LoteHandler) StatusLog(c *fiber.Ctx) error {
	rows, err := h.query.StatusLog(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(rows)
}
