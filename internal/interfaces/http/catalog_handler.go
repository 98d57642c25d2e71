package http

import (
	"bytes"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/crm-inmobiliario/internal/application/dto"
	"github.com/jhoicas/crm-inmobiliario/internal/application/usecase"
)

// CatalogHandler fraccionamientos, paquetes, prototipos y alta/edición de lotes.
type CatalogHandler struct {
	uc *usecase.CatalogUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *usecase.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// ListFraccionamientos GET /api/fraccionamientos
func (h *CatalogHandler) ListFraccionamientos(c *fiber.Ctx) error {
	out, err := h.uc.ListFraccionamientos(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateFraccionamiento POST /api/fraccionamientos
func (h *CatalogHandler) CreateFraccionamiento(c *fiber.Ctx) error {
	var in dto.CreateFraccionamientoRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateFraccionamiento(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateFraccionamiento PUT /api/fraccionamientos/:id
func (h *CatalogHandler) UpdateFraccionamiento(c *fiber.Ctx) error {
	var in dto.CreateFraccionamientoRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateFraccionamiento(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListPaquetes GET /api/fraccionamientos/:id/paquetes
func (h *CatalogHandler) ListPaquetes(c *fiber.Ctx) error {
	out, err := h.uc.ListPaquetes(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreatePaquete POST /api/fraccionamientos/:id/paquetes
func (h *CatalogHandler) CreatePaquete(c *fiber.Ctx) error {
	var in dto.CreatePaqueteRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreatePaquete(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListPrototipos GET /api/prototipos
func (h *CatalogHandler) ListPrototipos(c *fiber.Ctx) error {
	out, err := h.uc.ListPrototipos(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreatePrototipo POST /api/prototipos
func (h *CatalogHandler) CreatePrototipo(c *fiber.Ctx) error {
	var in dto.CreatePrototipoRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreatePrototipo(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdatePrototipo PUT /api/prototipos/:id
func (h *CatalogHandler) UpdatePrototipo(c *fiber.Ctx) error {
	var in dto.CreatePrototipoRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdatePrototipo(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateLote POST /api/paquetes/:id/lotes
func (h *CatalogHandler) CreateLote(c *fiber.Ctx) error {
	var in dto.CreateLoteRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateLote(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateLote PUT /api/lotes/:id. El estado no se edita por aquí.
func (h *CatalogHandler) UpdateLote(c *fiber.Ctx) error {
	var in dto.UpdateLoteRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateLote(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ImportLotes POST /api/paquetes/:id/lotes/import. Cuerpo text/csv con fila de encabezados.
func (h *CatalogHandler) ImportLotes(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return badBody(c)
	}
	out, err := h.uc.ImportLotes(c.UserContext(), GetActor(c), c.Params("id"), bytes.NewReader(body))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
