package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/crm-inmobiliario/internal/application/dto"
	"github.com/jhoicas/crm-inmobiliario/internal/domain"
)

var statusByCode = map[string]int{
	"UNAUTHORIZED":         fiber.StatusUnauthorized,
	"FORBIDDEN":            fiber.StatusForbidden,
	"INVALID_TRANSITION":   fiber.StatusConflict,
	"LOT_NOT_AVAILABLE":    fiber.StatusConflict,
	"LOT_ALREADY_ASSIGNED": fiber.StatusConflict,
	"NO_ACTIVE_ASSIGNMENT": fiber.StatusConflict,
	"INVALID_STATUS":       fiber.StatusBadRequest,
	"MISSING_REASON":       fiber.StatusBadRequest,
	"NOT_FOUND":            fiber.StatusNotFound,
	"VALIDATION":           fiber.StatusBadRequest,
	"DUPLICATE":            fiber.StatusConflict,
	"CONFLICT":             fiber.StatusConflict,
	"STORAGE_ERROR":        fiber.StatusInternalServerError,
	"INTERNAL":             fiber.StatusInternalServerError,
}

// writeError traduce un error de dominio a dto.ErrorResponse con su código estable.
// Los fallos de infraestructura no exponen detalles.
func writeError(c *fiber.Ctx, err error) error {
	code := domain.ErrorCode(err)
	status, ok := statusByCode[code]
	if !ok {
		status = fiber.StatusInternalServerError
	}
	if status == fiber.StatusInternalServerError {
		return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: "error interno, intente más tarde"})
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error(), Rule: domain.RuleOf(err)})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// ErrorHandler para fiber.Config: errores de fiber conservan su status; el resto pasa por writeError.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
	}
	return writeError(c, err)
}
