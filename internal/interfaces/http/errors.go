package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
)

// respondError traduce los errores de dominio a códigos HTTP.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUANTITY", Message: err.Error()})
	case errors.Is(err, domain.ErrAlreadyLocked):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_LOCKED", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicateCode):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_CODE", Message: err.Error()})
	case errors.Is(err, domain.ErrIrreconcilableState):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "IRRECONCILABLE_STATE", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
