package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-console/internal/application/dto"
	"github.com/jhoicas/inventario-console/internal/domain"
)

// statusByKind código HTTP de cada tipo de error de dominio.
var statusByKind = map[string]int{
	"VALIDATION":    fiber.StatusBadRequest,
	"UNAUTHORIZED":  fiber.StatusUnauthorized,
	"FORBIDDEN":     fiber.StatusForbidden,
	"NOT_FOUND":     fiber.StatusNotFound,
	"CONFLICT":      fiber.StatusConflict,
	"IMPORT_FAILED": fiber.StatusUnprocessableEntity,
}

// fail traduce err a la respuesta JSON de error. Errores fuera del dominio → 500 sin detalle.
func fail(c *fiber.Ctx, err error) error {
	kind := domain.Kind(err)
	status, ok := statusByKind[kind]
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: kind, Message: err.Error()})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// ErrorHandler manejador global de Fiber: errores de ruteo (*fiber.Error) y de dominio.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
	}
	return fail(c, err)
}
