package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-console/internal/application/dto"
	"github.com/jhoicas/inventario-console/internal/application/usecase"
)

// CategoryHandler categorías y sus campos personalizados.
type CategoryHandler struct {
	uc     *usecase.CategoryUseCase
	fields *usecase.FieldUseCase
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(uc *usecase.CategoryUseCase, fields *usecase.FieldUseCase) *CategoryHandler {
	return &CategoryHandler{uc: uc, fields: fields}
}

// Tree godoc
// @Summary      Árbol de categorías
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.CategoryNodeResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/categories/tree [get]
func (h *CategoryHandler) Tree(c *fiber.Ctx) error {
	out, err := h.uc.Tree(c.UserContext(), GetSession(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar categorías (plano)
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.CategoryResponse
// @Router       /api/categories [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetSession(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener categoría
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {object}  dto.CategoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [get]
func (h *CategoryHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetSession(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear categoría
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CategoryRequest  true  "Nombre, padre y descripción"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetSession(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Renombrar o mover categoría
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la categoría"
// @Param        body  body  dto.CategoryRequest  true  "Nuevos datos"
// @Success      200   {object}  dto.CategoryResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [put]
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	var in dto.CategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetSession(c), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar categoría
// @Description  Según la política configurada borra el subárbol (cascade) o solo hojas (guarded).
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {object}  dto.DeleteCategoryResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	out, err := h.uc.Delete(c.UserContext(), GetSession(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Ancestors godoc
// @Summary      Ruta desde la raíz (breadcrumb)
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {array}   dto.CategoryResponse
// @Router       /api/categories/{id}/ancestors [get]
func (h *CategoryHandler) Ancestors(c *fiber.Ctx) error {
	out, err := h.uc.Ancestors(c.UserContext(), GetSession(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Schema godoc
// @Summary      Esquema efectivo (campos heredados)
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {object}  dto.SchemaResponse
// @Router       /api/categories/{id}/schema [get]
func (h *CategoryHandler) Schema(c *fiber.Ctx) error {
	out, err := h.uc.Schema(c.UserContext(), GetSession(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// ListFields godoc
// @Summary      Campos propios de la categoría
// @Tags         fields
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {array}   dto.FieldResponse
// @Router       /api/categories/{id}/fields [get]
func (h *CategoryHandler) ListFields(c *fiber.Ctx) error {
	out, err := h.fields.ListByCategory(c.UserContext(), GetSession(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// CreateField godoc
// @Summary      Añadir campo personalizado
// @Tags         fields
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la categoría"
// @Param        body  body  dto.FieldRequest  true  "Definición del campo"
// @Success      201   {object}  dto.FieldResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories/{id}/fields [post]
func (h *CategoryHandler) CreateField(c *fiber.Ctx) error {
	var in dto.FieldRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.fields.Create(c.UserContext(), GetSession(c), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateField godoc
// @Summary      Editar campo personalizado
// @Tags         fields
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del campo"
// @Param        body  body  dto.FieldRequest  true  "Etiqueta, tipo, opciones"
// @Success      200   {object}  dto.FieldResponse
// @Router       /api/fields/{id} [put]
func (h *CategoryHandler) UpdateField(c *fiber.Ctx) error {
	var in dto.FieldRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.fields.Update(c.UserContext(), GetSession(c), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// DeleteField godoc
// @Summary      Eliminar campo personalizado
// @Tags         fields
// @Security     Bearer
// @Param        id   path  string  true  "ID del campo"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/fields/{id} [delete]
func (h *CategoryHandler) DeleteField(c *fiber.Ctx) error {
	if err := h.fields.Delete(c.UserContext(), GetSession(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
