package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-console/internal/application/dto"
	"github.com/jhoicas/inventario-console/internal/application/usecase"
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimePDF  = "application/pdf"
)

// ProductHandler maneja las peticiones HTTP de productos e informes (protegido).
type ProductHandler struct {
	uc      *usecase.ProductUseCase
	reports *usecase.ReportUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, reports *usecase.ReportUseCase) *ProductHandler {
	return &ProductHandler{uc: uc, reports: reports}
}

func listRequest(c *fiber.Ctx) dto.ProductListRequest {
	return dto.ProductListRequest{
		PageRequest: dto.PageRequest{Limit: c.QueryInt("limit", 50), Offset: c.QueryInt("offset", 0)},
		Q:           c.Query("q"),
		CategoryID:  c.Query("category_id"),
		MinPrice:    c.Query("min_price"),
		MaxPrice:    c.Query("max_price"),
		Stock:       c.Query("stock"),
	}
}

// List godoc
// @Summary      Listar productos
// @Description  Filtros combinables: texto (nombre/SKU), categoría con subcategorías, rango de precio y estado de stock.
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        q            query  string  false  "Texto en nombre o SKU"
// @Param        category_id  query  string  false  "Categoría (incluye descendientes)"
// @Param        min_price    query  string  false  "Precio mínimo"
// @Param        max_price    query  string  false  "Precio máximo"
// @Param        stock        query  string  false  "out, low o available"
// @Param        limit        query  int     false  "Límite"  default(50)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ProductListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetSession(c), listRequest(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetSession(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.ProductRequest
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
// @Summary      Actualizar producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.ProductRequest  true  "Datos completos"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.ProductRequest
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
// @Summary      Eliminar producto
// @Tags         products
// @Security     Bearer
// @Param        id   path  string  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetSession(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// BulkDelete godoc
// @Summary      Eliminar varios productos
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IDsRequest  true  "IDs"
// @Success      200   {object}  dto.BulkResponse
// @Router       /api/products/bulk-delete [post]
func (h *ProductHandler) BulkDelete(c *fiber.Ctx) error {
	var in dto.IDsRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.BulkDelete(c.UserContext(), GetSession(c), in.IDs)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// BulkReassign godoc
// @Summary      Reasignar categoría a varios productos
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReassignRequest  true  "IDs y categoría destino"
// @Success      200   {object}  dto.BulkResponse
// @Router       /api/products/bulk-reassign [post]
func (h *ProductHandler) BulkReassign(c *fiber.Ctx) error {
	var in dto.ReassignRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.BulkReassign(c.UserContext(), GetSession(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// SuggestSKU godoc
// @Summary      Sugerir SKU libre
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        name         query  string  true   "Nombre del producto"
// @Param        category_id  query  string  false  "Categoría"
// @Success      200  {object}  dto.SKUSuggestionResponse
// @Router       /api/products/suggest-sku [get]
func (h *ProductHandler) SuggestSKU(c *fiber.Ctx) error {
	out, err := h.uc.SuggestSKU(c.UserContext(), GetSession(c), c.Query("name"), c.Query("category_id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// ExportXLSX godoc
// @Summary      Exportar productos a Excel
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        q            query  string  false  "Texto en nombre o SKU"
// @Param        category_id  query  string  false  "Categoría"
// @Param        stock        query  string  false  "out, low o available"
// @Success      200  {file}  binary
// @Router       /api/products/export [get]
func (h *ProductHandler) ExportXLSX(c *fiber.Ctx) error {
	in := listRequest(c)
	b, name, err := h.reports.ExportXLSX(c.UserContext(), GetSession(c), in)
	if err != nil {
		return fail(c, err)
	}
	return sendFile(c, mimeXLSX, name, b)
}

// LowStockPDF godoc
// @Summary      Informe PDF de productos con poco stock
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/reports/low-stock [get]
func (h *ProductHandler) LowStockPDF(c *fiber.Ctx) error {
	b, name, err := h.reports.LowStockPDF(c.UserContext(), GetSession(c))
	if err != nil {
		return fail(c, err)
	}
	return sendFile(c, mimePDF, name, b)
}

func sendFile(c *fiber.Ctx, mime, name string, b []byte) error {
	c.Set(fiber.HeaderContentType, mime)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Send(b)
}
