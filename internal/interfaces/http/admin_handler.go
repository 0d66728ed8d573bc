package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-console/internal/application/backup"
	"github.com/jhoicas/inventario-console/internal/application/dto"
	"github.com/jhoicas/inventario-console/internal/application/usecase"
)

// AdminHandler permisos, configuración, registro de actividad y copias de seguridad.
type AdminHandler struct {
	permissions *usecase.PermissionUseCase
	settings    *usecase.SettingsUseCase
	activity    *usecase.ActivityUseCase
	backup      *backup.Service
}

// NewAdminHandler construye el handler.
func NewAdminHandler(p *usecase.PermissionUseCase, s *usecase.SettingsUseCase, a *usecase.ActivityUseCase, b *backup.Service) *AdminHandler {
	return &AdminHandler{permissions: p, settings: s, activity: a, backup: b}
}

// Matrix godoc
// @Summary      Matriz de permisos por rol
// @Tags         permissions
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PermissionMatrixResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/permissions [get]
func (h *AdminHandler) Matrix(c *fiber.Ctx) error {
	out, err := h.permissions.Matrix(c.UserContext(), GetSession(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Grant godoc
// @Summary      Conceder permiso a un rol
// @Tags         permissions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PermissionChangeRequest  true  "Rol y permiso"
// @Success      200   {object}  dto.PermissionMatrixResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/permissions/grant [post]
func (h *AdminHandler) Grant(c *fiber.Ctx) error {
	var in dto.PermissionChangeRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.permissions.Grant(c.UserContext(), GetSession(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Revoke godoc
// @Summary      Revocar permiso a un rol
// @Tags         permissions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PermissionChangeRequest  true  "Rol y permiso"
// @Success      200   {object}  dto.PermissionMatrixResponse
// @Router       /api/permissions/revoke [post]
func (h *AdminHandler) Revoke(c *fiber.Ctx) error {
	var in dto.PermissionChangeRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.permissions.Revoke(c.UserContext(), GetSession(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// GetSettings godoc
// @Summary      Preferencias de la consola
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SettingsResponse
// @Router       /api/settings [get]
func (h *AdminHandler) GetSettings(c *fiber.Ctx) error {
	out, err := h.settings.Get(c.UserContext(), GetSession(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// UpdateSettings godoc
// @Summary      Actualizar preferencias
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SettingsRequest  true  "Campos vacíos conservan el valor actual"
// @Success      200   {object}  dto.SettingsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/settings [put]
func (h *AdminHandler) UpdateSettings(c *fiber.Ctx) error {
	var in dto.SettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.settings.Update(c.UserContext(), GetSession(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Activity godoc
// @Summary      Registro de actividad (más reciente primero)
// @Tags         activity
// @Security     Bearer
// @Produce      json
// @Param        user_id  query  string  false  "Filtrar por usuario"
// @Param        limit    query  int     false  "Límite"  default(50)
// @Param        offset   query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ActivityListResponse
// @Router       /api/activity [get]
func (h *AdminHandler) Activity(c *fiber.Ctx) error {
	out, err := h.activity.List(c.UserContext(), GetSession(c), dto.ActivityListRequest{
		PageRequest: dto.PageRequest{Limit: c.QueryInt("limit", 50), Offset: c.QueryInt("offset", 0)},
		UserID:      c.Query("user_id"),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// ExportBackup godoc
// @Summary      Descargar copia de seguridad (JSON)
// @Tags         backup
// @Security     Bearer
// @Produce      json
// @Success      200  {file}  binary
// @Router       /api/backup/export [get]
func (h *AdminHandler) ExportBackup(c *fiber.Ctx) error {
	b, err := h.backup.Export(c.UserContext(), GetSession(c))
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "inventario_backup.json"))
	return c.Send(b)
}

// RestoreBackup godoc
// @Summary      Restaurar copia de seguridad
// @Description  Reemplaza todos los datos; si el archivo es inválido no se modifica nada.
// @Tags         backup
// @Security     Bearer
// @Accept       json
// @Success      204
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/backup/restore [post]
func (h *AdminHandler) RestoreBackup(c *fiber.Ctx) error {
	if err := h.backup.Restore(c.UserContext(), GetSession(c), c.Body()); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ResetData godoc
// @Summary      Vaciar el catálogo
// @Description  Elimina productos, categorías y campos; conserva usuarios, permisos y configuración.
// @Tags         backup
// @Security     Bearer
// @Success      204
// @Router       /api/backup/reset [post]
func (h *AdminHandler) ResetData(c *fiber.Ctx) error {
	if err := h.backup.Reset(c.UserContext(), GetSession(c)); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
