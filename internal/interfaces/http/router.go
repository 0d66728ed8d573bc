package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-console/internal/application/auth"
	"github.com/jhoicas/inventario-console/internal/application/backup"
	"github.com/jhoicas/inventario-console/internal/application/usecase"
	"github.com/jhoicas/inventario-console/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	CategoryUC   *usecase.CategoryUseCase
	FieldUC      *usecase.FieldUseCase
	ProductUC    *usecase.ProductUseCase
	ReportUC     *usecase.ReportUseCase
	UserUC       *usecase.UserUseCase
	PermissionUC *usecase.PermissionUseCase
	SettingsUC   *usecase.SettingsUseCase
	ActivityUC   *usecase.ActivityUseCase
	DashboardUC  *usecase.DashboardUseCase
	Backup       *backup.Service
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (login público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token); cada caso de uso comprueba su permiso.
	// El middleware se monta por recurso para que una ruta desconocida responda 404.
	requireAuth := AuthMiddleware(deps.AuthUC)
	api.Post("/auth/logout", requireAuth, authHandler.Logout)
	api.Get("/auth/me", requireAuth, authHandler.Me)

	categoryHandler := NewCategoryHandler(deps.CategoryUC, deps.FieldUC)
	categories := api.Group("/categories", requireAuth)
	categories.Get("/", categoryHandler.List)
	categories.Get("/tree", categoryHandler.Tree)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)
	categories.Get("/:id/ancestors", categoryHandler.Ancestors)
	categories.Get("/:id/schema", categoryHandler.Schema)
	categories.Get("/:id/fields", categoryHandler.ListFields)
	categories.Post("/:id/fields", categoryHandler.CreateField)

	fields := api.Group("/fields", requireAuth)
	fields.Put("/:id", categoryHandler.UpdateField)
	fields.Delete("/:id", categoryHandler.DeleteField)

	productHandler := NewProductHandler(deps.ProductUC, deps.ReportUC)
	products := api.Group("/products", requireAuth)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/suggest-sku", productHandler.SuggestSKU)
	products.Get("/export", productHandler.ExportXLSX)
	products.Post("/bulk-delete", productHandler.BulkDelete)
	products.Post("/bulk-reassign", productHandler.BulkReassign)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	reports := api.Group("/reports", requireAuth)
	reports.Get("/low-stock", productHandler.LowStockPDF)

	userHandler := NewUserHandler(deps.UserUC)
	users := api.Group("/users", requireAuth)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Post("/bulk-delete", userHandler.BulkDelete)
	users.Post("/bulk-status", userHandler.BulkStatus)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	adminHandler := NewAdminHandler(deps.PermissionUC, deps.SettingsUC, deps.ActivityUC, deps.Backup)
	permissions := api.Group("/permissions", requireAuth)
	permissions.Get("/", adminHandler.Matrix)
	permissions.Post("/grant", adminHandler.Grant)
	permissions.Post("/revoke", adminHandler.Revoke)
	api.Get("/settings", requireAuth, adminHandler.GetSettings)
	api.Put("/settings", requireAuth, adminHandler.UpdateSettings)
	api.Get("/activity", requireAuth, adminHandler.Activity)
	backupGroup := api.Group("/backup", requireAuth)
	backupGroup.Get("/export", adminHandler.ExportBackup)
	backupGroup.Post("/restore", adminHandler.RestoreBackup)
	backupGroup.Post("/reset", adminHandler.ResetData)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	api.Get("/dashboard", requireAuth, dashboardHandler.Summary)
}

// RequestLogger registra método, ruta, estado y latencia de cada petición.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error().Err(err)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("petición")
		return err
	}
}
