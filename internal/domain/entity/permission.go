package entity

// Permission etiqueta opaca recurso:acción.
type Permission string

// Permisos conocidos.
const (
	PermDashboardView    Permission = "dashboard:view"
	PermProductsView     Permission = "products:view"
	PermProductsCreate   Permission = "products:create"
	PermProductsEdit     Permission = "products:edit"
	PermProductsDelete   Permission = "products:delete"
	PermCategoriesView   Permission = "categories:view"
	PermCategoriesCreate Permission = "categories:create"
	PermCategoriesEdit   Permission = "categories:edit"
	PermCategoriesDelete Permission = "categories:delete"
	PermUsersView        Permission = "users:view"
	PermUsersCreate      Permission = "users:create"
	PermUsersEdit        Permission = "users:edit"
	PermUsersDelete      Permission = "users:delete"
	PermSettingsView     Permission = "settings:view"
	PermSettingsEdit     Permission = "settings:edit"
	PermActivityView     Permission = "activity:view"
)

// PermissionDescriptions descripción legible de cada permiso.
var PermissionDescriptions = map[Permission]string{
	PermDashboardView:    "Ver el panel de control",
	PermProductsView:     "Ver productos",
	PermProductsCreate:   "Crear productos",
	PermProductsEdit:     "Editar productos",
	PermProductsDelete:   "Eliminar productos",
	PermCategoriesView:   "Ver categorías",
	PermCategoriesCreate: "Crear categorías",
	PermCategoriesEdit:   "Editar categorías",
	PermCategoriesDelete: "Eliminar categorías",
	PermUsersView:        "Ver usuarios",
	PermUsersCreate:      "Crear usuarios",
	PermUsersEdit:        "Editar usuarios",
	PermUsersDelete:      "Eliminar usuarios",
	PermSettingsView:     "Ver configuración",
	PermSettingsEdit:     "Editar configuración",
	PermActivityView:     "Ver registro de actividad",
}

// Known indica si el permiso está en el catálogo.
func (p Permission) Known() bool {
	_, ok := PermissionDescriptions[p]
	return ok
}
