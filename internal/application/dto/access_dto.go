package dto

import "time"

// PermissionInfo permiso con su descripción.
type PermissionInfo struct {
	Key         string `json:"key"`
	Description string `json:"description"`
}

// PermissionMatrixResponse roles en orden de jerarquía, catálogo de permisos y concesiones.
type PermissionMatrixResponse struct {
	Roles       []string            `json:"roles"`
	Permissions []PermissionInfo    `json:"permissions"`
	Grants      map[string][]string `json:"grants"`
}

// PermissionChangeRequest concesión o revocación de un permiso a un rol.
type PermissionChangeRequest struct {
	Role       string `json:"role"`
	Permission string `json:"permission"`
}

// SettingsRequest preferencias de la consola.
type SettingsRequest struct {
	Theme       string `json:"theme"`
	AccentColor string `json:"accent_color"`
	Currency    string `json:"currency"`
	Calendar    string `json:"calendar"`
}

// SettingsResponse preferencias actuales.
type SettingsResponse = SettingsRequest

// ActivityListRequest filtro opcional por usuario.
type ActivityListRequest struct {
	PageRequest
	UserID string `query:"user_id"`
}

// ActivityEntryResponse entrada del registro de actividad.
type ActivityEntryResponse struct {
	ID          string    `json:"id"`
	ActorID     string    `json:"actor_id"`
	ActorName   string    `json:"actor_name"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// ActivityListResponse página del registro, más reciente primero.
type ActivityListResponse struct {
	Items []ActivityEntryResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
