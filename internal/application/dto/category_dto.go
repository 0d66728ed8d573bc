package dto

import "time"

// CategoryRequest alta o edición de categoría. ParentID vacío = raíz.
type CategoryRequest struct {
	Name        string `json:"name"`
	ParentID    string `json:"parent_id"`
	Description string `json:"description"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ParentID    string    `json:"parent_id,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryNodeResponse nodo del árbol con sus hijos y el número de productos propios.
type CategoryNodeResponse struct {
	CategoryResponse
	ProductCount int                    `json:"product_count"`
	Children     []CategoryNodeResponse `json:"children"`
}

// DeleteCategoryResponse ids eliminados (la categoría y, en cascada, su subárbol).
type DeleteCategoryResponse struct {
	RemovedIDs    []string `json:"removed_ids"`
	RemovedFields int      `json:"removed_fields"`
}

// FieldRequest alta o edición de un campo personalizado. Key solo aplica en el alta.
type FieldRequest struct {
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Options  []string `json:"options"`
	Required bool     `json:"required"`
	Key      string   `json:"key,omitempty"`
}

// FieldResponse salida de un campo personalizado.
type FieldResponse struct {
	ID         string   `json:"id"`
	CategoryID string   `json:"category_id"`
	Key        string   `json:"key"`
	Label      string   `json:"label"`
	Type       string   `json:"type"`
	Options    []string `json:"options"`
	Required   bool     `json:"required"`
}

// SchemaResponse esquema efectivo de una categoría con su ruta desde la raíz.
type SchemaResponse struct {
	CategoryID string             `json:"category_id"`
	Path       []CategoryResponse `json:"path"`
	Fields     []FieldResponse    `json:"fields"`
}
