package entity

import (
	"encoding/json"
	"time"
)

// Category representa un nodo del bosque de categorías.
// ParentID vacío indica raíz; en JSON se serializa como null.
type Category struct {
	ID          string
	Name        string
	ParentID    string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsRoot indica si la categoría no tiene padre.
func (c *Category) IsRoot() bool { return c.ParentID == "" }

type categoryJSON struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ParentID    *string   `json:"parentId"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MarshalJSON conserva la forma del documento "categories" (parentId null para raíces).
func (c Category) MarshalJSON() ([]byte, error) {
	out := categoryJSON{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if c.ParentID != "" {
		parent := c.ParentID
		out.ParentID = &parent
	}
	return json.Marshal(out)
}

// UnmarshalJSON acepta parentId null, ausente o string.
func (c *Category) UnmarshalJSON(data []byte) error {
	var in categoryJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*c = Category{
		ID:          in.ID,
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   in.CreatedAt,
		UpdatedAt:   in.UpdatedAt,
	}
	if in.ParentID != nil {
		c.ParentID = *in.ParentID
	}
	return nil
}
