package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// CategoryID vacío indica "sin categoría"; DynamicFields se indexa por la key del campo.
type Product struct {
	ID            string
	Name          string
	SKU           string
	CategoryID    string
	Price         decimal.Decimal
	Quantity      int
	Unit          string
	Description   string
	Image         string // referencia/blob codificado (data URL), opaco para el núcleo
	DynamicFields map[string]FieldValue
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Clone copia profunda (el mapa de campos dinámicos no se comparte).
func (p *Product) Clone() *Product {
	cp := *p
	cp.DynamicFields = make(map[string]FieldValue, len(p.DynamicFields))
	for k, v := range p.DynamicFields {
		cp.DynamicFields[k] = v
	}
	return &cp
}

type productJSON struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	SKU           string                `json:"sku"`
	CategoryID    *string               `json:"categoryId"`
	Unit          string                `json:"unit"`
	Price         decimal.Decimal       `json:"price"`
	Quantity      int                   `json:"quantity"`
	Description   string                `json:"description"`
	Image         string                `json:"image,omitempty"`
	DynamicFields map[string]FieldValue `json:"dynamicFields"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

// MarshalJSON conserva la forma del documento "products" (categoryId null si no hay categoría).
func (p Product) MarshalJSON() ([]byte, error) {
	out := productJSON{
		ID:            p.ID,
		Name:          p.Name,
		SKU:           p.SKU,
		Unit:          p.Unit,
		Price:         p.Price,
		Quantity:      p.Quantity,
		Description:   p.Description,
		Image:         p.Image,
		DynamicFields: p.DynamicFields,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if out.DynamicFields == nil {
		out.DynamicFields = map[string]FieldValue{}
	}
	if p.CategoryID != "" {
		cat := p.CategoryID
		out.CategoryID = &cat
	}
	return json.Marshal(out)
}

// UnmarshalJSON acepta categoryId null o ausente.
func (p *Product) UnmarshalJSON(data []byte) error {
	var in productJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*p = Product{
		ID:            in.ID,
		Name:          in.Name,
		SKU:           in.SKU,
		Unit:          in.Unit,
		Price:         in.Price,
		Quantity:      in.Quantity,
		Description:   in.Description,
		Image:         in.Image,
		DynamicFields: in.DynamicFields,
		CreatedAt:     in.CreatedAt,
		UpdatedAt:     in.UpdatedAt,
	}
	if in.CategoryID != nil {
		p.CategoryID = *in.CategoryID
	}
	if p.DynamicFields == nil {
		p.DynamicFields = map[string]FieldValue{}
	}
	return nil
}
