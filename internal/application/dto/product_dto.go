package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductRequest alta o reemplazo completo de un producto.
// DynamicFields se indexa por la key del campo; los valores son JSON planos.
type ProductRequest struct {
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	CategoryID    string          `json:"category_id"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	Unit          string          `json:"unit"`
	Description   string          `json:"description"`
	Image         string          `json:"image"`
	DynamicFields map[string]any  `json:"dynamic_fields"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	CategoryID    string          `json:"category_id,omitempty"`
	CategoryPath  []string        `json:"category_path,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	StockStatus   string          `json:"stock_status"`
	Unit          string          `json:"unit"`
	Description   string          `json:"description"`
	Image         string          `json:"image,omitempty"`
	DynamicFields map[string]any  `json:"dynamic_fields"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductListRequest filtros combinables del listado.
type ProductListRequest struct {
	PageRequest
	Q          string `query:"q"`
	CategoryID string `query:"category_id"`
	MinPrice   string `query:"min_price"`
	MaxPrice   string `query:"max_price"`
	Stock      string `query:"stock"` // out, low, available
}

// ProductListResponse página de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ReassignRequest reasignación masiva de categoría ("" = sin categoría).
type ReassignRequest struct {
	IDs        []string `json:"ids"`
	CategoryID string   `json:"category_id"`
}

// SKUSuggestionResponse SKU sugerido.
type SKUSuggestionResponse struct {
	SKU string `json:"sku"`
}
