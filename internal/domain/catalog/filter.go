package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/jhoicas/inventario-console/internal/domain"
	"github.com/jhoicas/inventario-console/internal/domain/entity"
)

// StockStatus clasificación de existencias.
type StockStatus string

// Buckets de stock.
const (
	StockOut       StockStatus = "out"
	StockLow       StockStatus = "low"
	StockAvailable StockStatus = "available"
)

// DefaultLowStockMax cantidad máxima considerada "poco stock".
const DefaultLowStockMax = 5

// Thresholds umbrales configurables de los buckets: out = 0, low = 1..LowMax, available > LowMax.
type Thresholds struct {
	LowMax int
}

// DefaultThresholds umbrales por defecto.
func DefaultThresholds() Thresholds { return Thresholds{LowMax: DefaultLowStockMax} }

// Classify asigna el bucket de stock a una cantidad.
func (t Thresholds) Classify(quantity int) StockStatus {
	switch {
	case quantity <= 0:
		return StockOut
	case quantity <= t.LowMax:
		return StockLow
	default:
		return StockAvailable
	}
}

// ParseStockStatus valida el bucket recibido ("" = sin filtro).
func ParseStockStatus(s string) (StockStatus, error) {
	switch StockStatus(s) {
	case "", StockOut, StockLow, StockAvailable:
		return StockStatus(s), nil
	}
	return "", fmt.Errorf("%w: estado de stock %q", domain.ErrValidation, s)
}

// Query filtros combinables (todos opcionales).
type Query struct {
	Text       string
	CategoryID string // incluye descendientes
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Stock      StockStatus
}

// Filter aplica la consulta y devuelve los productos en orden de creación.
func (c *Catalog) Filter(q Query, thr Thresholds) ([]entity.Product, error) {
	var inCategory map[string]bool
	if q.CategoryID != "" {
		ids, err := c.tree.Subtree(q.CategoryID)
		if err != nil {
			return nil, err
		}
		inCategory = make(map[string]bool, len(ids))
		for _, id := range ids {
			inCategory[id] = true
		}
	}
	fold := cases.Fold()
	text := fold.String(strings.TrimSpace(q.Text))
	out := make([]entity.Product, 0)
	for _, id := range c.order {
		p := c.byID[id]
		if text != "" && !strings.Contains(fold.String(p.Name), text) && !strings.Contains(fold.String(p.SKU), text) {
			continue
		}
		if inCategory != nil && !inCategory[p.CategoryID] {
			continue
		}
		if q.MinPrice != nil && p.Price.LessThan(*q.MinPrice) {
			continue
		}
		if q.MaxPrice != nil && p.Price.GreaterThan(*q.MaxPrice) {
			continue
		}
		if q.Stock != "" && thr.Classify(p.Quantity) != q.Stock {
			continue
		}
		out = append(out, *p.Clone())
	}
	return out, nil
}

// Stats indicadores del panel de control.
type Stats struct {
	TotalProducts int
	StockValue    decimal.Decimal
	LowStockCount int // cantidad <= LowMax (incluye agotados)
	OutOfStock    int
}

// Stats calcula totales sobre todo el catálogo.
func (c *Catalog) Stats(thr Thresholds) Stats {
	s := Stats{TotalProducts: len(c.byID), StockValue: decimal.Zero}
	for _, p := range c.byID {
		s.StockValue = s.StockValue.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Quantity))))
		switch thr.Classify(p.Quantity) {
		case StockOut:
			s.OutOfStock++
			s.LowStockCount++
		case StockLow:
			s.LowStockCount++
		}
	}
	return s
}
