package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-console/internal/application/access"
	"github.com/jhoicas/inventario-console/internal/application/dto"
	"github.com/jhoicas/inventario-console/internal/application/workspace"
	"github.com/jhoicas/inventario-console/internal/domain"
	"github.com/jhoicas/inventario-console/internal/domain/catalog"
	"github.com/jhoicas/inventario-console/internal/domain/entity"
)

// ProductUseCase casos de uso del catálogo de productos.
type ProductUseCase struct {
	ac   *access.Controller
	rand func() int
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(ac *access.Controller) *ProductUseCase {
	return &ProductUseCase{ac: ac, rand: func() int { return rand.Intn(9000) }}
}

// WithRand reemplaza la fuente del sufijo numérico de SKU (tests).
func (uc *ProductUseCase) WithRand(fn func() int) *ProductUseCase {
	uc.rand = fn
	return uc
}

// List aplica los filtros combinados y pagina el resultado.
func (uc *ProductUseCase) List(ctx context.Context, s access.Session, in dto.ProductListRequest) (*dto.ProductListResponse, error) {
	q, err := toQuery(in)
	if err != nil {
		return nil, err
	}
	in.DefaultPage()
	var out dto.ProductListResponse
	err = uc.ac.View(ctx, s, entity.PermProductsView, func(ws *workspace.Workspace, _ *entity.User) error {
		list, err := ws.Catalog.Filter(q, ws.Thresholds())
		if err != nil {
			return err
		}
		start, end := in.Bounds(len(list))
		out.Items = make([]dto.ProductResponse, 0, end-start)
		for _, p := range list[start:end] {
			out.Items = append(out.Items, toProductResponse(ws, p))
		}
		out.Page = dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: len(list)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func toQuery(in dto.ProductListRequest) (catalog.Query, error) {
	stock, err := catalog.ParseStockStatus(in.Stock)
	if err != nil {
		return catalog.Query{}, err
	}
	q := catalog.Query{Text: in.Q, CategoryID: in.CategoryID, Stock: stock}
	if q.MinPrice, err = parsePrice(in.MinPrice, "min_price"); err != nil {
		return catalog.Query{}, err
	}
	if q.MaxPrice, err = parsePrice(in.MaxPrice, "max_price"); err != nil {
		return catalog.Query{}, err
	}
	return q, nil
}

func parsePrice(raw, name string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q no es un número", domain.ErrValidation, name, raw)
	}
	return &d, nil
}

// GetByID obtiene un producto.
func (uc *ProductUseCase) GetByID(ctx context.Context, s access.Session, id string) (*dto.ProductResponse, error) {
	var out dto.ProductResponse
	err := uc.ac.View(ctx, s, entity.PermProductsView, func(ws *workspace.Workspace, _ *entity.User) error {
		p, err := ws.Catalog.Get(id)
		if err != nil {
			return err
		}
		out = toProductResponse(ws, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Create crea un producto.
func (uc *ProductUseCase) Create(ctx context.Context, s access.Session, in dto.ProductRequest) (*dto.ProductResponse, error) {
	var out dto.ProductResponse
	err := uc.ac.Execute(ctx, s, entity.PermProductsCreate, func(ws *workspace.Workspace, _ *entity.User) (string, error) {
		p, err := ws.Catalog.Add(toProductInput(in))
		if err != nil {
			return "", err
		}
		out = toProductResponse(ws, p)
		return fmt.Sprintf("creó el producto %q (%s)", p.Name, p.SKU), nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Update reemplaza los datos del producto.
func (uc *ProductUseCase) Update(ctx context.Context, s access.Session, id string, in dto.ProductRequest) (*dto.ProductResponse, error) {
	var out dto.ProductResponse
	err := uc.ac.Execute(ctx, s, entity.PermProductsEdit, func(ws *workspace.Workspace, _ *entity.User) (string, error) {
		p, err := ws.Catalog.Update(id, toProductInput(in))
		if err != nil {
			return "", err
		}
		out = toProductResponse(ws, p)
		return fmt.Sprintf("actualizó el producto %q", p.Name), nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete elimina un producto.
func (uc *ProductUseCase) Delete(ctx context.Context, s access.Session, id string) error {
	return uc.ac.Execute(ctx, s, entity.PermProductsDelete, func(ws *workspace.Workspace, _ *entity.User) (string, error) {
		p, err := ws.Catalog.Delete(id)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("eliminó el producto %q", p.Name), nil
	})
}

// BulkDelete elimina varios productos (todo o nada).
func (uc *ProductUseCase) BulkDelete(ctx context.Context, s access.Session, ids []string) (*dto.BulkResponse, error) {
	var n int
	err := uc.ac.Execute(ctx, s, entity.PermProductsDelete, func(ws *workspace.Workspace, _ *entity.User) (string, error) {
		var err error
		if n, err = ws.Catalog.BulkDelete(ids); err != nil {
			return "", err
		}
		return fmt.Sprintf("eliminó %d productos", n), nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.BulkResponse{Affected: n}, nil
}

// BulkReassign mueve varios productos a otra categoría (todo o nada).
func (uc *ProductUseCase) BulkReassign(ctx context.Context, s access.Session, in dto.ReassignRequest) (*dto.BulkResponse, error) {
	var n int
	err := uc.ac.Execute(ctx, s, entity.PermProductsEdit, func(ws *workspace.Workspace, _ *entity.User) (string, error) {
		var err error
		if n, err = ws.Catalog.BulkReassignCategory(in.IDs, in.CategoryID); err != nil {
			return "", err
		}
		if in.CategoryID == "" {
			return fmt.Sprintf("dejó %d productos sin categoría", n), nil
		}
		c, _ := ws.Tree.Get(in.CategoryID)
		return fmt.Sprintf("movió %d productos a la categoría %q", n, c.Name), nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.BulkResponse{Affected: n}, nil
}

// SuggestSKU propone un SKU libre a partir del nombre del producto y su categoría.
func (uc *ProductUseCase) SuggestSKU(ctx context.Context, s access.Session, name, categoryID string) (*dto.SKUSuggestionResponse, error) {
	var out dto.SKUSuggestionResponse
	err := uc.ac.View(ctx, s, entity.PermProductsView, func(ws *workspace.Workspace, _ *entity.User) error {
		c, err := ws.Tree.Get(categoryID)
		if err != nil {
			return err
		}
		taken := make(map[string]bool, ws.Catalog.Len())
		for _, p := range ws.Catalog.List() {
			taken[strings.ToUpper(p.SKU)] = true
		}
		for i := 0; i < 20; i++ {
			sku := catalog.GenerateSKU(name, c.Name, uc.rand())
			if sku == "" {
				return fmt.Errorf("%w: se requiere el nombre del producto", domain.ErrValidation)
			}
			if !taken[strings.ToUpper(sku)] {
				out.SKU = sku
				return nil
			}
		}
		return fmt.Errorf("%w: no se encontró un SKU libre", domain.ErrConflict)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func toProductInput(in dto.ProductRequest) catalog.ProductInput {
	return catalog.ProductInput{
		Name:          in.Name,
		SKU:           in.SKU,
		CategoryID:    in.CategoryID,
		Price:         in.Price,
		Quantity:      in.Quantity,
		Unit:          in.Unit,
		Description:   in.Description,
		Image:         in.Image,
		DynamicFields: in.DynamicFields,
	}
}
