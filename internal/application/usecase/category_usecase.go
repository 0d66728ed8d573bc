package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-console/internal/application/access"
	"github.com/jhoicas/inventario-console/internal/application/dto"
	"github.com/jhoicas/inventario-console/internal/application/workspace"
	"github.com/jhoicas/inventario-console/internal/domain/entity"
)

// CategoryUseCase casos de uso del árbol de categorías.
type CategoryUseCase struct {
	ac *access.Controller
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(ac *access.Controller) *CategoryUseCase {
	return &CategoryUseCase{ac: ac}
}

// Tree devuelve el bosque completo con el número de productos de cada nodo.
func (uc *CategoryUseCase) Tree(ctx context.Context, s access.Session) ([]dto.CategoryNodeResponse, error) {
	var out []dto.CategoryNodeResponse
	err := uc.ac.View(ctx, s, entity.PermCategoriesView, func(ws *workspace.Workspace, _ *entity.User) error {
		counts := make(map[string]int)
		for _, p := range ws.Catalog.List() {
			counts[p.CategoryID]++
		}
		var build func(list []entity.Category) []dto.CategoryNodeResponse
		build = func(list []entity.Category) []dto.CategoryNodeResponse {
			nodes := make([]dto.CategoryNodeResponse, 0, len(list))
			for _, c := range list {
				nodes = append(nodes, dto.CategoryNodeResponse{
					CategoryResponse: toCategoryResponse(c),
					ProductCount:     counts[c.ID],
					Children:         build(ws.Tree.Children(c.ID)),
				})
			}
			return nodes
		}
		out = build(ws.Tree.Roots())
		return nil
	})
	return out, err
}

// List categorías en orden de creación.
func (uc *CategoryUseCase) List(ctx context.Context, s access.Session) ([]dto.CategoryResponse, error) {
	var out []dto.CategoryResponse
	err := uc.ac.View(ctx, s, entity.PermCategoriesView, func(ws *workspace.Workspace, _ *entity.User) error {
		out = toCategoryResponses(ws.Tree.List())
		return nil
	})
	return out, err
}

// GetByID obtiene una categoría.
func (uc *CategoryUseCase) GetByID(ctx context.Context, s access.Session, id string) (*dto.CategoryResponse, error) {
	var out dto.CategoryResponse
	err := uc.ac.View(ctx, s, entity.PermCategoriesView, func(ws *workspace.Workspace, _ *entity.User) error {
		c, err := ws.Tree.Get(id)
		out = toCategoryResponse(c)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Create crea una categoría.
func (uc *CategoryUseCase) Create(ctx context.Context, s access.Session, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	var out dto.CategoryResponse
	err := uc.ac.Execute(ctx, s, entity.PermCategoriesCreate, func(ws *workspace.Workspace, _ *entity.User) (string, error) {
		c, err := ws.Tree.Add(in.Name, in.ParentID, in.Description)
		if err != nil {
			return "", err
		}
		out = toCategoryResponse(c)
		return fmt.Sprintf("creó la categoría %q", c.Name), nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Update renombra, describe y/o mueve una categoría.
func (uc *CategoryUseCase) Update(ctx context.Context, s access.Session, id string, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	var out dto.CategoryResponse
	err := uc.ac.Execute(ctx, s, entity.PermCategoriesEdit, func(ws *workspace.Workspace, _ *entity.User) (string, error) {
		c, err := ws.Tree.Rename(id, in.Name, in.ParentID, in.Description)
		if err != nil {
			return "", err
		}
		out = toCategoryResponse(c)
		return fmt.Sprintf("actualizó la categoría %q", c.Name), nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete elimina la categoría según la política configurada.
func (uc *CategoryUseCase) Delete(ctx context.Context, s access.Session, id string) (*dto.DeleteCategoryResponse, error) {
	var out dto.DeleteCategoryResponse
	err := uc.ac.Execute(ctx, s, entity.PermCategoriesDelete, func(ws *workspace.Workspace, _ *entity.User) (string, error) {
		c, err := ws.Tree.Get(id)
		if err != nil {
			return "", err
		}
		fieldsBefore := len(ws.Schema.List())
		removed, err := ws.DeleteCategory(id)
		if err != nil {
			return "", err
		}
		out = dto.DeleteCategoryResponse{RemovedIDs: removed, RemovedFields: fieldsBefore - len(ws.Schema.List())}
		if len(removed) > 1 {
			return fmt.Sprintf("eliminó la categoría %q y %d subcategorías", c.Name, len(removed)-1), nil
		}
		return fmt.Sprintf("eliminó la categoría %q", c.Name), nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Ancestors ruta desde la raíz hasta la categoría, incluida.
func (uc *CategoryUseCase) Ancestors(ctx context.Context, s access.Session, id string) ([]dto.CategoryResponse, error) {
	var out []dto.CategoryResponse
	err := uc.ac.View(ctx, s, entity.PermCategoriesView, func(ws *workspace.Workspace, _ *entity.User) error {
		chain, err := ws.Tree.Breadcrumb(id)
		if err != nil {
			return err
		}
		out = toCategoryResponses(chain)
		return nil
	})
	return out, err
}

// Schema esquema efectivo (campos heredados de la raíz hacia la categoría).
func (uc *CategoryUseCase) Schema(ctx context.Context, s access.Session, id string) (*dto.SchemaResponse, error) {
	var out dto.SchemaResponse
	err := uc.ac.View(ctx, s, entity.PermCategoriesView, func(ws *workspace.Workspace, _ *entity.User) error {
		chain, err := ws.Tree.Breadcrumb(id)
		if err != nil {
			return err
		}
		fields, err := ws.Schema.EffectiveSchema(id)
		if err != nil {
			return err
		}
		out = dto.SchemaResponse{CategoryID: id, Path: toCategoryResponses(chain), Fields: toFieldResponses(fields)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
