package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-console/internal/application/access"
	"github.com/jhoicas/inventario-console/internal/application/dto"
	"github.com/jhoicas/inventario-console/internal/application/workspace"
	"github.com/jhoicas/inventario-console/internal/domain/category"
	"github.com/jhoicas/inventario-console/internal/domain/entity"
)

// FieldUseCase campos personalizados de las categorías. Se gestionan con los permisos
// de edición de categorías.
type FieldUseCase struct {
	ac *access.Controller
}

// NewFieldUseCase construye el caso de uso.
func NewFieldUseCase(ac *access.Controller) *FieldUseCase {
	return &FieldUseCase{ac: ac}
}

// ListByCategory campos propios de la categoría (sin heredados).
func (uc *FieldUseCase) ListByCategory(ctx context.Context, s access.Session, categoryID string) ([]dto.FieldResponse, error) {
	var out []dto.FieldResponse
	err := uc.ac.View(ctx, s, entity.PermCategoriesView, func(ws *workspace.Workspace, _ *entity.User) error {
		if _, err := ws.Tree.Get(categoryID); err != nil {
			return err
		}
		out = toFieldResponses(ws.Schema.FieldsOf(categoryID))
		return nil
	})
	return out, err
}

// Create añade un campo a la categoría.
func (uc *FieldUseCase) Create(ctx context.Context, s access.Session, categoryID string, in dto.FieldRequest) (*dto.FieldResponse, error) {
	var out dto.FieldResponse
	err := uc.ac.Execute(ctx, s, entity.PermCategoriesEdit, func(ws *workspace.Workspace, _ *entity.User) (string, error) {
		f, err := ws.Schema.AddField(category.FieldInput{
			CategoryID: categoryID,
			Label:      in.Label,
			Type:       entity.FieldType(in.Type),
			Options:    in.Options,
			Required:   in.Required,
			Key:        in.Key,
		})
		if err != nil {
			return "", err
		}
		out = toFieldResponse(f)
		c, _ := ws.Tree.Get(categoryID)
		return fmt.Sprintf("añadió el campo %q a la categoría %q", f.Label, c.Name), nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Update modifica etiqueta, tipo, opciones u obligatoriedad.
func (uc *FieldUseCase) Update(ctx context.Context, s access.Session, id string, in dto.FieldRequest) (*dto.FieldResponse, error) {
	var out dto.FieldResponse
	err := uc.ac.Execute(ctx, s, entity.PermCategoriesEdit, func(ws *workspace.Workspace, _ *entity.User) (string, error) {
		f, err := ws.Schema.UpdateField(id, category.FieldUpdate{
			Label:    in.Label,
			Type:     entity.FieldType(in.Type),
			Options:  in.Options,
			Required: in.Required,
		}, ws.Catalog.ValuesOf)
		if err != nil {
			return "", err
		}
		out = toFieldResponse(f)
		return fmt.Sprintf("actualizó el campo %q", f.Label), nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete elimina un campo que ningún producto usa.
func (uc *FieldUseCase) Delete(ctx context.Context, s access.Session, id string) error {
	return uc.ac.Execute(ctx, s, entity.PermCategoriesEdit, func(ws *workspace.Workspace, _ *entity.User) (string, error) {
		f, err := ws.Schema.DeleteField(id, ws.Catalog.UsesFieldKey)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("eliminó el campo %q", f.Label), nil
	})
}
