package usecase

import (
	"github.com/jhoicas/inventario-console/internal/application/dto"
	"github.com/jhoicas/inventario-console/internal/application/workspace"
	"github.com/jhoicas/inventario-console/internal/domain/entity"
)

func toCategoryResponse(c entity.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		ParentID:    c.ParentID,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toCategoryResponses(list []entity.Category) []dto.CategoryResponse {
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCategoryResponse(c))
	}
	return out
}

func toFieldResponse(f entity.CategoryField) dto.FieldResponse {
	return dto.FieldResponse{
		ID:         f.ID,
		CategoryID: f.CategoryID,
		Key:        f.Key,
		Label:      f.Label,
		Type:       string(f.Type),
		Options:    append([]string{}, f.Options...),
		Required:   f.Required,
	}
}

func toFieldResponses(list []entity.CategoryField) []dto.FieldResponse {
	out := make([]dto.FieldResponse, 0, len(list))
	for _, f := range list {
		out = append(out, toFieldResponse(f))
	}
	return out
}

// toProductResponse incluye el bucket de stock y la ruta de nombres de la categoría.
func toProductResponse(ws *workspace.Workspace, p entity.Product) dto.ProductResponse {
	dyn := make(map[string]any, len(p.DynamicFields))
	for k, v := range p.DynamicFields {
		dyn[k] = v.Raw()
	}
	out := dto.ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		SKU:           p.SKU,
		CategoryID:    p.CategoryID,
		Price:         p.Price,
		Quantity:      p.Quantity,
		StockStatus:   string(ws.Thresholds().Classify(p.Quantity)),
		Unit:          p.Unit,
		Description:   p.Description,
		Image:         p.Image,
		DynamicFields: dyn,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.CategoryID != "" {
		if chain, err := ws.Tree.Breadcrumb(p.CategoryID); err == nil {
			for _, c := range chain {
				out.CategoryPath = append(out.CategoryPath, c.Name)
			}
		}
	}
	return out
}

func toUserResponse(u entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toActivityResponses(list []entity.ActivityLogEntry) []dto.ActivityEntryResponse {
	out := make([]dto.ActivityEntryResponse, 0, len(list))
	for _, e := range list {
		out = append(out, dto.ActivityEntryResponse{
			ID:          e.ID,
			ActorID:     e.ActorID,
			ActorName:   e.ActorName,
			Description: e.Description,
			Timestamp:   e.Timestamp,
		})
	}
	return out
}
