package usecase

import (
	"context"

	"github.com/jhoicas/inventario-console/internal/application/access"
	"github.com/jhoicas/inventario-console/internal/application/dto"
	"github.com/jhoicas/inventario-console/internal/application/workspace"
	"github.com/jhoicas/inventario-console/internal/domain/entity"
)

// ActivityUseCase consulta del registro de actividad.
type ActivityUseCase struct {
	ac *access.Controller
}

// NewActivityUseCase construye el caso de uso.
func NewActivityUseCase(ac *access.Controller) *ActivityUseCase {
	return &ActivityUseCase{ac: ac}
}

// List entradas más recientes primero, opcionalmente de un solo usuario.
func (uc *ActivityUseCase) List(ctx context.Context, s access.Session, in dto.ActivityListRequest) (*dto.ActivityListResponse, error) {
	in.DefaultPage()
	var out dto.ActivityListResponse
	err := uc.ac.View(ctx, s, entity.PermActivityView, func(ws *workspace.Workspace, _ *entity.User) error {
		entries := ws.Activity.All()
		if in.UserID != "" {
			entries = ws.Activity.FilterByUser(in.UserID)
		}
		start, end := in.Bounds(len(entries))
		out.Items = toActivityResponses(entries[start:end])
		out.Page = dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: len(entries)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
