package usecase

import (
	"context"

	"github.com/jhoicas/inventario-console/internal/application/access"
	"github.com/jhoicas/inventario-console/internal/application/dto"
	"github.com/jhoicas/inventario-console/internal/application/workspace"
	"github.com/jhoicas/inventario-console/internal/domain/catalog"
	"github.com/jhoicas/inventario-console/internal/domain/entity"
)

const (
	dashboardLowStockItems = 10
	dashboardRecentItems   = 5
)

// DashboardUseCase indicadores del panel de control.
type DashboardUseCase struct {
	ac *access.Controller
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(ac *access.Controller) *DashboardUseCase {
	return &DashboardUseCase{ac: ac}
}

// Summary totales del catálogo. La actividad reciente solo se incluye si el rol puede verla.
func (uc *DashboardUseCase) Summary(ctx context.Context, s access.Session) (*dto.DashboardResponse, error) {
	var out dto.DashboardResponse
	err := uc.ac.View(ctx, s, entity.PermDashboardView, func(ws *workspace.Workspace, actor *entity.User) error {
		thr := ws.Thresholds()
		st := ws.Catalog.Stats(thr)
		out = dto.DashboardResponse{
			TotalProducts:   st.TotalProducts,
			TotalCategories: ws.Tree.Len(),
			RootCategories:  len(ws.Tree.Roots()),
			StockValue:      st.StockValue,
			Currency:        ws.Settings.Currency,
			LowStockCount:   st.LowStockCount,
			OutOfStockCount: st.OutOfStock,
			LowStock:        make([]dto.ProductResponse, 0),
		}
		for _, p := range ws.Catalog.List() {
			if len(out.LowStock) == dashboardLowStockItems {
				break
			}
			if thr.Classify(p.Quantity) != catalog.StockAvailable {
				out.LowStock = append(out.LowStock, toProductResponse(ws, p))
			}
		}
		if access.Authorize(ws, actor, entity.PermActivityView) {
			recent := ws.Activity.All()
			out.RecentActivity = toActivityResponses(recent[:min(len(recent), dashboardRecentItems)])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
