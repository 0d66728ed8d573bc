package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-console/internal/application/access"
	"github.com/jhoicas/inventario-console/internal/application/dto"
	"github.com/jhoicas/inventario-console/internal/application/workspace"
	"github.com/jhoicas/inventario-console/internal/domain/catalog"
	"github.com/jhoicas/inventario-console/internal/domain/entity"
)

// ReportColumn columna de campo dinámico en el informe.
type ReportColumn struct {
	Key   string
	Label string
}

// ReportRow fila de producto ya formateada para el informe.
type ReportRow struct {
	SKU      string
	Name     string
	Category string
	Price    decimal.Decimal
	Quantity int
	Unit     string
	Stock    string
	Dynamic  map[string]string
}

// ProductReport datos de entrada de los generadores de informes.
type ProductReport struct {
	Title       string
	GeneratedAt time.Time
	GeneratedBy string
	Currency    string
	LowStockMax int
	Columns     []ReportColumn
	Rows        []ReportRow
	StockValue  decimal.Decimal
}

// ReportGenerator genera los documentos descargables (implementado en infrastructure/report).
type ReportGenerator interface {
	ProductsXLSX(ctx context.Context, r ProductReport) ([]byte, error)
	LowStockPDF(ctx context.Context, r ProductReport) ([]byte, error)
}

// ReportUseCase exportaciones del catálogo.
type ReportUseCase struct {
	ac        *access.Controller
	generator ReportGenerator
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(ac *access.Controller, generator ReportGenerator) *ReportUseCase {
	return &ReportUseCase{ac: ac, generator: generator}
}

// ExportXLSX hoja de cálculo con los productos que cumplen los filtros, incluidas las
// columnas de todos los campos dinámicos presentes.
func (uc *ReportUseCase) ExportXLSX(ctx context.Context, s access.Session, in dto.ProductListRequest) ([]byte, string, error) {
	q, err := toQuery(in)
	if err != nil {
		return nil, "", err
	}
	var rep ProductReport
	err = uc.ac.View(ctx, s, entity.PermProductsView, func(ws *workspace.Workspace, actor *entity.User) error {
		list, err := ws.Catalog.Filter(q, ws.Thresholds())
		if err != nil {
			return err
		}
		rep = buildReport(ws, actor, "Productos", list)
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	b, err := uc.generator.ProductsXLSX(ctx, rep)
	if err != nil {
		return nil, "", fmt.Errorf("report: generar xlsx: %w", err)
	}
	return b, fmt.Sprintf("productos_%s.xlsx", rep.GeneratedAt.Format("20060102_1504")), nil
}

// LowStockPDF informe PDF de productos agotados o con poco stock.
func (uc *ReportUseCase) LowStockPDF(ctx context.Context, s access.Session) ([]byte, string, error) {
	var rep ProductReport
	err := uc.ac.View(ctx, s, entity.PermProductsView, func(ws *workspace.Workspace, actor *entity.User) error {
		thr := ws.Thresholds()
		var list []entity.Product
		for _, p := range ws.Catalog.List() {
			if thr.Classify(p.Quantity) != catalog.StockAvailable {
				list = append(list, p)
			}
		}
		rep = buildReport(ws, actor, "Productos con poco stock", list)
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	b, err := uc.generator.LowStockPDF(ctx, rep)
	if err != nil {
		return nil, "", fmt.Errorf("report: generar pdf: %w", err)
	}
	return b, fmt.Sprintf("poco_stock_%s.pdf", rep.GeneratedAt.Format("20060102_1504")), nil
}

func buildReport(ws *workspace.Workspace, actor *entity.User, title string, list []entity.Product) ProductReport {
	thr := ws.Thresholds()
	rep := ProductReport{
		Title:       title,
		GeneratedAt: ws.Now(),
		GeneratedBy: actor.Name,
		Currency:    ws.Settings.Currency,
		LowStockMax: thr.LowMax,
		StockValue:  decimal.Zero,
	}
	used := make(map[string]bool)
	for _, p := range list {
		for k := range p.DynamicFields {
			used[k] = true
		}
	}
	for _, f := range ws.Schema.List() {
		if used[f.Key] {
			rep.Columns = append(rep.Columns, ReportColumn{Key: f.Key, Label: f.Label})
		}
	}
	for _, p := range list {
		row := ReportRow{
			SKU:      p.SKU,
			Name:     p.Name,
			Price:    p.Price,
			Quantity: p.Quantity,
			Unit:     p.Unit,
			Stock:    string(thr.Classify(p.Quantity)),
			Dynamic:  make(map[string]string, len(p.DynamicFields)),
		}
		if c, err := ws.Tree.Get(p.CategoryID); err == nil {
			row.Category = c.Name
		}
		for k, v := range p.DynamicFields {
			row.Dynamic[k] = v.String()
		}
		rep.Rows = append(rep.Rows, row)
		rep.StockValue = rep.StockValue.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Quantity))))
	}
	return rep
}
