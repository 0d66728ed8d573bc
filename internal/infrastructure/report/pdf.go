package report

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/inventario-console/internal/application/usecase"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorDanger  = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// LowStockPDF informe A4:
//
//	┌──────────────────────────────────────────────┐
//	│  Título + fecha/autor                        │
//	│  Resumen: umbral, nº de productos            │
//	│  TABLA: SKU | Producto | Categoría | Cant.   │
//	│  Pie: valor del stock listado                │
//	└──────────────────────────────────────────────┘
func (g *Generator) LowStockPDF(_ context.Context, r usecase.ProductReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(r.Title, true).
		WithAuthor(r.GeneratedBy, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(titleRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(r))
	m.AddRows(tableHeaderRow())
	if len(r.Rows) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Todos los productos tienen stock suficiente.", props.Text{
				Size: 9, Align: align.Center, Top: 3, Color: colorGray,
			}),
		)))
	}
	m.AddRows(tableDetailRows(r)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(r))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func titleRow(r usecase.ProductReport) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(r.Title, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(4).Add(
			text.New(r.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New("Generado por: "+nonEmpty(r.GeneratedBy, "—"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func summaryRow(r usecase.ProductReport) core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Umbral de poco stock: %d unidades   |   Productos listados: %d",
			r.LowStockMax, len(r.Rows),
		), props.Text{Size: 8, Top: 3, Color: colorGray}),
	))
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Producto", 4, align.Left),
		h("Categoría", 3, align.Left),
		h("Cantidad", 1, align.Center),
		h("Estado", 2, align.Center),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func tableDetailRows(r usecase.ProductReport) []core.Row {
	out := make([]core.Row, 0, len(r.Rows))
	for _, p := range r.Rows {
		status := props.Text{Size: 8, Align: align.Center, Top: 1}
		if p.Quantity == 0 {
			status.Color = colorDanger
			status.Style = fontstyle.Bold
		}
		out = append(out, row.New(7).Add(
			col.New(2).Add(text.New(p.SKU, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(p.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(nonEmpty(p.Category, "Sin categoría"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(strings.TrimSpace(strconv.Itoa(p.Quantity)+" "+p.Unit), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(stockLabel(p.Stock), status)),
		))
	}
	return out
}

func totalRow(r usecase.ProductReport) core.Row {
	return row.New(10).Add(
		col.New(8),
		col.New(4).Add(text.New(
			fmt.Sprintf("Valor del stock: %s %s", r.StockValue.StringFixed(2), r.Currency),
			props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 3},
		)),
	)
}
