package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/inventario-console/internal/application/usecase"
)

const productsSheet = "Productos"

// baseHeaders columnas fijas; las de campos dinámicos se añaden a continuación.
var baseHeaders = []string{"SKU", "Nombre", "Categoría", "Precio", "Cantidad", "Unidad", "Estado"}

var baseWidths = []float64{16, 32, 24, 12, 10, 10, 14}

// ProductsXLSX hoja "Productos": cabecera con estilo, una fila por producto y el valor total al final.
func (g *Generator) ProductsXLSX(_ context.Context, r usecase.ProductReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(productsSheet)
	if err != nil {
		return nil, fmt.Errorf("xlsx: crear hoja: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("xlsx: eliminar hoja por defecto: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#00467F"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo de cabecera: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo numérico: %w", err)
	}

	headers := append([]string(nil), baseHeaders...)
	for _, c := range r.Columns {
		headers = append(headers, c.Label)
	}
	for i, h := range headers {
		if err := setCell(f, i+1, 1, h); err != nil {
			return nil, err
		}
		name, _ := excelize.ColumnNumberToName(i + 1)
		width := 20.0
		if i < len(baseWidths) {
			width = baseWidths[i]
		}
		if err := f.SetColWidth(productsSheet, name, name, width); err != nil {
			return nil, fmt.Errorf("xlsx: ancho de columna: %w", err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(productsSheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("xlsx: aplicar estilo: %w", err)
	}

	for i, row := range r.Rows {
		line := i + 2
		values := []any{
			row.SKU, row.Name, row.Category, row.Price.InexactFloat64(),
			row.Quantity, row.Unit, stockLabel(row.Stock),
		}
		for _, c := range r.Columns {
			values = append(values, row.Dynamic[c.Key])
		}
		for col, v := range values {
			if s, ok := v.(string); ok && s == "" {
				continue
			}
			if err := setCell(f, col+1, line, v); err != nil {
				return nil, err
			}
		}
	}

	// Fila de total: etiqueta en Categoría, importe en Precio.
	totalLine := len(r.Rows) + 3
	if err := setCell(f, 3, totalLine, "Valor del stock ("+r.Currency+")"); err != nil {
		return nil, err
	}
	if err := setCell(f, 4, totalLine, r.StockValue.InexactFloat64()); err != nil {
		return nil, err
	}
	priceFrom, _ := excelize.CoordinatesToCellName(4, 2)
	priceTo, _ := excelize.CoordinatesToCellName(4, totalLine)
	if err := f.SetCellStyle(productsSheet, priceFrom, priceTo, moneyStyle); err != nil {
		return nil, fmt.Errorf("xlsx: formato de precio: %w", err)
	}

	if err := f.SetPanes(productsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("xlsx: fijar cabecera: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

func setCell(f *excelize.File, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("xlsx: coordenadas %d,%d: %w", col, row, err)
	}
	if err := f.SetCellValue(productsSheet, cell, value); err != nil {
		return fmt.Errorf("xlsx: celda %s: %w", cell, err)
	}
	return nil
}
