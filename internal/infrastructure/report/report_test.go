package report

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/inventario-console/internal/application/usecase"
)

func sampleReport() usecase.ProductReport {
	return usecase.ProductReport{
		Title:       "Productos",
		GeneratedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		GeneratedBy: "Administrador general",
		Currency:    "USD",
		LowStockMax: 5,
		Columns:     []usecase.ReportColumn{{Key: "resolution", Label: "Resolución"}},
		Rows: []usecase.ReportRow{
			{SKU: "CAM-IN-001", Name: "Cámara domo", Category: "Cámaras interiores", Price: decimal.NewFromInt(250), Quantity: 50, Unit: "pcs", Stock: "available", Dynamic: map[string]string{"resolution": "4K"}},
			{SKU: "CBL-01", Name: "Cable", Price: decimal.RequireFromString("2.5"), Quantity: 0, Stock: "out", Dynamic: map[string]string{}},
		},
		StockValue: decimal.NewFromInt(12500),
	}
}

// ─── XLSX ──────────────────────────────────────────────────────────────────────

func TestProductsXLSX_Contenido(t *testing.T) {
	b, err := NewGenerator().ProductsXLSX(context.Background(), sampleReport())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{productsSheet}, f.GetSheetList())
	rows, err := f.GetRows(productsSheet)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 3)

	assert.Equal(t, []string{"SKU", "Nombre", "Categoría", "Precio", "Cantidad", "Unidad", "Estado", "Resolución"}, rows[0])
	assert.Equal(t, "CAM-IN-001", rows[1][0])
	assert.Equal(t, "Disponible", rows[1][6])
	assert.Equal(t, "4K", rows[1][7])
	assert.Equal(t, "Agotado", rows[2][6])

	v, err := f.GetCellValue(productsSheet, "C5")
	require.NoError(t, err)
	assert.Equal(t, "Valor del stock (USD)", v)
}

func TestProductsXLSX_SinFilas(t *testing.T) {
	r := sampleReport()
	r.Rows, r.Columns = nil, nil
	b, err := NewGenerator().ProductsXLSX(context.Background(), r)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(productsSheet)
	require.NoError(t, err)
	assert.Len(t, rows[0], len(baseHeaders))
}

// ─── PDF ───────────────────────────────────────────────────────────────────────

func TestLowStockPDF(t *testing.T) {
	r := sampleReport()
	r.Title = "Productos con poco stock"
	b, err := NewGenerator().LowStockPDF(context.Background(), r)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))

	r.Rows = nil
	b, err = NewGenerator().LowStockPDF(context.Background(), r)
	require.NoError(t, err)
	assert.NotEmpty(t, b)
}

func TestStockLabel(t *testing.T) {
	assert.Equal(t, "Poco stock", stockLabel("low"))
	assert.Equal(t, "otro", stockLabel("otro"))
}
