// Package report genera los documentos descargables del catálogo: hoja de cálculo de
// productos (excelize) e informe PDF de poco stock (maroto).
package report

import (
	"github.com/jhoicas/inventario-console/internal/application/usecase"
	"github.com/jhoicas/inventario-console/internal/domain/catalog"
)

var _ usecase.ReportGenerator = (*Generator)(nil)

// Generator implementa usecase.ReportGenerator.
type Generator struct{}

// NewGenerator construye el generador.
func NewGenerator() *Generator { return &Generator{} }

// stockLabel etiqueta legible del estado de stock.
func stockLabel(status string) string {
	switch catalog.StockStatus(status) {
	case catalog.StockOut:
		return "Agotado"
	case catalog.StockLow:
		return "Poco stock"
	case catalog.StockAvailable:
		return "Disponible"
	}
	return status
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
