package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Limit > 500 {
		p.Limit = 500
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// Bounds devuelve los índices [start, end) de la página sobre total elementos.
func (p PageRequest) Bounds(total int) (int, int) {
	start := min(p.Offset, total)
	end := min(start+p.Limit, total)
	return start, end
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// IDsRequest lista de ids para operaciones masivas.
type IDsRequest struct {
	IDs []string `json:"ids"`
}

// BulkResponse número de elementos afectados.
type BulkResponse struct {
	Affected int `json:"affected"`
}
