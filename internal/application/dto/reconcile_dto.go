package dto

import "github.com/jhoicas/stock-uploader/internal/domain/entity"

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Stats métricas de la planilla cargada, para la vista previa.
type Stats struct {
	TotalRows        int      `json:"total_rows"`
	UniqueSKUs       int      `json:"unique_skus"`
	WithQuantity     int      `json:"with_qty"`
	WithRegularPrice int      `json:"with_rp"`
	WithSalePrice    int      `json:"with_sp"`
	Columns          []string `json:"columns"`
}

// PreviewResponse resultado de POST /api/preview: estadísticas, una muestra de
// hasta 10 filas y las filas completas normalizadas, listas para reenviar a
// POST /api/apply. Errors trae advertencias no fatales (opciones pedidas sin
// la columna correspondiente).
type PreviewResponse struct {
	Errors   []string     `json:"errors"`
	Stats    Stats        `json:"stats"`
	Sample   []entity.Row `json:"sample"`
	Rows     []entity.Row `json:"rows"`
	DoStock  bool         `json:"do_stock"`
	DoPrices bool         `json:"do_prices"`
	DryRun   bool         `json:"dry_run"`
}

// ApplyRequest cuerpo de POST /api/apply: las filas normalizadas de la vista
// previa más las opciones de la corrida.
type ApplyRequest struct {
	Rows     []entity.Row `json:"rows"`
	DoStock  bool         `json:"do_stock"`
	DoPrices bool         `json:"do_prices"`
	DryRun   bool         `json:"dry_run"`
}
