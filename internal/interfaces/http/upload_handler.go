package http

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-uploader/internal/application/dto"
	"github.com/jhoicas/stock-uploader/internal/application/reconcile"
	"github.com/jhoicas/stock-uploader/internal/domain"
	"github.com/jhoicas/stock-uploader/internal/domain/entity"
	"github.com/jhoicas/stock-uploader/internal/domain/repository"
	"github.com/jhoicas/stock-uploader/internal/infrastructure/tabular"
	"github.com/jhoicas/stock-uploader/pkg/logger"
)

// previewSampleSize filas de muestra en la vista previa.
const previewSampleSize = 10

// UploadHandler maneja la carga de planillas, la reconciliación y la descarga
// de logs de auditoría (protegido con Basic Auth).
type UploadHandler struct {
	reconcileUC *reconcile.UseCase
	audit       repository.AuditWriter
	log         *logger.Logger
}

// NewUploadHandler construye el handler.
func NewUploadHandler(reconcileUC *reconcile.UseCase, audit repository.AuditWriter, log *logger.Logger) *UploadHandler {
	return &UploadHandler{reconcileUC: reconcileUC, audit: audit, log: log}
}

// Preview godoc
// @Summary      Vista previa de la planilla
// @Description  Parsea la planilla subida (CSV o XLSX), normaliza columnas y
//               devuelve estadísticas, una muestra y las filas completas para
//               reenviar a /api/apply. No toca el catálogo remoto.
// @Tags         reconcile
// @Security     BasicAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        file       formData  file    true   "Planilla CSV o XLSX con columna sku"
// @Param        do_stock   formData  string  false  "on/off (default on)"
// @Param        do_prices  formData  string  false  "on/off (default off)"
// @Param        dry_run    formData  string  false  "on/off (default off)"
// @Success      200  {object}  dto.PreviewResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/preview [post]
func (h *UploadHandler) Preview(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "falta el archivo (campo file)"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	content, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	doStock := formBool(c.FormValue("do_stock", "on"))
	doPrices := formBool(c.FormValue("do_prices", "off"))
	dryRun := formBool(c.FormValue("dry_run", "off"))

	rows, stats, err := tabular.Read(fh.Filename, content)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	warnings := []string{}
	if doStock && !stats.HasColumn("quantity") {
		warnings = append(warnings, "se pidió actualizar stock pero la planilla no trae columna quantity")
	}
	if doPrices && !stats.HasColumn("regular_price") && !stats.HasColumn("sale_price") {
		warnings = append(warnings, "se pidió actualizar precios pero faltan las columnas regular_price / sale_price")
	}

	sample := rows
	if len(sample) > previewSampleSize {
		sample = sample[:previewSampleSize]
	}

	return c.JSON(dto.PreviewResponse{
		Errors:   warnings,
		Stats:    dto.Stats(*stats),
		Sample:   sample,
		Rows:     rows,
		DoStock:  doStock,
		DoPrices: doPrices,
		DryRun:   dryRun,
	})
}

// Apply godoc
// @Summary      Ejecutar la reconciliación
// @Description  Resuelve cada SKU contra el catálogo, arma los updates
//               parciales y los despacha en lotes (o simula, con dry_run).
//               Siempre responde un resumen, aunque todas las filas fallen.
// @Tags         reconcile
// @Security     BasicAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplyRequest  true  "Filas normalizadas + opciones"
// @Success      200  {object}  entity.Summary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/apply [post]
func (h *UploadHandler) Apply(c *fiber.Ctx) error {
	var in dto.ApplyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Rows) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "sin filas para procesar"})
	}

	opts := entity.Options{DoStock: in.DoStock, DoPrices: in.DoPrices, DryRun: in.DryRun}
	summary, err := h.reconcileUC.Reconcile(c.Context(), in.Rows, opts)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(summary)
}

// DownloadLog godoc
// @Summary      Descargar un log de auditoría
// @Tags         reconcile
// @Security     BasicAuth
// @Produce      text/csv
// @Param        name  path  string  true  "Nombre del artefacto (log-...csv)"
// @Success      200  {file}    file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/logs/{name} [get]
func (h *UploadHandler) DownloadLog(c *fiber.Ctx) error {
	name := c.Params("name")
	rc, err := h.audit.Open(name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "log no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(data)
}

// formBool interpreta los toggles del formulario ("on"/"true"/"1").
func formBool(v string) bool {
	switch v {
	case "on", "true", "1":
		return true
	}
	return false
}
