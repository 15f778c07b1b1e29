package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"labelkit/internal/domain/labels"
	"labelkit/internal/domain/layout"
	"labelkit/internal/domain/render"
	"labelkit/internal/infrastructure/http/v1/dto"
	"labelkit/internal/infrastructure/pdf"
)

// ExportHandler renders the record list as a printable PDF.
type ExportHandler struct {
	*BaseHandler
	service  *labels.Service
	renderer *render.Orchestrator
	barcodes render.BarcodeRenderer
	geometry layout.Geometry
}

// NewExportHandler creates a new export handler. geometry is the default sheet.
func NewExportHandler(
	base *BaseHandler,
	service *labels.Service,
	renderer *render.Orchestrator,
	barcodes render.BarcodeRenderer,
	geometry layout.Geometry,
) *ExportHandler {
	return &ExportHandler{
		BaseHandler: base,
		service:     service,
		renderer:    renderer,
		barcodes:    barcodes,
		geometry:    geometry,
	}
}

// Export handles POST /labels/export
// The document is buffered so a failed render never sends a partial file.
func (h *ExportHandler) Export(c *gin.Context) {
	var req dto.ExportRequest
	if !h.BindOptionalJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()

	filter, err := labels.CompileFilter(req.Filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	records, err := h.service.Select(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	geometry := req.Geometry.ApplyTo(h.geometry)

	var buf bytes.Buffer
	writer, err := pdf.NewWriter(&buf, geometry, pdf.WithTitle("Labels"))
	if err != nil {
		h.Error(c, err)
		return
	}
	summary, err := h.renderer.Render(ctx, records, geometry, writer, h.barcodes)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="labels.pdf"`)
	c.Header("X-Label-Count", strconv.Itoa(summary.Records))
	c.Header("X-Label-Pages", strconv.Itoa(summary.Pages))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
