package handlers

import (
	"github.com/gin-gonic/gin"

	"labelkit/internal/domain/labels"
	"labelkit/internal/domain/layout"
	"labelkit/internal/infrastructure/http/v1/dto"
)

// LayoutHandler previews label placement on the configured sheet.
type LayoutHandler struct {
	*BaseHandler
	service  *labels.Service
	geometry layout.Geometry
}

// NewLayoutHandler creates a new layout handler.
func NewLayoutHandler(base *BaseHandler, service *labels.Service, geometry layout.Geometry) *LayoutHandler {
	return &LayoutHandler{
		BaseHandler: base,
		service:     service,
		geometry:    geometry,
	}
}

// Preview handles GET /layout?count=N
// Without count, the current number of stored records is used. An explicit
// count may span at most layout.MaxPreviewPages pages.
func (h *LayoutHandler) Preview(c *gin.Context) {
	var count int
	if c.Query("count") == "" {
		records, err := h.service.List(c.Request.Context())
		if err != nil {
			h.Error(c, err)
			return
		}
		count = len(records)
	} else {
		var ok bool
		if count, ok = h.ParseIntQuery(c, "count", 0); !ok {
			return
		}
		if err := layout.ValidatePreviewCount(count, h.geometry); err != nil {
			h.Error(c, err)
			return
		}
	}

	grid, err := h.geometry.Grid()
	if err != nil {
		h.Error(c, err)
		return
	}
	placements, err := layout.Layout(count, h.geometry)
	if err != nil {
		h.Error(c, err)
		return
	}
	pages, err := layout.Pages(count, h.geometry)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewLayoutResponse(h.geometry, grid, placements, pages))
}
