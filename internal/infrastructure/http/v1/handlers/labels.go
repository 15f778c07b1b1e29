package handlers

import (
	"github.com/gin-gonic/gin"

	"labelkit/internal/domain/labels"
	"labelkit/internal/infrastructure/http/v1/dto"
)

// LabelsHandler handles HTTP requests for the record list.
type LabelsHandler struct {
	*BaseHandler
	service *labels.Service
}

// NewLabelsHandler creates a new labels handler.
func NewLabelsHandler(base *BaseHandler, service *labels.Service) *LabelsHandler {
	return &LabelsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /labels
func (h *LabelsHandler) List(c *gin.Context) {
	records, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromRecords(records))
}

// Add handles POST /labels
func (h *LabelsHandler) Add(c *gin.Context) {
	var req dto.AddLabelRequest
	if !h.BindJSON(c, &req) {
		return
	}

	rec, index, err := h.service.AddIndexed(c.Request.Context(), req.Identifier, req.PrefixCode)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromRecord(index, rec))
}

// Remove handles DELETE /labels/:index
func (h *LabelsHandler) Remove(c *gin.Context) {
	index, ok := h.ParseIntParam(c, "index")
	if !ok {
		return
	}
	if err := h.service.RemoveAt(c.Request.Context(), index); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Clear handles DELETE /labels
func (h *LabelsHandler) Clear(c *gin.Context) {
	if err := h.service.Clear(c.Request.Context()); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
