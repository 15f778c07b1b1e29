package handlers

import (
	"github.com/gin-gonic/gin"

	"labelkit/internal/core/apperror"
	"labelkit/internal/core/id"
	"labelkit/internal/domain/scan"
	"labelkit/internal/infrastructure/http/v1/dto"
)

// ScansHandler handles HTTP requests for scan sessions.
type ScansHandler struct {
	*BaseHandler
	manager *scan.Manager
}

// NewScansHandler creates a new scans handler.
func NewScansHandler(base *BaseHandler, manager *scan.Manager) *ScansHandler {
	return &ScansHandler{
		BaseHandler: base,
		manager:     manager,
	}
}

// Start handles POST /scans
// While a session is running, the running session is returned.
func (h *ScansHandler) Start(c *gin.Context) {
	s, err := h.manager.Start(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Accepted(c, dto.FromSession(s))
}

// List handles GET /scans
func (h *ScansHandler) List(c *gin.Context) {
	sessions := h.manager.List()
	items := make([]dto.ScanResponse, len(sessions))
	for i, s := range sessions {
		items[i] = dto.FromSession(s)
	}
	h.OK(c, dto.ScanListResponse{Items: items, Backends: h.manager.Backends()})
}

// Get handles GET /scans/:id
func (h *ScansHandler) Get(c *gin.Context) {
	sessionID, ok := h.parseID(c)
	if !ok {
		return
	}
	s, err := h.manager.Get(sessionID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSession(s))
}

// Stop handles DELETE /scans/:id
func (h *ScansHandler) Stop(c *gin.Context) {
	sessionID, ok := h.parseID(c)
	if !ok {
		return
	}
	if _, err := h.manager.Stop(sessionID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

func (h *ScansHandler) parseID(c *gin.Context) (id.ID, bool) {
	sessionID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid session id format"))
		return id.ID{}, false
	}
	return sessionID, true
}
