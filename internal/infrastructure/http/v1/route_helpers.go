// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
)

// LabelRouteHandler defines the record list endpoints.
type LabelRouteHandler interface {
	List(c *gin.Context)
	Add(c *gin.Context)
	Remove(c *gin.Context)
	Clear(c *gin.Context)
}

// ScanRouteHandler defines the scan session endpoints.
type ScanRouteHandler interface {
	Start(c *gin.Context)
	List(c *gin.Context)
	Get(c *gin.Context)
	Stop(c *gin.Context)
}

// RegisterLabelRoutes registers the record list routes on group.
// Removal addresses records by their zero-based list position.
func RegisterLabelRoutes(group *gin.RouterGroup, handler LabelRouteHandler) {
	group.GET("", handler.List)
	group.POST("", handler.Add)
	group.DELETE("", handler.Clear)
	group.DELETE("/:index", handler.Remove)
}

// RegisterScanRoutes registers scan session routes on group.
func RegisterScanRoutes(group *gin.RouterGroup, handler ScanRouteHandler) {
	group.POST("", handler.Start)
	group.GET("", handler.List)
	group.GET("/:id", handler.Get)
	group.DELETE("/:id", handler.Stop)
}
