package v1

import (
	"github.com/gin-gonic/gin"

	"labelkit/internal/domain/labels"
	"labelkit/internal/domain/layout"
	"labelkit/internal/domain/render"
	"labelkit/internal/domain/scan"
	"labelkit/internal/infrastructure/http/v1/handlers"
	"labelkit/internal/infrastructure/http/v1/middleware"
	"labelkit/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// Labels is the record store service
	Labels *labels.Service

	// Renderer and Barcodes produce export documents
	Renderer *render.Orchestrator
	Barcodes render.BarcodeRenderer

	// Geometry is the default label sheet
	Geometry layout.Geometry

	// Scans tracks scan sessions; nil disables the scan routes
	Scans *scan.Manager

	// Storage is pinged by the readiness check when set
	Storage     handlers.Pinger
	StorageName string

	// Version is reported by /health/info
	Version string

	// Debug enables gin debug mode
	Debug bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace(cfg.Logger))
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints
	var scanners handlers.BackendLister
	if cfg.Scans != nil {
		scanners = cfg.Scans
	}
	healthHandler := handlers.NewHealthHandler(cfg.StorageName, cfg.Storage, scanners, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	v1 := router.Group("/api/v1")
	{
		registerLabelRoutes(v1, cfg)
		registerScanRoutes(v1, cfg)
	}

	return router
}

// registerLabelRoutes registers record list, export and layout endpoints.
func registerLabelRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	labelsGroup := rg.Group("/labels")
	RegisterLabelRoutes(labelsGroup, handlers.NewLabelsHandler(baseHandler, cfg.Labels))

	exportHandler := handlers.NewExportHandler(baseHandler, cfg.Labels, cfg.Renderer, cfg.Barcodes, cfg.Geometry)
	labelsGroup.POST("/export", exportHandler.Export)

	layoutHandler := handlers.NewLayoutHandler(baseHandler, cfg.Labels, cfg.Geometry)
	rg.GET("/layout", layoutHandler.Preview)
}

// registerScanRoutes registers scan session endpoints.
func registerScanRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.Scans == nil {
		return
	}
	handler := handlers.NewScansHandler(handlers.NewBaseHandler(), cfg.Scans)
	RegisterScanRoutes(rg.Group("/scans"), handler)
}
