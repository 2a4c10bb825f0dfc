package handlers

import (
	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/supertypo/kaspa-hashrate-app/internal/logger"
	"github.com/supertypo/kaspa-hashrate-app/internal/service"
)

// Handler wires the HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Versioned API endpoints
	h.registerAPIRoutes(router)

	// WebSocket chart-state stream
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.requestLogger)
	{
		h.registerHashrateRoutes(api)
		h.registerNavigatorRoutes(api)
	}
}

func (h *Handler) registerHashrateRoutes(api *gin.RouterGroup) {
	hashrate := api.Group("/hashrate")
	{
		// Query examples: ?range=7d or ?start=2024-01-01&end=2024-03-01
		hashrate.GET("", h.getHashrate)
		hashrate.GET("/chart.png", h.getChart)
	}
}

func (h *Handler) registerNavigatorRoutes(api *gin.RouterGroup) {
	nav := api.Group("/navigator")
	{
		nav.GET("", h.getNavigator)
		// Body example: {"event":"press","handle":"start"}
		nav.POST("/pointer", h.postPointer)
		nav.POST("/resize", h.postResize)
		nav.POST("/dataset", h.postDataset)
	}
}
