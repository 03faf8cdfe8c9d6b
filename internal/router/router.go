package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "claimassist/docs" // registers the generated OpenAPI spec
	"claimassist/internal/handler"
	"claimassist/internal/metrics"
	"claimassist/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	allowedOrigins []string,
	m *metrics.Metrics,
	analysisH *handler.AnalysisHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger("/healthz", "/readyz", "/metrics"))
	r.Use(middleware.CORS(allowedOrigins))
	r.Use(middleware.Metrics(m))

	// Health checks and scraping
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)
	r.GET("/metrics", gin.WrapH(m.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	analyses := v1.Group("/analyses")
	analyses.POST("", analysisH.Create)
	analyses.GET("", analysisH.List)
	analyses.GET("/stats", analysisH.Stats)
	analyses.GET("/export.xlsx", analysisH.ExportXLSX)
	analyses.GET("/export.csv", analysisH.ExportCSV)
	analyses.GET("/:id", analysisH.GetByID)
	analyses.POST("/:id/reanalyze", analysisH.Reanalyze)

	return r
}
