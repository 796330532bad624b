package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	app "github.com/meridiancs/engage/internal/application/compliance"
	"github.com/meridiancs/engage/internal/infrastructure/monitoring/logging"
	"github.com/meridiancs/engage/internal/infrastructure/monitoring/prometheus"
)

// RouterDeps carries everything route registration needs.
type RouterDeps struct {
	Manager   *app.Manager
	Logger    logging.Logger
	Metrics   *prometheus.AppMetrics
	Collector *prometheus.MetricsCollector
	APIToken  string
	Checks    map[string]ReadinessCheck
}

// NewRouter assembles the gin engine with middleware and all routes.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(deps.Logger))
	if deps.Metrics != nil {
		r.Use(Metrics(deps.Metrics))
	}

	health := NewHealthHandler(deps.Checks)
	r.GET("/healthz", health.Live)
	r.GET("/readyz", health.Ready)
	if deps.Collector != nil {
		r.GET("/metrics", gin.WrapH(deps.Collector.Handler()))
	}

	compliance := NewComplianceHandler(deps.Manager)
	api := r.Group("/api/v1", BearerAuth(deps.APIToken))
	{
		api.GET("/engagements/:engagementId/compliance", compliance.GetCompliance)
		api.POST("/engagements/:engagementId/obligations/:obligationId/action", compliance.MarkActioned)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorResponse{Code: "COMMON_005", Message: "route not found"})
	})
	return r
}
