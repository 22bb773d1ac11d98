package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type metricsExporter interface {
	Handler() http.Handler
}

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics metricsExporter
	saga    workflowWaiter
}

// NewMetricsHandler constructs a metrics handler. saga may be nil.
func NewMetricsHandler(metrics metricsExporter, saga workflowWaiter) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, saga: saga}
}

// Prometheus godoc
// @Summary Prometheus metrics
// @Tags Observability
// @Produce plain
// @Success 200 {string} string
// @Router /metrics [get]
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health godoc
// @Summary Liveness check
// @Tags Observability
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *MetricsHandler) Health(c *gin.Context) {
	body := gin.H{"status": "ok"}
	if h.saga != nil {
		body["inFlight"] = h.saga.InFlight()
	}
	c.JSON(http.StatusOK, body)
}
