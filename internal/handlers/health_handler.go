package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports process liveness.
type HealthHandler struct {
	started time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{started: time.Now()}
}

// Check returns the liveness payload.
// @Summary     Health check
// @Description Liveness probe
// @Tags        health
// @Produce     json
// @Success     200 {object} map[string]interface{} "Liveness payload"
// @Router      /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
	})
}
