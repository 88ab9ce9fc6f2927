package handlers

import (
	"net/http"

	"hotelbooking/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the dependency snapshot kept by the monitor.
type HealthHandler struct {
	Monitor *utils.HealthMonitor
}

// HealthCheckHandler handles GET /api/health.
func (h *HealthHandler) HealthCheckHandler(c *gin.Context) {
	if h.Monitor == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	st := h.Monitor.Status()
	code, status := http.StatusOK, "ok"
	if !st.Healthy && !st.CheckedAt.IsZero() {
		code, status = http.StatusServiceUnavailable, "degraded"
	}
	c.JSON(code, gin.H{"status": status, "services": st.Services, "checkedAt": st.CheckedAt})
}
