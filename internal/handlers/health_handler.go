package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fleetora/rental-api/internal/jobs"
)

type HealthHandler struct {
	worker    *jobs.Worker
	startedAt time.Time
}

func NewHealthHandler(worker *jobs.Worker) *HealthHandler {
	return &HealthHandler{worker: worker, startedAt: time.Now()}
}

// Index reports process liveness and background worker statistics
func (h *HealthHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"uptime":  time.Since(h.startedAt).Round(time.Second).String(),
		"worker":  h.worker.GetStats(),
		"time":    time.Now().UTC(),
		"service": "rental-api",
	})
}
