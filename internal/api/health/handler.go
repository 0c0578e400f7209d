// Package health provides the liveness/readiness endpoint.
package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/n0xlf/hamchallenges/pkg/logger"
)

// Pinger reports storage connectivity.
type Pinger interface {
	Health() error
}

// Handler handles health checks.
type Handler struct {
	db  Pinger
	log *logger.Logger
}

// NewHandler creates a new health handler.
func NewHandler(db Pinger, log *logger.Logger) *Handler {
	return &Handler{db: db, log: log}
}

// Check reports service health including the database ping.
// GET /healthz.
func (h *Handler) Check(c *gin.Context) {
	status := http.StatusOK
	dbStatus := "ok"
	if err := h.db.Health(); err != nil {
		h.log.Error().Err(err).Msg("Database health check failed")
		status = http.StatusServiceUnavailable
		dbStatus = "unavailable"
	}

	c.JSON(status, gin.H{
		"status":    dbStatus,
		"timestamp": time.Now().UTC(),
	})
}
