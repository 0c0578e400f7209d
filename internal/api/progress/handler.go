// Package progress provides REST API handlers for progress reporting.
package progress

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/n0xlf/hamchallenges/internal/api/respond"
	"github.com/n0xlf/hamchallenges/internal/apperr"
	"github.com/n0xlf/hamchallenges/internal/auth"
	"github.com/n0xlf/hamchallenges/internal/service/progress"
	"github.com/n0xlf/hamchallenges/pkg/logger"
)

// ProgressService interface for progress operations.
type ProgressService interface {
	Report(ctx context.Context, challengeID, callsign string, req progress.ReportRequest) (*progress.ReportResponse, error)
	Get(ctx context.Context, challengeID, callsign string) (*progress.ServerProgress, error)
}

// Handler handles progress API requests.
type Handler struct {
	service ProgressService
	log     *logger.Logger
}

// NewHandler creates a new progress handler.
func NewHandler(service *progress.Service, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// NewHandlerWithInterfaces creates a new progress handler with interface dependencies (useful for testing).
func NewHandlerWithInterfaces(service ProgressService, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// Report accepts a participant's self-reported progress.
// POST /api/v1/challenges/:id/progress.
func (h *Handler) Report(c *gin.Context) {
	var req progress.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, apperr.Validation(err.Error()))
		return
	}

	resp, err := h.service.Report(c.Request.Context(), c.Param("id"), auth.Callsign(c), req)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Get returns the caller's current server-side progress.
// GET /api/v1/challenges/:id/progress.
func (h *Handler) Get(c *gin.Context) {
	serverProgress, err := h.service.Get(c.Request.Context(), c.Param("id"), auth.Callsign(c))
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"serverProgress": serverProgress})
}
